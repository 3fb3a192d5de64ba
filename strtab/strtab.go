// Package strtab interns strings into an arena. Each distinct string is
// stored once and addressed by a dense uint32 handle; handle 0 is the empty
// string. Not safe for concurrent use.
package strtab

import (
	"github.com/funny-falcon/memarena/arena"
)

type entry struct {
	Hash uint32
	Len  uint8
	Data [255]uint8
}

// Entries are carved from the arena at their exact size: header plus bytes.
// The *entry view is wider than the allocation; only Data[:Len] is real.
const entryHeader = 5

func (e *entry) str() string {
	return arena.String(e.Data[:e.Len])
}

// Handle pairs an interned string with a caller-owned counter. The table
// never touches Count.
type Handle struct {
	ent   *entry
	Count uint32
}

// Hash returns the stored hash of the interned string.
func (h *Handle) Hash() uint32 { return h.ent.Hash }

// Str returns the interned string without copying. It shares the arena's
// memory and dies with it.
func (h *Handle) Str() string { return h.ent.str() }

// Table maps strings to dense 1-based handles. tbl is an open-addressing
// index of handle numbers, kept under 5/8 load; arr holds the handles in
// insertion order. The zero value is empty and sizes itself on first insert.
type Table struct {
	tbl []uint32
	arr []Handle
	ar  *arena.Arena
}

// New returns an empty table whose string bytes will live in ar.
func New(ar *arena.Arena) *Table {
	return &Table{ar: ar}
}

func hash(s string) uint32 {
	res := uint32(0x123456)
	for _, b := range []byte(s) {
		res ^= uint32(b)
		res *= 0x51235995
	}
	res ^= (res<<8 | res>>24) ^ (res<<19 | res>>13)
	res *= 0x62435345
	return res ^ res>>16
}

// Insert interns s and returns its handle number, with isNew true when s was
// not in the table before. The empty string is handle 0. Returns (0, false)
// when the arena cannot hold the new entry. Strings over 255 bytes do not
// fit an entry and panic.
func (t *Table) Insert(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	if len(s) > 255 {
		panic("strtab: string is too long " + s)
	}
	if len(t.arr) >= len(t.tbl)*5/8 {
		t.rebalance()
	}
	h := hash(s)
	mask := uint32(len(t.tbl) - 1)
	pos, d := h&mask, uint32(1)
	for t.tbl[pos] != 0 {
		apos := t.tbl[pos]
		hndl := &t.arr[apos-1]
		if hndl.Hash() == h && hndl.Str() == s {
			return apos, false
		}
		pos = (pos + d) & mask
		d++
	}

	b := t.ar.Alloc(entryHeader+len(s), 4)
	if b == nil {
		return 0, false
	}
	var e *entry
	arena.Bind(&e, b)
	e.Hash = h
	e.Len = uint8(len(s))
	copy(e.Data[:], s)

	t.arr = append(t.arr, Handle{ent: e})
	apos := uint32(len(t.arr))
	t.tbl[pos] = apos
	return apos, true
}

// Find returns the handle number of s, or 0 when s was never interned.
func (t *Table) Find(s string) uint32 {
	if s == "" || len(t.tbl) == 0 {
		return 0
	}
	h := hash(s)
	mask := uint32(len(t.tbl) - 1)
	pos, d := h&mask, uint32(1)
	for t.tbl[pos] != 0 {
		apos := t.tbl[pos]
		hndl := &t.arr[apos-1]
		if hndl.Hash() == h && hndl.Str() == s {
			return apos
		}
		pos = (pos + d) & mask
		d++
	}
	return 0
}

// GetHndl returns the handle for a 1-based number. A later Insert may move
// the handle array; use the pointer before the next one.
func (t *Table) GetHndl(i uint32) *Handle {
	return &t.arr[i-1]
}

// GetStr returns the string behind a handle number; 0 is the empty string.
func (t *Table) GetStr(i uint32) string {
	if i == 0 {
		return ""
	}
	return t.arr[i-1].Str()
}

// Len reports the number of interned strings.
func (t *Table) Len() int {
	return len(t.arr)
}

func (t *Table) rebalance() {
	newcapa := len(t.tbl) * 2
	if newcapa == 0 {
		newcapa = 256
	}
	mask := uint32(newcapa - 1)
	newTbl := make([]uint32, newcapa)
	for i := range t.arr {
		pos, d := t.arr[i].Hash()&mask, uint32(1)
		for newTbl[pos] != 0 {
			pos = (pos + d) & mask
			d++
		}
		newTbl[pos] = uint32(i) + 1
	}
	t.tbl = newTbl
}

// Reset forgets every interned string while keeping the index capacity. The
// string bytes live in the arena and are reclaimed by its owner's Reset;
// handles and strings obtained before are invalid afterwards.
func (t *Table) Reset() {
	clear(t.tbl)
	t.arr = t.arr[:0]
}
