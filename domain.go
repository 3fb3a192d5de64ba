package main

import (
	"sync"

	"github.com/funny-falcon/memarena/arena"
	"github.com/funny-falcon/memarena/strtab"
)

// Corpus state. Documents and their token lists live inside CorpusArena;
// Words owns the interned token strings and per-word occurrence counts.
var CorpusArena *arena.Arena
var Words *strtab.Table
var Docs map[uint32]*Doc
var TokenCount int

// Handlers run on concurrent goroutines. POST commits take the write lock,
// GET readers the read lock; the startup load runs before the server.
var corpusMu sync.RWMutex

type Doc struct {
	Id     uint32
	NTok   int32
	Tokens *TokNode
}

type TokNode struct {
	Next *TokNode
	Word uint32
}

func initCorpus() {
	var mem arena.Mem
	if *useMmap {
		mem = arena.MmapMem{}
	}
	CorpusArena = arena.NewArena(*blocksize, mem)
	if *verbose {
		CorpusArena.Log = "corpus"
	}
	Words = strtab.New(CorpusArena)
	Docs = make(map[uint32]*Doc)
	TokenCount = 0
}

// InsertDoc indexes text under id: every token is interned into Words, its
// count bumped, and appended to the document's token list. The caller checks
// id uniqueness; once the server accepts requests, the caller holds corpusMu.
func InsertDoc(id uint32, text string) *Doc {
	d := arena.New[Doc](CorpusArena)
	if d == nil {
		panic("corpus arena exhausted")
	}
	d.Id = id
	var tail *TokNode
	forEachToken(text, func(tok string) {
		ix, _ := Words.Insert(tok)
		if ix == 0 {
			panic("corpus arena exhausted")
		}
		Words.GetHndl(ix).Count++
		TokenCount++
		n := arena.New[TokNode](CorpusArena)
		if n == nil {
			panic("corpus arena exhausted")
		}
		n.Word = ix
		if tail == nil {
			d.Tokens = n
		} else {
			tail.Next = n
		}
		tail = n
		d.NTok++
	})
	Docs[id] = d
	return d
}

// forEachToken calls fn for every token of text: a run of letters, digits or
// bytes >= 0x80, ASCII-lowercased. fn gets a view over a reused buffer and
// must not retain it. Runs that do not fit an interned entry (over 255
// bytes) are dropped.
func forEachToken(text string, fn func(string)) {
	var buf [255]byte
	n := 0
	over := false
	flush := func() {
		if n > 0 && !over {
			fn(arena.String(buf[:n]))
		}
		n = 0
		over = false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
			fallthrough
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c >= 0x80:
			if n < len(buf) {
				buf[n] = c
				n++
			} else {
				over = true
			}
		default:
			flush()
		}
	}
	flush()
}
