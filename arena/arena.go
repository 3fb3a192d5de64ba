// Package arena implements a growable region allocator: a chain of
// fixed-capacity blocks served by bump allocation. Allocations are never
// freed individually; the whole arena is reset or destroyed at once.
// Not safe for concurrent use.
package arena

import (
	"fmt"
	"unsafe"
)

// DefaultBlockSize is the initial block capacity used when NewArena is given
// no capacity hint.
const DefaultBlockSize = 1 << 16

// DefaultAlign is the alignment used by callers that do not care: enough for
// any word-sized value.
const DefaultAlign = int(unsafe.Sizeof(uintptr(0)))

const maxInt = int(^uint(0) >> 1)

// Growth factor applied to fresh blocks, 23/20 = 1.15.
const growNum, growDen = 23, 20

type block struct {
	buf []byte
	off int
}

// Arena hands out aligned sub-ranges of its blocks and grows by reserving new
// blocks when no existing block fits. The zero value is a valid empty arena
// backed by the Go heap; it reserves its first block on first use.
type Arena struct {
	// Log, when set, tags debug prints of block growth and teardown.
	Log string

	mem    Mem
	blocks []block
	total  int
}

// NewArena creates an arena holding one block of capacity bytes
// (DefaultBlockSize if capacity <= 0), reserved through mem. A nil mem
// selects HeapMem. If the initial reservation fails the arena is returned
// empty: BlockCount reports 0 and the first allocation will reserve instead.
func NewArena(capacity int, mem Mem) *Arena {
	if mem == nil {
		mem = HeapMem{}
	}
	a := &Arena{mem: mem}
	if capacity <= 0 {
		capacity = DefaultBlockSize
	}
	if buf := mem.Reserve(capacity); buf != nil {
		a.blocks = append(a.blocks, block{buf: buf})
		a.total = len(buf)
	}
	return a
}

func (a *Arena) memory() Mem {
	if a.mem == nil {
		a.mem = HeapMem{}
	}
	return a.mem
}

// Alloc returns a size-byte region whose first byte is aligned to align,
// carved from the first block (newest first) with enough free space. When no
// block fits, one new block is reserved and the search retried. Returns nil
// when size <= 0 or when backing reservation fails; a failed allocation
// leaves the arena unchanged.
//
// align must be a power of two. The returned slice has len == cap == size and
// stays valid until Reset or Destroy.
func (a *Arena) Alloc(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if b := a.bump(size, align); b != nil {
		return b
	}
	if !a.growFor(size, align) {
		return nil
	}
	return a.bump(size, align)
}

func (a *Arena) bump(size, align int) []byte {
	for i := len(a.blocks) - 1; i >= 0; i-- {
		if b := a.blocks[i].take(size, align); b != nil {
			return b
		}
	}
	return nil
}

func (blk *block) take(size, align int) []byte {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(blk.buf)))
	cur := base + uintptr(blk.off)
	aligned, ok := alignUp(cur, uintptr(align))
	if !ok {
		return nil
	}
	need := (aligned - cur) + uintptr(size)
	if need > uintptr(len(blk.buf)-blk.off) {
		return nil
	}
	start := blk.off + int(aligned-cur)
	blk.off = start + size
	return blk.buf[start : start+size : start+size]
}

// growFor reserves one block sized for a missed (size, align) request:
// alignUp(size, align) scaled by the growth factor, floored so the fresh
// block fits the request whatever the base address of the reservation.
func (a *Arena) growFor(size, align int) bool {
	need, ok := alignUp(uintptr(size), uintptr(align))
	if !ok {
		return false
	}
	capa := need
	if capa <= ^uintptr(0)/growNum {
		capa = capa * growNum / growDen
	}
	if floor := uintptr(size) + uintptr(align) - 1; capa < floor {
		capa = floor
	}
	if capa > uintptr(maxInt) {
		return false
	}
	return a.push(int(capa))
}

// Reserve adds one block of exactly capacity bytes as the new head, ahead of
// demand. Returns false when capacity <= 0 or backing reservation fails.
func (a *Arena) Reserve(capacity int) bool {
	if capacity <= 0 {
		return false
	}
	return a.push(capacity)
}

func (a *Arena) push(capacity int) bool {
	buf := a.memory().Reserve(capacity)
	if buf == nil {
		return false
	}
	a.blocks = append(a.blocks, block{buf: buf})
	a.total += len(buf)
	if a.Log != "" {
		fmt.Printf("arena %s: block %d cap %d\n", a.Log, len(a.blocks), len(buf))
	}
	return true
}

// Reset rewinds every block's cursor to zero. Blocks are kept, their contents
// are not cleared, and BlockCount/TotalCapacity do not change. All regions
// returned before the reset become invalid and may be handed out again.
func (a *Arena) Reset() {
	for i := range a.blocks {
		a.blocks[i].off = 0
	}
}

// Destroy releases every block through the backing provider and empties the
// arena. The arena must not be used again without re-creation.
func (a *Arena) Destroy() {
	mem := a.memory()
	for i := range a.blocks {
		mem.Release(a.blocks[i].buf)
		a.blocks[i].buf = nil
	}
	if a.Log != "" {
		fmt.Printf("arena %s: destroyed %d blocks\n", a.Log, len(a.blocks))
	}
	a.blocks = nil
	a.total = 0
}

// BlockCount reports the number of blocks in the arena.
func (a *Arena) BlockCount() int {
	return len(a.blocks)
}

// TotalCapacity reports the summed capacity of all blocks in bytes.
func (a *Arena) TotalCapacity() int {
	return a.total
}

// Used reports the bytes taken from all blocks, alignment padding included.
func (a *Arena) Used() int {
	used := 0
	for i := range a.blocks {
		used += a.blocks[i].off
	}
	return used
}

// alignUp rounds p up to a multiple of a (a power of two). ok is false when
// the rounding would wrap.
func alignUp(p, a uintptr) (uintptr, bool) {
	up := (p + a - 1) &^ (a - 1)
	return up, up >= p
}
