package arena_test

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/funny-falcon/memarena/arena"
)

type packet struct {
	Seq   uint64
	Kind  uint8
	Flags uint16
}

func TestNewTyped(t *testing.T) {
	a := arena.NewArena(128, nil)

	require.NotNil(t, a.Alloc(1, 1)) // knock the cursor off alignment
	p := arena.New[packet](a)
	require.NotNil(t, p)
	require.Zero(t, uintptr(unsafe.Pointer(p))%unsafe.Alignof(packet{}))
	require.Equal(t, packet{}, *p)

	p.Seq = 1 << 40
	p.Kind = 3
	require.Equal(t, uint64(1<<40), p.Seq)
}

func TestNewZeroSize(t *testing.T) {
	a := arena.NewArena(64, nil)
	used := a.Used()
	p := arena.New[struct{}](a)
	require.NotNil(t, p)
	require.Equal(t, used, a.Used())
}

func TestMakeTyped(t *testing.T) {
	a := arena.NewArena(256, nil)

	s := arena.MakeSlice[int64](a, 40) // grows past the first block
	require.Len(t, s, 40)
	require.Zero(t, uintptr(unsafe.Pointer(unsafe.SliceData(s)))%8)
	for i := range s {
		require.Zero(t, s[i])
		s[i] = int64(i)
	}
	require.Equal(t, int64(39), s[39])

	require.Nil(t, arena.MakeSlice[int64](a, 0))
	require.Nil(t, arena.MakeSlice[int64](a, -2))
	require.Nil(t, arena.MakeSlice[int64](a, math.MaxInt/4))

	z := arena.MakeSlice[struct{}](a, 5)
	require.Len(t, z, 5)
}

func TestNewExhausted(t *testing.T) {
	a := arena.NewArena(0, exhaustedMem{})
	require.Nil(t, arena.New[packet](a))
	require.Nil(t, arena.MakeSlice[packet](a, 3))
}

type exhaustedMem struct{}

func (exhaustedMem) Reserve(n int) []byte { return nil }
func (exhaustedMem) Release(b []byte)     {}

func TestBind(t *testing.T) {
	a := arena.NewArena(64, nil)
	b := a.Alloc(16, 8)
	require.NotNil(t, b)

	var w *packet
	arena.Bind(&w, b)
	require.NotNil(t, w)
	w.Seq = 0xfeedbeef
	w.Flags = 7

	var r *packet
	arena.Bind(&r, b)
	require.Equal(t, uint64(0xfeedbeef), r.Seq)
	require.Equal(t, uint16(7), r.Flags)

	var n *packet
	arena.Bind(&n, nil)
	require.Nil(t, n)
}

func TestStringView(t *testing.T) {
	a := arena.NewArena(64, nil)
	b := a.Alloc(5, 1)
	copy(b, "hello")
	require.Equal(t, "hello", arena.String(b))
	require.Equal(t, "", arena.String(nil))
}

type node struct {
	next *node
	val  int32
}

// Nodes allocated before a growth keep their addresses: a linked structure
// spanning several blocks stays intact.
func TestLinkedAcrossGrowth(t *testing.T) {
	a := arena.NewArena(64, nil)
	var head *node
	for i := 0; i < 200; i++ {
		n := arena.New[node](a)
		require.NotNil(t, n)
		n.val = int32(i)
		n.next = head
		head = n
	}
	require.Greater(t, a.BlockCount(), 1)

	count := 0
	for n, want := head, int32(199); n != nil; n = n.next {
		require.Equal(t, want, n.val)
		count++
		want--
	}
	require.Equal(t, 200, count)
}
