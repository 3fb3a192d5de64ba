package strtab_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funny-falcon/memarena/arena"
	"github.com/funny-falcon/memarena/strtab"
)

func TestInsertFind(t *testing.T) {
	ar := arena.NewArena(0, nil)
	tab := strtab.New(ar)

	ix, isNew := tab.Insert("hello")
	require.Equal(t, uint32(1), ix)
	require.True(t, isNew)

	ix, isNew = tab.Insert("hello")
	require.Equal(t, uint32(1), ix)
	require.False(t, isNew)

	ix2, isNew := tab.Insert("world")
	require.Equal(t, uint32(2), ix2)
	require.True(t, isNew)

	require.Equal(t, uint32(1), tab.Find("hello"))
	require.Equal(t, uint32(2), tab.Find("world"))
	require.Equal(t, uint32(0), tab.Find("absent"))
	require.Equal(t, "hello", tab.GetStr(1))
	require.Equal(t, "world", tab.GetStr(2))
	require.Equal(t, 2, tab.Len())

	ix, isNew = tab.Insert("")
	require.Equal(t, uint32(0), ix)
	require.False(t, isNew)
	require.Equal(t, uint32(0), tab.Find(""))
	require.Equal(t, "", tab.GetStr(0))
	require.Equal(t, 2, tab.Len())
}

func TestFindEmptyTable(t *testing.T) {
	tab := strtab.New(arena.NewArena(0, nil))
	require.Equal(t, uint32(0), tab.Find("anything"))
}

func TestHandleCount(t *testing.T) {
	ar := arena.NewArena(0, nil)
	tab := strtab.New(ar)

	for _, w := range []string{"a", "b", "a", "c", "a", "b"} {
		ix, _ := tab.Insert(w)
		tab.GetHndl(ix).Count++
	}
	require.Equal(t, uint32(3), tab.GetHndl(tab.Find("a")).Count)
	require.Equal(t, uint32(2), tab.GetHndl(tab.Find("b")).Count)
	require.Equal(t, uint32(1), tab.GetHndl(tab.Find("c")).Count)
}

// Drive the table through several rebalances against a dumb map model.
func TestModel(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	word := func() string {
		b := make([]byte, 1+rnd.Intn(10))
		for i := range b {
			b[i] = 'a' + byte(rnd.Intn(26))
		}
		return string(b)
	}

	ar := arena.NewArena(0, nil)
	tab := strtab.New(ar)
	model := map[string]uint32{}

	for i := 0; i < 5000; i++ {
		s := word()
		ix, isNew := tab.Insert(s)
		if mix, ok := model[s]; ok {
			require.False(t, isNew, "dup %q", s)
			require.Equal(t, mix, ix)
		} else {
			require.True(t, isNew, "new %q", s)
			require.Equal(t, uint32(len(model)+1), ix)
			model[s] = ix
		}
		require.Equal(t, ix, tab.Find(s))
	}
	require.Equal(t, len(model), tab.Len())

	for s, ix := range model {
		require.Equal(t, ix, tab.Find(s))
		require.Equal(t, s, tab.GetStr(ix))
	}
	require.Equal(t, uint32(0), tab.Find("NOT-a-word"))
}

func TestLongStrings(t *testing.T) {
	ar := arena.NewArena(0, nil)
	tab := strtab.New(ar)

	max := strings.Repeat("x", 255)
	ix, isNew := tab.Insert(max)
	require.True(t, isNew)
	require.Equal(t, max, tab.GetStr(ix))
	require.Equal(t, ix, tab.Find(max))

	require.Panics(t, func() { tab.Insert(strings.Repeat("y", 256)) })
}

func TestReset(t *testing.T) {
	ar := arena.NewArena(0, nil)
	tab := strtab.New(ar)

	words := []string{"alpha", "beta", "gamma", "delta"}
	for _, w := range words {
		tab.Insert(w)
	}
	used := ar.Used()
	require.Equal(t, len(words), tab.Len())

	tab.Reset()
	ar.Reset()
	require.Equal(t, 0, tab.Len())
	require.Equal(t, uint32(0), tab.Find("alpha"))

	// The same vocabulary reoccupies exactly the reclaimed space.
	for i, w := range words {
		ix, isNew := tab.Insert(w)
		require.True(t, isNew)
		require.Equal(t, uint32(i+1), ix)
	}
	require.Equal(t, used, ar.Used())
	require.Equal(t, "gamma", tab.GetStr(3))
}

type noMem struct{}

func (noMem) Reserve(n int) []byte { return nil }
func (noMem) Release(b []byte)     {}

func TestArenaExhausted(t *testing.T) {
	tab := strtab.New(arena.NewArena(64, noMem{}))
	ix, isNew := tab.Insert("oops")
	require.Equal(t, uint32(0), ix)
	require.False(t, isNew)
	require.Equal(t, 0, tab.Len())
	require.Equal(t, uint32(0), tab.Find("oops"))
}
