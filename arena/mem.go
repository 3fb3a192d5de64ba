package arena

// Mem reserves and releases the raw memory behind arena blocks. Reserve may
// return more than n bytes (the arena accounts for what it is given) and
// returns nil when the reservation cannot be satisfied. Release is called
// once per reserved slice during Destroy.
type Mem interface {
	Reserve(n int) []byte
	Release(b []byte)
}

// HeapMem backs blocks with plain Go heap slices. Release is a no-op: the
// garbage collector reclaims a block once nothing references it.
type HeapMem struct{}

func (HeapMem) Reserve(n int) []byte { return make([]byte, n) }

func (HeapMem) Release(b []byte) {}
