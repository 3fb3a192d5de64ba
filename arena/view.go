package arena

import (
	"unsafe"

	"github.com/modern-go/reflect2"
)

// New allocates a zeroed T inside the arena and returns its address, or nil
// when the arena cannot grow. Block memory is untyped and never scanned by
// the collector: a T holding Go pointers must keep the referents alive
// through other roots.
func New[T any](a *Arena) *T {
	var x T
	size := unsafe.Sizeof(x)
	if size == 0 {
		return new(T)
	}
	b := a.Alloc(int(size), int(unsafe.Alignof(x)))
	if b == nil {
		return nil
	}
	clear(b)
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// MakeSlice allocates a zeroed n-element slice of T inside the arena, or nil
// when n <= 0, the byte count overflows, or the arena cannot grow. The
// pointer caveat of New applies.
func MakeSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var x T
	size := unsafe.Sizeof(x)
	if size == 0 {
		return make([]T, n)
	}
	if uintptr(n) > uintptr(maxInt)/size {
		return nil
	}
	b := a.Alloc(n*int(size), int(unsafe.Alignof(x)))
	if b == nil {
		return nil
	}
	clear(b)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// Bind points a typed pointer at the first byte of b. out must be a non-nil
// pointer to a pointer (say **Header); after Bind(&h, b), h reads b's bytes
// as its pointee type. Binding an empty b yields a nil pointee.
func Bind(out any, b []byte) {
	*(*unsafe.Pointer)(reflect2.PtrOf(out)) = unsafe.Pointer(unsafe.SliceData(b))
}

// String returns a string view over b without copying. The bytes must not
// change while the string is in use, and the string dies with the arena.
func String(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
