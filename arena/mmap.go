package arena

import (
	"log"
	"os"

	"golang.org/x/sys/unix"
)

// MmapMem backs blocks with anonymous private mappings, keeping block memory
// off the Go heap. Reserved capacities round up to the page size and the
// whole mapping is handed to the arena; Release unmaps it.
type MmapMem struct{}

func (MmapMem) Reserve(n int) []byte {
	page := os.Getpagesize()
	n = (n + page - 1) &^ (page - 1)
	if n <= 0 {
		return nil
	}
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil
	}
	return b
}

func (MmapMem) Release(b []byte) {
	if len(b) == 0 {
		return
	}
	if err := unix.Munmap(b); err != nil {
		log.Fatal(err)
	}
}
