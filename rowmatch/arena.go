package rowmatch

import "unsafe"

// Arena is the bump allocator the plan-tree builder depends on: a single
// Allocate operation, memory that stays at a stable address until the
// whole arena is released, and no per-node free. A compiled query builds
// its RowMatchNode tree into one arena and releases it in one shot once
// the query is retired.
type Arena interface {
	Allocate(nBytes int) []byte
}

const arenaAlignment = 8

func alignUp(n int) int {
	return (n + arenaAlignment - 1) &^ (arenaAlignment - 1)
}

// BumpArena is a growable-slab bump allocator satisfying Arena.
type BumpArena struct {
	slabSize int
	slabs    [][]byte
	offset   int
}

// NewBumpArena returns a BumpArena that grows in slabs of at least
// slabSize bytes (a non-positive slabSize falls back to a 4KiB default).
func NewBumpArena(slabSize int) *BumpArena {
	if slabSize <= 0 {
		slabSize = 4096
	}
	return &BumpArena{slabSize: slabSize}
}

// Allocate returns nBytes of zeroed memory at a stable address.
func (a *BumpArena) Allocate(nBytes int) []byte {
	if nBytes <= 0 {
		return nil
	}
	need := alignUp(nBytes)
	if len(a.slabs) == 0 || a.offset+need > len(a.slabs[len(a.slabs)-1]) {
		size := a.slabSize
		if need > size {
			size = need
		}
		a.slabs = append(a.slabs, make([]byte, size))
		a.offset = 0
	}
	slab := a.slabs[len(a.slabs)-1]
	buf := slab[a.offset : a.offset+nBytes : a.offset+need]
	a.offset += need
	return buf
}

// Release frees every slab at once. Any RowMatchNode built from this
// arena must not be used afterward.
func (a *BumpArena) Release() {
	a.slabs = nil
	a.offset = 0
}

// newNode carves a zeroed RowMatchNode out of arena and returns a
// non-owning pointer into it.
func newNode(arena Arena) *RowMatchNode {
	buf := arena.Allocate(int(unsafe.Sizeof(RowMatchNode{})))
	return (*RowMatchNode)(unsafe.Pointer(&buf[0]))
}
