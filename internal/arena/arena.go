// Package arena implements a typed bump allocator used to back tape storage.
//
// An Arena hands out slices carved from large blocks. Individual slices are
// never freed; memory is reclaimed in bulk by rewinding to a Mark, by Reset,
// or by Free. Returned slices never move, so they stay valid across later
// allocations until the arena is rewound past them.
package arena

import (
	"errors"
	"unsafe"
)

// DefaultBlockSize is the number of elements in a freshly allocated block.
const DefaultBlockSize = 1 << 14

// ErrBadMark is the panic value used when Release is given a mark that lies
// beyond the arena's current position.
var ErrBadMark = errors.New("arena: mark is ahead of current position")

// Mark is a position in an Arena. The zero Mark is the empty arena.
type Mark struct {
	block int // index of the block that was current
	off   int // offset within that block
	used  int // elements in use at the time of the mark
}

// Used returns the number of elements that were in use when the mark was taken.
func (m Mark) Used() int {
	return m.used
}

// Arena is a block-based bump allocator for values of type T.
//
// The zero value is ready to use with DefaultBlockSize.
// An Arena is not safe for concurrent use.
type Arena[T any] struct {
	blocks    [][]T
	blockSize int
	cur       int // index of the current block
	off       int // next free element in blocks[cur]
	used      int // elements handed out, including block tails skipped over
	peak      int

	// OnGrow is called after a new block is allocated. Optional.
	OnGrow func(blocks, capacity int)
}

// New creates an arena whose blocks hold blockSize elements.
// Non-positive sizes fall back to DefaultBlockSize.
func New[T any](blockSize int) *Arena[T] {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Arena[T]{blockSize: blockSize}
}

// Alloc returns a zeroed slice of n elements with capacity n.
// Alloc(0) returns nil.
func (a *Arena[T]) Alloc(n int) []T {
	if n <= 0 {
		return nil
	}
	if a.blockSize <= 0 {
		a.blockSize = DefaultBlockSize
	}

	if len(a.blocks) == 0 {
		a.grow(0, n)
	} else if a.off+n > len(a.blocks[a.cur]) {
		// Skip the tail of the current block; it stays accounted as used
		// so that Mark/Release arithmetic remains exact.
		a.used += len(a.blocks[a.cur]) - a.off
		next := a.cur + 1
		if next < len(a.blocks) && len(a.blocks[next]) >= n {
			a.cur, a.off = next, 0
		} else {
			a.grow(next, n)
		}
	}

	b := a.blocks[a.cur]
	s := b[a.off : a.off+n : a.off+n]
	clear(s)
	a.off += n
	a.used += n
	if a.used > a.peak {
		a.peak = a.used
	}
	return s
}

// grow inserts a new block at position pos and makes it current.
func (a *Arena[T]) grow(pos, n int) {
	size := max(a.blockSize, n)
	block := make([]T, size)
	if pos >= len(a.blocks) {
		a.blocks = append(a.blocks, block)
	} else {
		// Blocks after the current one are free; the oversized block goes first.
		a.blocks = append(a.blocks, nil)
		copy(a.blocks[pos+1:], a.blocks[pos:])
		a.blocks[pos] = block
	}
	a.cur, a.off = pos, 0
	if a.OnGrow != nil {
		a.OnGrow(len(a.blocks), a.Cap())
	}
}

// Mark returns the current position.
func (a *Arena[T]) Mark() Mark {
	return Mark{block: a.cur, off: a.off, used: a.used}
}

// Release rewinds the arena to m. Memory handed out after m must no longer be used.
func (a *Arena[T]) Release(m Mark) {
	if m.used > a.used || m.block > a.cur || (m.block == a.cur && m.off > a.off) {
		panic(ErrBadMark)
	}
	a.cur, a.off, a.used = m.block, m.off, m.used
}

// Reset rewinds the arena to empty while keeping every block for reuse.
func (a *Arena[T]) Reset() {
	a.cur, a.off, a.used = 0, 0, 0
}

// Free rewinds the arena and drops all blocks so the memory can be collected.
// Peak is preserved.
func (a *Arena[T]) Free() {
	a.blocks = nil
	a.cur, a.off, a.used = 0, 0, 0
}

// Len returns the number of elements in use.
func (a *Arena[T]) Len() int {
	return a.used
}

// Cap returns the total number of elements across all blocks.
func (a *Arena[T]) Cap() int {
	total := 0
	for _, b := range a.blocks {
		total += len(b)
	}
	return total
}

// Peak returns the high-water mark of Len. It is not cleared by Reset or Free.
func (a *Arena[T]) Peak() int {
	return a.peak
}

// Blocks returns the number of blocks owned by the arena.
func (a *Arena[T]) Blocks() int {
	return len(a.blocks)
}

// BlockSize returns the configured block size in elements.
func (a *Arena[T]) BlockSize() int {
	if a.blockSize <= 0 {
		return DefaultBlockSize
	}
	return a.blockSize
}

// ElemSize returns the size of one element in bytes.
func (a *Arena[T]) ElemSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
