// Package frame manages the fixed pool of physical frames.
package frame

import (
	"log"

	"github.com/sarchlab/wssim/mem/vm"
)

// A Pool holds a fixed number of frame slots, each free or occupied.
type Pool struct {
	occupied []bool
	numFree  int
}

// NewPool creates a pool with all frames free.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		log.Panicf("frame pool capacity must be positive, got %d", capacity)
	}

	return &Pool{
		occupied: make([]bool, capacity),
		numFree:  capacity,
	}
}

// Allocate marks the lowest free frame as occupied and returns it.
func (p *Pool) Allocate() (vm.Frame, error) {
	if p.numFree == 0 {
		return 0, vm.ErrExhausted
	}

	for i, used := range p.occupied {
		if !used {
			p.occupied[i] = true
			p.numFree--

			return vm.Frame(i), nil
		}
	}

	log.Panicf("frame pool reports %d free frames but none is free",
		p.numFree)

	return 0, nil
}

// Free returns an occupied frame to the pool. Freeing a frame that is not
// occupied means the caller lost track of its bindings, so it panics.
func (p *Pool) Free(f vm.Frame) {
	p.frameMustBeInRange(f)

	if !p.occupied[f] {
		log.Panicf("freeing frame %d, which is not occupied", f)
	}

	p.occupied[f] = false
	p.numFree++
}

// IsFull tells whether no frame is free.
func (p *Pool) IsFull() bool {
	return p.numFree == 0
}

// IsOccupied tells whether the frame is occupied.
func (p *Pool) IsOccupied(f vm.Frame) bool {
	p.frameMustBeInRange(f)

	return p.occupied[f]
}

// Capacity returns the number of frames in the pool.
func (p *Pool) Capacity() int {
	return len(p.occupied)
}

// NumFree returns the number of free frames.
func (p *Pool) NumFree() int {
	return p.numFree
}

// NumOccupied returns the number of occupied frames.
func (p *Pool) NumOccupied() int {
	return len(p.occupied) - p.numFree
}

func (p *Pool) frameMustBeInRange(f vm.Frame) {
	if f < 0 || int(f) >= len(p.occupied) {
		log.Panicf("frame %d out of range [0, %d)", f, len(p.occupied))
	}
}
