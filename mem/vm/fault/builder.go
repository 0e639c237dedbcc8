package fault

import (
	"log"

	"github.com/sarchlab/wssim/mem/vm/frame"
	"github.com/sarchlab/wssim/mem/vm/process"
	"github.com/sarchlab/wssim/sim"
)

// A Builder can build a Resolver.
type Builder struct {
	numFrames       int
	maxProcesses    int
	numPages        int
	workingSetLimit int
	log2PageSize    uint64
	framePool       FramePool
}

// MakeBuilder creates a builder with the default sizes.
func MakeBuilder() Builder {
	return Builder{
		numFrames:       64,
		maxProcesses:    20,
		numPages:        50,
		workingSetLimit: 4,
		log2PageSize:    12,
	}
}

// WithNumFrames sets the number of physical frames.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithMaxProcesses sets how many processes can be admitted.
func (b Builder) WithMaxProcesses(n int) Builder {
	b.maxProcesses = n
	return b
}

// WithNumPages sets the size of each process's page-number space.
func (b Builder) WithNumPages(n int) Builder {
	b.numPages = n
	return b
}

// WithWorkingSetLimit sets how many pages a process can keep resident.
func (b Builder) WithWorkingSetLimit(n int) Builder {
	b.workingSetLimit = n
	return b
}

// WithLog2PageSize sets the page size used to turn frames into addresses.
func (b Builder) WithLog2PageSize(n uint64) Builder {
	b.log2PageSize = n
	return b
}

// WithFramePool replaces the default frame pool. The number of frames is then
// taken from the pool.
func (b Builder) WithFramePool(p FramePool) Builder {
	b.framePool = p
	return b
}

// Build returns a newly created Resolver.
func (b Builder) Build(name string) *Resolver {
	if b.numPages <= 0 {
		log.Panicf("page-number space must be positive, got %d", b.numPages)
	}

	r := &Resolver{
		ComponentBase: sim.NewComponentBase(name),
		registry:      process.NewRegistry(b.maxProcesses, b.workingSetLimit),
		numPages:      b.numPages,
		log2PageSize:  b.log2PageSize,
	}

	r.frames = b.framePool
	if r.frames == nil {
		r.frames = frame.NewPool(b.numFrames)
	}

	return r
}
