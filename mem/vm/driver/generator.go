package driver

import (
	"log"
	"math/rand"
	"time"

	"github.com/sarchlab/wssim/mem/vm"
)

// A RequestGenerator decides which page a process touches next.
type RequestGenerator interface {
	NextPage(pid vm.PID) vm.PageNumber
}

// UniformGenerator draws pages uniformly from the page-number space,
// independently of the process.
type UniformGenerator struct {
	numPages int
	rand     *rand.Rand
}

// NewUniformGenerator creates a generator over numPages pages. A zero seed
// is replaced by the current time.
func NewUniformGenerator(numPages int, seed int64) *UniformGenerator {
	if numPages <= 0 {
		log.Panicf("page-number space must be positive, got %d", numPages)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &UniformGenerator{
		numPages: numPages,
		rand:     rand.New(rand.NewSource(seed)),
	}
}

// NextPage returns a page in [0, numPages).
func (g *UniformGenerator) NextPage(_ vm.PID) vm.PageNumber {
	return vm.PageNumber(g.rand.Intn(g.numPages))
}
