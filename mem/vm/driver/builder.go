package driver

import (
	"time"

	"github.com/sarchlab/wssim/sim"
)

// A Builder can build a Driver.
type Builder struct {
	engine        sim.Engine
	freq          sim.Freq
	resolver      PageResolver
	generator     RequestGenerator
	stoppingLimit int
	pace          time.Duration
}

// MakeBuilder creates a builder for an unbounded, unpaced driver that ticks
// once per simulated second.
func MakeBuilder() Builder {
	return Builder{
		freq:          1 * sim.Hz,
		stoppingLimit: -1,
	}
}

// WithEngine sets the engine that runs the driver.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets how often the driver ticks in simulated time.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithResolver sets the resolver that serves the requests.
func (b Builder) WithResolver(r PageResolver) Builder {
	b.resolver = r
	return b
}

// WithGenerator sets where the requested pages come from.
func (b Builder) WithGenerator(g RequestGenerator) Builder {
	b.generator = g
	return b
}

// WithStoppingLimit sets how many iterations to run. A negative limit never
// stops.
func (b Builder) WithStoppingLimit(n int) Builder {
	b.stoppingLimit = n
	return b
}

// WithPace sets the wall-clock time to wait between iterations.
func (b Builder) WithPace(d time.Duration) Builder {
	b.pace = d
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("engine is not set")
	}

	if b.resolver == nil {
		panic("resolver is not set")
	}

	if b.generator == nil {
		panic("generator is not set")
	}
}

// Build creates a Driver.
func (b Builder) Build(name string) *Driver {
	b.parametersMustBeValid()

	d := &Driver{
		resolver:      b.resolver,
		generator:     b.generator,
		stoppingLimit: b.stoppingLimit,
		pace:          b.pace,
		sleep:         time.Sleep,
	}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	return d
}
