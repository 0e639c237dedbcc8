package simulation

import (
	"io"
	"log"
	"time"

	"github.com/rs/xid"

	"github.com/sarchlab/wssim/config"
	"github.com/sarchlab/wssim/datarecording"
	"github.com/sarchlab/wssim/mem/vm/driver"
	"github.com/sarchlab/wssim/mem/vm/fault"
	"github.com/sarchlab/wssim/monitoring"
	"github.com/sarchlab/wssim/report"
	"github.com/sarchlab/wssim/sim"
	"github.com/sarchlab/wssim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg       config.Config
	console   io.Writer
	generator driver.RequestGenerator
}

// MakeBuilder creates a builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		cfg: config.Default(),
	}
}

// WithConfig sets the configuration of the run.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithConsole sets where the requests and residency tables are printed.
// Nothing is printed if the writer is nil or the configuration asks for
// quiet runs.
func (b Builder) WithConsole(w io.Writer) Builder {
	b.console = w
	return b
}

// WithGenerator replaces the uniform page generator.
func (b Builder) WithGenerator(g driver.RequestGenerator) Builder {
	b.generator = g
	return b
}

func (b Builder) parametersMustBeValid() {
	if err := b.cfg.Validate(); err != nil {
		panic(err)
	}
}

// Build builds the simulation. It fails only if the monitor cannot listen.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	s := &Simulation{
		id:     xid.New().String(),
		cfg:    b.cfg,
		engine: sim.NewSerialEngine(),
		counts: tracing.NewCountTracer(),
	}

	s.resolver = fault.MakeBuilder().
		WithNumFrames(b.cfg.NumFrames).
		WithMaxProcesses(b.cfg.MaxProcesses).
		WithNumPages(b.cfg.NumPages).
		WithWorkingSetLimit(b.cfg.WorkingSetLimit).
		WithLog2PageSize(b.cfg.Log2PageSize).
		Build("Resolver")
	s.resolver.AcceptHook(s.counts)

	generator := b.generator
	if generator == nil {
		generator = driver.NewUniformGenerator(b.cfg.NumPages, b.cfg.Seed)
	}

	s.driver = driver.MakeBuilder().
		WithEngine(s.engine).
		WithResolver(s.resolver).
		WithGenerator(generator).
		WithStoppingLimit(b.cfg.StoppingLimit).
		WithPace(time.Duration(b.cfg.WaitSeconds) * time.Second).
		Build("Driver")

	b.attachConsole(s)
	b.attachRecorder(s)

	if b.cfg.Monitor {
		if err := b.startMonitor(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (b Builder) attachConsole(s *Simulation) {
	if b.console == nil || b.cfg.Quiet {
		return
	}

	logger := log.New(b.console, "", 0)

	hook := report.NewConsoleHook(logger, s.resolver)
	s.driver.AcceptHook(hook)
	s.resolver.AcceptHook(hook)

	if b.cfg.TraceEvents {
		s.engine.AcceptHook(sim.NewEventLogger(logger))
	}
}

func (b Builder) attachRecorder(s *Simulation) {
	if !b.cfg.Record {
		return
	}

	path := b.cfg.RecordPath
	if path == "" {
		path = "wssim_" + s.id
	}

	s.dataRecorder = datarecording.New(path)
	s.resolver.AcceptHook(tracing.NewRecordingTracer(s.engine, s.dataRecorder))
}

func (b Builder) startMonitor(s *Simulation) error {
	s.monitor = monitoring.NewMonitor().WithPortNumber(b.cfg.MonitorPort)
	s.monitor.RegisterEngine(s.engine)
	s.monitor.RegisterResolver(s.resolver)
	s.monitor.RegisterCountTracer(s.counts)

	if b.cfg.HasLimit() {
		bar := s.monitor.CreateProgressBar("iterations",
			uint64(b.cfg.StoppingLimit))
		s.driver.AcceptHook(monitoring.NewIterationProgressHook(bar))
	}

	if _, err := s.monitor.StartServer(); err != nil {
		return err
	}

	if b.cfg.OpenBrowser {
		return s.monitor.OpenInBrowser()
	}

	return nil
}
