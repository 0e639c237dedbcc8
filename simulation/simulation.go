// Package simulation puts together the engine, the resolver, the driver and
// the optional recorder and monitor of one run.
package simulation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sarchlab/wssim/config"
	"github.com/sarchlab/wssim/datarecording"
	"github.com/sarchlab/wssim/mem/vm/driver"
	"github.com/sarchlab/wssim/mem/vm/fault"
	"github.com/sarchlab/wssim/monitoring"
	"github.com/sarchlab/wssim/sim"
	"github.com/sarchlab/wssim/tracing"
)

// A Simulation is one configured run.
type Simulation struct {
	id  string
	cfg config.Config

	engine   *sim.SerialEngine
	resolver *fault.Resolver
	driver   *driver.Driver
	counts   *tracing.CountTracer

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor

	terminateOnce sync.Once
	terminateErr  error
}

// ID returns the unique ID of the run.
func (s *Simulation) ID() string {
	return s.id
}

// Config returns the configuration of the run.
func (s *Simulation) Config() config.Config {
	return s.cfg
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetResolver returns the fault resolver.
func (s *Simulation) GetResolver() *fault.Resolver {
	return s.resolver
}

// GetDriver returns the request driver.
func (s *Simulation) GetDriver() *driver.Driver {
	return s.driver
}

// GetCountTracer returns the per-process counters.
func (s *Simulation) GetCountTracer() *tracing.CountTracer {
	return s.counts
}

// GetDataRecorder returns the data recorder, or nil if the run is not
// recorded.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// Run drives the simulation until the stopping limit is reached.
func (s *Simulation) Run() error {
	slog.Info("simulation started",
		"id", s.id,
		"frames", s.cfg.NumFrames,
		"processes", s.cfg.MaxProcesses,
		"pages", s.cfg.NumPages,
		"working_set", s.cfg.WorkingSetLimit,
		"limit", s.cfg.StoppingLimit)

	if err := s.driver.Run(); err != nil {
		return err
	}

	if err := s.resolver.Verify(); err != nil {
		return err
	}

	slog.Info("simulation finished",
		"iterations", s.driver.Iterations(),
		"hit_ratio", s.resolver.Stats().HitRatio())

	return nil
}

// Terminate stops the monitor and closes the data recorder. Calls after the
// first return the first result.
func (s *Simulation) Terminate() error {
	s.terminateOnce.Do(func() { s.terminateErr = s.terminate() })

	return s.terminateErr
}

func (s *Simulation) terminate() error {
	var errs []error

	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		errs = append(errs, s.monitor.StopServer(ctx))
	}

	if s.dataRecorder != nil {
		errs = append(errs, s.dataRecorder.Close())
	}

	return errors.Join(errs...)
}
