// Package driver generates the page requests of the simulated processes.
//
// Each tick, every live process requests one page in creation order. After
// that sweep, one new process is admitted if there is room, and its first
// request is resolved right away.
//
// A paced driver stops ticking after every iteration. Run waits between
// iterations while no event is being handled, so the engine can be paused
// during the wait.
package driver

import (
	"log"
	"time"

	"github.com/sarchlab/wssim/mem/vm"
	"github.com/sarchlab/wssim/mem/vm/fault"
	"github.com/sarchlab/wssim/sim"
)

// Hook positions of the driver. The item of HookPosRequest is a Request and
// the item of HookPosTickEnd is the number of completed iterations.
var (
	HookPosRequest = &sim.HookPos{Name: "Request"}
	HookPosTickEnd = &sim.HookPos{Name: "TickEnd"}
)

// A Request is a page access about to be resolved.
type Request struct {
	Iteration int
	PID       vm.PID
	Page      vm.PageNumber
	Admission bool
}

// PageResolver serves page requests.
type PageResolver interface {
	AdmitProcess() (vm.PID, error)
	CanAdmit() bool
	RequestPage(pid vm.PID, page vm.PageNumber) (fault.Outcome, error)
	Processes() []vm.PID
}

// Driver is a ticking component that feeds requests to a PageResolver.
type Driver struct {
	*sim.TickingComponent

	resolver  PageResolver
	generator RequestGenerator

	stoppingLimit int
	iteration     int
	pace          time.Duration
	sleep         func(time.Duration)
}

// Start schedules the first iteration.
func (d *Driver) Start() {
	d.TickNow()
}

// Run starts the driver and runs the engine until the stopping limit is
// reached.
func (d *Driver) Run() error {
	d.Start()

	for {
		if err := d.Engine.Run(); err != nil {
			return err
		}

		if d.finished() {
			return nil
		}

		if d.pace > 0 {
			d.sleep(d.pace)
		}

		d.TickLater()
	}
}

// Iterations returns the number of completed iterations.
func (d *Driver) Iterations() int {
	return d.iteration
}

// Tick runs one iteration.
func (d *Driver) Tick() bool {
	if d.finished() {
		return false
	}

	d.sweep()
	d.admit()

	d.iteration++
	d.InvokeHook(sim.HookCtx{
		Domain: d,
		Pos:    HookPosTickEnd,
		Item:   d.iteration,
	})

	if d.finished() {
		return false
	}

	return d.pace <= 0
}

func (d *Driver) finished() bool {
	return d.stoppingLimit >= 0 && d.iteration >= d.stoppingLimit
}

func (d *Driver) sweep() {
	for _, pid := range d.resolver.Processes() {
		d.request(pid, false)
	}
}

func (d *Driver) admit() {
	if !d.resolver.CanAdmit() {
		return
	}

	pid, err := d.resolver.AdmitProcess()
	if err != nil {
		log.Panic(err)
	}

	d.request(pid, true)
}

func (d *Driver) request(pid vm.PID, admission bool) {
	req := Request{
		Iteration: d.iteration,
		PID:       pid,
		Page:      d.generator.NextPage(pid),
		Admission: admission,
	}

	d.InvokeHook(sim.HookCtx{Domain: d, Pos: HookPosRequest, Item: req})

	_, err := d.resolver.RequestPage(req.PID, req.Page)
	if err != nil {
		log.Panicf("request of process %d for page %d failed: %v",
			req.PID, req.Page, err)
	}
}
