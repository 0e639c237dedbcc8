// Package process keeps track of the simulated processes and picks the victim
// of whole-process evictions.
package process

import (
	"log"

	"github.com/sarchlab/wssim/mem/vm"
	"github.com/sarchlab/wssim/mem/vm/workingset"
)

// A Process is a simulated process with its working set. A process is never
// destroyed; a global eviction only empties its working set.
type Process struct {
	PID        vm.PID
	WorkingSet *workingset.WorkingSet
}

// A Registry owns the live processes, in creation order.
type Registry struct {
	maxProcesses    int
	workingSetLimit int
	processes       []*Process
	cursor          int
}

// NewRegistry creates an empty registry. Every process it admits gets a
// working set of workingSetLimit pages.
func NewRegistry(maxProcesses, workingSetLimit int) *Registry {
	if maxProcesses <= 0 {
		log.Panicf("process limit must be positive, got %d", maxProcesses)
	}

	if workingSetLimit <= 0 {
		log.Panicf("working set limit must be positive, got %d",
			workingSetLimit)
	}

	return &Registry{
		maxProcesses:    maxProcesses,
		workingSetLimit: workingSetLimit,
		processes:       make([]*Process, 0, maxProcesses),
	}
}

// Admit creates a process with the next PID. It returns vm.ErrAtCapacity
// and creates nothing if the process limit is reached.
func (r *Registry) Admit() (*Process, error) {
	if len(r.processes) >= r.maxProcesses {
		return nil, vm.ErrAtCapacity
	}

	p := &Process{
		PID:        vm.PID(len(r.processes)),
		WorkingSet: workingset.New(r.workingSetLimit),
	}
	r.processes = append(r.processes, p)

	return p, nil
}

// SelectEvictionVictim returns the process under the rotating cursor and
// moves the cursor to the next process in creation order, wrapping around.
// The choice depends on position only, never on working-set contents.
func (r *Registry) SelectEvictionVictim() *Process {
	if len(r.processes) == 0 {
		log.Panic("selecting an eviction victim with no live process")
	}

	victim := r.processes[r.cursor%len(r.processes)]
	r.cursor = (r.cursor + 1) % len(r.processes)

	return victim
}

// Get returns the process with the given PID.
func (r *Registry) Get(pid vm.PID) (*Process, bool) {
	if int(pid) >= len(r.processes) {
		return nil, false
	}

	return r.processes[pid], true
}

// Processes returns the live processes in creation order.
func (r *Registry) Processes() []*Process {
	return r.processes
}

// Len returns the number of live processes.
func (r *Registry) Len() int {
	return len(r.processes)
}

// Limit returns the maximum number of live processes.
func (r *Registry) Limit() int {
	return r.maxProcesses
}

// IsFull tells whether no more process can be admitted.
func (r *Registry) IsFull() bool {
	return len(r.processes) >= r.maxProcesses
}
