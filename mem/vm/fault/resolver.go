// Package fault resolves page requests against the working sets of the
// simulated processes and the shared frame pool.
//
// A request for a resident page is a hit and only refreshes the page's
// recency. A miss is a fault, served by one of three paths:
//
//   - the requester's working set is full: its least recently used page is
//     replaced;
//   - the frame pool is full: a victim process chosen round robin loses its
//     whole working set;
//   - otherwise: a free frame is used.
package fault

import (
	"fmt"
	"log"

	"github.com/sarchlab/wssim/mem/vm"
	"github.com/sarchlab/wssim/mem/vm/process"
	"github.com/sarchlab/wssim/sim"
)

// Hook positions of the resolver. The item of HookPosPageHit and
// HookPosPageFault is an Outcome, of HookPosProcessEvicted an Eviction and of
// HookPosProcessAdmitted a vm.PID.
var (
	HookPosProcessAdmitted = &sim.HookPos{Name: "ProcessAdmitted"}
	HookPosPageHit         = &sim.HookPos{Name: "PageHit"}
	HookPosPageFault       = &sim.HookPos{Name: "PageFault"}
	HookPosProcessEvicted  = &sim.HookPos{Name: "ProcessEvicted"}
)

// FramePool allocates physical frames.
type FramePool interface {
	Allocate() (vm.Frame, error)
	Free(f vm.Frame)
	IsFull() bool
	Capacity() int
	NumFree() int
}

// Resolver owns the frame pool and the process registry of one simulation
// run.
type Resolver struct {
	*sim.ComponentBase

	frames       FramePool
	registry     *process.Registry
	numPages     int
	log2PageSize uint64
	stats        Stats
}

// AdmitProcess creates a new process with an empty working set. It returns
// vm.ErrAtCapacity when the process limit is reached.
func (r *Resolver) AdmitProcess() (vm.PID, error) {
	p, err := r.registry.Admit()
	if err != nil {
		return 0, err
	}

	r.InvokeHook(sim.HookCtx{
		Domain: r,
		Pos:    HookPosProcessAdmitted,
		Item:   p.PID,
	})

	return p.PID, nil
}

// CanAdmit tells whether another process can be admitted.
func (r *Resolver) CanAdmit() bool {
	return !r.registry.IsFull()
}

// RequestPage serves an access of process pid to a virtual page.
func (r *Resolver) RequestPage(
	pid vm.PID,
	page vm.PageNumber,
) (Outcome, error) {
	p, err := r.lookupProcess(pid)
	if err != nil {
		return Outcome{}, err
	}

	if int(page) >= r.numPages {
		return Outcome{}, fmt.Errorf("%w: page %d, process %d has %d pages",
			vm.ErrPageOutOfRange, page, pid, r.numPages)
	}

	r.stats.Requests++
	outcome := Outcome{PID: pid, Page: page}

	if frame, hit := p.WorkingSet.Lookup(page); hit {
		r.stats.Hits++
		outcome.Resolution = ResolutionHit
		outcome.Frame = frame
		outcome.Address = r.addressOf(frame)
		r.InvokeHook(sim.HookCtx{Domain: r, Pos: HookPosPageHit, Item: outcome})

		return outcome, nil
	}

	r.stats.Faults++

	switch {
	case p.WorkingSet.IsFull():
		r.replaceOwnPage(p, &outcome)
	case r.frames.IsFull():
		r.evictVictimProcess(p, &outcome)
	default:
		outcome.Resolution = ResolutionAdmit
	}

	frame := r.mustAllocate()
	p.WorkingSet.Admit(page, frame)

	outcome.Frame = frame
	outcome.Address = r.addressOf(frame)
	r.InvokeHook(sim.HookCtx{Domain: r, Pos: HookPosPageFault, Item: outcome})

	return outcome, nil
}

func (r *Resolver) replaceOwnPage(p *process.Process, outcome *Outcome) {
	evicted := p.WorkingSet.EvictLeastRecentlyUsed()
	r.frames.Free(evicted.Frame)
	r.stats.IntraEvictions++

	outcome.Resolution = ResolutionIntraEvict
	outcome.EvictedPage = evicted.Page
}

// evictVictimProcess empties the working set of the next victim that holds
// frames. A victim whose working set is already empty frees nothing, so the
// cursor keeps rotating; since the pool is full, some process holds a frame.
func (r *Resolver) evictVictimProcess(
	requester *process.Process,
	outcome *Outcome,
) {
	for draws := 0; draws < r.registry.Len(); draws++ {
		victim := r.registry.SelectEvictionVictim()
		if victim.WorkingSet.IsEmpty() {
			continue
		}

		bindings := make([]vm.Binding, 0, victim.WorkingSet.Len())
		for !victim.WorkingSet.IsEmpty() {
			b := victim.WorkingSet.EvictLeastRecentlyUsed()
			r.frames.Free(b.Frame)
			bindings = append(bindings, b)
		}

		r.stats.GlobalEvictions++
		r.stats.PagesReclaimed += uint64(len(bindings))

		outcome.Resolution = ResolutionGlobalEvict
		outcome.VictimPID = victim.PID
		outcome.VictimPages = bindings

		r.InvokeHook(sim.HookCtx{
			Domain: r,
			Pos:    HookPosProcessEvicted,
			Item: Eviction{
				RequesterPID: requester.PID,
				VictimPID:    victim.PID,
				Bindings:     bindings,
			},
		})

		return
	}

	log.Panic("frame pool is full but no process holds a frame")
}

func (r *Resolver) mustAllocate() vm.Frame {
	frame, err := r.frames.Allocate()
	if err != nil {
		log.Panicf("frame allocation failed after making room: %v", err)
	}

	return frame
}

// DescribeResidency lists the resident pages of a process from least to most
// recently used. It does not change the recency order.
func (r *Resolver) DescribeResidency(pid vm.PID) ([]Residency, error) {
	p, err := r.lookupProcess(pid)
	if err != nil {
		return nil, err
	}

	bindings := p.WorkingSet.Residency()
	residency := make([]Residency, 0, len(bindings))
	for _, b := range bindings {
		residency = append(residency, Residency{
			Page:    b.Page,
			Frame:   b.Frame,
			Address: r.addressOf(b.Frame),
		})
	}

	return residency, nil
}

// Processes returns the PIDs of the live processes, in creation order.
func (r *Resolver) Processes() []vm.PID {
	pids := make([]vm.PID, 0, r.registry.Len())
	for _, p := range r.registry.Processes() {
		pids = append(pids, p.PID)
	}

	return pids
}

// FrameMap tells for every frame which process page occupies it.
func (r *Resolver) FrameMap() []FrameUse {
	uses := make([]FrameUse, r.frames.Capacity())
	for i := range uses {
		uses[i].Frame = vm.Frame(i)
	}

	for _, p := range r.registry.Processes() {
		for _, b := range p.WorkingSet.Residency() {
			uses[b.Frame] = FrameUse{
				Frame:    b.Frame,
				Occupied: true,
				PID:      p.PID,
				Page:     b.Page,
			}
		}
	}

	return uses
}

// Stats returns a snapshot of the counters.
func (r *Resolver) Stats() Stats {
	s := r.stats
	s.NumFrames = r.frames.Capacity()
	s.FreeFrames = r.frames.NumFree()
	s.NumProcesses = r.registry.Len()
	s.MaxProcesses = r.registry.Limit()

	return s
}

// NumPages returns the size of the page-number space.
func (r *Resolver) NumPages() int {
	return r.numPages
}

// Verify checks that every occupied frame is bound to exactly one resident
// page and that no working set exceeds its limit.
func (r *Resolver) Verify() error {
	owners := make(map[vm.Frame]vm.PID)
	resident := 0

	for _, p := range r.registry.Processes() {
		ws := p.WorkingSet
		if ws.Len() > ws.Limit() {
			return fmt.Errorf("process %d holds %d pages, limit is %d",
				p.PID, ws.Len(), ws.Limit())
		}

		for _, b := range ws.Residency() {
			if owner, taken := owners[b.Frame]; taken {
				return fmt.Errorf("frame %d bound by process %d and %d",
					b.Frame, owner, p.PID)
			}

			owners[b.Frame] = p.PID
			resident++
		}
	}

	occupied := r.frames.Capacity() - r.frames.NumFree()
	if occupied != resident {
		return fmt.Errorf("%d frames occupied but %d pages resident",
			occupied, resident)
	}

	return nil
}

func (r *Resolver) lookupProcess(pid vm.PID) (*process.Process, error) {
	p, found := r.registry.Get(pid)
	if !found {
		return nil, fmt.Errorf("%w: %d", vm.ErrUnknownProcess, pid)
	}

	return p, nil
}

func (r *Resolver) addressOf(f vm.Frame) vm.Address {
	return vm.AddressOf(f, r.log2PageSize)
}
