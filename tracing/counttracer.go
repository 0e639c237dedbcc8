// Package tracing collects what the resolver does, either as counters or as
// rows in a data recorder.
package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/wssim/mem/vm"
	"github.com/sarchlab/wssim/mem/vm/fault"
	"github.com/sarchlab/wssim/sim"
)

// ProcessCounts are the counters of one process.
type ProcessCounts struct {
	PID             vm.PID `json:"pid"`
	Requests        uint64 `json:"requests"`
	Hits            uint64 `json:"hits"`
	Faults          uint64 `json:"faults"`
	IntraEvictions  uint64 `json:"intra_evictions"`
	TimesEvicted    uint64 `json:"times_evicted"`
	PagesLost       uint64 `json:"pages_lost"`
	EvictionsCaused uint64 `json:"evictions_caused"`
}

// HitRatio returns hits over requests, or 0 before any request.
func (c ProcessCounts) HitRatio() float64 {
	if c.Requests == 0 {
		return 0
	}

	return float64(c.Hits) / float64(c.Requests)
}

// CountTracer counts hits, faults and evictions per process.
type CountTracer struct {
	lock   sync.Mutex
	counts map[vm.PID]*ProcessCounts
}

// NewCountTracer creates a CountTracer.
func NewCountTracer() *CountTracer {
	return &CountTracer{
		counts: make(map[vm.PID]*ProcessCounts),
	}
}

// Func updates the counters.
func (t *CountTracer) Func(ctx sim.HookCtx) {
	t.lock.Lock()
	defer t.lock.Unlock()

	switch ctx.Pos {
	case fault.HookPosProcessAdmitted:
		t.entry(ctx.Item.(vm.PID))
	case fault.HookPosPageHit, fault.HookPosPageFault:
		t.countOutcome(ctx.Item.(fault.Outcome))
	case fault.HookPosProcessEvicted:
		e := ctx.Item.(fault.Eviction)
		victim := t.entry(e.VictimPID)
		victim.TimesEvicted++
		victim.PagesLost += uint64(len(e.Bindings))
		t.entry(e.RequesterPID).EvictionsCaused++
	}
}

func (t *CountTracer) countOutcome(o fault.Outcome) {
	c := t.entry(o.PID)
	c.Requests++

	switch o.Resolution {
	case fault.ResolutionHit:
		c.Hits++
	case fault.ResolutionIntraEvict:
		c.Faults++
		c.IntraEvictions++
	default:
		c.Faults++
	}
}

func (t *CountTracer) entry(pid vm.PID) *ProcessCounts {
	c, ok := t.counts[pid]
	if !ok {
		c = &ProcessCounts{PID: pid}
		t.counts[pid] = c
	}

	return c
}

// Counts returns the counters of a process.
func (t *CountTracer) Counts(pid vm.PID) ProcessCounts {
	t.lock.Lock()
	defer t.lock.Unlock()

	c, ok := t.counts[pid]
	if !ok {
		return ProcessCounts{PID: pid}
	}

	return *c
}

// All returns the counters of every process seen, ordered by PID.
func (t *CountTracer) All() []ProcessCounts {
	t.lock.Lock()
	defer t.lock.Unlock()

	all := make([]ProcessCounts, 0, len(t.counts))
	for _, c := range t.counts {
		all = append(all, *c)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].PID < all[j].PID })

	return all
}
