package tracing

import (
	"github.com/sarchlab/wssim/datarecording"
	"github.com/sarchlab/wssim/mem/vm/fault"
	"github.com/sarchlab/wssim/sim"
)

// Tables written by RecordingTracer.
const (
	RequestTable  = "page_requests"
	EvictionTable = "process_evictions"
)

// RequestEntry is one resolved page request. EvictedPage and VictimPID are -1
// when the request evicted nothing.
type RequestEntry struct {
	Time        float64
	PID         uint32
	Page        uint32
	Resolution  string
	Frame       int
	Address     uint64
	EvictedPage int64
	VictimPID   int64
	PagesFreed  int
}

// EvictionEntry is one whole-process eviction.
type EvictionEntry struct {
	Time         float64
	RequesterPID uint32
	VictimPID    uint32
	Pages        int
}

// RecordingTracer writes every resolved request and every process eviction
// into a data recorder.
type RecordingTracer struct {
	timeTeller sim.TimeTeller
	recorder   datarecording.DataRecorder
}

// NewRecordingTracer creates the tables and returns a tracer that fills them.
func NewRecordingTracer(
	timeTeller sim.TimeTeller,
	recorder datarecording.DataRecorder,
) *RecordingTracer {
	recorder.CreateTable(RequestTable, RequestEntry{})
	recorder.CreateTable(EvictionTable, EvictionEntry{})

	return &RecordingTracer{
		timeTeller: timeTeller,
		recorder:   recorder,
	}
}

// Func records hits, faults and process evictions.
func (t *RecordingTracer) Func(ctx sim.HookCtx) {
	now := float64(t.timeTeller.CurrentTime())

	switch ctx.Pos {
	case fault.HookPosPageHit, fault.HookPosPageFault:
		t.recorder.InsertData(RequestTable,
			requestEntry(now, ctx.Item.(fault.Outcome)))
	case fault.HookPosProcessEvicted:
		e := ctx.Item.(fault.Eviction)
		t.recorder.InsertData(EvictionTable, EvictionEntry{
			Time:         now,
			RequesterPID: uint32(e.RequesterPID),
			VictimPID:    uint32(e.VictimPID),
			Pages:        len(e.Bindings),
		})
	}
}

func requestEntry(now float64, o fault.Outcome) RequestEntry {
	entry := RequestEntry{
		Time:        now,
		PID:         uint32(o.PID),
		Page:        uint32(o.Page),
		Resolution:  o.Resolution.String(),
		Frame:       int(o.Frame),
		Address:     uint64(o.Address),
		EvictedPage: -1,
		VictimPID:   -1,
	}

	if page, ok := o.Evicted(); ok {
		entry.EvictedPage = int64(page)
		entry.PagesFreed = 1
	}

	if pid, ok := o.Victim(); ok {
		entry.VictimPID = int64(pid)
		entry.PagesFreed = len(o.VictimPages)
	}

	return entry
}
