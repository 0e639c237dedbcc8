package fault

import (
	"fmt"

	"github.com/sarchlab/wssim/mem/vm"
)

// Resolution tells how a page request was served.
type Resolution int

// Resolutions of a page request.
const (
	// ResolutionHit means the page was resident.
	ResolutionHit Resolution = iota

	// ResolutionAdmit means a fault served from a free frame.
	ResolutionAdmit

	// ResolutionIntraEvict means a fault that replaced the least recently
	// used page of the requesting process.
	ResolutionIntraEvict

	// ResolutionGlobalEvict means a fault that emptied the working set of a
	// victim process before admitting the page.
	ResolutionGlobalEvict
)

func (r Resolution) String() string {
	switch r {
	case ResolutionHit:
		return "hit"
	case ResolutionAdmit:
		return "admit"
	case ResolutionIntraEvict:
		return "intra-evict"
	case ResolutionGlobalEvict:
		return "global-evict"
	default:
		return fmt.Sprintf("Resolution(%d)", int(r))
	}
}

// IsFault tells whether the request was a page fault.
func (r Resolution) IsFault() bool {
	return r != ResolutionHit
}

// Outcome describes a resolved page request.
type Outcome struct {
	PID        vm.PID
	Page       vm.PageNumber
	Resolution Resolution
	Frame      vm.Frame
	Address    vm.Address

	// EvictedPage is set for ResolutionIntraEvict.
	EvictedPage vm.PageNumber

	// VictimPID and VictimPages are set for ResolutionGlobalEvict.
	VictimPID   vm.PID
	VictimPages []vm.Binding
}

// IsHit tells whether the page was resident.
func (o Outcome) IsHit() bool {
	return o.Resolution == ResolutionHit
}

// Evicted returns the page the requester lost to make room, if any.
func (o Outcome) Evicted() (vm.PageNumber, bool) {
	return o.EvictedPage, o.Resolution == ResolutionIntraEvict
}

// Victim returns the process whose working set was emptied, if any.
func (o Outcome) Victim() (vm.PID, bool) {
	return o.VictimPID, o.Resolution == ResolutionGlobalEvict
}

// An Eviction records a whole-process eviction.
type Eviction struct {
	RequesterPID vm.PID
	VictimPID    vm.PID
	Bindings     []vm.Binding
}

// Residency is one resident page of a process and the address it lives at.
type Residency struct {
	Page    vm.PageNumber `json:"page"`
	Frame   vm.Frame      `json:"frame"`
	Address vm.Address    `json:"address"`
}

// FrameUse tells who, if anyone, occupies a frame.
type FrameUse struct {
	Frame    vm.Frame      `json:"frame"`
	Occupied bool          `json:"occupied"`
	PID      vm.PID        `json:"pid"`
	Page     vm.PageNumber `json:"page"`
}

// Stats are counters kept by the resolver.
type Stats struct {
	Requests        uint64 `json:"requests"`
	Hits            uint64 `json:"hits"`
	Faults          uint64 `json:"faults"`
	IntraEvictions  uint64 `json:"intra_evictions"`
	GlobalEvictions uint64 `json:"global_evictions"`
	PagesReclaimed  uint64 `json:"pages_reclaimed"`
	NumFrames       int    `json:"num_frames"`
	FreeFrames      int    `json:"free_frames"`
	NumProcesses    int    `json:"num_processes"`
	MaxProcesses    int    `json:"max_processes"`
}

// HitRatio returns hits over requests, or 0 before any request.
func (s Stats) HitRatio() float64 {
	if s.Requests == 0 {
		return 0
	}

	return float64(s.Hits) / float64(s.Requests)
}
