// Package report prints what happens during a simulation in a human-readable
// form.
package report

import (
	"fmt"
	"log"
	"sort"

	"github.com/sarchlab/wssim/mem/vm"
	"github.com/sarchlab/wssim/mem/vm/driver"
	"github.com/sarchlab/wssim/mem/vm/fault"
	"github.com/sarchlab/wssim/sim"
)

// ResidencyDescriber lists the resident pages of a process.
type ResidencyDescriber interface {
	DescribeResidency(pid vm.PID) ([]fault.Residency, error)
}

// ConsoleHook logs requests, their outcomes and the residency table of the
// requesting process. Attach it to both the driver and the resolver.
type ConsoleHook struct {
	sim.LogHookBase

	residency ResidencyDescriber
}

// NewConsoleHook creates a ConsoleHook writing to logger.
func NewConsoleHook(
	logger *log.Logger,
	residency ResidencyDescriber,
) *ConsoleHook {
	h := new(ConsoleHook)
	h.Logger = logger
	h.residency = residency

	return h
}

// Func prints one line per hook position it knows.
func (h *ConsoleHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case driver.HookPosRequest:
		h.logRequest(ctx.Item.(driver.Request))
	case driver.HookPosTickEnd:
		h.Printf("==== iteration %d done ====", ctx.Item.(int))
	case fault.HookPosPageHit, fault.HookPosPageFault:
		h.logOutcome(ctx.Item.(fault.Outcome))
	case fault.HookPosProcessEvicted:
		e := ctx.Item.(fault.Eviction)
		h.Printf("memory full, process %d lost %d pages",
			e.VictimPID, len(e.Bindings))
	}
}

func (h *ConsoleHook) logRequest(req driver.Request) {
	if req.Admission {
		h.Printf("process %d created, requesting page %d", req.PID, req.Page)
		return
	}

	h.Printf("process %d requesting page %d", req.PID, req.Page)
}

func (h *ConsoleHook) logOutcome(o fault.Outcome) {
	switch o.Resolution {
	case fault.ResolutionHit:
		h.Printf("page %d found at %#x (frame %d)", o.Page, o.Address, o.Frame)
	case fault.ResolutionIntraEvict:
		h.Printf("page %d removed, page %d added at %#x (frame %d)",
			o.EvictedPage, o.Page, o.Address, o.Frame)
	default:
		h.Printf("page %d added at %#x (frame %d)", o.Page, o.Address, o.Frame)
	}

	h.logResidency(o.PID)
}

func (h *ConsoleHook) logResidency(pid vm.PID) {
	residency, err := h.residency.DescribeResidency(pid)
	if err != nil {
		log.Panic(err)
	}

	for _, line := range ResidencyTable(pid, residency) {
		h.Print(line)
	}
}

// ResidencyTable formats the resident pages of a process ordered by page
// number.
func ResidencyTable(pid vm.PID, residency []fault.Residency) []string {
	sorted := make([]fault.Residency, len(residency))
	copy(sorted, residency)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Page < sorted[j].Page
	})

	const rule = "-------------------------------"

	lines := []string{rule, fmt.Sprintf("| process %-2d", pid), rule}
	for _, r := range sorted {
		lines = append(lines,
			fmt.Sprintf("| page %02d | frame %02d | %#x |", r.Page, r.Frame, r.Address),
			rule)
	}

	return lines
}
