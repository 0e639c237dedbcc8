package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/wssim/mem/vm/fault"
)

// WriteSummary prints the resolver counters as an aligned table.
func WriteSummary(w io.Writer, s fault.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	rows := []struct {
		name  string
		value any
	}{
		{"requests", s.Requests},
		{"hits", s.Hits},
		{"faults", s.Faults},
		{"hit ratio", fmt.Sprintf("%.4f", s.HitRatio())},
		{"intra-process evictions", s.IntraEvictions},
		{"process evictions", s.GlobalEvictions},
		{"pages reclaimed", s.PagesReclaimed},
		{"frames in use", fmt.Sprintf("%d/%d", s.NumFrames-s.FreeFrames, s.NumFrames)},
		{"processes", fmt.Sprintf("%d/%d", s.NumProcesses, s.MaxProcesses)},
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%v\n", row.name, row.value); err != nil {
			return err
		}
	}

	return tw.Flush()
}
