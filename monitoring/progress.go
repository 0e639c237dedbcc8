package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/wssim/mem/vm/driver"
	"github.com/sarchlab/wssim/sim"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// Done tells whether every element is finished.
func (b *ProgressBar) Done() bool {
	b.Lock()
	defer b.Unlock()

	return b.Finished >= b.Total
}

// IterationProgressHook advances a progress bar every time the driver
// completes an iteration.
type IterationProgressHook struct {
	bar *ProgressBar
}

// NewIterationProgressHook creates a hook that advances bar.
func NewIterationProgressHook(bar *ProgressBar) *IterationProgressHook {
	return &IterationProgressHook{bar: bar}
}

// Func counts completed iterations.
func (h *IterationProgressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != driver.HookPosTickEnd {
		return
	}

	h.bar.IncrementFinished(1)
}
