package runtime

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/biancatoto3/blockstep/pkg/domain"
	"github.com/biancatoto3/blockstep/pkg/ports"
)

// handle is the loop's bookkeeping for the single in-flight run. At most one
// exists; it is created by Start and destroyed on the terminal transition.
type handle struct {
	id        string
	program   domain.Program
	evaluator ports.Evaluator
	status    domain.RunStatus
	onDone    func(domain.RunResult)

	timer     *clock.Timer
	startedAt time.Time
	steps     int
	cancelled bool
}

// stopTimer clears the pending poll, if any.
func (h *handle) stopTimer() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

// result assembles the terminal result for this handle.
func (h *handle) result(outcome domain.Outcome, err error, now time.Time) domain.RunResult {
	return domain.RunResult{
		RunID:    h.id,
		Outcome:  outcome,
		Err:      err,
		Steps:    h.steps,
		Duration: now.Sub(h.startedAt),
	}
}
