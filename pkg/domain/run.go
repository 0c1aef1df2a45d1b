package domain

import "time"

// RunStatus describes what the engine is doing right now.
type RunStatus string

const (
	StatusIdle    RunStatus = "idle"    // No program active
	StatusRunning RunStatus = "running" // A slice is executing or scheduled
	StatusBlocked RunStatus = "blocked" // Suspended on an async host call, polling for its result
)

// StepStatus is the result of resuming the evaluator for one slice.
type StepStatus string

const (
	StepBlocked  StepStatus = "blocked"  // Program yielded; resume again later
	StepComplete StepStatus = "complete" // Program ran to the end
)

// Outcome is the terminal result of a run.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFaulted   Outcome = "faulted"
	OutcomeCancelled Outcome = "cancelled"
)

// RunResult is delivered to the completion callback exactly once per run.
type RunResult struct {
	RunID   string  `json:"run_id"`
	Outcome Outcome `json:"outcome"`

	// Err carries the fault when Outcome is OutcomeFaulted.
	Err error `json:"-"`

	// GoalReached and OutOfBounds capture the board verdict at the moment
	// the run ended.
	GoalReached bool `json:"goal_reached"`
	OutOfBounds bool `json:"out_of_bounds"`

	// Steps counts evaluator slices consumed, Duration the wall time from
	// start to the terminal transition.
	Steps    int           `json:"steps"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the run ended in a fault.
func (r RunResult) Failed() bool {
	return r.Outcome == OutcomeFaulted
}

// Snapshot is the read model handed to UIs. It is a value copy; mutating it
// does not touch the live engine state.
type Snapshot struct {
	Status  RunStatus `json:"status"`
	RunID   string    `json:"run_id,omitempty"`
	Board   Board     `json:"board"`
	Verdict string    `json:"verdict,omitempty"`
}
