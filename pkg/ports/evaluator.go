package ports

import "github.com/biancatoto3/blockstep/pkg/domain"

// Evaluator is one sandboxed program instance. The execution loop drives it
// through ResumeOnce until the program completes or faults; the evaluator
// never runs on its own.
//
// Implementations are not goroutine safe. The loop serializes every call.
type Evaluator interface {
	// ResumeOnce executes at most one slice of the program.
	//
	// It returns StepBlocked while the program is suspended (an async host
	// call has not delivered its result yet), StepComplete when the program
	// ran to the end, and a non-nil error (*domain.FaultError) when the
	// program failed. After a fault or completion the evaluator is spent.
	ResumeOnce() (domain.StepStatus, error)

	// Close releases the script VM. Safe to call more than once; a closed
	// evaluator drops late continuation results on the floor.
	Close()
}

// EvaluatorFactory builds a fresh Evaluator for a compiled program bound to
// an API table. Construction validates the program's required bindings and
// compiles its source, so a broken program fails here, before any slice runs.
type EvaluatorFactory interface {
	New(program domain.Program, api *domain.APITable) (Evaluator, error)
}
