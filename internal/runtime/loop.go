// Package runtime drives sandboxed programs to completion. The Loop owns the
// single in-flight run and resumes it in bounded slices on a polling
// schedule: while the program is suspended on an async host call, the loop
// re-checks after a fixed interval rather than waking on the result. That
// keeps the control flow single-threaded and the completion latency bounded
// by the interval.
package runtime

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/biancatoto3/blockstep/pkg/domain"
	"github.com/biancatoto3/blockstep/pkg/ports"
)

// DefaultPollInterval is the re-check delay while a run is blocked.
const DefaultPollInterval = 10 * time.Millisecond

// Loop schedules program slices. Every state transition happens under one
// mutex; timer callbacks re-enter through the same lock, so the run behaves
// as a single cooperative thread of control.
type Loop struct {
	mu       sync.Mutex
	factory  ports.EvaluatorFactory
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	handle *handle
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock injects the clock used for poll scheduling. Tests pass a mock.
func WithClock(c clock.Clock) Option {
	return func(l *Loop) {
		l.clock = c
	}
}

// WithPollInterval sets the blocked re-check delay.
func WithPollInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithHooks registers run lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(l *Loop) {
		l.hooks = hooks
	}
}

// New creates a Loop over the given evaluator factory.
func New(factory ports.EvaluatorFactory, opts ...Option) *Loop {
	l := &Loop{
		factory:  factory,
		clock:    clock.New(),
		interval: DefaultPollInterval,
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start builds an evaluator for the program and schedules its first slice.
// It fails with domain.ErrAlreadyRunning while a run is active, and with the
// factory's error when the program or its bindings are broken. onDone is
// invoked exactly once with the terminal result.
//
// The first slice runs from the scheduler, never inline: a Cancel that lands
// before it observes a program that touched nothing.
func (l *Loop) Start(program domain.Program, api *domain.APITable, onDone func(domain.RunResult)) (string, error) {
	l.mu.Lock()
	if l.handle != nil {
		l.mu.Unlock()
		return "", domain.ErrAlreadyRunning
	}

	evaluator, err := l.factory.New(program, api)
	if err != nil {
		l.mu.Unlock()
		return "", err
	}

	if onDone == nil {
		onDone = func(domain.RunResult) {}
	}

	h := &handle{
		id:        uuid.NewString(),
		program:   program,
		evaluator: evaluator,
		status:    domain.StatusRunning,
		onDone:    onDone,
		startedAt: l.clock.Now(),
	}
	l.handle = h
	l.logger.Debug("run started", "run_id", h.id, "blocks", program.Blocks)
	l.mu.Unlock()

	if l.hooks.OnRunStart != nil {
		l.hooks.OnRunStart(context.Background(), &domain.RunEvent{
			EventBase: l.eventBase(domain.EventRunStart, h.id),
			Status:    domain.StatusRunning,
		})
	}

	// Schedule the first slice only after the start hook fired, so run_end
	// can never overtake run_start. A cancel that already landed wins.
	l.mu.Lock()
	if l.handle == h && !h.cancelled {
		h.timer = l.clock.AfterFunc(0, func() { l.step(h.id) })
	}
	l.mu.Unlock()
	return h.id, nil
}

// step executes one poll tick for the identified run. Stale timers (the run
// ended or was cancelled meanwhile) fall through without effect.
func (l *Loop) step(id string) {
	l.mu.Lock()
	h := l.handle
	if h == nil || h.id != id || h.cancelled {
		l.mu.Unlock()
		return
	}

	h.steps++
	status, err := h.evaluator.ResumeOnce()

	if err != nil {
		l.finishLocked(h, domain.OutcomeFaulted, err)
		return
	}
	if status == domain.StepComplete {
		l.finishLocked(h, domain.OutcomeCompleted, nil)
		return
	}

	h.status = domain.StatusBlocked
	h.timer = l.clock.AfterFunc(l.interval, func() { l.step(id) })
	l.mu.Unlock()
}

// finishLocked performs the terminal transition. It is entered with the lock
// held and releases it before invoking callbacks, so hooks and the
// completion callback can call back into the loop.
func (l *Loop) finishLocked(h *handle, outcome domain.Outcome, err error) {
	h.stopTimer()
	h.evaluator.Close()
	result := h.result(outcome, err, l.clock.Now())
	l.handle = nil

	l.logger.Debug("run finished",
		"run_id", result.RunID,
		"outcome", result.Outcome,
		"steps", result.Steps,
		"err", err,
	)
	l.mu.Unlock()

	h.onDone(result)
	if l.hooks.OnRunEnd != nil {
		l.hooks.OnRunEnd(context.Background(), &domain.RunEvent{
			EventBase: l.eventBase(domain.EventRunEnd, result.RunID),
			Outcome:   result.Outcome,
			Steps:     result.Steps,
			Duration:  result.Duration,
		})
	}
}

// Cancel stops the active run without resuming it again. It reports whether
// a run was cancelled; cancelling an idle loop is a no-op.
func (l *Loop) Cancel() bool {
	l.mu.Lock()
	h := l.handle
	if h == nil {
		l.mu.Unlock()
		return false
	}
	h.cancelled = true
	l.finishLocked(h, domain.OutcomeCancelled, nil)
	return true
}

// Status returns the current run status, StatusIdle when nothing is active.
func (l *Loop) Status() domain.RunStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == nil {
		return domain.StatusIdle
	}
	return l.handle.status
}

// RunID returns the active run's identifier, "" when idle.
func (l *Loop) RunID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == nil {
		return ""
	}
	return l.handle.id
}

func (l *Loop) eventBase(t domain.EventType, runID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: l.clock.Now(),
		Type:      t,
		RunID:     runID,
	}
}
