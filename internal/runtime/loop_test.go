package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biancatoto3/blockstep/pkg/domain"
	"github.com/biancatoto3/blockstep/pkg/ports"
)

// scriptedEvaluator plays back a fixed sequence of step results.
type scriptedEvaluator struct {
	mu      sync.Mutex
	steps   []scriptedStep
	pos     int
	closed  bool
	resumed int
}

type scriptedStep struct {
	status domain.StepStatus
	err    error
}

func (e *scriptedEvaluator) ResumeOnce() (domain.StepStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resumed++
	if e.pos >= len(e.steps) {
		return domain.StepComplete, nil
	}
	s := e.steps[e.pos]
	e.pos++
	return s.status, s.err
}

func (e *scriptedEvaluator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

func (e *scriptedEvaluator) stats() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resumed, e.closed
}

type scriptedFactory struct {
	next *scriptedEvaluator
	err  error
}

func (f *scriptedFactory) New(program domain.Program, api *domain.APITable) (ports.Evaluator, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.next, nil
}

func collectResult(t *testing.T) (func(domain.RunResult), func() []domain.RunResult) {
	t.Helper()
	var mu sync.Mutex
	var results []domain.RunResult
	return func(r domain.RunResult) {
			mu.Lock()
			defer mu.Unlock()
			results = append(results, r)
		}, func() []domain.RunResult {
			mu.Lock()
			defer mu.Unlock()
			return append([]domain.RunResult(nil), results...)
		}
}

func TestLoopCompletesSyncRun(t *testing.T) {
	mock := clock.NewMock()
	ev := &scriptedEvaluator{steps: []scriptedStep{{status: domain.StepComplete}}}
	loop := New(&scriptedFactory{next: ev}, WithClock(mock))

	onDone, results := collectResult(t)
	id, err := loop.Start(domain.Program{Source: "x"}, domain.NewAPITable(), onDone)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, domain.StatusRunning, loop.Status())

	mock.Add(0) // fire the first slice

	got := results()
	require.Len(t, got, 1)
	assert.Equal(t, domain.OutcomeCompleted, got[0].Outcome)
	assert.Equal(t, id, got[0].RunID)
	assert.Equal(t, 1, got[0].Steps)
	assert.Equal(t, domain.StatusIdle, loop.Status())

	_, closed := ev.stats()
	assert.True(t, closed)
}

func TestLoopPollsWhileBlocked(t *testing.T) {
	mock := clock.NewMock()
	ev := &scriptedEvaluator{steps: []scriptedStep{
		{status: domain.StepBlocked},
		{status: domain.StepBlocked},
		{status: domain.StepBlocked},
		{status: domain.StepComplete},
	}}
	loop := New(&scriptedFactory{next: ev}, WithClock(mock), WithPollInterval(10*time.Millisecond))

	onDone, results := collectResult(t)
	_, err := loop.Start(domain.Program{}, domain.NewAPITable(), onDone)
	require.NoError(t, err)

	mock.Add(0)
	assert.Equal(t, domain.StatusBlocked, loop.Status())
	assert.Empty(t, results())

	// Two more polls, still blocked.
	mock.Add(20 * time.Millisecond)
	assert.Equal(t, domain.StatusBlocked, loop.Status())
	assert.Empty(t, results())

	// The fourth slice completes.
	mock.Add(10 * time.Millisecond)
	got := results()
	require.Len(t, got, 1)
	assert.Equal(t, domain.OutcomeCompleted, got[0].Outcome)
	assert.Equal(t, 4, got[0].Steps)
	assert.Equal(t, 30*time.Millisecond, got[0].Duration)
}

func TestLoopRejectsSecondStart(t *testing.T) {
	mock := clock.NewMock()
	ev := &scriptedEvaluator{steps: []scriptedStep{{status: domain.StepBlocked}}}
	loop := New(&scriptedFactory{next: ev}, WithClock(mock))

	_, err := loop.Start(domain.Program{}, domain.NewAPITable(), nil)
	require.NoError(t, err)

	_, err = loop.Start(domain.Program{}, domain.NewAPITable(), nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)
}

func TestLoopStartFailsWhenFactoryFails(t *testing.T) {
	mock := clock.NewMock()
	loop := New(&scriptedFactory{err: domain.ErrMissingBinding}, WithClock(mock))

	_, err := loop.Start(domain.Program{}, domain.NewAPITable(), nil)
	assert.ErrorIs(t, err, domain.ErrMissingBinding)
	assert.Equal(t, domain.StatusIdle, loop.Status())

	// The failed start left nothing behind; a retry works.
	loop.factory = &scriptedFactory{next: &scriptedEvaluator{}}
	_, err = loop.Start(domain.Program{}, domain.NewAPITable(), nil)
	assert.NoError(t, err)
}

func TestLoopFaultTerminatesRun(t *testing.T) {
	mock := clock.NewMock()
	fault := &domain.FaultError{Detail: "boom"}
	ev := &scriptedEvaluator{steps: []scriptedStep{
		{status: domain.StepBlocked},
		{err: fault},
	}}
	loop := New(&scriptedFactory{next: ev}, WithClock(mock), WithPollInterval(10*time.Millisecond))

	onDone, results := collectResult(t)
	_, err := loop.Start(domain.Program{}, domain.NewAPITable(), onDone)
	require.NoError(t, err)

	mock.Add(10 * time.Millisecond)

	got := results()
	require.Len(t, got, 1)
	assert.Equal(t, domain.OutcomeFaulted, got[0].Outcome)
	assert.ErrorIs(t, got[0].Err, fault)
	assert.True(t, got[0].Failed())
	assert.Equal(t, domain.StatusIdle, loop.Status())

	// No further polls happen after the fault.
	mock.Add(time.Second)
	resumed, _ := ev.stats()
	assert.Equal(t, 2, resumed)
}

func TestLoopCancelBeforeFirstSlice(t *testing.T) {
	mock := clock.NewMock()
	ev := &scriptedEvaluator{steps: []scriptedStep{{status: domain.StepComplete}}}
	loop := New(&scriptedFactory{next: ev}, WithClock(mock))

	onDone, results := collectResult(t)
	_, err := loop.Start(domain.Program{}, domain.NewAPITable(), onDone)
	require.NoError(t, err)

	require.True(t, loop.Cancel())

	// The scheduled first slice fires into a dead handle: the evaluator is
	// never resumed.
	mock.Add(time.Second)
	resumed, closed := ev.stats()
	assert.Equal(t, 0, resumed)
	assert.True(t, closed)

	got := results()
	require.Len(t, got, 1)
	assert.Equal(t, domain.OutcomeCancelled, got[0].Outcome)
}

func TestLoopCancelIsIdempotent(t *testing.T) {
	mock := clock.NewMock()
	ev := &scriptedEvaluator{steps: []scriptedStep{{status: domain.StepBlocked}}}
	loop := New(&scriptedFactory{next: ev}, WithClock(mock))

	assert.False(t, loop.Cancel(), "cancel on idle loop")

	_, err := loop.Start(domain.Program{}, domain.NewAPITable(), nil)
	require.NoError(t, err)
	mock.Add(0)

	assert.True(t, loop.Cancel())
	assert.False(t, loop.Cancel())
	assert.Equal(t, domain.StatusIdle, loop.Status())
}

func TestLoopRestartAfterCancel(t *testing.T) {
	mock := clock.NewMock()
	first := &scriptedEvaluator{steps: []scriptedStep{{status: domain.StepBlocked}}}
	factory := &scriptedFactory{next: first}
	loop := New(factory, WithClock(mock), WithPollInterval(10*time.Millisecond))

	id1, err := loop.Start(domain.Program{}, domain.NewAPITable(), nil)
	require.NoError(t, err)
	mock.Add(0)
	require.True(t, loop.Cancel())

	second := &scriptedEvaluator{steps: []scriptedStep{{status: domain.StepComplete}}}
	factory.next = second
	onDone, results := collectResult(t)
	id2, err := loop.Start(domain.Program{}, domain.NewAPITable(), onDone)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	// Old poll timers must not resume the first evaluator.
	mock.Add(50 * time.Millisecond)
	firstResumed, _ := first.stats()
	assert.Equal(t, 1, firstResumed)

	got := results()
	require.Len(t, got, 1)
	assert.Equal(t, domain.OutcomeCompleted, got[0].Outcome)
	assert.Equal(t, id2, got[0].RunID)
}

func TestLoopHooksFireInOrder(t *testing.T) {
	mock := clock.NewMock()
	ev := &scriptedEvaluator{steps: []scriptedStep{{status: domain.StepComplete}}}

	var mu sync.Mutex
	var events []domain.EventType
	hooks := domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e.Type)
		},
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e.Type)
			assert.Equal(t, domain.OutcomeCompleted, e.Outcome)
		},
	}
	loop := New(&scriptedFactory{next: ev}, WithClock(mock), WithHooks(hooks))

	_, err := loop.Start(domain.Program{}, domain.NewAPITable(), nil)
	require.NoError(t, err)
	mock.Add(0)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.EventType{domain.EventRunStart, domain.EventRunEnd}, events)
}
