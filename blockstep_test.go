package blockstep

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biancatoto3/blockstep/pkg/blocks"
	"github.com/biancatoto3/blockstep/pkg/domain"
)

// msgRecorder captures notifier traffic for assertions.
type msgRecorder struct {
	mu   sync.Mutex
	msgs []domain.Message
}

func (r *msgRecorder) Notify(msg domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *msgRecorder) all() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Message(nil), r.msgs...)
}

func (r *msgRecorder) texts(kind domain.MessageKind) []string {
	var out []string
	for _, m := range r.all() {
		if m.Kind == kind {
			out = append(out, m.Text)
		}
	}
	return out
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *clock.Mock, *msgRecorder) {
	t.Helper()
	mock := clock.NewMock()
	rec := &msgRecorder{}
	base := []Option{
		WithClock(mock),
		WithPollInterval(30 * time.Millisecond),
		WithNotifier(rec),
	}
	return New(append(base, opts...)...), mock, rec
}

// moveChain builds a workspace of k chained move blocks.
func moveChain(k int) *domain.Workspace {
	var head *domain.Block
	for i := 0; i < k; i++ {
		head = &domain.Block{Type: blocks.TypeMoveForward, Next: head}
	}
	return &domain.Workspace{Blocks: []*domain.Block{head}}
}

func collect(t *testing.T) (func(domain.RunResult), <-chan domain.RunResult) {
	t.Helper()
	ch := make(chan domain.RunResult, 1)
	return func(r domain.RunResult) { ch <- r }, ch
}

func mustResult(t *testing.T, ch <-chan domain.RunResult) domain.RunResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	default:
		t.Fatal("run did not complete")
		return domain.RunResult{}
	}
}

func TestRunReachesGoal(t *testing.T) {
	eng, mock, rec := newTestEngine(t)

	onDone, ch := collect(t)
	id, err := eng.Run(moveChain(2), onDone)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	mock.Add(0) // first slice runs the whole synchronous program

	r := mustResult(t, ch)
	assert.Equal(t, id, r.RunID)
	assert.Equal(t, domain.OutcomeCompleted, r.Outcome)
	assert.True(t, r.GoalReached)
	assert.False(t, r.OutOfBounds)

	snap := eng.Snapshot()
	assert.Equal(t, domain.StatusIdle, snap.Status)
	assert.Equal(t, domain.Position{X: 0, Y: 2}, snap.Board.Robot)
	assert.Equal(t, domain.TextGoalReached, snap.Verdict)
	assert.Equal(t, []string{domain.TextGoalReached}, rec.texts(domain.MessageVerdict))
}

func TestRunMovesClampAtBoardEdge(t *testing.T) {
	for k := 0; k <= 5; k++ {
		t.Run(fmt.Sprintf("moves=%d", k), func(t *testing.T) {
			eng, mock, rec := newTestEngine(t)

			onDone, ch := collect(t)
			if k == 0 {
				// An empty chain is an empty workspace; run a say instead
				// so the program still completes without moving.
				ws := &domain.Workspace{Blocks: []*domain.Block{{
					Type:   blocks.TypeSay,
					Fields: map[string]any{blocks.FieldText: "idle"},
				}}}
				_, err := eng.Run(ws, onDone)
				require.NoError(t, err)
			} else {
				_, err := eng.Run(moveChain(k), onDone)
				require.NoError(t, err)
			}
			mock.Add(0)

			r := mustResult(t, ch)
			require.Equal(t, domain.OutcomeCompleted, r.Outcome)

			wantY := k
			if wantY > 2 {
				wantY = 2
			}
			board := eng.Board()
			assert.Equal(t, wantY, board.Robot.Y)
			assert.Equal(t, k > 2, board.OutOfBounds)
			assert.Equal(t, k > 2, r.OutOfBounds)

			if k > 2 {
				// The flag latches on the first illegal move; later moves
				// are swallowed without another warning.
				assert.Equal(t, []string{domain.TextOutOfBounds}, rec.texts(domain.MessageSystem))
				assert.Equal(t, []string{domain.TextOutOfBounds}, rec.texts(domain.MessageVerdict))
			}
		})
	}
}

func TestRunWaitsBlockUntilTimerFires(t *testing.T) {
	eng, mock, rec := newTestEngine(t)

	ws := &domain.Workspace{Blocks: []*domain.Block{{
		Type:   blocks.TypeSay,
		Fields: map[string]any{blocks.FieldText: "before"},
		Next: &domain.Block{
			Type:   blocks.TypeWaitSeconds,
			Fields: map[string]any{blocks.FieldSeconds: 0.5},
			Next:   &domain.Block{Type: blocks.TypeMoveForward},
		},
	}}}

	onDone, ch := collect(t)
	_, err := eng.Run(ws, onDone)
	require.NoError(t, err)

	mock.Add(0) // first slice: prints, arms the timer, suspends
	assert.Equal(t, domain.StatusBlocked, eng.Status())
	assert.Equal(t, []string{"before"}, rec.texts(domain.MessageProgram))

	mock.Add(400 * time.Millisecond) // polls pass, timer still pending
	assert.Equal(t, domain.StatusBlocked, eng.Status())
	assert.Equal(t, 0, eng.Board().Robot.Y)

	mock.Add(200 * time.Millisecond) // timer fires at 500ms, next poll resumes

	r := mustResult(t, ch)
	assert.Equal(t, domain.OutcomeCompleted, r.Outcome)
	assert.Equal(t, 1, eng.Board().Robot.Y)
	assert.Equal(t, domain.StatusIdle, eng.Status())
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	ws := &domain.Workspace{Blocks: []*domain.Block{{
		Type:   blocks.TypeWaitSeconds,
		Fields: map[string]any{blocks.FieldSeconds: 60},
	}}}

	onDone, ch := collect(t)
	id1, err := eng.Run(ws, onDone)
	require.NoError(t, err)
	mock.Add(0)

	_, err = eng.Run(moveChain(1), nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)
	assert.Equal(t, id1, eng.Snapshot().RunID)

	require.True(t, eng.Cancel())
	r := mustResult(t, ch)
	assert.Equal(t, domain.OutcomeCancelled, r.Outcome)

	// With the slot free again a new run is admitted.
	onDone2, ch2 := collect(t)
	_, err = eng.Run(moveChain(1), onDone2)
	require.NoError(t, err)
	mock.Add(0)
	assert.Equal(t, domain.OutcomeCompleted, mustResult(t, ch2).Outcome)
}

func TestCancelBeforeFirstSliceLeavesBoardUntouched(t *testing.T) {
	eng, mock, rec := newTestEngine(t)

	onDone, ch := collect(t)
	_, err := eng.Run(moveChain(3), onDone)
	require.NoError(t, err)

	require.True(t, eng.Cancel())
	mock.Add(time.Second)

	r := mustResult(t, ch)
	assert.Equal(t, domain.OutcomeCancelled, r.Outcome)
	assert.Equal(t, 0, r.Steps)

	board := eng.Board()
	assert.Equal(t, domain.Position{X: 0, Y: 0}, board.Robot)
	assert.False(t, board.OutOfBounds)
	assert.Empty(t, rec.all(), "a cancelled run must not publish messages")
	assert.Empty(t, eng.Snapshot().Verdict)
}

func TestCancelWithoutRun(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	assert.False(t, eng.Cancel())
}

func TestFaultingProgramReportsError(t *testing.T) {
	eng, mock, rec := newTestEngine(t)

	onDone, ch := collect(t)
	_, err := eng.RunSource(`moveForward()`+"\n"+`error("robot exploded")`, onDone)
	require.NoError(t, err)
	mock.Add(0)

	r := mustResult(t, ch)
	assert.Equal(t, domain.OutcomeFaulted, r.Outcome)
	require.Error(t, r.Err)
	assert.Contains(t, r.Err.Error(), "robot exploded")
	assert.True(t, r.Failed())

	// The move before the fault stays applied.
	assert.Equal(t, 1, eng.Board().Robot.Y)
	assert.Equal(t, []string{domain.TextProgramError}, rec.texts(domain.MessageVerdict))
}

func TestRunSourceRejectsBrokenScripts(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	_, err := eng.RunSource("for for for", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not compile")
	assert.Equal(t, domain.StatusIdle, eng.Status())
}

func TestRunFailsFastOnUnboundHostFunction(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	eng.Blocks().Register(blocks.Definition{
		Type:     "beep",
		Requires: []string{"beep"},
		Emit: func(g *blocks.Generator, _ *domain.Block) error {
			g.Line("beep()")
			return nil
		},
	})

	_, err := eng.Run(&domain.Workspace{Blocks: []*domain.Block{{Type: "beep"}}}, nil)
	assert.ErrorIs(t, err, domain.ErrMissingBinding)
	assert.Equal(t, domain.StatusIdle, eng.Status())
}

func TestCustomBlockWithCustomBinding(t *testing.T) {
	eng, mock, _ := newTestEngine(t)
	eng.Blocks().Register(blocks.Definition{
		Type:     "beep",
		Requires: []string{"beep"},
		Emit: func(g *blocks.Generator, _ *domain.Block) error {
			g.Line("beep()")
			return nil
		},
	})

	var beeps int
	eng.API().RegisterSync("beep", func(context.Context, []any) (any, error) {
		beeps++
		return nil, nil
	})

	onDone, ch := collect(t)
	_, err := eng.Run(&domain.Workspace{Blocks: []*domain.Block{{Type: "beep"}}}, onDone)
	require.NoError(t, err)
	mock.Add(0)

	assert.Equal(t, domain.OutcomeCompleted, mustResult(t, ch).Outcome)
	assert.Equal(t, 1, beeps)
}

func TestResetRestoresBoardAndVerdict(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	onDone, ch := collect(t)
	_, err := eng.Run(moveChain(4), onDone)
	require.NoError(t, err)
	mock.Add(0)
	require.True(t, mustResult(t, ch).OutOfBounds)

	eng.Reset()

	snap := eng.Snapshot()
	assert.Equal(t, domain.Position{X: 0, Y: 0}, snap.Board.Robot)
	assert.False(t, snap.Board.OutOfBounds)
	assert.Empty(t, snap.Verdict)

	// The board accepts moves again after the flag was cleared.
	onDone2, ch2 := collect(t)
	_, err = eng.Run(moveChain(2), onDone2)
	require.NoError(t, err)
	mock.Add(0)
	assert.True(t, mustResult(t, ch2).GoalReached)
}

func TestRunWaitDrivesRunToCompletion(t *testing.T) {
	eng := New(WithPollInterval(time.Millisecond))

	r, err := eng.RunWait(context.Background(), moveChain(2))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCompleted, r.Outcome)
	assert.True(t, r.GoalReached)
}

func TestRunWaitHonorsContextCancel(t *testing.T) {
	eng := New(WithPollInterval(time.Millisecond))

	ws := &domain.Workspace{Blocks: []*domain.Block{{
		Type:   blocks.TypeWaitSeconds,
		Fields: map[string]any{blocks.FieldSeconds: 3600},
	}}}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	r, err := eng.RunWait(ctx, ws)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.OutcomeCancelled, r.Outcome)
}

func TestCustomBoardLayout(t *testing.T) {
	board := domain.NewBoardAt(1, 5, domain.Position{X: 0, Y: 1}, domain.Position{X: 0, Y: 4})
	eng, mock, _ := newTestEngine(t, WithBoard(board))

	onDone, ch := collect(t)
	_, err := eng.Run(moveChain(3), onDone)
	require.NoError(t, err)
	mock.Add(0)

	r := mustResult(t, ch)
	assert.True(t, r.GoalReached)
	assert.False(t, r.OutOfBounds)
	assert.Equal(t, 4, eng.Board().Robot.Y)
}

func TestApplyLessonSwapsBoard(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	lesson := &domain.Lesson{
		ID:    "wide-walk",
		Title: "A longer walk",
		Rows:  1, Cols: 4,
		Goal: domain.Position{X: 0, Y: 3},
	}
	eng.ApplyLesson(lesson)

	onDone, ch := collect(t)
	_, err := eng.Run(moveChain(2), onDone)
	require.NoError(t, err)
	mock.Add(0)

	r := mustResult(t, ch)
	assert.Equal(t, domain.OutcomeCompleted, r.Outcome)
	assert.False(t, r.GoalReached, "goal sits at y=3 on the lesson board")
	assert.Equal(t, 2, eng.Board().Robot.Y)
}

func TestHooksObserveRunLifecycle(t *testing.T) {
	var mu sync.Mutex
	var trace []string
	record := func(kind string) {
		mu.Lock()
		defer mu.Unlock()
		trace = append(trace, kind)
	}

	hooks := domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, ev *domain.RunEvent) {
			record("start:" + string(ev.Type))
		},
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			record("end:" + string(ev.Outcome))
		},
		OnHostCall: func(_ context.Context, ev *domain.HostCallEvent) {
			record("call:" + ev.Name)
		},
		OnBoardChange: func(_ context.Context, ev *domain.BoardEvent) {
			record(fmt.Sprintf("board:%d", ev.Board.Robot.Y))
		},
	}

	eng, mock, _ := newTestEngine(t, WithLifecycleHooks(hooks))

	onDone, ch := collect(t)
	_, err := eng.Run(moveChain(2), onDone)
	require.NoError(t, err)
	mock.Add(0)
	mustResult(t, ch)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"start:run_start",
		"call:moveForward",
		"board:1",
		"call:moveForward",
		"board:2",
		"end:completed",
	}, trace)
}

func TestHostCallEventsCarryRunID(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	hooks := domain.LifecycleHooks{
		OnHostCall: func(_ context.Context, ev *domain.HostCallEvent) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, ev.RunID)
		},
	}

	eng, mock, _ := newTestEngine(t, WithLifecycleHooks(hooks))

	id, err := eng.Run(moveChain(1), nil)
	require.NoError(t, err)
	mock.Add(0)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, id, seen[0])
}

func TestSnapshotWhileBlockedShowsProgress(t *testing.T) {
	eng, mock, _ := newTestEngine(t)

	ws := &domain.Workspace{Blocks: []*domain.Block{{
		Type: blocks.TypeMoveForward,
		Next: &domain.Block{
			Type:   blocks.TypeWaitSeconds,
			Fields: map[string]any{blocks.FieldSeconds: 5},
		},
	}}}

	id, err := eng.Run(ws, nil)
	require.NoError(t, err)
	mock.Add(0)

	snap := eng.Snapshot()
	assert.Equal(t, domain.StatusBlocked, snap.Status)
	assert.Equal(t, id, snap.RunID)
	assert.Equal(t, 1, snap.Board.Robot.Y)
	assert.Empty(t, snap.Verdict)

	require.True(t, eng.Cancel())
}

func TestRepeatProgramEndToEnd(t *testing.T) {
	eng, mock, rec := newTestEngine(t)

	ws := &domain.Workspace{Blocks: []*domain.Block{{
		Type:   blocks.TypeRepeat,
		Fields: map[string]any{blocks.FieldTimes: 2},
		Inputs: map[string]*domain.Block{
			blocks.InputDo: {Type: blocks.TypeMoveForward},
		},
		Next: &domain.Block{
			Type:   blocks.TypeSay,
			Fields: map[string]any{blocks.FieldText: "arrived"},
		},
	}}}

	onDone, ch := collect(t)
	_, err := eng.Run(ws, onDone)
	require.NoError(t, err)
	mock.Add(0)

	r := mustResult(t, ch)
	assert.True(t, r.GoalReached)
	assert.Equal(t, []string{"arrived"}, rec.texts(domain.MessageProgram))
	assert.Equal(t, []string{domain.TextGoalReached}, rec.texts(domain.MessageVerdict))
}
