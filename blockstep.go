package blockstep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/biancatoto3/blockstep/internal/compiler"
	"github.com/biancatoto3/blockstep/internal/runtime"
	"github.com/biancatoto3/blockstep/internal/sandbox"
	"github.com/biancatoto3/blockstep/pkg/blocks"
	"github.com/biancatoto3/blockstep/pkg/domain"
	"github.com/biancatoto3/blockstep/pkg/ports"
)

// DefaultRunTimeout bounds the total script time of a single run. It is a
// guard against runaway loops, not a scheduling mechanism.
const DefaultRunTimeout = 10 * time.Second

// Engine is the high-level entry point for the library. It wires the block
// compiler, the sandboxed evaluator, and the stepping loop behind one facade,
// owns the board the programs act on, and installs the stock host functions
// (moveForward, waitForSeconds, print).
//
// One Engine drives at most one run at a time; starting a second run while
// one is active fails with domain.ErrAlreadyRunning.
type Engine struct {
	compiler *compiler.Compiler
	factory  ports.EvaluatorFactory
	loop     *runtime.Loop
	api      *domain.APITable

	clk      clock.Clock
	logger   *slog.Logger
	notifier ports.Notifier
	hooks    domain.LifecycleHooks

	pollInterval time.Duration
	runTimeout   time.Duration

	mu      sync.Mutex
	board   *domain.Board
	runID   string
	verdict string
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock injects the clock used for scheduling slices and timing waits.
// Tests pass a mock clock to drive runs deterministically.
func WithClock(clk clock.Clock) Option {
	return func(e *Engine) {
		e.clk = clk
	}
}

// WithPollInterval sets the delay between evaluator slices while a run is
// blocked on an async host call.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.pollInterval = d
	}
}

// WithRunTimeout bounds the total script time of one run. Zero disables the
// guard.
func WithRunTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.runTimeout = d
	}
}

// WithBoard replaces the default 3x3 board.
func WithBoard(b *domain.Board) Option {
	return func(e *Engine) {
		if b != nil {
			e.board = b
		}
	}
}

// WithNotifier adds a sink for learner-facing messages. Repeated use fans
// out to every sink in registration order.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) {
		if n == nil {
			return
		}
		if e.notifier == nil {
			e.notifier = n
			return
		}
		e.notifier = ports.MultiNotifier(e.notifier, n)
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCompiler injects a compiler, e.g. one built over a custom block
// registry.
func WithCompiler(c *compiler.Compiler) Option {
	return func(e *Engine) {
		if c != nil {
			e.compiler = c
		}
	}
}

// WithEvaluatorFactory replaces the sandboxed Lua evaluator. Mostly useful
// in tests.
func WithEvaluatorFactory(f ports.EvaluatorFactory) Option {
	return func(e *Engine) {
		if f != nil {
			e.factory = f
		}
	}
}

// New assembles an Engine. The zero configuration is fully usable: default
// board, builtin blocks, real clock, silent logger.
func New(opts ...Option) *Engine {
	e := &Engine{
		pollInterval: runtime.DefaultPollInterval,
		runTimeout:   DefaultRunTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if e.clk == nil {
		e.clk = clock.New()
	}
	if e.board == nil {
		e.board = domain.NewBoard()
	}
	if e.notifier == nil {
		e.notifier = ports.NotifierFunc(func(domain.Message) {})
	}
	if e.compiler == nil {
		e.compiler = compiler.New()
	}
	if e.factory == nil {
		e.factory = sandbox.NewFactory(sandbox.WithRunTimeout(e.runTimeout))
	}

	e.api = domain.NewAPITable()
	e.api.RegisterSync(blocks.HostMoveForward, e.hostMoveForward)
	e.api.RegisterAsync(blocks.HostWaitForSeconds, e.hostWaitForSeconds)
	e.api.RegisterSync(blocks.HostPrint, e.hostPrint)

	e.loop = runtime.New(e.factory,
		runtime.WithClock(e.clk),
		runtime.WithPollInterval(e.pollInterval),
		runtime.WithLogger(e.logger),
		runtime.WithHooks(e.wrapHooks()),
	)
	return e
}

// wrapHooks tracks the active run id around the user hooks, so host call
// events can be tagged without touching the loop.
func (e *Engine) wrapHooks() domain.LifecycleHooks {
	user := e.hooks
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, ev *domain.RunEvent) {
			e.mu.Lock()
			e.runID = ev.RunID
			e.mu.Unlock()
			if user.OnRunStart != nil {
				user.OnRunStart(ctx, ev)
			}
		},
		OnRunEnd: func(ctx context.Context, ev *domain.RunEvent) {
			e.mu.Lock()
			if e.runID == ev.RunID {
				e.runID = ""
			}
			e.mu.Unlock()
			if user.OnRunEnd != nil {
				user.OnRunEnd(ctx, ev)
			}
		},
		OnHostCall:    user.OnHostCall,
		OnBoardChange: user.OnBoardChange,
	}
}

// Compile turns a workspace into a runnable program without starting it.
func (e *Engine) Compile(ws *domain.Workspace) (domain.Program, error) {
	return e.compiler.Compile(ws)
}

// Validate reports every problem in the workspace without generating code.
func (e *Engine) Validate(ws *domain.Workspace) []domain.Diagnostic {
	return e.compiler.Validate(ws)
}

// Run compiles the workspace and starts it. It returns the run id as soon as
// the run is admitted; the program itself executes in the background, one
// slice at a time. onDone, if not nil, receives the result exactly once.
func (e *Engine) Run(ws *domain.Workspace, onDone func(domain.RunResult)) (string, error) {
	prog, err := e.compiler.Compile(ws)
	if err != nil {
		return "", fmt.Errorf("compile workspace: %w", err)
	}
	return e.start(prog, onDone)
}

// RunSource starts a raw script, bypassing the block compiler. Intended for
// embedding and the CLI; host bindings are resolved at call time rather than
// validated up front.
func (e *Engine) RunSource(source string, onDone func(domain.RunResult)) (string, error) {
	return e.start(domain.Program{Source: source, CompiledAt: time.Now()}, onDone)
}

// RunProgram starts an already compiled program.
func (e *Engine) RunProgram(prog domain.Program, onDone func(domain.RunResult)) (string, error) {
	return e.start(prog, onDone)
}

// RunWait compiles the workspace, runs it, and blocks until the run ends or
// ctx is cancelled. Cancelling ctx cancels the run; the cancelled result is
// still returned alongside ctx's error.
func (e *Engine) RunWait(ctx context.Context, ws *domain.Workspace) (domain.RunResult, error) {
	done := make(chan domain.RunResult, 1)
	if _, err := e.Run(ws, func(r domain.RunResult) { done <- r }); err != nil {
		return domain.RunResult{}, err
	}
	select {
	case r := <-done:
		return r, nil
	case <-ctx.Done():
		e.Cancel()
		return <-done, ctx.Err()
	}
}

func (e *Engine) start(prog domain.Program, onDone func(domain.RunResult)) (string, error) {
	return e.loop.Start(prog, e.api, func(r domain.RunResult) {
		e.finish(r, onDone)
	})
}

// finish enriches the loop's result with the board verdict, publishes the
// verdict message, and forwards to the caller's callback.
func (e *Engine) finish(r domain.RunResult, onDone func(domain.RunResult)) {
	e.mu.Lock()
	r.GoalReached = e.board.GoalReached()
	r.OutOfBounds = e.board.OutOfBounds

	var msg domain.Message
	switch r.Outcome {
	case domain.OutcomeCompleted:
		msg = domain.Verdict(e.board)
	case domain.OutcomeFaulted:
		msg = domain.Message{Kind: domain.MessageVerdict, Text: domain.TextProgramError}
	}
	if msg.Text != "" {
		e.verdict = msg.Text
	}
	e.mu.Unlock()

	if msg.Text != "" {
		e.notifier.Notify(msg)
	}
	if onDone != nil {
		onDone(r)
	}
}

// Cancel stops the active run, if any. It reports whether a run was
// cancelled and is safe to call at any time.
func (e *Engine) Cancel() bool {
	return e.loop.Cancel()
}

// Reset cancels any active run and restores the board to its starting
// layout. The next run starts from a clean slate.
func (e *Engine) Reset() {
	e.loop.Cancel()

	e.mu.Lock()
	e.board.Reset()
	e.verdict = ""
	board := e.board.Clone()
	e.mu.Unlock()

	if e.hooks.OnBoardChange != nil {
		e.hooks.OnBoardChange(context.Background(), &domain.BoardEvent{
			EventBase: domain.EventBase{Timestamp: e.clk.Now(), Type: domain.EventBoard},
			Board:     board,
		})
	}
}

// ApplyLesson swaps the board for the lesson's layout, cancelling any active
// run first.
func (e *Engine) ApplyLesson(l *domain.Lesson) {
	if l == nil {
		return
	}
	e.loop.Cancel()

	e.mu.Lock()
	e.board = l.Board()
	e.verdict = ""
	e.mu.Unlock()
}

// Snapshot returns a copy of the observable engine state.
func (e *Engine) Snapshot() domain.Snapshot {
	status := e.loop.Status()
	runID := e.loop.RunID()

	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.Snapshot{
		Status:  status,
		RunID:   runID,
		Board:   e.board.Clone(),
		Verdict: e.verdict,
	}
}

// Board returns a copy of the current board.
func (e *Engine) Board() domain.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.Clone()
}

// Status reports what the engine is doing right now.
func (e *Engine) Status() domain.RunStatus {
	return e.loop.Status()
}

// Blocks exposes the block registry for registering custom blocks. Pair new
// blocks with host bindings registered through API.
func (e *Engine) Blocks() *blocks.Registry {
	return e.compiler.Registry()
}

// API exposes the host function table. Custom bindings registered here are
// visible to the next run.
func (e *Engine) API() *domain.APITable {
	return e.api
}

// hostMoveForward advances the robot one cell. Once the board is flagged out
// of bounds, further moves are ignored until Reset.
func (e *Engine) hostMoveForward(ctx context.Context, args []any) (any, error) {
	e.mu.Lock()
	outcome := e.board.MoveForward()
	board := e.board.Clone()
	runID := e.runID
	e.mu.Unlock()

	e.emitHostCall(ctx, runID, blocks.HostMoveForward, args, false)

	if outcome != domain.MoveIgnored && e.hooks.OnBoardChange != nil {
		e.hooks.OnBoardChange(ctx, &domain.BoardEvent{
			EventBase: domain.EventBase{Timestamp: e.clk.Now(), Type: domain.EventBoard, RunID: runID},
			Board:     board,
			Move:      outcome,
		})
	}
	if outcome == domain.MoveOutOfBounds {
		e.notifier.Notify(domain.Message{Kind: domain.MessageSystem, Text: domain.TextOutOfBounds})
	}
	return nil, nil
}

// hostWaitForSeconds suspends the program and arms a timer; the run stays
// blocked until the timer fires and the next poll observes it.
func (e *Engine) hostWaitForSeconds(ctx context.Context, args []any, resume domain.Continuation) error {
	secs := 1.0
	if len(args) > 0 {
		f, ok := args[0].(float64)
		if !ok {
			return fmt.Errorf("waitForSeconds: number expected, got %T", args[0])
		}
		secs = f
	}
	if secs < 0 {
		secs = 0
	}

	e.mu.Lock()
	runID := e.runID
	e.mu.Unlock()
	e.emitHostCall(ctx, runID, blocks.HostWaitForSeconds, args, true)

	e.clk.AfterFunc(time.Duration(secs*float64(time.Second)), func() {
		resume(nil)
	})
	return nil
}

// hostPrint forwards program output to the notifier.
func (e *Engine) hostPrint(ctx context.Context, args []any) (any, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = formatValue(a)
	}

	e.mu.Lock()
	runID := e.runID
	e.mu.Unlock()
	e.emitHostCall(ctx, runID, blocks.HostPrint, args, false)

	e.notifier.Notify(domain.Message{Kind: domain.MessageProgram, Text: strings.Join(parts, "\t")})
	return nil, nil
}

func (e *Engine) emitHostCall(ctx context.Context, runID, name string, args []any, async bool) {
	if e.hooks.OnHostCall == nil {
		return
	}
	e.hooks.OnHostCall(ctx, &domain.HostCallEvent{
		EventBase: domain.EventBase{Timestamp: e.clk.Now(), Type: domain.EventHostCall, RunID: runID},
		Name:      name,
		Args:      args,
		Async:     async,
	})
}

// formatValue renders a host call argument the way Lua's print would.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return blocks.FormatLuaNumber(x)
	default:
		return fmt.Sprint(x)
	}
}
