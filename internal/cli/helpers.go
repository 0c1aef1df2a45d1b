package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/biancatoto3/blockstep/internal/logging"
	"github.com/biancatoto3/blockstep/pkg/domain"
)

// signalCause is recorded as the cancellation cause when a signal, rather
// than normal completion, stops a run.
type signalCause struct{ sig os.Signal }

func (c signalCause) Error() string { return "received " + c.sig.String() }

// withInterrupt returns a context that is cancelled on SIGINT or SIGTERM,
// with the signal recorded as the cancellation cause. The returned stop
// function releases the handler.
func withInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			cancel(signalCause{sig: sig})
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(nil) }
}

// interruptSignal recovers the signal that cancelled ctx, or nil when the
// context ended for any other reason.
func interruptSignal(ctx context.Context) os.Signal {
	var cause signalCause
	if errors.As(context.Cause(ctx), &cause) {
		return cause.sig
	}
	return nil
}

// newLogger returns the CLI logger: debug text on stderr, or silence. Stderr
// keeps log lines apart from the stdout board UI.
func newLogger(debug bool) *slog.Logger {
	if !debug {
		return logging.NewNop()
	}
	return logging.New(slog.LevelDebug)
}

// announce prints a status line, visually separated from program output.
func announce(format string, args ...any) {
	fmt.Printf(">>> "+format+"\n", args...)
}

// debugHooks logs every lifecycle event at debug level.
func debugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Run Start", "run_id", e.RunID)
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Run End", "run_id", e.RunID, "outcome", e.Outcome, "steps", e.Steps)
		},
		OnHostCall: func(ctx context.Context, e *domain.HostCallEvent) {
			if e.IsError {
				logger.Debug("Host Call (Error)", "name", e.Name)
			} else {
				logger.Debug("Host Call", "name", e.Name, "async", e.Async)
			}
		},
		OnBoardChange: func(ctx context.Context, e *domain.BoardEvent) {
			logger.Debug("Board Update", "robot_x", e.Board.Robot.X, "robot_y", e.Board.Robot.Y, "move", e.Move)
		},
	}
}

// isInterrupted reports whether err is a user interruption rather than a
// real failure. errors.Is walks wrapped chains, so no manual unwrapping.
func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// handleExecutionError swallows interruptions so Ctrl+C exits with code 0.
func handleExecutionError(err error) error {
	if isInterrupted(err) {
		return nil
	}
	return err
}

// logCompletion reports how the run ended, on its own line when a signal
// interrupted the prompt.
func logCompletion(result domain.RunResult, quiet bool, sig os.Signal) {
	if quiet {
		return
	}
	switch {
	case sig == os.Interrupt:
		fmt.Printf("[CTRL+C]\n")
		announce("Interrupted after %d steps.", result.Steps)
	case sig != nil:
		fmt.Printf("\n")
		announce("Terminated after %d steps.", result.Steps)
	default:
		announce("Outcome: %s (%d steps in %s).", result.Outcome, result.Steps, result.Duration)
	}
}
