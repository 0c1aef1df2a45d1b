package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/biancatoto3/blockstep"
	"github.com/biancatoto3/blockstep/internal/adapters/lesson"
	"github.com/biancatoto3/blockstep/internal/presentation/tui"
	"github.com/biancatoto3/blockstep/pkg/domain"
	"github.com/biancatoto3/blockstep/pkg/ports"
)

// createEngine initializes an engine with standard CLI conventions: messages
// go to stdout, the board redraws after every move, debug hooks log to stderr.
func createEngine(opts RunOptions, logger *slog.Logger) *blockstep.Engine {
	engineOpts := []blockstep.Option{
		blockstep.WithLogger(logger),
		blockstep.WithNotifier(messageNotifier(opts.Quiet)),
	}

	if opts.Timeout > 0 {
		engineOpts = append(engineOpts, blockstep.WithRunTimeout(opts.Timeout))
	}
	if opts.PollInterval > 0 {
		engineOpts = append(engineOpts, blockstep.WithPollInterval(opts.PollInterval))
	}

	var hooks []domain.LifecycleHooks
	if opts.Debug {
		hooks = append(hooks, debugHooks(logger))
	}
	if !opts.Quiet {
		hooks = append(hooks, boardHooks())
	}
	if len(hooks) > 0 {
		engineOpts = append(engineOpts, blockstep.WithLifecycleHooks(domain.CombineHooks(hooks...)))
	}

	return blockstep.New(engineOpts...)
}

// messageNotifier prints learner messages as they arrive. Quiet mode keeps
// verdicts only.
func messageNotifier(quiet bool) ports.Notifier {
	return ports.NotifierFunc(func(msg domain.Message) {
		if quiet && msg.Kind != domain.MessageVerdict {
			return
		}
		fmt.Println(tui.RenderMessage(msg))
	})
}

// boardHooks redraws the board after every mutation.
func boardHooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBoardChange: func(_ context.Context, e *domain.BoardEvent) {
			fmt.Println(tui.RenderBoard(e.Board))
		},
	}
}

// openLessonSource opens the lessons directory as a document store.
func openLessonSource(dir string) (ports.LessonSource, error) {
	src, err := lesson.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open lessons %q: %w", dir, err)
	}
	return src, nil
}
