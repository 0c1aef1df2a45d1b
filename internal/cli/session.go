package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/biancatoto3/blockstep"
	"github.com/biancatoto3/blockstep/internal/compiler"
	"github.com/biancatoto3/blockstep/internal/presentation/tui"
)

// RunSession executes one workspace run from start to verdict.
func RunSession(opts RunOptions) error {
	logger := newLogger(opts.Debug)

	if !opts.Quiet {
		tui.PrintBanner()
	}

	ctx, stop := withInterrupt(context.Background())
	defer stop()

	return handleExecutionError(runOnce(ctx, opts, logger))
}

// runOnce builds an engine, loads the lesson and the workspace, and drives a
// single run to its verdict. Watch mode calls it once per change.
func runOnce(ctx context.Context, opts RunOptions, logger *slog.Logger) error {
	engine := createEngine(opts, logger)

	if opts.LessonID != "" {
		if err := applyLesson(ctx, engine, opts); err != nil {
			return err
		}
	}

	ws, err := compiler.DecodeFile(opts.WorkspacePath)
	if err != nil {
		return fmt.Errorf("load workspace: %w", err)
	}

	if !opts.Quiet {
		fmt.Println(tui.RenderBoard(engine.Board()))
	}

	result, err := engine.RunWait(ctx, ws)
	if err != nil && !isInterrupted(err) {
		return err
	}

	logCompletion(result, opts.Quiet, interruptSignal(ctx))
	if result.Failed() {
		return result.Err
	}
	return ctx.Err()
}

// applyLesson loads the lesson, swaps the board, and shows the instructions.
func applyLesson(ctx context.Context, engine *blockstep.Engine, opts RunOptions) error {
	src, err := openLessonSource(opts.LessonsDir)
	if err != nil {
		return err
	}
	lesson, err := src.Get(ctx, opts.LessonID)
	if err != nil {
		return err
	}
	engine.ApplyLesson(lesson)

	if opts.Quiet || lesson.Instructions == "" {
		return nil
	}
	fmt.Print(tui.RenderInstructions(lesson.Instructions))
	announce("Lesson '%s' loaded.", lesson.Title)
	return nil
}
