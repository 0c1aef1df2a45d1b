package cli

import (
	"bytes"
	"context"
	"crypto/md5"
	"os"
	"time"

	"github.com/biancatoto3/blockstep/internal/presentation/tui"
)

// watchPollInterval is how often the workspace file is checked for changes.
const watchPollInterval = 500 * time.Millisecond

// RunWatch executes the workspace in development mode, re-running it every
// time the file changes on disk.
func RunWatch(opts RunOptions) error {
	logger := newLogger(opts.Debug)

	if !opts.Quiet {
		tui.PrintBanner()
	}

	ctx, stop := withInterrupt(context.Background())
	defer stop()

	logger.Info("Starting Watcher", "path", opts.WorkspacePath)
	announce("Watching '%s'. Press Ctrl+C to stop.", opts.WorkspacePath)

	for {
		if err := handleExecutionError(runOnce(ctx, opts, logger)); err != nil {
			// A broken workspace is normal mid-edit. Report and keep watching.
			logger.Error("Run failed", "err", err)
			announce("Error: %v", err)
		}
		if ctx.Err() != nil {
			return nil
		}

		announce("Waiting for changes...")
		if !waitForChange(ctx, opts.WorkspacePath) {
			return nil
		}
		announce("Change detected in '%s'.", opts.WorkspacePath)
		// Delay slightly to ensure the file system is stable
		time.Sleep(100 * time.Millisecond)
	}
}

// waitForChange blocks until the file's content digest changes or the context
// is cancelled. It reports false on cancellation.
func waitForChange(ctx context.Context, path string) bool {
	baseline := fileDigest(path)

	ticker := time.NewTicker(watchPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if current := fileDigest(path); !bytes.Equal(current, baseline) {
				return true
			}
		}
	}
}

// fileDigest hashes the file content. Read errors (file mid-save, removed)
// yield a nil digest, which simply reads as "changed" once it is back.
func fileDigest(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	sum := md5.Sum(data)
	return sum[:]
}
