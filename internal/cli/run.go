package cli

import (
	"time"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	WorkspacePath string
	LessonsDir    string
	LessonID      string
	Debug         bool
	Quiet         bool
	Watch         bool
	Timeout       time.Duration
	PollInterval  time.Duration
}

// Execute handles the 'run' command logic, dispatching to Watch or Session mode.
func Execute(opts RunOptions) error {
	if opts.Watch {
		return RunWatch(opts)
	}
	return RunSession(opts)
}
