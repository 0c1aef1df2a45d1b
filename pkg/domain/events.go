package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventRunEnd   EventType = "run_end"
	EventHostCall EventType = "host_call"
	EventBoard    EventType = "board_update"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
}

// RunEvent marks a run entering or leaving the engine.
type RunEvent struct {
	EventBase
	Status   RunStatus     `json:"status,omitempty"`
	Outcome  Outcome       `json:"outcome,omitempty"` // Set on run_end only
	Steps    int           `json:"steps,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// HostCallEvent records one call crossing from the sandbox into the host.
type HostCallEvent struct {
	EventBase
	Name    string `json:"name"`
	Args    []any  `json:"args,omitempty"`
	Async   bool   `json:"async,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}

// BoardEvent records a board mutation (or a suppressed one).
type BoardEvent struct {
	EventBase
	Board Board       `json:"board"`
	Move  MoveOutcome `json:"move,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability. Nil fields are
// skipped. Hooks run on the engine's scheduling goroutine and must be fast;
// anything slow belongs behind a channel.
type LifecycleHooks struct {
	OnRunStart    func(context.Context, *RunEvent)
	OnRunEnd      func(context.Context, *RunEvent)
	OnHostCall    func(context.Context, *HostCallEvent)
	OnBoardChange func(context.Context, *BoardEvent)
}

// CombineHooks fans each event out to every hook set, in argument order.
// Nil fields are skipped, so sparse hook sets compose cleanly.
func CombineHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: func(ctx context.Context, ev *RunEvent) {
			for _, h := range hooks {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, ev)
				}
			}
		},
		OnRunEnd: func(ctx context.Context, ev *RunEvent) {
			for _, h := range hooks {
				if h.OnRunEnd != nil {
					h.OnRunEnd(ctx, ev)
				}
			}
		},
		OnHostCall: func(ctx context.Context, ev *HostCallEvent) {
			for _, h := range hooks {
				if h.OnHostCall != nil {
					h.OnHostCall(ctx, ev)
				}
			}
		},
		OnBoardChange: func(ctx context.Context, ev *BoardEvent) {
			for _, h := range hooks {
				if h.OnBoardChange != nil {
					h.OnBoardChange(ctx, ev)
				}
			}
		},
	}
}
