package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombineHooksFansOutInOrder(t *testing.T) {
	var trace []string

	first := LifecycleHooks{
		OnRunStart: func(_ context.Context, _ *RunEvent) { trace = append(trace, "first:start") },
		OnRunEnd:   func(_ context.Context, _ *RunEvent) { trace = append(trace, "first:end") },
	}
	second := LifecycleHooks{
		OnRunStart: func(_ context.Context, _ *RunEvent) { trace = append(trace, "second:start") },
		OnHostCall: func(_ context.Context, ev *HostCallEvent) { trace = append(trace, "second:"+ev.Name) },
	}

	combined := CombineHooks(first, second)
	ctx := context.Background()
	combined.OnRunStart(ctx, &RunEvent{})
	combined.OnHostCall(ctx, &HostCallEvent{Name: "moveForward"})
	combined.OnRunEnd(ctx, &RunEvent{})
	combined.OnBoardChange(ctx, &BoardEvent{}) // nobody listens; must not panic

	assert.Equal(t, []string{"first:start", "second:start", "second:moveForward", "first:end"}, trace)
}

func TestCombineHooksWithNoHookSets(t *testing.T) {
	combined := CombineHooks()
	combined.OnRunStart(context.Background(), &RunEvent{})
	combined.OnRunEnd(context.Background(), &RunEvent{})
}
