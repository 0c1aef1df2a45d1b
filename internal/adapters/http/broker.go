package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/biancatoto3/blockstep/pkg/domain"
	"github.com/biancatoto3/blockstep/pkg/ports"
)

// Broker fans engine activity out to active SSE connections. Create it
// before the engine, hand its Notifier and Hooks to the engine options, and
// pass it to NewHandler so /api/events can subscribe.
type Broker struct {
	mu     sync.RWMutex
	subs   map[chan string]struct{}
	logger *slog.Logger
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		subs:   make(map[chan string]struct{}),
		logger: slog.Default(),
	}
}

// Subscribe registers a new listener. The returned cancel function detaches
// it and closes the channel.
func (b *Broker) Subscribe() (<-chan string, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan string, 16)
	b.subs[ch] = struct{}{}

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}
}

// Broadcast delivers one payload to every subscriber. Slow clients lose
// messages rather than stalling the engine.
func (b *Broker) Broadcast(msg string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
			b.logger.Warn("sse client buffer full, dropping message")
		}
	}
}

// publish marshals v and broadcasts it.
func (b *Broker) publish(v any) {
	bytes, err := json.Marshal(v)
	if err != nil {
		b.logger.Error("sse payload marshal failed", "err", err)
		return
	}
	b.Broadcast(string(bytes))
}

// sseMessage is the wire shape for notifier messages.
type sseMessage struct {
	Type string             `json:"type"`
	Kind domain.MessageKind `json:"kind"`
	Text string             `json:"text"`
}

// Notifier returns a sink that publishes learner messages to subscribers.
func (b *Broker) Notifier() ports.Notifier {
	return ports.NotifierFunc(func(msg domain.Message) {
		b.publish(sseMessage{Type: "message", Kind: msg.Kind, Text: msg.Text})
	})
}

// Hooks returns lifecycle hooks that publish engine events to subscribers.
// Host calls are deliberately left out; they are high-volume and internal.
func (b *Broker) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, ev *domain.RunEvent) {
			b.publish(ev)
		},
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			b.publish(ev)
		},
		OnBoardChange: func(_ context.Context, ev *domain.BoardEvent) {
			b.publish(ev)
		},
	}
}
