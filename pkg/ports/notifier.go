package ports

import "github.com/biancatoto3/blockstep/pkg/domain"

// Notifier delivers one-way messages toward the learner. Implementations
// must not block; slow sinks buffer or drop.
type Notifier interface {
	Notify(msg domain.Message)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(msg domain.Message)

// Notify implements Notifier.
func (f NotifierFunc) Notify(msg domain.Message) {
	f(msg)
}

// MultiNotifier fans a message out to several sinks in order.
func MultiNotifier(sinks ...Notifier) Notifier {
	return NotifierFunc(func(msg domain.Message) {
		for _, s := range sinks {
			if s != nil {
				s.Notify(msg)
			}
		}
	})
}
