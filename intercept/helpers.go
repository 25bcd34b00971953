package intercept

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/reglet-dev/drawhost/capability"
)

// Returned is AfterCall for values that are not strings.
func Returned[T any](ic *Interceptor, v T) T {
	ic.AfterCall(describe(v))
	return v
}

// ReturnedNamed is AfterCallNamed for values that are not strings.
func ReturnedNamed[T any](ic *Interceptor, name capability.Name, v T) T {
	ic.AfterCallNamed(name, describe(v))
	return v
}

// describe renders v the way fmt does, which also copes with nil Stringers.
func describe(v any) string {
	return fmt.Sprint(v)
}

// LogSubscriber forwards every event to logger at debug level.
func LogSubscriber(logger *slog.Logger) Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return func(e CallEvent) {
		logger.Debug(e.Message,
			"capability", string(e.Capability),
			"phase", e.Phase.String())
	}
}

// Tap returns a channel fed with call events until ctx is cancelled, after
// which the channel is closed. Delivery never blocks the caller: events are
// dropped while the buffer is full.
func (ic *Interceptor) Tap(ctx context.Context, buffer int) <-chan CallEvent {
	ch := make(chan CallEvent, buffer)

	var mu sync.Mutex
	closed := false

	unsubscribe := ic.Subscribe(func(e CallEvent) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		defer mu.Unlock()
		closed = true
		close(ch)
	}()

	return ch
}
