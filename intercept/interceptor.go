// Package intercept decides, per capability call, whether custom logic or
// the host default runs, and notifies subscribers about every call and
// every returned value.
package intercept

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/reglet-dev/drawhost/capability"
	"github.com/reglet-dev/drawhost/diag"
)

// Interceptor is owned by one adapter. It has no process-wide state, so
// independent adapters (and tests) never observe each other's calls.
type Interceptor struct {
	registry *capability.Registry
	reporter diag.Reporter
	logger   *slog.Logger
	now      func() time.Time
	subs     []subscription
	mu       sync.RWMutex
	nextID   uint64
}

type subscription struct {
	fn Subscriber
	id uint64
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithReporter sets where configuration gaps are reported.
func WithReporter(r diag.Reporter) Option {
	return func(ic *Interceptor) { ic.reporter = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(ic *Interceptor) { ic.logger = l }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(ic *Interceptor) { ic.now = now }
}

// New creates an interceptor backed by registry.
func New(registry *capability.Registry, opts ...Option) *Interceptor {
	ic := &Interceptor{
		registry: registry,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(ic)
	}
	if ic.reporter == nil {
		ic.reporter = diag.NewLogReporter(ic.logger)
	}
	return ic
}

// Registry returns the registry consulted by BeforeCall.
func (ic *Interceptor) Registry() *capability.Registry {
	return ic.registry
}

// BeforeCall announces a call and reports whether the custom path should run.
//
// A capability missing from the registry is reported as a configuration gap
// and reads as false, so the host default keeps the system usable. Calling
// BeforeCall before the registry is initialized is a programming error and
// panics with capability.ErrNotInitialized.
func (ic *Interceptor) BeforeCall(name capability.Name, input string) bool {
	ic.dispatch(CallEvent{
		Capability: name,
		Phase:      PhaseBefore,
		Input:      input,
		Message:    fmt.Sprintf("Function %s called with parameter %s", name, input),
	})

	enabled, err := ic.registry.Enabled(name)
	if err == nil {
		return enabled
	}
	if !ic.registry.Initialized() {
		panic(fmt.Errorf("intercept: %s invoked: %w", name, capability.ErrNotInitialized))
	}

	ic.reporter.Report(context.Background(), diag.Diagnostic{
		Kind:    diag.KindConfigurationGap,
		Subject: string(name),
		Message: fmt.Sprintf("Function %s is not added to the list", name),
	})
	return false
}

// AfterCall announces a returned value and hands it back unchanged, so a
// call site can wrap its return expression.
func (ic *Interceptor) AfterCall(output string) string {
	ic.dispatch(CallEvent{
		Phase:   PhaseAfter,
		Output:  output,
		Message: "... returns value " + output,
	})
	return output
}

// AfterCallOf is AfterCall for a call announced with BeforeCall: the event
// carries the capability so subscribers can pair it with its call, while the
// message stays anonymous.
func (ic *Interceptor) AfterCallOf(name capability.Name, output string) string {
	ic.dispatch(CallEvent{
		Capability: name,
		Phase:      PhaseAfter,
		Output:     output,
		Message:    "... returns value " + output,
	})
	return output
}

// AfterCallNamed is AfterCall for calls that never went through BeforeCall;
// the capability name prefixes the message.
func (ic *Interceptor) AfterCallNamed(name capability.Name, output string) string {
	ic.dispatch(CallEvent{
		Capability: name,
		Phase:      PhaseAfter,
		Output:     output,
		Message:    fmt.Sprintf("%s returns value %s", name, output),
	})
	return output
}

// Subscribe registers fn and returns a function that removes it.
func (ic *Interceptor) Subscribe(fn Subscriber) (unsubscribe func()) {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	ic.nextID++
	id := ic.nextID
	ic.subs = append(ic.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { ic.remove(id) })
	}
}

// SubscriberCount returns the number of active subscribers.
func (ic *Interceptor) SubscriberCount() int {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	return len(ic.subs)
}

func (ic *Interceptor) remove(id uint64) {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	for i, s := range ic.subs {
		if s.id == id {
			ic.subs = append(ic.subs[:i:i], ic.subs[i+1:]...)
			return
		}
	}
}

// dispatch delivers the event to a snapshot of the subscribers, in
// registration order. Subscribers may unsubscribe while being called.
func (ic *Interceptor) dispatch(event CallEvent) {
	ic.mu.RLock()
	if len(ic.subs) == 0 {
		ic.mu.RUnlock()
		return
	}
	subs := make([]subscription, len(ic.subs))
	copy(subs, ic.subs)
	ic.mu.RUnlock()

	event.Time = ic.now()
	for _, s := range subs {
		ic.deliver(s.fn, event)
	}
}

func (ic *Interceptor) deliver(fn Subscriber, event CallEvent) {
	defer func() {
		if r := recover(); r != nil {
			ic.logger.Error("call event subscriber panicked",
				"capability", string(event.Capability),
				"phase", event.Phase.String(),
				"panic", r)
		}
	}()
	fn(event)
}
