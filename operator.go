package drawhost

import (
	"context"
	"fmt"
	"strings"

	"github.com/reglet-dev/drawhost/capability"
	"github.com/reglet-dev/drawhost/diag"
	"github.com/reglet-dev/drawhost/intercept"
	"github.com/reglet-dev/drawhost/resolve"
)

// Capabilities returns the current override table sorted by name.
func (a *Adapter) Capabilities() []capability.State {
	return a.registry.Snapshot()
}

// SetEnabled switches one capability between custom (true) and default.
func (a *Adapter) SetEnabled(name capability.Name, enabled bool) error {
	if canonical, ok := CanonicalName(string(name)); ok {
		name = canonical
	}
	return a.registry.SetEnabled(name, enabled)
}

// SetMatching switches every capability matching a glob such as "get_*".
func (a *Adapter) SetMatching(pattern string, enabled bool) ([]capability.Name, error) {
	return a.registry.SetMatching(pattern, enabled)
}

// ApplyOverrides applies a persisted or configured table. Names are matched
// case-insensitively; names outside the surface are reported and skipped.
func (a *Adapter) ApplyOverrides(ctx context.Context, overrides map[capability.Name]bool) {
	table := make(map[capability.Name]bool, len(overrides))
	for name, enabled := range overrides {
		if canonical, ok := CanonicalName(string(name)); ok {
			name = canonical
		}
		table[name] = enabled
	}

	unknown, err := a.registry.Apply(table)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to apply overrides", "error", err)
		return
	}
	for _, name := range unknown {
		a.reporter.Report(ctx, diag.Diagnostic{
			Kind:    diag.KindConfigurationGap,
			Subject: string(name),
			Message: fmt.Sprintf("Override for %s ignored: not a declared capability", name),
		})
	}
}

// LoadOverrides reads the store configured with WithStore and applies it.
func (a *Adapter) LoadOverrides(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	overrides, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("loading overrides from %s: %w", a.store.ConfigPath(), err)
	}
	a.ApplyOverrides(ctx, overrides)
	return nil
}

// SaveOverrides persists the current table to the configured store.
func (a *Adapter) SaveOverrides() error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Save(a.registry.Table()); err != nil {
		return fmt.Errorf("saving overrides to %s: %w", a.store.ConfigPath(), err)
	}
	return nil
}

// Subscribe registers fn for every call event.
func (a *Adapter) Subscribe(fn intercept.Subscriber) (unsubscribe func()) {
	return a.interceptor.Subscribe(fn)
}

// Tap streams call events until ctx ends.
func (a *Adapter) Tap(ctx context.Context, buffer int) <-chan intercept.CallEvent {
	return a.interceptor.Tap(ctx, buffer)
}

// Misses lists every file lookup that has failed so far.
func (a *Adapter) Misses() []resolve.Key {
	return a.resolver.Misses()
}

// Registry exposes the capability table.
func (a *Adapter) Registry() *capability.Registry {
	return a.registry
}

// Resolver exposes the file resolver.
func (a *Adapter) Resolver() *resolve.Resolver {
	return a.resolver
}

// CanonicalName maps s to the declared capability it names, ignoring case.
func CanonicalName(s string) (capability.Name, bool) {
	for _, name := range Surface() {
		if strings.EqualFold(string(name), s) {
			return name, true
		}
	}
	return "", false
}
