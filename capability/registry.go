package capability

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Registry holds one enabled flag per declared capability.
type Registry struct {
	entries     map[Name]bool
	mu          sync.RWMutex
	initialized bool
}

// NewRegistry creates an empty, uninitialized registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Initialize seeds one entry per name with enabled = true.
// It may succeed only once; later calls return ErrAlreadyInitialized and
// leave the table untouched. Duplicate names collapse to one entry.
func (r *Registry) Initialize(surface []Name) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return ErrAlreadyInitialized
	}

	entries := make(map[Name]bool, len(surface))
	for _, name := range surface {
		if name == "" {
			return fmt.Errorf("capability surface contains an empty name")
		}
		entries[name] = true
	}

	r.entries = entries
	r.initialized = true
	return nil
}

// Initialized reports whether Initialize has succeeded.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Enabled returns the stored flag for name.
func (r *Registry) Enabled(name Name) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.initialized {
		return false, ErrNotInitialized
	}
	enabled, ok := r.entries[name]
	if !ok {
		return false, &UnknownCapabilityError{Name: name}
	}
	return enabled, nil
}

// IsEnabled is Enabled without the error: unknown names and an
// uninitialized registry both read as false.
func (r *Registry) IsEnabled(name Name) bool {
	enabled, err := r.Enabled(name)
	return err == nil && enabled
}

// SetEnabled toggles a declared capability.
func (r *Registry) SetEnabled(name Name, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	if _, ok := r.entries[name]; !ok {
		return &UnknownCapabilityError{Name: name}
	}
	r.entries[name] = enabled
	return nil
}

// SetMatching toggles every capability whose name matches a doublestar
// pattern and returns the affected names in sorted order.
func (r *Registry) SetMatching(pattern string, enabled bool) ([]Name, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid capability pattern %q", pattern)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil, ErrNotInitialized
	}

	var matched []Name
	for name := range r.entries {
		ok, err := doublestar.Match(pattern, string(name))
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		if ok {
			r.entries[name] = enabled
			matched = append(matched, name)
		}
	}
	slices.Sort(matched)
	return matched, nil
}

// Apply sets every known entry present in overrides and returns the names
// that are not declared. Unknown names are never added.
func (r *Registry) Apply(overrides map[Name]bool) ([]Name, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil, ErrNotInitialized
	}

	var unknown []Name
	for name, enabled := range overrides {
		if _, ok := r.entries[name]; !ok {
			unknown = append(unknown, name)
			continue
		}
		r.entries[name] = enabled
	}
	slices.Sort(unknown)
	return unknown, nil
}

// Snapshot returns every entry sorted by name.
func (r *Registry) Snapshot() []State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make([]State, 0, len(r.entries))
	for name, enabled := range r.entries {
		states = append(states, State{Name: name, Enabled: enabled})
	}
	slices.SortFunc(states, func(a, b State) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return states
}

// Table returns a copy of the table suitable for persisting.
func (r *Registry) Table() map[Name]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[Name]bool, len(r.entries))
	for name, enabled := range r.entries {
		out[name] = enabled
	}
	return out
}
