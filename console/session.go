// Package console is the operator's interactive view of a running adapter:
// toggling capabilities and following calls as they happen.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/reglet-dev/drawhost"
	"github.com/reglet-dev/drawhost/capability"
)

// ErrNotInteractive is returned when no terminal is available for prompting.
var ErrNotInteractive = errors.New("capability console requires an interactive terminal")

// Session applies the operator's choices to an adapter and persists them.
type Session struct {
	adapter *drawhost.Adapter
	toggler capability.Toggler
	out     io.Writer
}

// Option configures a Session.
type Option func(*Session)

// WithToggler sets how choices are collected.
func WithToggler(t capability.Toggler) Option {
	return func(s *Session) { s.toggler = t }
}

// WithOutput sets where summaries are printed.
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.out = w }
}

// NewSession creates a session over adapter with a terminal toggler.
func NewSession(adapter *drawhost.Adapter, opts ...Option) *Session {
	s := &Session{adapter: adapter}
	for _, opt := range opts {
		opt(s)
	}
	if s.toggler == nil {
		s.toggler = NewTerminalToggler()
	}
	if s.out == nil {
		s.out = os.Stderr
	}
	return s
}

// Run prompts once, applies the difference and saves it when anything
// changed. It returns the capabilities whose state flipped.
func (s *Session) Run(ctx context.Context) ([]capability.Name, error) {
	if !s.toggler.IsInteractive() {
		return nil, fmt.Errorf("%w\n\nTo change capabilities non-interactively:\n"+
			"  drawhostctl capabilities set <name|glob> on|off", ErrNotInteractive)
	}

	states := s.adapter.Capabilities()
	selected, err := s.toggler.ChooseEnabled(states)
	if err != nil {
		return nil, fmt.Errorf("prompting for capabilities: %w", err)
	}

	var changed []capability.Name
	for _, st := range states {
		want := slices.Contains(selected, st.Name)
		if want == st.Enabled {
			continue
		}
		if err := s.adapter.SetEnabled(st.Name, want); err != nil {
			return changed, err
		}
		changed = append(changed, st.Name)
	}

	if len(changed) == 0 {
		fmt.Fprintln(s.out, "No changes.")
		return nil, nil
	}

	if err := s.adapter.SaveOverrides(); err != nil {
		fmt.Fprintf(s.out, "Warning: failed to save overrides: %v\n", err)
		return changed, nil
	}
	fmt.Fprintf(s.out, "%d capabilities changed.\n", len(changed))
	return changed, nil
}
