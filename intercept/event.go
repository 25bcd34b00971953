package intercept

import (
	"time"

	"github.com/reglet-dev/drawhost/capability"
)

// Phase tells whether an event was emitted before or after a call ran.
type Phase int

const (
	PhaseBefore Phase = iota
	PhaseAfter
)

func (p Phase) String() string {
	if p == PhaseBefore {
		return "before"
	}
	return "after"
}

// CallEvent describes one capability invocation or its return.
// Events are not stored; they exist only while subscribers run.
type CallEvent struct {
	Time       time.Time
	Capability capability.Name // empty for anonymous returns
	Input      string
	Output     string
	Message    string
	Phase      Phase
}

// Subscriber receives call events synchronously, on the caller's goroutine.
// It must not invoke a capability on the same adapter.
type Subscriber func(CallEvent)
