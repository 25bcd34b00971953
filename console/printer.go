package console

import (
	"context"
	"fmt"
	"io"

	"github.com/reglet-dev/drawhost"
	"github.com/reglet-dev/drawhost/capability"
	"github.com/reglet-dev/drawhost/intercept"
)

// PrintEvents writes each event as a timestamped line until ctx ends or
// events is closed.
func PrintEvents(ctx context.Context, w io.Writer, events <-chan intercept.CallEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "%s %-6s %s\n", e.Time.Format("15:04:05.000"), e.Phase, e.Message)
		}
	}
}

// PrintCapabilities writes one line per capability state.
func PrintCapabilities(w io.Writer, states []capability.State) {
	for _, s := range states {
		mark := "off"
		if s.Enabled {
			mark = "on"
		}
		shape, _ := drawhost.Classify(s.Name)
		fmt.Fprintf(w, "%-36s %-20s %s\n", s.Name, shape, mark)
	}
}
