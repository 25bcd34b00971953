package diag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	_ Reporter = (*LogReporter)(nil)
	_ Reporter = (*WriterReporter)(nil)
	_ Reporter = (*NopReporter)(nil)
	_ Reporter = (*Recorder)(nil)
)

// LogReporter writes diagnostics to a structured logger at warn level.
type LogReporter struct {
	Logger *slog.Logger
}

// NewLogReporter returns a LogReporter, falling back to slog.Default().
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{Logger: logger}
}

func (r *LogReporter) Report(ctx context.Context, d Diagnostic) {
	r.Logger.WarnContext(ctx, d.Message,
		"kind", string(d.Kind),
		"subject", d.Subject)
}

// WriterReporter prints diagnostics as plain lines, stderr by default.
type WriterReporter struct {
	W io.Writer
}

// NewWriterReporter returns a reporter writing to w, or os.Stderr when w is nil.
func NewWriterReporter(w io.Writer) *WriterReporter {
	if w == nil {
		w = os.Stderr
	}
	return &WriterReporter{W: w}
}

func (r *WriterReporter) Report(ctx context.Context, d Diagnostic) {
	w := r.W
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Warning [%s]: %s\n", d.Kind, d.Message)
}

// NopReporter does nothing.
type NopReporter struct{}

func (r *NopReporter) Report(ctx context.Context, d Diagnostic) {}

// Recorder keeps every diagnostic it receives. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (r *Recorder) Report(ctx context.Context, d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, d)
}

// Diagnostics returns a copy of everything recorded so far.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

// Count returns how many diagnostics of the given kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Multi fans a diagnostic out to several reporters in order.
func Multi(reporters ...Reporter) Reporter {
	return ReporterFunc(func(ctx context.Context, d Diagnostic) {
		for _, r := range reporters {
			if r != nil {
				r.Report(ctx, d)
			}
		}
	})
}
