// Package diag surfaces conditions an operator has to notice: capabilities
// invoked without being declared and files the resolver could not find.
package diag

import "context"

// Kind classifies a diagnostic.
type Kind string

const (
	// KindConfigurationGap is raised when a capability is invoked but was
	// never declared in the registry.
	KindConfigurationGap Kind = "configuration_gap"

	// KindResolutionMiss is raised when a requested file is not found after
	// the full search. Drawings referencing it may fail to open later.
	KindResolutionMiss Kind = "resolution_miss"
)

// Diagnostic is a single operator-visible condition.
type Diagnostic struct {
	Kind    Kind
	Subject string
	Message string
}

// Reporter is called when the adapter raises a diagnostic.
type Reporter interface {
	// Report delivers the diagnostic. It must not block for long and must
	// not call back into the adapter.
	Report(ctx context.Context, d Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ctx context.Context, d Diagnostic)

// Report calls f(ctx, d).
func (f ReporterFunc) Report(ctx context.Context, d Diagnostic) {
	f(ctx, d)
}
