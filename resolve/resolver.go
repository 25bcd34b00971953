// Package resolve finds the files a drawing references: fonts, shape files,
// patterns, external references and application modules.
//
// A request is completed with the category's canonical extension when it has
// none, checked against the cache of earlier failures, and then searched for
// in a fixed list of locations. Failures are remembered for the rest of the
// process and reported once to the operator.
package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/drawhost/diag"
)

// Resolver turns a requested file name into a path, or "" when not found.
// It is safe for concurrent use.
type Resolver struct {
	locations []Location
	prober    Prober
	misses    *MissCache
	reporter  diag.Reporter
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLocations replaces the default search order.
func WithLocations(locations ...Location) Option {
	return func(r *Resolver) { r.locations = locations }
}

// WithProber sets the filesystem probe.
func WithProber(p Prober) Option {
	return func(r *Resolver) { r.prober = p }
}

// WithMissCache shares a miss cache between resolvers.
func WithMissCache(c *MissCache) Option {
	return func(r *Resolver) { r.misses = c }
}

// WithReporter sets where unresolved files are reported.
func WithReporter(rep diag.Reporter) Option {
	return func(r *Resolver) { r.reporter = rep }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a resolver searching DefaultLocations(env).
func New(env Environment, opts ...Option) *Resolver {
	r := &Resolver{
		locations: DefaultLocations(env),
		prober:    OSProber{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.misses == nil {
		r.misses = NewMissCache()
	}
	if r.reporter == nil {
		r.reporter = diag.NewLogReporter(r.logger)
	}
	return r
}

// Resolve returns the first existing candidate for fileName, or "".
// An empty name resolves to "" without searching. A name seen to fail before
// with the same hint resolves to "" without touching the filesystem.
func (r *Resolver) Resolve(ctx context.Context, fileName string, hint Hint) string {
	if fileName == "" {
		return ""
	}

	fileName = WithExtension(fileName, hint)
	key := Key{Name: fileName, Hint: hint}

	if r.misses.Contains(key) {
		r.logger.DebugContext(ctx, "skipping known unresolved file",
			"file", fileName, "hint", hint.String())
		return ""
	}

	for _, loc := range r.locations {
		for _, candidate := range loc.Candidates(fileName) {
			if r.prober.Exists(candidate) {
				r.logger.DebugContext(ctx, "file resolved",
					"file", fileName,
					"hint", hint.String(),
					"location", loc.Name(),
					"path", candidate)
				return candidate
			}
		}
	}

	if r.misses.Add(key) {
		r.reporter.Report(ctx, diag.Diagnostic{
			Kind:    diag.KindResolutionMiss,
			Subject: fileName,
			Message: fmt.Sprintf("The file '%s' could not be found and therefore could cause problems reading this drawing", fileName),
		})
	}
	return ""
}

// Misses returns every lookup that failed so far.
func (r *Resolver) Misses() []Key {
	return r.misses.Keys()
}

// Locations returns the search order, for diagnostics.
func (r *Resolver) Locations() []Location {
	out := make([]Location, len(r.locations))
	copy(out, r.locations)
	return out
}
