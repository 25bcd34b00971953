package drawhost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/reglet-dev/drawhost/capability"
	"github.com/reglet-dev/drawhost/diag"
	"github.com/reglet-dev/drawhost/intercept"
	"github.com/reglet-dev/drawhost/resolve"
)

// DefaultAlternateFont ships with the application and replaces missing fonts.
const DefaultAlternateFont = "txt.shx"

// DefaultProductRootKey matches the registry root written by the installer.
const DefaultProductRootKey = `Software\MyRealDWG\1.0`

// ErrNilBase is returned by New when no base services are supplied.
var ErrNilBase = errors.New("drawhost: base services are required")

var _ Services = (*Adapter)(nil)

// Adapter implements Services on top of a base implementation. Capabilities
// classified as branching run custom behavior while enabled and the base
// default otherwise; every other capability always delegates to the base.
type Adapter struct {
	base        Services
	registry    *capability.Registry
	interceptor *intercept.Interceptor
	resolver    *resolve.Resolver
	store       capability.Store
	reporter    diag.Reporter
	logger      *slog.Logger

	alternateFont string
	machineKey    string
	userKey       string

	env         *resolve.Environment
	searchPaths []string
	now         func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger shared by the adapter's components.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// WithReporter sets where operator diagnostics go.
func WithReporter(r diag.Reporter) Option {
	return func(a *Adapter) { a.reporter = r }
}

// WithResolver replaces the file resolver entirely. The resolver is used as
// given: WithEnvironment and WithSearchPaths have no effect alongside it.
func WithResolver(r *resolve.Resolver) Option {
	return func(a *Adapter) { a.resolver = r }
}

// WithEnvironment resolves against env instead of the process environment.
// Ignored when WithResolver is also given.
func WithEnvironment(env resolve.Environment) Option {
	return func(a *Adapter) { a.env = &env }
}

// WithSearchPaths adds directories searched after the standard locations.
// Ignored when WithResolver is also given.
func WithSearchPaths(dirs ...string) Option {
	return func(a *Adapter) { a.searchPaths = append(a.searchPaths, dirs...) }
}

// WithAlternateFont sets the custom alternate font name.
func WithAlternateFont(name string) Option {
	return func(a *Adapter) { a.alternateFont = name }
}

// WithMachineRootKey sets the custom machine registry root key.
func WithMachineRootKey(key string) Option {
	return func(a *Adapter) { a.machineKey = key }
}

// WithUserRootKey sets the custom user registry root key.
func WithUserRootKey(key string) Option {
	return func(a *Adapter) { a.userKey = key }
}

// WithStore loads persisted overrides at construction and enables
// SaveOverrides.
func WithStore(s capability.Store) Option {
	return func(a *Adapter) { a.store = s }
}

// WithClock sets the time source stamped on call events.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

// New creates an adapter over base with every capability enabled.
func New(base Services, opts ...Option) (*Adapter, error) {
	if base == nil {
		return nil, ErrNilBase
	}

	a := &Adapter{
		base:          base,
		logger:        slog.Default(),
		alternateFont: DefaultAlternateFont,
		machineKey:    DefaultProductRootKey,
		userKey:       DefaultProductRootKey,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.reporter == nil {
		a.reporter = diag.NewLogReporter(a.logger)
	}

	a.registry = capability.NewRegistry()
	if err := a.registry.Initialize(Surface()); err != nil {
		return nil, fmt.Errorf("initializing capabilities: %w", err)
	}

	icOpts := []intercept.Option{
		intercept.WithReporter(a.reporter),
		intercept.WithLogger(a.logger),
	}
	if a.now != nil {
		icOpts = append(icOpts, intercept.WithClock(a.now))
	}
	a.interceptor = intercept.New(a.registry, icOpts...)
	a.interceptor.Subscribe(intercept.LogSubscriber(a.logger))

	if a.resolver == nil {
		r, err := a.newResolver()
		if err != nil {
			return nil, err
		}
		a.resolver = r
	}

	if a.store != nil {
		if err := a.LoadOverrides(context.Background()); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *Adapter) newResolver() (*resolve.Resolver, error) {
	var env resolve.Environment
	if a.env != nil {
		env = *a.env
	} else {
		loaded, err := resolve.LoadEnvironment()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		env = loaded
	}

	opts := []resolve.Option{
		resolve.WithReporter(a.reporter),
		resolve.WithLogger(a.logger),
	}
	if len(a.searchPaths) > 0 {
		locations := append(resolve.DefaultLocations(env), resolve.SearchPathLocation{Dirs: a.searchPaths})
		opts = append(opts, resolve.WithLocations(locations...))
	}
	return resolve.New(env, opts...), nil
}

// branch runs custom while name is enabled and base otherwise. Either way
// the result is reported through AfterCallOf.
func (a *Adapter) branch(name capability.Name, input string, base, custom func() string) string {
	if !a.interceptor.BeforeCall(name, input) {
		return a.interceptor.AfterCallOf(name, base())
	}
	return a.interceptor.AfterCallOf(name, custom())
}

// FindFile searches for fileName through the resolver while enabled.
func (a *Adapter) FindFile(ctx context.Context, fileName string, db Database, hint resolve.Hint) string {
	return a.branch(CapFindFile, fileName,
		func() string { return a.base.FindFile(ctx, fileName, db, hint) },
		func() string { return a.resolver.Resolve(ctx, fileName, hint) },
	)
}

func (a *Adapter) AlternateFontName() string {
	return a.branch(CapAlternateFontName, "",
		a.base.AlternateFontName,
		func() string { return a.alternateFont },
	)
}

func (a *Adapter) MachineRegistryProductRootKey() string {
	return a.branch(CapMachineRootKey, "",
		a.base.MachineRegistryProductRootKey,
		func() string { return a.machineKey },
	)
}

func (a *Adapter) UserRegistryProductRootKey() string {
	return a.branch(CapUserRootKey, "",
		a.base.UserRegistryProductRootKey,
		func() string { return a.userKey },
	)
}

func (a *Adapter) GetPassword(dwgName string, options PasswordOptions) string {
	return a.interceptor.AfterCallNamed(CapGetPassword, a.base.GetPassword(dwgName, options))
}

func (a *Adapter) GetRemoteFile(u *url.URL, ignoreCache bool) string {
	return a.interceptor.AfterCallNamed(CapGetRemoteFile, a.base.GetRemoteFile(u, ignoreCache))
}

func (a *Adapter) CompanyName() string {
	return a.interceptor.AfterCallNamed(CapCompanyName, a.base.CompanyName())
}

func (a *Adapter) FontMapFileName() string {
	return a.interceptor.AfterCallNamed(CapFontMapFileName, a.base.FontMapFileName())
}

func (a *Adapter) LocalRootFolder() string {
	return a.interceptor.AfterCallNamed(CapLocalRootFolder, a.base.LocalRootFolder())
}

func (a *Adapter) Product() string {
	return a.interceptor.AfterCallNamed(CapProduct, a.base.Product())
}

func (a *Adapter) Program() string {
	return a.interceptor.AfterCallNamed(CapProgram, a.base.Program())
}

func (a *Adapter) RoamableRootFolder() string {
	return a.interceptor.AfterCallNamed(CapRoamableRootFolder, a.base.RoamableRootFolder())
}

func (a *Adapter) GetURL(localFile string) *url.URL {
	return a.base.GetURL(localFile)
}

func (a *Adapter) IsURL(filePath string) bool {
	return a.base.IsURL(filePath)
}

func (a *Adapter) LoadApplication(appName string, why LoadReason, printIt, asCmd bool) {
	a.base.LoadApplication(appName, why, printIt, asCmd)
}

func (a *Adapter) PutRemoteFile(u *url.URL, localFile string) {
	a.base.PutRemoteFile(u, localFile)
}

func (a *Adapter) ModelerFlavor() ModelerFlavor {
	return a.base.ModelerFlavor()
}
