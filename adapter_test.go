package drawhost_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/reglet-dev/drawhost"
	"github.com/reglet-dev/drawhost/capability"
	"github.com/reglet-dev/drawhost/capability/overridestore"
	"github.com/reglet-dev/drawhost/diag"
	"github.com/reglet-dev/drawhost/intercept"
	"github.com/reglet-dev/drawhost/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBase answers with fixed values and counts calls per method.
type stubBase struct {
	*drawhost.BaseServices

	mu    sync.Mutex
	calls map[string]int
}

func newStubBase() *stubBase {
	b := drawhost.NewBaseServices()
	b.Company = "BaseCo"
	b.AlternateFont = "base.shx"
	b.MachineKey = `Software\Base\Machine`
	b.UserKey = `Software\Base\User`
	b.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return &stubBase{BaseServices: b, calls: make(map[string]int)}
}

func (s *stubBase) hit(name string) {
	s.mu.Lock()
	s.calls[name]++
	s.mu.Unlock()
}

func (s *stubBase) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubBase) FindFile(ctx context.Context, fileName string, db drawhost.Database, hint resolve.Hint) string {
	s.hit("FindFile")
	return "base:" + fileName
}

func (s *stubBase) AlternateFontName() string {
	s.hit("AlternateFontName")
	return s.BaseServices.AlternateFontName()
}

func (s *stubBase) CompanyName() string {
	s.hit("CompanyName")
	return s.BaseServices.CompanyName()
}

func (s *stubBase) IsURL(filePath string) bool {
	s.hit("IsURL")
	return s.BaseServices.IsURL(filePath)
}

type harness struct {
	base     *stubBase
	recorder *diag.Recorder
	adapter  *drawhost.Adapter
	mu       sync.Mutex
	events   []intercept.CallEvent
}

func newHarness(t *testing.T, opts ...drawhost.Option) *harness {
	t.Helper()
	h := &harness{base: newStubBase(), recorder: &diag.Recorder{}}

	all := append([]drawhost.Option{
		drawhost.WithEnvironment(resolve.Environment{}),
		drawhost.WithReporter(h.recorder),
		drawhost.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)

	a, err := drawhost.New(h.base, all...)
	require.NoError(t, err)
	h.adapter = a

	a.Subscribe(func(e intercept.CallEvent) {
		h.mu.Lock()
		h.events = append(h.events, e)
		h.mu.Unlock()
	})
	return h
}

func (h *harness) Events() []intercept.CallEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]intercept.CallEvent, len(h.events))
	copy(out, h.events)
	return out
}

func (h *harness) Reset() {
	h.mu.Lock()
	h.events = nil
	h.mu.Unlock()
}

func TestNew(t *testing.T) {
	t.Run("nil base", func(t *testing.T) {
		_, err := drawhost.New(nil)
		assert.ErrorIs(t, err, drawhost.ErrNilBase)
	})

	t.Run("every capability starts enabled", func(t *testing.T) {
		h := newHarness(t)
		states := h.adapter.Capabilities()
		require.Len(t, states, len(drawhost.Surface()))
		for _, s := range states {
			assert.True(t, s.Enabled, s.Name)
		}
	})
}

func TestAdapter_FindFile(t *testing.T) {
	root := t.TempDir()
	app := filepath.Join(root, "app")
	require.NoError(t, os.MkdirAll(app, 0o755))
	font := filepath.Join(app, "shapes1.shx")
	require.NoError(t, os.WriteFile(font, []byte("x"), 0o600))

	h := newHarness(t, drawhost.WithEnvironment(resolve.Environment{AppDir: app}))
	ctx := context.Background()

	t.Run("enabled resolves through the search", func(t *testing.T) {
		h.Reset()
		got := h.adapter.FindFile(ctx, "shapes1", nil, resolve.CompiledShapeFile)
		assert.Equal(t, font, got)
		assert.Zero(t, h.base.Calls("FindFile"))

		events := h.Events()
		require.Len(t, events, 2)
		assert.Equal(t, intercept.PhaseBefore, events[0].Phase)
		assert.Equal(t, drawhost.CapFindFile, events[0].Capability)
		assert.Equal(t, "Function FindFile called with parameter shapes1", events[0].Message)
		assert.Equal(t, intercept.PhaseAfter, events[1].Phase)
		assert.Equal(t, drawhost.CapFindFile, events[1].Capability)
		assert.Equal(t, font, events[1].Output)
	})

	t.Run("disabled delegates to the base", func(t *testing.T) {
		h.Reset()
		require.NoError(t, h.adapter.SetEnabled(drawhost.CapFindFile, false))

		got := h.adapter.FindFile(ctx, "shapes1", nil, resolve.CompiledShapeFile)
		assert.Equal(t, "base:shapes1", got)
		assert.Equal(t, 1, h.base.Calls("FindFile"))
		assert.Len(t, h.Events(), 2)
	})

	t.Run("misses are cached and reported once", func(t *testing.T) {
		require.NoError(t, h.adapter.SetEnabled(drawhost.CapFindFile, true))

		assert.Empty(t, h.adapter.FindFile(ctx, "nowhere", nil, resolve.TrueTypeFontFile))
		assert.Empty(t, h.adapter.FindFile(ctx, "nowhere", nil, resolve.TrueTypeFontFile))

		assert.Equal(t, 1, h.recorder.Count(diag.KindResolutionMiss))
		assert.Equal(t, []resolve.Key{{Name: "nowhere.ttf", Hint: resolve.TrueTypeFontFile}}, h.adapter.Misses())
	})
}

func TestAdapter_BranchingProperties(t *testing.T) {
	tests := []struct {
		name   capability.Name
		call   func(*drawhost.Adapter) string
		custom string
		base   string
	}{
		{drawhost.CapAlternateFontName, (*drawhost.Adapter).AlternateFontName, "custom.shx", "base.shx"},
		{drawhost.CapMachineRootKey, (*drawhost.Adapter).MachineRegistryProductRootKey, `Software\Acme\2.1`, `Software\Base\Machine`},
		{drawhost.CapUserRootKey, (*drawhost.Adapter).UserRegistryProductRootKey, `Software\Acme\2.1`, `Software\Base\User`},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			h := newHarness(t,
				drawhost.WithAlternateFont("custom.shx"),
				drawhost.WithMachineRootKey(`Software\Acme\2.1`),
				drawhost.WithUserRootKey(`Software\Acme\2.1`),
			)

			assert.Equal(t, tt.custom, tt.call(h.adapter))
			require.NoError(t, h.adapter.SetEnabled(tt.name, false))
			assert.Equal(t, tt.base, tt.call(h.adapter))
			require.NoError(t, h.adapter.SetEnabled(tt.name, true))
			assert.Equal(t, tt.custom, tt.call(h.adapter))

			events := h.Events()
			require.Len(t, events, 6)
			assert.Equal(t, "Function "+string(tt.name)+" called with parameter ", events[0].Message)
			assert.Equal(t, "... returns value "+tt.custom, events[1].Message)
			for _, e := range events {
				assert.Equal(t, tt.name, e.Capability)
			}
		})
	}
}

func TestAdapter_DefaultCustomValues(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, drawhost.DefaultAlternateFont, h.adapter.AlternateFontName())
	assert.Equal(t, `Software\MyRealDWG\1.0`, h.adapter.MachineRegistryProductRootKey())
	assert.Equal(t, `Software\MyRealDWG\1.0`, h.adapter.UserRegistryProductRootKey())
}

func TestAdapter_PassThroughLogged(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "BaseCo", h.adapter.CompanyName())
	require.NoError(t, h.adapter.SetEnabled(drawhost.CapCompanyName, false))
	assert.Equal(t, "BaseCo", h.adapter.CompanyName(), "toggle has no effect")
	assert.Equal(t, 2, h.base.Calls("CompanyName"))

	events := h.Events()
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, intercept.PhaseAfter, e.Phase)
		assert.Equal(t, drawhost.CapCompanyName, e.Capability)
		assert.Equal(t, "get_CompanyName returns value BaseCo", e.Message)
	}

	h.Reset()
	u, _ := url.Parse("https://example.com/x.dwg")
	h.adapter.GetPassword("secret.dwg", drawhost.PasswordRetry)
	h.adapter.GetRemoteFile(u, true)
	h.adapter.FontMapFileName()
	h.adapter.LocalRootFolder()
	h.adapter.Product()
	h.adapter.Program()
	h.adapter.RoamableRootFolder()

	names := make([]capability.Name, 0)
	for _, e := range h.Events() {
		names = append(names, e.Capability)
	}
	assert.Equal(t, []capability.Name{
		drawhost.CapGetPassword,
		drawhost.CapGetRemoteFile,
		drawhost.CapFontMapFileName,
		drawhost.CapLocalRootFolder,
		drawhost.CapProduct,
		drawhost.CapProgram,
		drawhost.CapRoamableRootFolder,
	}, names)
}

func TestAdapter_PassThroughSilent(t *testing.T) {
	h := newHarness(t)
	u, _ := url.Parse("ftp://files.example.com/a.dwg")

	assert.True(t, h.adapter.IsURL("https://example.com/a.dwg"))
	assert.False(t, h.adapter.IsURL(`C:\drawings\a.dwg`))
	assert.Nil(t, h.adapter.GetURL("a.dwg"))
	h.adapter.LoadApplication("acme.dbx", drawhost.LoadOnProxyDetection, false, false)
	h.adapter.PutRemoteFile(u, "a.dwg")
	assert.Equal(t, drawhost.ModelerFull, h.adapter.ModelerFlavor())

	assert.Equal(t, 2, h.base.Calls("IsURL"))
	assert.Equal(t, []string{"acme.dbx"}, h.base.Loaded())
	assert.Empty(t, h.Events())
}

func TestAdapter_SetMatching(t *testing.T) {
	h := newHarness(t)

	names, err := h.adapter.SetMatching("get_*RootKey", false)
	require.NoError(t, err)
	assert.Equal(t, []capability.Name{drawhost.CapMachineRootKey, drawhost.CapUserRootKey}, names)

	assert.Equal(t, `Software\Base\Machine`, h.adapter.MachineRegistryProductRootKey())
	assert.Equal(t, drawhost.DefaultAlternateFont, h.adapter.AlternateFontName())
}

func TestAdapter_SetEnabledIgnoresCase(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.adapter.SetEnabled("findfile", false))
	enabled, err := h.adapter.Registry().Enabled(drawhost.CapFindFile)
	require.NoError(t, err)
	assert.False(t, enabled)

	err = h.adapter.SetEnabled("NoSuchThing", false)
	assert.ErrorIs(t, err, capability.ErrUnknownCapability)
}

func TestAdapter_ApplyOverrides(t *testing.T) {
	h := newHarness(t)

	h.adapter.ApplyOverrides(context.Background(), map[capability.Name]bool{
		"get_alternatefontname": false,
		"get_Bogus":             false,
	})

	assert.Equal(t, "base.shx", h.adapter.AlternateFontName())
	require.Equal(t, 1, h.recorder.Count(diag.KindConfigurationGap))
	assert.Equal(t, "get_Bogus", h.recorder.Diagnostics()[0].Subject)
}

func TestAdapter_Store(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	store := overridestore.NewFileStore(overridestore.WithPath(path))
	require.NoError(t, store.Save(map[capability.Name]bool{drawhost.CapFindFile: false}))

	h := newHarness(t, drawhost.WithStore(store))
	assert.Equal(t, "base:a.dwg", h.adapter.FindFile(context.Background(), "a.dwg", nil, resolve.XRefDrawing))

	require.NoError(t, h.adapter.SetEnabled(drawhost.CapProduct, false))
	require.NoError(t, h.adapter.SaveOverrides())

	saved, err := store.Load()
	require.NoError(t, err)
	assert.False(t, saved[drawhost.CapFindFile])
	assert.False(t, saved[drawhost.CapProduct])
	assert.True(t, saved[drawhost.CapAlternateFontName])
}

func TestAdapter_SearchPaths(t *testing.T) {
	extra := t.TempDir()
	want := filepath.Join(extra, "hatch.pat")
	require.NoError(t, os.WriteFile(want, []byte("x"), 0o600))

	h := newHarness(t, drawhost.WithSearchPaths(extra))
	assert.Equal(t, want, h.adapter.FindFile(context.Background(), "hatch", nil, resolve.PatternFile))
}

func TestAdapter_PanickingSubscriberIsContained(t *testing.T) {
	h := newHarness(t)
	h.adapter.Subscribe(func(intercept.CallEvent) { panic("boom") })

	assert.NotPanics(t, func() {
		assert.Equal(t, drawhost.DefaultAlternateFont, h.adapter.AlternateFontName())
	})
	assert.Len(t, h.Events(), 2)
}

func TestAdapter_ConcurrentUse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h.adapter.FindFile(ctx, "missing", nil, resolve.PatternFile)
				h.adapter.AlternateFontName()
			}
		}()
		go func(on bool) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = h.adapter.SetEnabled(drawhost.CapAlternateFontName, on)
				on = !on
			}
		}(i%2 == 0)
	}
	wg.Wait()

	assert.Equal(t, 1, h.recorder.Count(diag.KindResolutionMiss))
}

func TestAdapter_LogsCalls(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a, err := drawhost.New(newStubBase(),
		drawhost.WithEnvironment(resolve.Environment{}),
		drawhost.WithReporter(&diag.NopReporter{}),
		drawhost.WithLogger(logger),
	)
	require.NoError(t, err)

	a.AlternateFontName()
	a.CompanyName()

	out := buf.String()
	assert.Contains(t, out, `msg="Function get_AlternateFontName called with parameter "`)
	assert.Contains(t, out, `msg="... returns value txt.shx"`)
	assert.Contains(t, out, `msg="get_CompanyName returns value BaseCo"`)
}

func TestAdapter_WithResolverTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "only.pat")
	require.NoError(t, os.WriteFile(want, []byte("x"), 0o600))

	r := resolve.New(resolve.Environment{},
		resolve.WithLocations(resolve.DirLocation{Label: "custom", Dir: dir}),
		resolve.WithReporter(&diag.NopReporter{}),
		resolve.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	h := newHarness(t,
		drawhost.WithResolver(r),
		drawhost.WithSearchPaths(t.TempDir()),
	)

	assert.Same(t, r, h.adapter.Resolver())
	require.Len(t, h.adapter.Resolver().Locations(), 1)
	assert.Equal(t, want, h.adapter.FindFile(context.Background(), "only", nil, resolve.PatternFile))
}
