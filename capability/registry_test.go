package capability_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/reglet-dev/drawhost/capability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSurface = []capability.Name{
	"FindFile",
	"get_AlternateFontName",
	"get_MachineRegistryProductRootKey",
	"get_UserRegistryProductRootKey",
}

func newInitialized(t *testing.T) *capability.Registry {
	t.Helper()
	r := capability.NewRegistry()
	require.NoError(t, r.Initialize(testSurface))
	return r
}

func TestRegistry_InitializeEnablesEverything(t *testing.T) {
	r := newInitialized(t)

	for _, name := range testSurface {
		enabled, err := r.Enabled(name)
		require.NoError(t, err)
		assert.True(t, enabled, name)
	}
	assert.Len(t, r.Snapshot(), len(testSurface))
}

func TestRegistry_InitializeOnce(t *testing.T) {
	r := newInitialized(t)
	require.NoError(t, r.SetEnabled("FindFile", false))

	err := r.Initialize([]capability.Name{"Other"})
	assert.ErrorIs(t, err, capability.ErrAlreadyInitialized)

	// The second call must not reset or extend the table.
	assert.False(t, r.IsEnabled("FindFile"))
	_, err = r.Enabled("Other")
	assert.ErrorIs(t, err, capability.ErrUnknownCapability)
}

func TestRegistry_InitializeRejectsEmptyName(t *testing.T) {
	r := capability.NewRegistry()
	require.Error(t, r.Initialize([]capability.Name{"FindFile", ""}))
	assert.False(t, r.Initialized())
}

func TestRegistry_BeforeInitialize(t *testing.T) {
	r := capability.NewRegistry()

	_, err := r.Enabled("FindFile")
	assert.ErrorIs(t, err, capability.ErrNotInitialized)
	assert.False(t, r.IsEnabled("FindFile"))
	assert.ErrorIs(t, r.SetEnabled("FindFile", true), capability.ErrNotInitialized)
	_, err = r.SetMatching("*", true)
	assert.ErrorIs(t, err, capability.ErrNotInitialized)
}

func TestRegistry_UnknownCapability(t *testing.T) {
	r := newInitialized(t)

	_, err := r.Enabled("GetPassword")
	require.Error(t, err)

	var unknown *capability.UnknownCapabilityError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, capability.Name("GetPassword"), unknown.Name)
	assert.False(t, r.IsEnabled("GetPassword"))

	assert.ErrorIs(t, r.SetEnabled("GetPassword", true), capability.ErrUnknownCapability)
	assert.Len(t, r.Snapshot(), len(testSurface))
}

func TestRegistry_SetEnabled(t *testing.T) {
	r := newInitialized(t)

	require.NoError(t, r.SetEnabled("FindFile", false))
	assert.False(t, r.IsEnabled("FindFile"))
	assert.True(t, r.IsEnabled("get_AlternateFontName"))

	require.NoError(t, r.SetEnabled("FindFile", true))
	assert.True(t, r.IsEnabled("FindFile"))
}

func TestRegistry_SetMatching(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    []capability.Name
	}{
		{"root keys", "get_*RegistryProductRootKey", []capability.Name{"get_MachineRegistryProductRootKey", "get_UserRegistryProductRootKey"}},
		{"exact", "FindFile", []capability.Name{"FindFile"}},
		{"all properties", "get_*", []capability.Name{"get_AlternateFontName", "get_MachineRegistryProductRootKey", "get_UserRegistryProductRootKey"}},
		{"nothing", "Load*", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newInitialized(t)
			got, err := r.SetMatching(tt.pattern, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			for _, name := range tt.want {
				assert.False(t, r.IsEnabled(name))
			}
		})
	}

	t.Run("invalid pattern", func(t *testing.T) {
		r := newInitialized(t)
		_, err := r.SetMatching("get_[", false)
		assert.Error(t, err)
	})
}

func TestRegistry_Apply(t *testing.T) {
	r := newInitialized(t)

	unknown, err := r.Apply(map[capability.Name]bool{
		"FindFile":    false,
		"NotDeclared": false,
	})
	require.NoError(t, err)
	assert.Equal(t, []capability.Name{"NotDeclared"}, unknown)
	assert.False(t, r.IsEnabled("FindFile"))

	table := r.Table()
	assert.Len(t, table, len(testSurface))
	assert.NotContains(t, table, capability.Name("NotDeclared"))
}

func TestRegistry_SnapshotSorted(t *testing.T) {
	r := newInitialized(t)
	states := r.Snapshot()
	require.Len(t, states, 4)
	assert.Equal(t, capability.Name("FindFile"), states[0].Name)
	assert.Equal(t, capability.Name("get_UserRegistryProductRootKey"), states[3].Name)
}

func TestRegistry_ConcurrentToggle(t *testing.T) {
	r := newInitialized(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(v bool) {
			defer wg.Done()
			_ = r.SetEnabled("FindFile", v)
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			_ = r.IsEnabled("FindFile")
		}()
	}
	wg.Wait()

	require.NoError(t, r.SetEnabled("FindFile", true))
	assert.True(t, r.IsEnabled("FindFile"))
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "branching", capability.Branching.String())
	assert.Equal(t, "pass-through-logged", capability.PassThroughLogged.String())
	assert.Equal(t, "pass-through-silent", capability.PassThroughSilent.String())
	assert.Equal(t, "unknown", capability.Shape(42).String())
}
