package capability

// Store persists the override table between sessions.
type Store interface {
	Load() (map[Name]bool, error)
	Save(overrides map[Name]bool) error
	ConfigPath() string
}

// Toggler lets an operator choose which capabilities stay overridden.
type Toggler interface {
	IsInteractive() bool
	// ChooseEnabled returns the names the operator wants enabled, given the
	// current states.
	ChooseEnabled(current []State) ([]Name, error)
}
