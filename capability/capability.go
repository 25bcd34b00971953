// Package capability tracks which host capabilities run custom logic and
// which fall back to the host framework's own default.
// The set of names is declared once, statically, by the adapter; operators
// may toggle individual entries afterwards but never add or remove them.
package capability

// Name identifies one overridable host capability, e.g. "FindFile" or
// "get_AlternateFontName".
type Name string

func (n Name) String() string { return string(n) }

// Shape is the fixed way a capability participates in interception.
type Shape int

const (
	// Branching capabilities consult the registry and run either the custom
	// path or the host default. Both the call and the return are logged.
	Branching Shape = iota
	// PassThroughLogged capabilities always run the host default; the
	// return value is logged.
	PassThroughLogged
	// PassThroughSilent capabilities always run the host default and are
	// never logged.
	PassThroughSilent
)

func (s Shape) String() string {
	switch s {
	case Branching:
		return "branching"
	case PassThroughLogged:
		return "pass-through-logged"
	case PassThroughSilent:
		return "pass-through-silent"
	default:
		return "unknown"
	}
}

// State is a point-in-time view of one registry entry.
type State struct {
	Name    Name `yaml:"name" json:"name"`
	Enabled bool `yaml:"enabled" json:"enabled"`
}
