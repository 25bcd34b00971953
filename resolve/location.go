package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

// Location yields candidate paths for a file name. Locations are evaluated
// in a fixed order and the first existing candidate wins.
type Location interface {
	// Name identifies the location in logs.
	Name() string
	// Candidates returns the paths to probe, most preferred first.
	Candidates(fileName string) []string
}

// Prober checks whether a candidate path names an existing file.
type Prober interface {
	Exists(path string) bool
}

// OSProber probes the local filesystem. Directories do not count.
type OSProber struct{}

func (OSProber) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LiteralLocation offers the requested name itself.
type LiteralLocation struct{}

func (LiteralLocation) Name() string { return "literal" }

func (LiteralLocation) Candidates(fileName string) []string {
	return []string{fileName}
}

// DirLocation offers <Dir>/<fileName>. An empty Dir offers nothing.
type DirLocation struct {
	Label string
	Dir   string
}

func (d DirLocation) Name() string { return d.Label }

func (d DirLocation) Candidates(fileName string) []string {
	if d.Dir == "" {
		return nil
	}
	return []string{filepath.Join(d.Dir, fileName)}
}

// SearchPathLocation offers <dir>/<fileName> for each directory, in order.
// Relative entries are made absolute against the working directory.
type SearchPathLocation struct {
	Dirs []string
}

func (SearchPathLocation) Name() string { return "search-path" }

func (s SearchPathLocation) Candidates(fileName string) []string {
	out := make([]string, 0, len(s.Dirs))
	for _, dir := range s.Dirs {
		// Entries may or may not end with a separator.
		dir = strings.TrimRight(dir, `/\`)
		if dir == "" {
			continue
		}
		full, err := filepath.Abs(filepath.Join(dir, fileName))
		if err != nil {
			continue
		}
		out = append(out, full)
	}
	return out
}

// DefaultLocations returns the standard search order:
// literal name, application directory, install root, each search-path
// entry, the system font directory, then the application's Fonts directory.
func DefaultLocations(e Environment) []Location {
	return []Location{
		LiteralLocation{},
		DirLocation{Label: "app-dir", Dir: e.AppDir},
		DirLocation{Label: "install-root", Dir: e.InstallRoot},
		SearchPathLocation{Dirs: e.SearchDirs()},
		DirLocation{Label: "system-fonts", Dir: e.SystemFontDir()},
		DirLocation{Label: "app-fonts", Dir: e.AppFontDir()},
	}
}
