package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Environment is the part of the process environment the resolver consults.
// Unset variables are empty and contribute no candidates.
type Environment struct {
	// InstallRoot names the drawing engine's installation directory.
	InstallRoot string `env:"ACAD"`
	// SearchPath is the process search path, split with the OS list separator.
	SearchPath string `env:"PATH"`
	// SystemRoot locates the system font directory.
	SystemRoot string `env:"SystemRoot"`
	// AppDir is the running executable's directory.
	AppDir string `env:"DRAWHOST_APP_DIR"`
}

// envKeys are the variable names read by Environment. Windows treats names
// case-insensitively, so lookups fall back to a case-insensitive match.
var envKeys = []string{"ACAD", "PATH", "SystemRoot", "DRAWHOST_APP_DIR"}

// LoadEnvironment reads the process environment. AppDir defaults to the
// directory of the running executable.
func LoadEnvironment() (Environment, error) {
	return LoadEnvironmentFrom(os.Environ(), executableDir())
}

// LoadEnvironmentFrom parses KEY=VALUE pairs; appDir is used when
// DRAWHOST_APP_DIR is not set.
func LoadEnvironmentFrom(environ []string, appDir string) (Environment, error) {
	var e Environment
	if err := env.ParseWithOptions(&e, env.Options{Environment: environMap(environ)}); err != nil {
		return Environment{}, fmt.Errorf("parse env: %w", err)
	}
	if e.AppDir == "" {
		e.AppDir = appDir
	}
	return e, nil
}

// SearchDirs splits SearchPath, dropping empty entries.
func (e Environment) SearchDirs() []string {
	var dirs []string
	for _, dir := range filepath.SplitList(e.SearchPath) {
		if strings.TrimSpace(dir) != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// SystemFontDir returns <SystemRoot>/Fonts, or "" when SystemRoot is unset.
func (e Environment) SystemFontDir() string {
	if e.SystemRoot == "" {
		return ""
	}
	return filepath.Join(e.SystemRoot, "Fonts")
}

// AppFontDir returns the application's private Fonts directory.
func (e Environment) AppFontDir() string {
	if e.AppDir == "" {
		return ""
	}
	return filepath.Join(e.AppDir, "Fonts")
}

func environMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m[k] = v
	}
	for _, want := range envKeys {
		if _, ok := m[want]; ok {
			continue
		}
		for k, v := range m {
			if strings.EqualFold(k, want) {
				m[want] = v
				break
			}
		}
	}
	return m
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}
