// Package overridestore persists the capability override table as YAML and
// reloads it when an operator edits the file.
package overridestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/reglet-dev/drawhost/capability"
	"gopkg.in/yaml.v3"
)

var _ capability.Store = (*FileStore)(nil)

// fileStoreConfig holds configuration for the FileStore.
type fileStoreConfig struct {
	path     string
	dirPerm  os.FileMode
	filePerm os.FileMode
}

func defaultFileStoreConfig() fileStoreConfig {
	home, _ := os.UserHomeDir()
	return fileStoreConfig{
		path:     filepath.Join(home, ".drawhost", "overrides.yaml"),
		dirPerm:  0o755,
		filePerm: 0o600,
	}
}

// FileStoreOption configures a FileStore instance.
type FileStoreOption func(*fileStoreConfig)

// WithPath sets the path to the overrides file.
func WithPath(path string) FileStoreOption {
	return func(c *fileStoreConfig) {
		if path != "" {
			c.path = path
		}
	}
}

// WithFilePermissions sets the file permissions for the overrides file.
func WithFilePermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.filePerm = perm
	}
}

// WithDirPermissions sets the permissions for the parent directory.
func WithDirPermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.dirPerm = perm
	}
}

// document is the on-disk layout.
type document struct {
	Overrides map[string]bool `yaml:"overrides"`
}

// FileStore keeps the override table in a YAML file.
type FileStore struct {
	config fileStoreConfig
}

// NewFileStore creates a new FileStore with the given options.
func NewFileStore(opts ...FileStoreOption) *FileStore {
	cfg := defaultFileStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileStore{config: cfg}
}

// Load reads the table. A missing file is an empty table.
func (s *FileStore) Load() (map[capability.Name]bool, error) {
	data, err := os.ReadFile(s.config.path)
	if os.IsNotExist(err) {
		return map[capability.Name]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read override store: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse override store: %w", err)
	}

	out := make(map[capability.Name]bool, len(doc.Overrides))
	for name, enabled := range doc.Overrides {
		out[capability.Name(name)] = enabled
	}
	return out, nil
}

// Save writes the table, creating the parent directory if needed.
func (s *FileStore) Save(overrides map[capability.Name]bool) error {
	doc := document{Overrides: make(map[string]bool, len(overrides))}
	for name, enabled := range overrides {
		doc.Overrides[string(name)] = enabled
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal overrides: %w", err)
	}

	dir := filepath.Dir(s.config.path)
	if err := os.MkdirAll(dir, s.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create override store directory: %w", err)
	}

	if err := os.WriteFile(s.config.path, data, s.config.filePerm); err != nil {
		return fmt.Errorf("failed to write override store: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the backing file.
func (s *FileStore) ConfigPath() string {
	return s.config.path
}
