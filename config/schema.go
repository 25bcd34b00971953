package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	jsv "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "drawhost://config.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsv.Schema
	compileErr  error
)

// Schema returns the JSON schema of Config.
func Schema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	r.Anonymous = true

	s := r.Reflect(&Config{})
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generated schema: %w", err)
	}
	return b, nil
}

func compiledSchema() (*jsv.Schema, error) {
	compileOnce.Do(func() {
		raw, err := Schema()
		if err != nil {
			compileErr = err
			return
		}
		c := jsv.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks cfg against Schema() and parses its product version.
// Enumerated fields are compared case-insensitively.
func Validate(cfg Config) error {
	cfg = cfg.Normalized()

	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	b, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := cfg.Version(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
