// Package schema validates canonical manifests against the embedded JSON
// Schema. Validation is advisory: the import path reports violations but
// never blocks a run, since every normalizer already guarantees a usable
// fallback value.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/folio/internal/manifest"
)

//go:embed schemas/manifest.json
var manifestSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("manifest.json", bytes.NewReader(manifestSchema)); err != nil {
			compileErr = fmt.Errorf("load manifest schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("manifest.json")
	})
	return compiled, compileErr
}

// Validate checks a canonical manifest against the schema. A non-nil error
// describes the first violations found; callers treat it as a warning.
func Validate(m *manifest.Manifest) error {
	data, err := m.JSON()
	if err != nil {
		return err
	}
	return ValidateBytes(data)
}

// ValidateBytes validates serialized canonical manifest JSON.
func ValidateBytes(data []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse manifest for validation: %w", err)
	}

	if err := s.Validate(v); err != nil {
		return fmt.Errorf("manifest schema validation: %w", err)
	}
	return nil
}
