// Package config loads the optional .flatwire.yaml project file (spec.md
// §6.1 expansion): default output directory, default emit target, a
// license header to prepend to generated files, and casing-check
// strictness. It follows the teacher's core/types validated-config
// style (validation_config.go): parse with yaml.v3, then validate the
// parsed document against an embedded JSON Schema before trusting it.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// Config is the parsed, validated project configuration.
type Config struct {
	OutDir        string `yaml:"outDir"`
	DefaultTarget string `yaml:"defaultTarget"`
	LicenseHeader string `yaml:"licenseHeader"`
	StrictCasing  bool   `yaml:"strictCasing"`
}

// Default returns the configuration used when no .flatwire.yaml is present.
func Default() *Config {
	return &Config{OutDir: ".", DefaultTarget: "cpp", StrictCasing: true}
}

var compiledSchema *jsonschema.Schema

func schema() (*jsonschema.Schema, error) {
	if compiledSchema != nil {
		return compiledSchema, nil
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("flatwire-config.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("config: compiling embedded schema: %w", err)
	}
	s, err := c.Compile("flatwire-config.json")
	if err != nil {
		return nil, fmt.Errorf("config: compiling embedded schema: %w", err)
	}
	compiledSchema = s
	return s, nil
}

// Load reads and validates path, returning Default() unchanged if path
// does not exist.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	doc = toStringKeyedMaps(doc)

	s, err := schema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("config: %s does not match schema: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, nil
}

// toStringKeyedMaps converts yaml.v3's map[string]interface{} decode
// result recursively so the jsonschema validator (which expects
// map[string]interface{}, not yaml's occasionally-map[interface{}]interface{}
// shape from older decoders) sees a consistent tree.
func toStringKeyedMaps(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = toStringKeyedMaps(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = toStringKeyedMaps(val)
		}
		return out
	default:
		return v
	}
}
