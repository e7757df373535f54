package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"polysum/internal/domain/entity"
)

// fileConfig is the on-disk shape of a profile override file:
//
//	default:
//	  no_repeat_ngram_size: 3
//	  short:  {ratio: {lo: 0.11, hi: 0.18}, cap: {lo: 40, hi: 220}, length_penalty: 1.0}
//	  ...
//	languages:
//	  ja: {...}
type fileConfig struct {
	Default   *Profile           `yaml:"default"`
	Languages map[string]Profile `yaml:"languages"`
}

// LoadFile reads a YAML override file and returns a registry built on top of
// the built-in tables. Profiles named in the file replace the built-in ones
// wholesale; an omitted default keeps the built-in default.
// The path parameter is expected to come from a trusted source (env or CLI flag).
func LoadFile(path string) (*Registry, error) {
	// #nosec G304 -- path is provided by trusted configuration, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML bytes in the LoadFile format.
func Parse(data []byte) (*Registry, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	def := DefaultProfile()
	if cfg.Default != nil {
		def = *cfg.Default
		def.Name = DefaultName
	}

	dedicated := DedicatedProfiles()
	for code, p := range cfg.Languages {
		tag := entity.NormalizeTag(code)
		p.Name = tag.String()
		dedicated[tag] = p
	}

	reg := NewRegistry(def, dedicated)
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	return reg, nil
}
