package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var builtinPresets []byte

// Presets maps a preset name to a complete, validated deck policy.
type Presets map[string]models.DeckPolicy

// LoadPresets returns the built-in presets, overlaid with the presets in path
// when path is not empty. A file preset with the same name as a built-in one
// replaces it.
func LoadPresets(path string) (Presets, error) {
	presets, err := ParsePresets(builtinPresets)
	if err != nil {
		return nil, fmt.Errorf("builtin presets: %w", err)
	}
	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}
	extra, err := ParsePresets(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for name, p := range extra {
		presets[name] = p
	}
	return presets, nil
}

// ParsePresets decodes a YAML document of named policies. Each entry starts
// from the default deck policy, so a preset only lists what it changes.
func ParsePresets(data []byte) (Presets, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	presets := make(Presets, len(raw))
	for name, node := range raw {
		p := models.DefaultDeckPolicy()
		if err := node.Decode(&p); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		if err := flashcard.ValidatePolicy(p); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		presets[name] = p
	}
	return presets, nil
}

// Get returns the named preset.
func (p Presets) Get(name string) (models.DeckPolicy, bool) {
	policy, ok := p[name]
	return policy, ok
}

// Names returns the preset names in alphabetical order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
