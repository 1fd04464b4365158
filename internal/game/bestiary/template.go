// Package bestiary loads creature template content from YAML files,
// used to seed a campaign's bestiary.
package bestiary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/torchlight-games/chronicler/internal/game/dice"
	"github.com/torchlight-games/chronicler/internal/game/entity"
)

// Template defines a reusable creature archetype loaded from YAML.
type Template struct {
	Name        string             `yaml:"name"`
	ThreatLevel entity.ThreatLevel `yaml:"threat_level"`
	Health      int                `yaml:"health"`
	// Weapons maps weapon name to damage dice expression.
	Weapons map[string]string `yaml:"weapons"`
}

// Validate checks that the template satisfies basic invariants.
//
// Postcondition: Returns nil iff Name is non-empty, ThreatLevel is one
// of the seven enumerated levels, Health >= 1, and every weapon's dice
// expression parses; returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("bestiary template: name must not be empty")
	}
	if !t.ThreatLevel.Valid() {
		return fmt.Errorf("bestiary template %q: unrecognized threat_level %q", t.Name, t.ThreatLevel)
	}
	if t.Health < 1 {
		return fmt.Errorf("bestiary template %q: health must be >= 1", t.Name)
	}
	for weapon, expr := range t.Weapons {
		if _, err := dice.Parse(expr); err != nil {
			return fmt.Errorf("bestiary template %q: weapon %q: %w", t.Name, weapon, err)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses a single creature template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading bestiary dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
