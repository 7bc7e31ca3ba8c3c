// Package taxonomy holds the vocabularies the analysis runs against: the
// thematic keyword dictionary, the cognitive-level verb taxonomy, the
// declared-domain fallback table, and the active-methodology keywords.
//
// Every type here is an immutable snapshot. Edits return a new value; a run
// that holds a *Dictionary never observes a partial change.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/curriculens/textnorm"
)

// Theme is one trend or topic detected through its keyword list.
type Theme struct {
	// ID is the stable key used in matrices and files. Never displayed.
	ID string `json:"id" yaml:"id"`

	// Label is the human-readable description.
	Label string `json:"label" yaml:"label"`

	// Color is an optional presentation hint (e.g. "#2ECC71").
	Color string `json:"color,omitempty" yaml:"color,omitempty"`

	// Keywords are matched as word prefixes against normalized text.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// DisplayLabel returns Label, falling back to ID.
func (t Theme) DisplayLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return t.ID
}

func (t Theme) clone() Theme {
	t.Keywords = append([]string(nil), t.Keywords...)
	return t
}

// Dictionary is an ordered, validated set of themes.
type Dictionary struct {
	themes []Theme
	index  map[string]int
}

// NewDictionary validates themes and returns a snapshot that owns a copy of
// them. Theme IDs must be unique and non-blank; every theme needs at least
// one keyword that is non-blank after normalization.
func NewDictionary(themes []Theme) (*Dictionary, error) {
	d := &Dictionary{
		themes: make([]Theme, 0, len(themes)),
		index:  make(map[string]int, len(themes)),
	}

	for _, t := range themes {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, ErrEmptyThemeID
		}
		if _, dup := d.index[t.ID]; dup {
			return nil, fmt.Errorf("theme %q: %w", t.ID, ErrDuplicateTheme)
		}
		if err := validateKeywords(t); err != nil {
			return nil, err
		}
		d.index[t.ID] = len(d.themes)
		d.themes = append(d.themes, t.clone())
	}

	return d, nil
}

// MustDictionary is NewDictionary that panics. Use for built-in tables.
func MustDictionary(themes []Theme) *Dictionary {
	d, err := NewDictionary(themes)
	if err != nil {
		panic(err)
	}
	return d
}

func validateKeywords(t Theme) error {
	if len(t.Keywords) == 0 {
		return fmt.Errorf("theme %q: %w", t.ID, ErrEmptyKeywords)
	}
	for i, kw := range t.Keywords {
		if textnorm.Normalize(kw) == "" {
			return fmt.Errorf("theme %q keyword %d: %w", t.ID, i, ErrEmptyKeywords)
		}
	}
	return nil
}

// Len returns the number of themes.
func (d *Dictionary) Len() int {
	return len(d.themes)
}

// Themes returns a copy of the themes in declaration order.
func (d *Dictionary) Themes() []Theme {
	out := make([]Theme, len(d.themes))
	for i, t := range d.themes {
		out[i] = t.clone()
	}
	return out
}

// IDs returns theme IDs in declaration order.
func (d *Dictionary) IDs() []string {
	ids := make([]string, len(d.themes))
	for i, t := range d.themes {
		ids[i] = t.ID
	}
	return ids
}

// Theme returns the theme with the given ID.
func (d *Dictionary) Theme(id string) (Theme, bool) {
	i, ok := d.index[id]
	if !ok {
		return Theme{}, false
	}
	return d.themes[i].clone(), true
}

// WithTheme returns a new dictionary where t is added at the end, or
// replaces the existing theme with the same ID in place. The keyword list
// is replaced as a whole, never merged.
func (d *Dictionary) WithTheme(t Theme) (*Dictionary, error) {
	themes := d.Themes()
	if i, ok := d.index[strings.TrimSpace(t.ID)]; ok {
		themes[i] = t
	} else {
		themes = append(themes, t)
	}
	return NewDictionary(themes)
}

// WithoutTheme returns a new dictionary without the theme id.
func (d *Dictionary) WithoutTheme(id string) (*Dictionary, error) {
	i, ok := d.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTheme, id)
	}
	themes := d.Themes()
	themes = append(themes[:i], themes[i+1:]...)
	return NewDictionary(themes)
}

// Replace returns a dictionary built from themes alone. The receiver is
// left as it was.
func (d *Dictionary) Replace(themes []Theme) (*Dictionary, error) {
	return NewDictionary(themes)
}

// dictionaryFile accepts two layouts: a "themes" list, or the legacy
// TENDENCIAS_GLOBALES object keyed by theme ID. yaml.v3 parses JSON too,
// and a yaml.Node keeps the legacy object's key order.
type dictionaryFile struct {
	Themes []Theme   `yaml:"themes"`
	Legacy yaml.Node `yaml:"TENDENCIAS_GLOBALES"`
}

type legacyTheme struct {
	Keywords    []string `yaml:"keywords"`
	Color       string   `yaml:"color"`
	Description string   `yaml:"descripcion"`
	Label       string   `yaml:"label"`
}

// ParseDictionary decodes a YAML or JSON dictionary document.
func ParseDictionary(data []byte) (*Dictionary, error) {
	var file dictionaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}

	themes := file.Themes
	if len(themes) == 0 && file.Legacy.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(file.Legacy.Content); i += 2 {
			id := file.Legacy.Content[i].Value
			var lt legacyTheme
			if err := file.Legacy.Content[i+1].Decode(&lt); err != nil {
				return nil, fmt.Errorf("parse theme %q: %w", id, err)
			}
			label := lt.Label
			if label == "" {
				label = lt.Description
			}
			themes = append(themes, Theme{ID: id, Label: label, Color: lt.Color, Keywords: lt.Keywords})
		}
	}

	if len(themes) == 0 {
		return nil, ErrNoThemes
	}
	return NewDictionary(themes)
}

// LoadDictionary reads a dictionary file (.yaml, .yml or .json).
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file: %w", err)
	}
	d, err := ParseDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// SaveDictionary writes d to path. The extension picks JSON or YAML.
func SaveDictionary(path string, d *Dictionary) error {
	doc := struct {
		Themes []Theme `json:"themes" yaml:"themes"`
	}{Themes: d.Themes()}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal dictionary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create dictionary directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write dictionary file: %w", err)
	}
	return nil
}
