package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/curriculens/textnorm"
)

// Level is a cognitive level, 1 (Recall) to 6 (Create).
type Level int

const (
	LevelRecall Level = iota + 1
	LevelUnderstand
	LevelApply
	LevelAnalyze
	LevelEvaluate
	LevelCreate
)

// DefaultLevel is used when neither the verb nor the declared domain
// resolves a level.
const DefaultLevel = LevelUnderstand

// Valid reports whether l is within 1..6.
func (l Level) Valid() bool {
	return l >= LevelRecall && l <= LevelCreate
}

func (l Level) String() string {
	switch l {
	case LevelRecall:
		return "Recall"
	case LevelUnderstand:
		return "Understand"
	case LevelApply:
		return "Apply"
	case LevelAnalyze:
		return "Analyze"
	case LevelEvaluate:
		return "Evaluate"
	case LevelCreate:
		return "Create"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// LevelDef lists the verbs of one level.
type LevelDef struct {
	Level Level    `yaml:"level" json:"level"`
	Name  string   `yaml:"name" json:"name"`
	Verbs []string `yaml:"verbs" json:"verbs"`
}

// CognitiveTaxonomy maps verbs to exactly one level.
type CognitiveTaxonomy struct {
	levels []LevelDef
	verbs  map[string]Level
}

// NewCognitiveTaxonomy validates defs. Each level 1..6 must appear exactly
// once, and a verb (after normalization) may belong to only one level.
func NewCognitiveTaxonomy(defs []LevelDef) (*CognitiveTaxonomy, error) {
	t := &CognitiveTaxonomy{
		levels: make([]LevelDef, 0, len(defs)),
		verbs:  make(map[string]Level),
	}

	seen := make(map[Level]bool, len(defs))
	for _, def := range defs {
		if !def.Level.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, def.Level)
		}
		if seen[def.Level] {
			return nil, fmt.Errorf("%w: level %d defined twice", ErrInvalidLevel, def.Level)
		}
		seen[def.Level] = true

		for _, v := range def.Verbs {
			key := textnorm.NormalizeLabel(v)
			if key == "" {
				continue
			}
			if prev, dup := t.verbs[key]; dup {
				return nil, fmt.Errorf("%w: %q in %s and %s", ErrOverlappingVerb, v, prev, def.Level)
			}
			t.verbs[key] = def.Level
		}
		def.Verbs = append([]string(nil), def.Verbs...)
		t.levels = append(t.levels, def)
	}

	if len(seen) != int(LevelCreate) {
		return nil, fmt.Errorf("%w: want 6 levels, got %d", ErrInvalidLevel, len(seen))
	}
	return t, nil
}

// LevelOf looks up verb exactly, ignoring case, accents and punctuation.
func (t *CognitiveTaxonomy) LevelOf(verb string) (Level, bool) {
	l, ok := t.verbs[textnorm.NormalizeLabel(verb)]
	return l, ok
}

// Levels returns a copy of the level definitions.
func (t *CognitiveTaxonomy) Levels() []LevelDef {
	out := make([]LevelDef, len(t.levels))
	for i, d := range t.levels {
		d.Verbs = append([]string(nil), d.Verbs...)
		out[i] = d
	}
	return out
}

// LoadCognitiveTaxonomy reads a YAML or JSON file of the form
// {levels: [{level, name, verbs}]}.
func LoadCognitiveTaxonomy(path string) (*CognitiveTaxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}
	var file struct {
		Levels []LevelDef `yaml:"levels"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	t, err := NewCognitiveTaxonomy(file.Levels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// DomainRule maps a substring of a declared domain-level field to a level.
type DomainRule struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Level   Level  `yaml:"level" json:"level"`
}

// DomainRules is an ordered decision table. This is a heuristic: it only
// reads substrings of the author's declared domain text.
type DomainRules []DomainRule

// Resolve returns the level of the first rule whose normalized pattern
// occurs in the normalized domain text.
func (r DomainRules) Resolve(domain string) (Level, bool) {
	text := textnorm.Normalize(domain)
	if text == "" {
		return 0, false
	}
	for _, rule := range r {
		p := textnorm.Normalize(rule.Pattern)
		if p != "" && strings.Contains(text, p) {
			return rule.Level, true
		}
	}
	return 0, false
}

// ResolveLevel resolves an outcome's level: exact verb lookup, then the
// domain rules, then DefaultLevel.
func ResolveLevel(t *CognitiveTaxonomy, rules DomainRules, verb, domain string) Level {
	if l, ok := t.LevelOf(verb); ok {
		return l
	}
	if l, ok := rules.Resolve(domain); ok {
		return l
	}
	return DefaultLevel
}
