package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDictionary(t *testing.T) {
	d := DefaultDictionary()
	require.Equal(t, 10, d.Len())
	assert.Equal(t, "SOSTENIBILIDAD", d.IDs()[0])
	assert.Equal(t, "CALIDAD", d.IDs()[9])

	theme, ok := d.Theme("ETICA")
	require.True(t, ok)
	assert.Equal(t, "#F39C12", theme.Color)
	assert.Contains(t, theme.Keywords, "compliance")
}

func TestNewDictionary_Validation(t *testing.T) {
	tests := []struct {
		name    string
		themes  []Theme
		wantErr error
	}{
		{"blank id", []Theme{{ID: "  ", Keywords: []string{"x"}}}, ErrEmptyThemeID},
		{"duplicate", []Theme{
			{ID: "A", Keywords: []string{"uno"}},
			{ID: "A", Keywords: []string{"dos"}},
		}, ErrDuplicateTheme},
		{"no keywords", []Theme{{ID: "A"}}, ErrEmptyKeywords},
		{"blank keyword", []Theme{{ID: "A", Keywords: []string{"ok", "   "}}}, ErrEmptyKeywords},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDictionary(tt.themes)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	d, err := NewDictionary(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestDictionary_EditsReturnNewSnapshot(t *testing.T) {
	base := MustDictionary([]Theme{
		{ID: "A", Label: "Alpha", Keywords: []string{"alfa"}},
		{ID: "B", Label: "Beta", Keywords: []string{"beta"}},
	})

	added, err := base.WithTheme(Theme{ID: "C", Keywords: []string{"gamma"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, added.IDs())
	assert.Equal(t, []string{"A", "B"}, base.IDs())

	replaced, err := base.WithTheme(Theme{ID: "A", Label: "Alpha 2", Keywords: []string{"nuevo"}})
	require.NoError(t, err)
	a, _ := replaced.Theme("A")
	assert.Equal(t, []string{"nuevo"}, a.Keywords, "keyword list is replaced, not merged")
	assert.Equal(t, []string{"A", "B"}, replaced.IDs(), "replacement keeps position")
	orig, _ := base.Theme("A")
	assert.Equal(t, []string{"alfa"}, orig.Keywords)

	removed, err := base.WithoutTheme("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, removed.IDs())
	assert.Equal(t, 2, base.Len())

	_, err = base.WithoutTheme("Z")
	assert.ErrorIs(t, err, ErrUnknownTheme)

	_, err = base.WithTheme(Theme{ID: "B"})
	assert.ErrorIs(t, err, ErrEmptyKeywords)
	b, _ := base.Theme("B")
	assert.Equal(t, []string{"beta"}, b.Keywords, "failed edit leaves receiver intact")

	whole, err := base.Replace([]Theme{{ID: "X", Keywords: []string{"equis"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, whole.IDs())
	assert.Equal(t, 2, base.Len())
}

func TestDictionary_ThemesAreCopies(t *testing.T) {
	d := MustDictionary([]Theme{{ID: "A", Keywords: []string{"alfa"}}})
	themes := d.Themes()
	themes[0].Keywords[0] = "mutated"

	a, _ := d.Theme("A")
	assert.Equal(t, "alfa", a.Keywords[0])
}

func TestParseDictionary_LegacyJSON(t *testing.T) {
	data := []byte(`{
  "TENDENCIAS_GLOBALES": {
    "ZETA": {"keywords": ["zeta"], "color": "#000", "descripcion": "Ultima letra"},
    "ALFA": {"keywords": ["alfa", "primera"], "descripcion": "Primera letra"}
  }
}`)
	d, err := ParseDictionary(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"ZETA", "ALFA"}, d.IDs(), "document order is kept")

	z, _ := d.Theme("ZETA")
	assert.Equal(t, "Ultima letra", z.Label)
	assert.Equal(t, "#000", z.Color)
}

func TestParseDictionary_YAMLList(t *testing.T) {
	data := []byte(`
themes:
  - id: SALUD
    label: Salud publica
    keywords: [salud, epidemiologia]
`)
	d, err := ParseDictionary(data)
	require.NoError(t, err)
	s, ok := d.Theme("SALUD")
	require.True(t, ok)
	assert.Equal(t, "Salud publica", s.DisplayLabel())
}

func TestParseDictionary_Errors(t *testing.T) {
	_, err := ParseDictionary([]byte(`other: 1`))
	assert.ErrorIs(t, err, ErrNoThemes)

	_, err = ParseDictionary([]byte(`{"TENDENCIAS_GLOBALES": {"A": {"keywords": []}}}`))
	assert.ErrorIs(t, err, ErrEmptyKeywords)

	_, err = ParseDictionary([]byte(`themes: [`))
	assert.Error(t, err)
}

func TestSaveAndLoadDictionary(t *testing.T) {
	dir := t.TempDir()
	d := DefaultDictionary()

	for _, name := range []string{"dict.json", "nested/dict.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveDictionary(path, d))

			loaded, err := LoadDictionary(path)
			require.NoError(t, err)
			assert.Equal(t, d.Themes(), loaded.Themes())
		})
	}

	_, err := LoadDictionary(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestDefaultCognitiveTaxonomy(t *testing.T) {
	tax := DefaultCognitiveTaxonomy()

	tests := []struct {
		verb string
		want Level
	}{
		{"evaluar", LevelEvaluate},
		{"Evaluar", LevelEvaluate},
		{"diseñar", LevelCreate},
		{"DISENAR", LevelCreate},
		{"comparar", LevelAnalyze},
		{"definir", LevelRecall},
		{"explicar.", LevelUnderstand},
	}
	for _, tt := range tests {
		t.Run(tt.verb, func(t *testing.T) {
			got, ok := tax.LevelOf(tt.verb)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := tax.LevelOf("cocinar")
	assert.False(t, ok)
	assert.Len(t, tax.Levels(), 6)
}

func TestNewCognitiveTaxonomy_RejectsOverlap(t *testing.T) {
	defs := DefaultLevels()
	defs[1].Verbs = append(defs[1].Verbs, "Comparar")

	_, err := NewCognitiveTaxonomy(defs)
	assert.ErrorIs(t, err, ErrOverlappingVerb)
}

func TestNewCognitiveTaxonomy_LevelChecks(t *testing.T) {
	defs := DefaultLevels()

	_, err := NewCognitiveTaxonomy(defs[:5])
	assert.ErrorIs(t, err, ErrInvalidLevel)

	bad := DefaultLevels()
	bad[0].Level = 7
	_, err = NewCognitiveTaxonomy(bad)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	twice := DefaultLevels()
	twice[1].Level = LevelRecall
	_, err = NewCognitiveTaxonomy(twice)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestLoadCognitiveTaxonomy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bloom.yaml")
	content := `levels:
  - {level: 1, name: R, verbs: [listar]}
  - {level: 2, name: U, verbs: [explicar]}
  - {level: 3, name: Ap, verbs: [aplicar]}
  - {level: 4, name: An, verbs: [analizar]}
  - {level: 5, name: E, verbs: [evaluar]}
  - {level: 6, name: C, verbs: [crear, idear]}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tax, err := LoadCognitiveTaxonomy(path)
	require.NoError(t, err)
	l, ok := tax.LevelOf("idear")
	assert.True(t, ok)
	assert.Equal(t, LevelCreate, l)
}

func TestResolveLevel(t *testing.T) {
	tax := DefaultCognitiveTaxonomy()
	rules := DefaultDomainRules()

	tests := []struct {
		name   string
		verb   string
		domain string
		want   Level
	}{
		{"verb wins over domain", "evaluar", "Diseñar soluciones", LevelEvaluate},
		{"create from domain", "idear", "Diseñar prototipos", LevelCreate},
		{"create from unaccented domain", "idear", "disenar prototipos", LevelCreate},
		{"analysis first", "x", "análisis y creación", LevelAnalyze},
		{"evaluation", "x", "Crítica de fuentes", LevelEvaluate},
		{"application", "x", "Aplicación práctica", LevelApply},
		{"comprehension", "x", "Entiende conceptos", LevelUnderstand},
		{"no signal", "cocinar", "", DefaultLevel},
		{"unrelated domain", "cocinar", "otro", DefaultLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLevel(tax, rules, tt.verb, tt.domain))
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "Create", LevelCreate.String())
	assert.Equal(t, "Level(9)", Level(9).String())
}
