package curriculum

import (
	"math"
	"sort"
	"strings"

	"github.com/c360studio/curriculens/textnorm"
)

// Component is a training component a subject belongs to.
type Component string

const (
	ComponentInstitutional Component = "Institucional"
	ComponentDisciplinary  Component = "Disciplinar"
	ComponentElective      Component = "Electivo"
)

// componentColumns maps the flag columns of the micro strategy sheet to
// components, in report order. A non-blank cell marks the component.
var componentColumns = []struct {
	column    string
	component Component
}{
	{ColInstitutional, ComponentInstitutional},
	{ColDisciplinary, ComponentDisciplinary},
	{ColElective, ComponentElective},
}

// ActivityMethod names a teaching method and the keywords that reveal it
// in a learning activity description.
type ActivityMethod struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// DefaultActivityMethods returns the built-in method vocabulary.
func DefaultActivityMethods() []ActivityMethod {
	return []ActivityMethod{
		{Name: "Clase magistral", Keywords: []string{"magistral", "exposicion", "clase teorica"}},
		{Name: "Taller", Keywords: []string{"taller", "practica"}},
		{Name: "Proyecto", Keywords: []string{"proyecto", "pbl", "aprendizaje basado en proyectos"}},
		{Name: "Caso de estudio", Keywords: []string{"caso", "estudio de caso"}},
		{Name: "Debate", Keywords: []string{"debate", "discusion"}},
		{Name: "Investigación", Keywords: []string{"investigacion", "indagacion"}},
		{Name: "Trabajo colaborativo", Keywords: []string{"colaborativo", "grupal", "equipo"}},
		{Name: "Simulación", Keywords: []string{"simulacion", "juego de rol"}},
	}
}

// ClassifyActivity returns the names of the methods whose keywords occur
// in text, in method order. Keywords match as substrings after
// normalization, so "caso" also finds "casos".
func ClassifyActivity(text string, methods []ActivityMethod) []string {
	norm := textnorm.Normalize(text)
	if norm == "" {
		return nil
	}
	var names []string
	for _, m := range methods {
		for _, kw := range m.Keywords {
			if k := textnorm.Normalize(kw); k != "" && strings.Contains(norm, k) {
				names = append(names, m.Name)
				break
			}
		}
	}
	return names
}

// Share is a label with its count and its percentage of a base.
type Share struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MicroProfile describes how a program's activities are organized.
type MicroProfile struct {
	Program    string `json:"program"`
	Activities int    `json:"activities"`

	// Typology shares are over all activities; blank typologies are not
	// listed.
	Typology []Share `json:"typology,omitempty"`

	// Components has one entry per component, over all activities.
	Components []Share `json:"components"`

	// Described counts activities with a learning activity text; Methods
	// shares are over them and list only detected methods.
	Described int     `json:"described"`
	Methods   []Share `json:"methods,omitempty"`
}

// SummarizeMicro profiles the activities that belong to program.
func SummarizeMicro(program string, activities []Activity, methods []ActivityMethod) MicroProfile {
	mp := MicroProfile{Program: program}

	typology := newCounter()
	components := make(map[Component]int)
	methodCounts := make(map[string]int)

	for _, a := range activities {
		if a.Program != program {
			continue
		}
		mp.Activities++
		typology.add(a.Typology)
		for _, c := range a.Components {
			components[c]++
		}
		if strings.TrimSpace(a.LearningActivity) == "" {
			continue
		}
		mp.Described++
		for _, name := range ClassifyActivity(a.LearningActivity, methods) {
			methodCounts[name]++
		}
	}

	mp.Typology = typology.shares(mp.Activities)
	for _, cc := range componentColumns {
		n := components[cc.component]
		mp.Components = append(mp.Components, Share{Label: string(cc.component), Count: n, Percentage: percent(n, mp.Activities)})
	}
	for _, m := range methods {
		if n := methodCounts[m.Name]; n > 0 {
			mp.Methods = append(mp.Methods, Share{Label: m.Name, Count: n, Percentage: percent(n, mp.Described)})
		}
	}
	return mp
}

// counter groups labels by normalized form and keeps the first spelling.
type counter struct {
	counts  map[string]int
	display map[string]string
	order   []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int), display: make(map[string]string)}
}

func (c *counter) add(label string) {
	key := textnorm.Normalize(label)
	if key == "" {
		return
	}
	if _, ok := c.counts[key]; !ok {
		c.display[key] = strings.TrimSpace(label)
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// shares orders by count, ties by first appearance.
func (c *counter) shares(total int) []Share {
	order := append([]string(nil), c.order...)
	sort.SliceStable(order, func(i, j int) bool { return c.counts[order[i]] > c.counts[order[j]] })
	out := make([]Share, 0, len(order))
	for _, k := range order {
		out = append(out, Share{Label: c.display[k], Count: c.counts[k], Percentage: percent(c.counts[k], total)})
	}
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}
