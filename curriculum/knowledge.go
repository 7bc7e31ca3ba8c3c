package curriculum

import (
	"errors"
	"fmt"
	"strings"

	"github.com/c360studio/curriculens/textnorm"
)

// ErrUnknownKnowledgeType is returned for tags outside the closed set.
var ErrUnknownKnowledgeType = errors.New("unknown knowledge type")

// KnowledgeType classifies an activity as theoretical, theoretical-practical
// or dispositional.
type KnowledgeType int

const (
	// KnowledgeUnknown is the zero value. It never survives loading.
	KnowledgeUnknown KnowledgeType = iota
	Theory
	TheoryPractice
	Disposition
)

// KnowledgeTypes lists the canonical values in report order.
var KnowledgeTypes = []KnowledgeType{Theory, TheoryPractice, Disposition}

var knowledgeAliases = map[string]KnowledgeType{
	"saber":           Theory,
	"teorico":         Theory,
	"teoria":          Theory,
	"theory":          Theory,
	"saberhacer":      TheoryPractice,
	"teoricopractico": TheoryPractice,
	"hacer":           TheoryPractice,
	"theorypractice":  TheoryPractice,
	"saberser":        Disposition,
	"ser":             Disposition,
	"actitudinal":     Disposition,
	"disposition":     Disposition,
}

// ParseKnowledgeType maps a free-text tag ("Saber Hacer", "saber-hacer",
// "SaberHacer", "Teórico práctico") onto the closed set.
func ParseKnowledgeType(s string) (KnowledgeType, error) {
	key := strings.ReplaceAll(textnorm.NormalizeLabel(s), " ", "")
	if k, ok := knowledgeAliases[key]; ok {
		return k, nil
	}
	return KnowledgeUnknown, fmt.Errorf("%w: %q", ErrUnknownKnowledgeType, s)
}

func (k KnowledgeType) String() string {
	switch k {
	case Theory:
		return "Theory"
	case TheoryPractice:
		return "TheoryPractice"
	case Disposition:
		return "Disposition"
	default:
		return "Unknown"
	}
}

// Label returns the tag as written in the source workbooks.
func (k KnowledgeType) Label() string {
	switch k {
	case Theory:
		return "Saber"
	case TheoryPractice:
		return "SaberHacer"
	case Disposition:
		return "SaberSer"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k KnowledgeType) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *KnowledgeType) UnmarshalText(b []byte) error {
	parsed, err := ParseKnowledgeType(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
