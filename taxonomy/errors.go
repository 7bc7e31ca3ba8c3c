package taxonomy

import "errors"

// Configuration errors. All of them are returned at construction or load
// time; nothing in this package fails while matching.
var (
	// ErrEmptyThemeID is returned when a theme has a blank identifier.
	ErrEmptyThemeID = errors.New("theme id is empty")

	// ErrDuplicateTheme is returned when two themes share an identifier.
	ErrDuplicateTheme = errors.New("duplicate theme id")

	// ErrEmptyKeywords is returned when a theme has no usable keyword.
	ErrEmptyKeywords = errors.New("theme has no keywords")

	// ErrUnknownTheme is returned when editing a theme that does not exist.
	ErrUnknownTheme = errors.New("unknown theme")

	// ErrNoThemes is returned when a dictionary file declares no themes.
	ErrNoThemes = errors.New("dictionary declares no themes")

	// ErrInvalidLevel is returned for cognitive levels outside 1..6 or
	// taxonomies that do not define each level exactly once.
	ErrInvalidLevel = errors.New("invalid cognitive level")

	// ErrOverlappingVerb is returned when a verb is listed under two levels.
	ErrOverlappingVerb = errors.New("verb listed under more than one level")
)
