package textmining

// SpanishStopWords is the built-in stop-word list. Entries are normalized
// (no accents) since tokens are normalized before filtering.
func SpanishStopWords() []string {
	return []string{
		"el", "la", "de", "que", "y", "a", "en", "un", "ser", "se", "no", "haber",
		"por", "con", "su", "para", "como", "estar", "tener", "le", "lo", "todo",
		"pero", "mas", "hacer", "o", "poder", "decir", "este", "ir", "otro", "ese",
		"si", "me", "ya", "ver", "porque", "dar", "cuando", "muy", "sin",
		"vez", "mucho", "saber", "sobre", "tambien", "hasta", "hay",
		"donde", "quien", "desde", "todos", "durante", "uno", "les", "ni",
		"contra", "otros", "fueron", "eso", "ante", "ellos", "e", "esto",
		"mi", "antes", "algunos", "unos", "yo", "del", "las", "los", "al",
	}
}
