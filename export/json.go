package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/c360studio/curriculens/analysis"
)

// WriteJSON encodes r as indented JSON.
func WriteJSON(w io.Writer, r *analysis.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

func writeJSONFile(dir string, r *analysis.Result) ([]string, error) {
	path := reportPath(dir, ".json")
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := WriteJSON(f, r); err != nil {
		f.Close()
		return nil, err
	}
	return []string{path}, f.Close()
}
