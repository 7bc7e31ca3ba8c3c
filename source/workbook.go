// Package source reads program workbooks from disk and turns them into
// curriculum.Program values.
//
// Readers are registered by file extension. A Reader only returns raw
// sheets; the Loader locates header rows, maps sheets to the curriculum
// schema and reports anything missing as warnings.
package source

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/c360studio/curriculens/textnorm"
)

// Workbook is the raw content of one program file.
type Workbook struct {
	// Path is the file or directory the workbook was read from.
	Path string

	// Sheets maps sheet names to rows of cells.
	Sheets map[string][][]string

	// Order lists sheet names as they appear in the file.
	Order []string
}

// NewWorkbook creates an empty workbook for path.
func NewWorkbook(path string) *Workbook {
	return &Workbook{Path: path, Sheets: make(map[string][][]string)}
}

// AddSheet appends a sheet. A repeated name replaces the earlier rows.
func (w *Workbook) AddSheet(name string, rows [][]string) {
	if _, ok := w.Sheets[name]; !ok {
		w.Order = append(w.Order, name)
	}
	w.Sheets[name] = rows
}

// FindSheet resolves want against the workbook's sheet names. An exact
// name wins; otherwise names are compared after normalization, and a name
// that is a prefix of the other matches too (exported sheet names are
// often truncated).
func (w *Workbook) FindSheet(want string) (string, bool) {
	if _, ok := w.Sheets[want]; ok {
		return want, true
	}
	key := sheetKey(want)
	if key == "" {
		return "", false
	}
	for _, name := range w.Order {
		k := sheetKey(name)
		if k == "" {
			continue
		}
		if k == key || (len(k) >= minSheetPrefix && strings.HasPrefix(key, k)) ||
			(len(key) >= minSheetPrefix && strings.HasPrefix(k, key)) {
			return name, true
		}
	}
	return "", false
}

// minSheetPrefix keeps "paso" alone from matching every step sheet.
const minSheetPrefix = 5

func sheetKey(name string) string {
	return strings.ReplaceAll(textnorm.NormalizeLabel(name), " ", "")
}

// programPattern extracts the program from FormatoRA_<Name>_<CAMPUS> style
// file names.
var programPattern = regexp.MustCompile(`Format(?:o)?RA_(.+?)_[A-Z]{4}`)

// ProgramName derives a program name from a workbook path. Names that do
// not follow the FormatoRA_<Name>_<CAMPUS> convention fall back to the
// file name without extension.
func ProgramName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if m := programPattern.FindStringSubmatch(stem); m != nil {
		return strings.TrimSpace(strings.ReplaceAll(m[1], "_", " "))
	}
	return stem
}

// DefaultHeaderScanRows is how many leading rows are searched for a header.
const DefaultHeaderScanRows = 10

// FindHeaderRow returns the 0-based index of the row among the first
// maxRows that contains the most expected column labels. The match counts
// only when at least half the expected labels are present.
func FindHeaderRow(rows [][]string, expected []string, maxRows int) (int, bool) {
	if len(expected) == 0 {
		return 0, false
	}
	want := make([]string, len(expected))
	for i, e := range expected {
		want[i] = textnorm.NormalizeLabel(e)
	}

	best, bestScore := -1, 0
	for i := 0; i < len(rows) && i < maxRows; i++ {
		have := make(map[string]struct{}, len(rows[i]))
		for _, cell := range rows[i] {
			have[textnorm.NormalizeLabel(cell)] = struct{}{}
		}
		score := 0
		for _, w := range want {
			if _, ok := have[w]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 || float64(bestScore) < float64(len(expected))*0.5 {
		return 0, false
	}
	return best, true
}
