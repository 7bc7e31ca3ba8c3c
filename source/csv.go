package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/c360studio/curriculens/curriculum"
)

// CSVReader reads CSV exports. A directory holds one CSV file per sheet,
// named after the sheet; a single CSV file is read as the micro strategy
// sheet.
type CSVReader struct {
	// Comma is the field delimiter. Zero detects ',' or ';' from the
	// header line.
	Comma rune
}

// NewCSVReader creates a CSV reader with delimiter detection.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// Extensions implements Reader.
func (*CSVReader) Extensions() []string {
	return []string{".csv", DirExtension}
}

// Read implements Reader.
func (r *CSVReader) Read(ctx context.Context, path string) (*Workbook, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	wb := NewWorkbook(path)
	if !info.IsDir() {
		rows, err := r.readFile(path)
		if err != nil {
			return nil, err
		}
		wb.AddSheet(curriculum.SheetMicroStrategies, rows)
		return wb, nil
	}

	files, err := filepath.Glob(filepath.Join(path, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no CSV files in %s", ErrUnsupported, path)
	}
	sort.Strings(files)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := r.readFile(file)
		if err != nil {
			return nil, err
		}
		base := filepath.Base(file)
		wb.AddSheet(strings.TrimSuffix(base, filepath.Ext(base)), rows)
	}
	return wb, nil
}

func (r *CSVReader) readFile(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = r.Comma
	if cr.Comma == 0 {
		cr.Comma = detectComma(data)
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// detectComma picks ';' when the first line has more semicolons than
// commas, as spreadsheets in comma-decimal locales export.
func detectComma(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
