package curriculum

import (
	"strings"

	"github.com/c360studio/curriculens/textnorm"
)

// Table is one sheet as read by a loader: header labels plus string cells.
// Rows are padded or cut to len(Columns).
type Table struct {
	Name string `json:"name,omitempty"`

	// HeaderRow is the 1-based sheet row of the header, used to report
	// source row numbers in warnings.
	HeaderRow int `json:"header_row,omitempty"`

	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewTable builds a table, trimming every cell and dropping rows that are
// entirely blank.
func NewTable(name string, headerRow int, columns []string, rows [][]string) Table {
	t := Table{Name: name, HeaderRow: headerRow, Columns: append([]string(nil), columns...)}
	for _, raw := range rows {
		row := make([]string, len(columns))
		blank := true
		for i := range row {
			if i < len(raw) {
				row[i] = strings.TrimSpace(raw[i])
			}
			if row[i] != "" {
				blank = false
			}
		}
		if !blank {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Column returns the index of the column whose normalized label equals the
// normalized name, or -1.
func (t Table) Column(name string) int {
	want := textnorm.NormalizeLabel(name)
	for i, c := range t.Columns {
		if textnorm.NormalizeLabel(c) == want {
			return i
		}
	}
	return -1
}

// Value returns the cell at row for column name, or "".
func (t Table) Value(row int, name string) string {
	col := t.Column(name)
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][col]
}

// SourceRow converts a data row index to the 1-based sheet row.
func (t Table) SourceRow(row int) int {
	return t.HeaderRow + row + 1
}

// FillRatio is the share of non-blank cells. An empty table yields 0.
func (t Table) FillRatio() float64 {
	total := len(t.Rows) * len(t.Columns)
	if total == 0 {
		return 0
	}
	filled := 0
	for _, row := range t.Rows {
		for _, cell := range row {
			if cell != "" {
				filled++
			}
		}
	}
	return float64(filled) / float64(total)
}
