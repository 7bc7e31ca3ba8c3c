package curriculum

import (
	"fmt"
	"sync"
)

// Warning is a recoverable, per-record data problem. The record or the
// derived value is left out and the run continues.
type Warning struct {
	Program string `json:"program"`
	Sheet   string `json:"sheet,omitempty"`
	Row     int    `json:"row,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	loc := w.Program
	if w.Sheet != "" {
		loc += "/" + w.Sheet
	}
	if w.Row > 0 {
		loc += fmt.Sprintf(":%d", w.Row)
	}
	if w.Field != "" {
		return fmt.Sprintf("%s [%s]: %s", loc, w.Field, w.Message)
	}
	return fmt.Sprintf("%s: %s", loc, w.Message)
}

// Warnings collects warnings. The zero value is ready to use and a nil
// *Warnings discards everything.
type Warnings struct {
	mu    sync.Mutex
	items []Warning
}

// Add records a warning.
func (w *Warnings) Add(warn Warning) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.items = append(w.items, warn)
	w.mu.Unlock()
}

// Addf records a formatted warning.
func (w *Warnings) Addf(program, sheet string, row int, field, format string, args ...any) {
	w.Add(Warning{Program: program, Sheet: sheet, Row: row, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Items returns a copy of the collected warnings.
func (w *Warnings) Items() []Warning {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Warning(nil), w.items...)
}

// Len returns the number of warnings.
func (w *Warnings) Len() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}
