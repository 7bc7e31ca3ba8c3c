// Package export writes analysis results as JSON, CSV, HTML and Markdown
// reports.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/c360studio/curriculens/analysis"
)

// Format identifies an output format.
type Format string

// Supported formats.
const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
)

// ErrUnknownFormat is returned for a format name with no writer.
var ErrUnknownFormat = errors.New("unknown export format")

// BaseName prefixes every file an export writes.
const BaseName = "curriculens-report"

// writeFunc writes one format into dir and returns the created files.
type writeFunc func(dir string, r *analysis.Result) ([]string, error)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string

	write writeFunc
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "Full result, one JSON document",
		write:       writeJSONFile,
	},
	FormatCSV: {
		Name:        FormatCSV,
		MIMEType:    "text/csv",
		Extension:   ".csv",
		Description: "One spreadsheet-friendly table per file",
		write:       writeCSVFiles,
	},
	FormatHTML: {
		Name:        FormatHTML,
		MIMEType:    "text/html",
		Extension:   ".html",
		Description: "Standalone HTML report",
		write:       writeHTMLFile,
	},
	FormatMarkdown: {
		Name:        FormatMarkdown,
		MIMEType:    "text/markdown",
		Extension:   ".md",
		Description: "Markdown report converted from the HTML report",
		write:       writeMarkdownFile,
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Names lists the supported format names, sorted.
func Names() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// ParseFormats resolves names (case-insensitive, "markdown" accepted for
// md) and drops duplicates.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool)
	var out []Format
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		if f == "markdown" {
			f = FormatMarkdown
		}
		if _, ok := FormatRegistry[f]; !ok {
			return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, n, strings.Join(Names(), ", "))
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Export writes r to dir in each format and returns the written paths.
func Export(dir string, r *analysis.Result, formats []Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	for _, f := range formats {
		info, ok := FormatRegistry[f]
		if !ok {
			return written, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
		files, err := info.write(dir, r)
		if err != nil {
			return written, fmt.Errorf("export %s: %w", f, err)
		}
		written = append(written, files...)
	}
	return written, nil
}

func reportPath(dir, ext string) string {
	return filepath.Join(dir, BaseName+ext)
}
