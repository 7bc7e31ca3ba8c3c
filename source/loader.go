package source

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/c360studio/curriculens/curriculum"
)

// SheetNames maps the four program sheets to their names in the input
// files.
type SheetNames struct {
	Competencies    string `yaml:"competencies" json:"competencies"`
	Outcomes        string `yaml:"outcomes" json:"outcomes"`
	MesoStrategies  string `yaml:"meso_strategies" json:"meso_strategies"`
	MicroStrategies string `yaml:"micro_strategies" json:"micro_strategies"`
}

// DefaultSheetNames returns the sheet names of the standard program
// workbook.
func DefaultSheetNames() SheetNames {
	return SheetNames{
		Competencies:    curriculum.SheetCompetencies,
		Outcomes:        curriculum.SheetOutcomes,
		MesoStrategies:  curriculum.SheetMesoStrategies,
		MicroStrategies: curriculum.SheetMicroStrategies,
	}
}

// withDefaults fills blank names.
func (s SheetNames) withDefaults() SheetNames {
	d := DefaultSheetNames()
	if s.Competencies == "" {
		s.Competencies = d.Competencies
	}
	if s.Outcomes == "" {
		s.Outcomes = d.Outcomes
	}
	if s.MesoStrategies == "" {
		s.MesoStrategies = d.MesoStrategies
	}
	if s.MicroStrategies == "" {
		s.MicroStrategies = d.MicroStrategies
	}
	return s
}

// LoaderOptions configure a Loader.
type LoaderOptions struct {
	Sheets         SheetNames
	HeaderScanRows int
	Registry       *Registry
	Logger         *slog.Logger
}

// Loader turns input files into programs.
type Loader struct {
	sheets   SheetNames
	scanRows int
	registry *Registry
	logger   *slog.Logger
}

// NewLoader creates a loader. Zero options use the defaults.
func NewLoader(opts LoaderOptions) *Loader {
	l := &Loader{
		sheets:   opts.Sheets.withDefaults(),
		scanRows: opts.HeaderScanRows,
		registry: opts.Registry,
		logger:   opts.Logger,
	}
	if l.scanRows <= 0 {
		l.scanRows = DefaultHeaderScanRows
	}
	if l.registry == nil {
		l.registry = DefaultRegistry
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

type sheetSpec struct {
	name     string
	expected []string
	required bool
	target   *curriculum.Table
}

// Load reads one program. Sheet-level problems are recorded in w; only an
// unreadable file is an error.
func (l *Loader) Load(ctx context.Context, path string, w *curriculum.Warnings) (*curriculum.Program, error) {
	wb, err := l.registry.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return l.Build(wb, w), nil
}

// Build maps an already read workbook onto the curriculum schema.
func (l *Loader) Build(wb *Workbook, w *curriculum.Warnings) *curriculum.Program {
	program := ProgramName(wb.Path)

	var tables curriculum.Tables
	specs := []sheetSpec{
		{l.sheets.Competencies, curriculum.ExpectedColumns[curriculum.SheetCompetencies], true, &tables.Competencies},
		{l.sheets.Outcomes, curriculum.ExpectedColumns[curriculum.SheetOutcomes], true, &tables.Outcomes},
		{l.sheets.MesoStrategies, curriculum.ExpectedColumns[curriculum.SheetMesoStrategies], false, &tables.MesoStrategies},
		{l.sheets.MicroStrategies, curriculum.ExpectedColumns[curriculum.SheetMicroStrategies], false, &tables.MicroStrategies},
	}

	for _, s := range specs {
		name, ok := wb.FindSheet(s.name)
		if !ok {
			kind := "optional"
			if s.required {
				kind = "required"
			}
			w.Addf(program, s.name, 0, "", "%s sheet not found", kind)
			l.logger.Warn("Sheet not found", "program", program, "sheet", s.name, "required", s.required)
			continue
		}
		*s.target = l.table(program, name, wb.Sheets[name], s.expected, w)
	}

	p := curriculum.NewProgram(program, wb.Path, tables, w)
	l.logger.Debug("Program loaded",
		"program", program,
		"file", filepath.Base(wb.Path),
		"competencies", len(p.Competencies),
		"outcomes", len(p.Outcomes),
		"activities", len(p.Activities))
	return p
}

func (l *Loader) table(program, sheet string, rows [][]string, expected []string, w *curriculum.Warnings) curriculum.Table {
	if len(rows) == 0 {
		w.Addf(program, sheet, 0, "", "sheet is empty")
		return curriculum.Table{Name: sheet}
	}

	header, ok := FindHeaderRow(rows, expected, l.scanRows)
	if !ok {
		w.Addf(program, sheet, 1, "", "no header row found in the first %d rows, using row 1", l.scanRows)
		header = 0
	}
	return curriculum.NewTable(sheet, header+1, rows[header], rows[header+1:])
}

// LoadAll loads every path. Files that cannot be read are logged, recorded
// as warnings and skipped; the error is non-nil only when ctx ends.
func (l *Loader) LoadAll(ctx context.Context, paths []string, w *curriculum.Warnings) ([]*curriculum.Program, error) {
	programs := make([]*curriculum.Program, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return programs, err
		}
		p, err := l.Load(ctx, path, w)
		if err != nil {
			if ctx.Err() != nil {
				return programs, ctx.Err()
			}
			l.logger.Error("Failed to load program", "path", path, "error", err)
			w.Addf(ProgramName(path), "", 0, "", "skipped: %v", err)
			continue
		}
		programs = append(programs, p)
	}
	l.logger.Info("Programs loaded", "loaded", len(programs), "inputs", len(paths))
	return programs, nil
}
