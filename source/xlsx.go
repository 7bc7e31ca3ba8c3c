package source

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads Excel workbooks.
type XLSXReader struct{}

// NewXLSXReader creates an Excel reader.
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// Extensions implements Reader.
func (*XLSXReader) Extensions() []string {
	return []string{".xlsx", ".xlsm"}
}

// Read implements Reader. Every sheet is read with formatted cell values.
func (*XLSXReader) Read(ctx context.Context, path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb := NewWorkbook(path)
	for _, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.AddSheet(name, rows)
	}
	return wb, nil
}
