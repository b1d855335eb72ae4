// Package spreadsheet holds the session-scoped spreadsheet handle: an xlsx
// workbook, the user's current selection, and the clone-then-replace style
// mutations the toolbar applies to that selection.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet is one user's view of a workbook. It is not safe for
// concurrent use; callers serialise access per session.
type Spreadsheet struct {
	file      *excelize.File
	sheet     string
	selection []CellRef
}

// New returns a spreadsheet over an empty workbook.
func New() *Spreadsheet {
	return newSpreadsheet(excelize.NewFile())
}

// Open loads the workbook at path and shows its active sheet.
func Open(path string) (*Spreadsheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return newSpreadsheet(f), nil
}

// OpenReader loads a workbook from r.
func OpenReader(r io.Reader) (*Spreadsheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	return newSpreadsheet(f), nil
}

// FromFile wraps an already opened workbook.
func FromFile(f *excelize.File) *Spreadsheet {
	return newSpreadsheet(f)
}

func newSpreadsheet(f *excelize.File) *Spreadsheet {
	return &Spreadsheet{
		file:  f,
		sheet: f.GetSheetName(f.GetActiveSheetIndex()),
	}
}

// SheetName is the name of the sheet the spreadsheet operates on.
func (s *Spreadsheet) SheetName() string {
	return s.sheet
}

// Workbook exposes the underlying document.
func (s *Spreadsheet) Workbook() *excelize.File {
	return s.file
}

// Export writes the workbook, including every style change, as xlsx.
func (s *Spreadsheet) Export(w io.Writer) error {
	if err := s.file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Close releases the workbook's temporary resources.
func (s *Spreadsheet) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}
