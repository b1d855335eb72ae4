package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var excelizeRaw = excelize.Options{RawCellValue: true}

// Cell is a cell of the spreadsheet's sheet together with the style index it
// references.
type Cell struct {
	Ref     CellRef
	value   string
	styleID int
}

// Value is the cell's raw value.
func (c *Cell) Value() string {
	return c.value
}

// StyleID is the index of the style the cell references.
func (c *Cell) StyleID() int {
	return c.styleID
}

// GetCell returns the cell at ref, or nil when nothing is stored there.
func (s *Spreadsheet) GetCell(ref CellRef) (*Cell, error) {
	name := ref.Name()
	if name == "" {
		return nil, fmt.Errorf("invalid cell reference %+v", ref)
	}
	value, err := s.file.GetCellValue(s.sheet, name, excelizeRaw)
	if err != nil {
		return nil, fmt.Errorf("get cell %s value: %w", name, err)
	}
	formula, err := s.file.GetCellFormula(s.sheet, name)
	if err != nil {
		return nil, fmt.Errorf("get cell %s formula: %w", name, err)
	}
	styleID, err := s.file.GetCellStyle(s.sheet, name)
	if err != nil {
		return nil, fmt.Errorf("get cell %s style: %w", name, err)
	}
	if value == "" && formula == "" && styleID == 0 {
		return nil, nil
	}
	return &Cell{Ref: ref, value: value, styleID: styleID}, nil
}

// CreateCell stores value at ref and returns the new cell.
func (s *Spreadsheet) CreateCell(ref CellRef, value string) (*Cell, error) {
	name := ref.Name()
	if name == "" {
		return nil, fmt.Errorf("invalid cell reference %+v", ref)
	}
	if err := s.file.SetCellStr(s.sheet, name, value); err != nil {
		return nil, fmt.Errorf("create cell %s: %w", name, err)
	}
	styleID, err := s.file.GetCellStyle(s.sheet, name)
	if err != nil {
		return nil, fmt.Errorf("get cell %s style: %w", name, err)
	}
	return &Cell{Ref: ref, value: value, styleID: styleID}, nil
}

// GetOrCreateCell returns the cell at ref, creating an empty one if absent.
func (s *Spreadsheet) GetOrCreateCell(ref CellRef) (*Cell, error) {
	cell, err := s.GetCell(ref)
	if err != nil {
		return nil, err
	}
	if cell != nil {
		return cell, nil
	}
	return s.CreateCell(ref, "")
}
