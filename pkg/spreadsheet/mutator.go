package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// solidFillPattern is the excelize pattern index of a solid fill.
const solidFillPattern = 1

// StyleChange alters one attribute of a cloned style.
type StyleChange func(s *Spreadsheet, style *excelize.Style)

// BoldToggle flips the bold flag on a cloned font.
func BoldToggle() StyleChange {
	return func(s *Spreadsheet, style *excelize.Style) {
		font := s.CloneFont(style)
		font.Bold = !font.Bold
		style.Font = font
	}
}

// BackgroundColor overwrites the fill with a solid fill of c.
func BackgroundColor(c Color) StyleChange {
	return func(_ *Spreadsheet, style *excelize.Style) {
		style.Fill.Type = "pattern"
		style.Fill.Pattern = solidFillPattern
		style.Fill.Color = []string{string(c)}
	}
}

// FontColor overwrites the font color with c. Theme, tint and indexed colors
// are cleared so the RGB value is the one rendered.
func FontColor(c Color) StyleChange {
	return func(s *Spreadsheet, style *excelize.Style) {
		font := s.CloneFont(style)
		font.Color = string(c)
		font.ColorTheme = nil
		font.ColorTint = 0
		font.ColorIndexed = 0
		style.Font = font
	}
}

// ToggleBold flips bold on every selected cell. A nil spreadsheet or an
// empty selection is a no-op.
func ToggleBold(s *Spreadsheet) ([]CellView, error) {
	return s.RestyleSelection(BoldToggle())
}

// SetBackgroundColor fills every selected cell with c. A nil color is a
// no-op.
func SetBackgroundColor(s *Spreadsheet, c *Color) ([]CellView, error) {
	if c == nil {
		return nil, nil
	}
	return s.RestyleSelection(BackgroundColor(*c))
}

// SetFontColor sets the font color of every selected cell to c. A nil color
// is a no-op.
func SetFontColor(s *Spreadsheet, c *Color) ([]CellView, error) {
	if c == nil {
		return nil, nil
	}
	return s.RestyleSelection(FontColor(*c))
}

// RestyleSelection applies change to a clone of each selected cell's style,
// assigns the clone to that cell and returns the repaint entries for the
// modified cells. Cells missing from the sheet are created empty first.
func (s *Spreadsheet) RestyleSelection(change StyleChange) ([]CellView, error) {
	if s == nil {
		return nil, nil
	}
	refs := s.SelectedCellReferences()
	if len(refs) == 0 {
		return nil, nil
	}
	modified := make([]*Cell, 0, len(refs))
	for _, ref := range refs {
		if err := s.restyle(ref, change, &modified); err != nil {
			views, _ := s.RefreshCells(modified)
			return views, err
		}
	}
	return s.RefreshCells(modified)
}

func (s *Spreadsheet) restyle(ref CellRef, change StyleChange, modified *[]*Cell) error {
	cell, err := s.GetOrCreateCell(ref)
	if err != nil {
		return err
	}
	style, err := s.CloneStyle(cell)
	if err != nil {
		return fmt.Errorf("clone style of %s: %w", ref, err)
	}
	change(s, style)
	if err := s.AssignStyle(cell, style); err != nil {
		return err
	}
	*modified = append(*modified, cell)
	return nil
}
