package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Style returns the definition of the style at index id.
func (s *Spreadsheet) Style(id int) (*excelize.Style, error) {
	style, err := s.file.GetStyle(id)
	if err != nil {
		return nil, fmt.Errorf("get style %d: %w", id, err)
	}
	return style, nil
}

// CloneStyle returns a private copy of the style cell references. Changing
// the copy never affects other cells that share the original style index.
func (s *Spreadsheet) CloneStyle(cell *Cell) (*excelize.Style, error) {
	style, err := s.Style(cell.styleID)
	if err != nil {
		return nil, err
	}
	return copyStyle(style), nil
}

// CloneFont returns a private copy of the font style references. A style
// without a font yields a zero font.
func (s *Spreadsheet) CloneFont(style *excelize.Style) *excelize.Font {
	if style == nil || style.Font == nil {
		return &excelize.Font{}
	}
	return copyFont(style.Font)
}

// AssignStyle registers style in the workbook and applies it to cell only.
func (s *Spreadsheet) AssignStyle(cell *Cell, style *excelize.Style) error {
	id, err := s.file.NewStyle(style)
	if err != nil {
		return fmt.Errorf("register style for %s: %w", cell.Ref, err)
	}
	name := cell.Ref.Name()
	if err := s.file.SetCellStyle(s.sheet, name, name, id); err != nil {
		return fmt.Errorf("set style of %s: %w", name, err)
	}
	cell.styleID = id
	return nil
}

func copyStyle(src *excelize.Style) *excelize.Style {
	dst := *src
	if src.Border != nil {
		dst.Border = make([]excelize.Border, len(src.Border))
		copy(dst.Border, src.Border)
	}
	if src.Fill.Color != nil {
		dst.Fill.Color = make([]string, len(src.Fill.Color))
		copy(dst.Fill.Color, src.Fill.Color)
	}
	if src.Font != nil {
		dst.Font = copyFont(src.Font)
	}
	if src.Alignment != nil {
		alignment := *src.Alignment
		dst.Alignment = &alignment
	}
	if src.Protection != nil {
		protection := *src.Protection
		dst.Protection = &protection
	}
	if src.DecimalPlaces != nil {
		places := *src.DecimalPlaces
		dst.DecimalPlaces = &places
	}
	if src.CustomNumFmt != nil {
		numFmt := *src.CustomNumFmt
		dst.CustomNumFmt = &numFmt
	}
	return &dst
}

func copyFont(src *excelize.Font) *excelize.Font {
	dst := *src
	if src.ColorTheme != nil {
		theme := *src.ColorTheme
		dst.ColorTheme = &theme
	}
	if src.Charset != nil {
		charset := *src.Charset
		dst.Charset = &charset
	}
	return &dst
}
