package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellView is what the page needs to paint one cell.
type CellView struct {
	Ref        string  `json:"ref"`
	Row        int     `json:"row"`
	Col        int     `json:"col"`
	Value      string  `json:"value"`
	Bold       bool    `json:"bold"`
	Italic     bool    `json:"italic"`
	Underline  bool    `json:"underline"`
	Strike     bool    `json:"strike"`
	FontSize   float64 `json:"font_size,omitempty"`
	FontColor  Color   `json:"font_color,omitempty"`
	Background Color   `json:"background,omitempty"`
	Align      string  `json:"align,omitempty"`
	CSS        string  `json:"css"`
}

// GridView is a rectangular window of the sheet starting at A1.
// Truncated is set when data lies outside the window.
type GridView struct {
	Sheet     string       `json:"sheet"`
	Columns   []string     `json:"columns"`
	Rows      [][]CellView `json:"rows"`
	Truncated bool         `json:"truncated"`
}

// GridSize bounds a rendered grid. Rows and Cols are the minimum window;
// MaxRows and MaxCols cap how far it grows to cover data. A max of zero
// or less leaves that dimension uncapped.
type GridSize struct {
	Rows    int
	Cols    int
	MaxRows int
	MaxCols int
}

// RefreshCells renders one repaint entry per cell, in order.
func (s *Spreadsheet) RefreshCells(cells []*Cell) ([]CellView, error) {
	views := make([]CellView, 0, len(cells))
	for _, cell := range cells {
		view, err := s.view(cell.Ref, cell.styleID)
		if err != nil {
			return views, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Grid renders at least size.Rows x size.Cols cells, growing to cover every
// row and column that holds data up to the configured maximum.
func (s *Spreadsheet) Grid(size GridSize) (*GridView, error) {
	data, err := s.file.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", s.sheet, err)
	}
	rows, cols := size.Rows, size.Cols
	if len(data) > rows {
		rows = len(data)
	}
	for _, row := range data {
		if len(row) > cols {
			cols = len(row)
		}
	}

	truncated := false
	if size.MaxRows > 0 && rows > size.MaxRows {
		rows, truncated = size.MaxRows, true
	}
	if size.MaxCols > 0 && cols > size.MaxCols {
		cols, truncated = size.MaxCols, true
	}

	grid := &GridView{
		Sheet:     s.sheet,
		Columns:   make([]string, cols),
		Rows:      make([][]CellView, rows),
		Truncated: truncated,
	}
	for col := 0; col < cols; col++ {
		grid.Columns[col], _ = excelize.ColumnNumberToName(col + 1)
	}
	for row := 0; row < rows; row++ {
		line := make([]CellView, cols)
		for col := 0; col < cols; col++ {
			ref := CellRef{Row: row, Col: col}
			styleID, err := s.file.GetCellStyle(s.sheet, ref.Name())
			if err != nil {
				return nil, fmt.Errorf("get cell %s style: %w", ref, err)
			}
			if line[col], err = s.view(ref, styleID); err != nil {
				return nil, err
			}
		}
		grid.Rows[row] = line
	}
	return grid, nil
}

func (s *Spreadsheet) view(ref CellRef, styleID int) (CellView, error) {
	name := ref.Name()
	value, err := s.file.GetCellValue(s.sheet, name)
	if err != nil {
		return CellView{}, fmt.Errorf("get cell %s value: %w", name, err)
	}
	view := CellView{Ref: name, Row: ref.Row, Col: ref.Col, Value: value}

	style, err := s.Style(styleID)
	if err != nil {
		return CellView{}, err
	}
	if font := style.Font; font != nil {
		view.Bold = font.Bold
		view.Italic = font.Italic
		view.Underline = font.Underline != "" && font.Underline != "none"
		view.Strike = font.Strike
		view.FontSize = font.Size
		view.FontColor = s.fontColor(font)
	}
	if style.Fill.Type == "pattern" && style.Fill.Pattern > 0 && len(style.Fill.Color) > 0 {
		view.Background = NativeColor(style.Fill.Color[0])
	}
	if style.Alignment != nil {
		view.Align = style.Alignment.Horizontal
	}
	view.CSS = view.css()
	return view, nil
}

func (s *Spreadsheet) fontColor(font *excelize.Font) Color {
	if font.Color != "" {
		return NativeColor(font.Color)
	}
	if font.ColorTheme == nil {
		return ""
	}
	base := s.file.GetBaseColor("", font.ColorIndexed, font.ColorTheme)
	if len(base) != 6 {
		return ""
	}
	return NativeColor(excelize.ThemeColor(base, font.ColorTint))
}

func (v CellView) css() string {
	var sb strings.Builder
	if v.Bold {
		sb.WriteString("font-weight:bold;")
	}
	if v.Italic {
		sb.WriteString("font-style:italic;")
	}
	switch {
	case v.Underline && v.Strike:
		sb.WriteString("text-decoration:underline line-through;")
	case v.Underline:
		sb.WriteString("text-decoration:underline;")
	case v.Strike:
		sb.WriteString("text-decoration:line-through;")
	}
	if v.FontSize > 0 {
		fmt.Fprintf(&sb, "font-size:%gpt;", v.FontSize)
	}
	if v.FontColor != "" {
		fmt.Fprintf(&sb, "color:%s;", v.FontColor.CSS())
	}
	if v.Background != "" {
		fmt.Fprintf(&sb, "background-color:%s;", v.Background.CSS())
	}
	switch v.Align {
	case "left", "center", "right", "justify":
		fmt.Fprintf(&sb, "text-align:%s;", v.Align)
	}
	return sb.String()
}
