package spreadsheet

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	InvoiceSheet        = "Invoice"
	DefaultInvoiceTitle = "Simple Invoice"
)

// StyleTemplate describes a cell style in CSS-ish terms.
type StyleTemplate struct {
	Font      *FontTemplate
	Fill      *FillTemplate
	Alignment *AlignmentTemplate
	NumFmt    int
	Border    bool
}

type FontTemplate struct {
	Bold   bool
	Italic bool
	Size   float64
	Color  string // Hex color
}

type FillTemplate struct {
	Color string // Hex color
}

type AlignmentTemplate struct {
	Horizontal string // center, left, right
	Vertical   string // top, center, bottom
}

// InvoiceLine is one billed item.
type InvoiceLine struct {
	Description string
	Quantity    int
	UnitPrice   float64
}

// Invoice is the content of the sample workbook.
type Invoice struct {
	Title    string
	Number   string
	Date     string
	From     []string
	BillTo   []string
	Lines    []InvoiceLine
	TaxRate  float64
	Currency string
}

// SampleInvoice is the invoice the tutorial ships with.
func SampleInvoice() Invoice {
	return Invoice{
		Title:  DefaultInvoiceTitle,
		Number: "INV-0042",
		Date:   "2024-03-01",
		From:   []string{"Northwind Supplies", "12 Harbour Road", "Portsmouth PO1 3AX"},
		BillTo: []string{"Acme Corporation", "1 Infinite Loop", "Springfield"},
		Lines: []InvoiceLine{
			{Description: "Spreadsheet component license", Quantity: 2, UnitPrice: 1200},
			{Description: "Onboarding workshop (day)", Quantity: 1, UnitPrice: 950},
			{Description: "Priority support (month)", Quantity: 6, UnitPrice: 120.5},
			{Description: "Custom theme", Quantity: 1, UnitPrice: 480},
		},
		TaxRate:  0.24,
		Currency: "EUR",
	}
}

// invoiceBuilder renders an Invoice with a per-template style cache so
// cells that look alike share one style index.
type invoiceBuilder struct {
	file       *excelize.File
	styleCache map[string]int
}

// BuildInvoice renders inv into a new workbook.
func BuildInvoice(inv Invoice) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", InvoiceSheet); err != nil {
		f.Close()
		return nil, err
	}
	b := &invoiceBuilder{file: f, styleCache: make(map[string]int)}
	if err := b.render(inv); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// WriteSampleInvoice writes SampleInvoice to path unless a file already
// exists there. It reports whether a file was written.
func WriteSampleInvoice(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	f, err := BuildInvoice(SampleInvoice())
	if err != nil {
		return false, fmt.Errorf("build sample invoice: %w", err)
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return false, fmt.Errorf("save sample invoice to %s: %w", path, err)
	}
	return true, nil
}

func (b *invoiceBuilder) render(inv Invoice) error {
	sheet := InvoiceSheet
	title := &StyleTemplate{
		Font: &FontTemplate{Bold: true, Size: 20, Color: "#1565C0"},
	}
	label := &StyleTemplate{Font: &FontTemplate{Bold: true}}
	header := &StyleTemplate{
		Font:      &FontTemplate{Bold: true, Color: "#FFFFFF"},
		Fill:      &FillTemplate{Color: "#1565C0"},
		Alignment: &AlignmentTemplate{Horizontal: "center", Vertical: "center"},
		Border:    true,
	}
	text := &StyleTemplate{Border: true}
	number := &StyleTemplate{Border: true, NumFmt: 4}
	total := &StyleTemplate{Font: &FontTemplate{Bold: true}, Fill: &FillTemplate{Color: "#E3F2FD"}, NumFmt: 4, Border: true}

	for _, col := range []struct {
		name  string
		width float64
	}{{"A", 36}, {"B", 12}, {"C", 14}, {"D", 16}} {
		if err := b.file.SetColWidth(sheet, col.name, col.name, col.width); err != nil {
			return err
		}
	}

	if err := b.set(sheet, "A1", inv.Title, title); err != nil {
		return err
	}
	if err := b.set(sheet, "C2", "Invoice #", label); err != nil {
		return err
	}
	if err := b.set(sheet, "D2", inv.Number, nil); err != nil {
		return err
	}
	if err := b.set(sheet, "C3", "Date", label); err != nil {
		return err
	}
	if err := b.set(sheet, "D3", inv.Date, nil); err != nil {
		return err
	}

	row := 3
	if err := b.set(sheet, cellName(1, row), "From", label); err != nil {
		return err
	}
	for i, line := range inv.From {
		if err := b.set(sheet, cellName(1, row+1+i), line, nil); err != nil {
			return err
		}
	}
	row += len(inv.From) + 2
	if err := b.set(sheet, cellName(1, row), "Bill To", label); err != nil {
		return err
	}
	for i, line := range inv.BillTo {
		if err := b.set(sheet, cellName(1, row+1+i), line, nil); err != nil {
			return err
		}
	}
	row += len(inv.BillTo) + 2

	for i, h := range []string{"Description", "Quantity", "Unit Price", "Amount (" + inv.Currency + ")"} {
		if err := b.set(sheet, cellName(i+1, row), h, header); err != nil {
			return err
		}
	}
	row++
	first := row
	for _, line := range inv.Lines {
		if err := b.set(sheet, cellName(1, row), line.Description, text); err != nil {
			return err
		}
		if err := b.set(sheet, cellName(2, row), line.Quantity, text); err != nil {
			return err
		}
		if err := b.set(sheet, cellName(3, row), line.UnitPrice, number); err != nil {
			return err
		}
		if err := b.formula(sheet, cellName(4, row), fmt.Sprintf("B%d*C%d", row, row), number); err != nil {
			return err
		}
		row++
	}
	last := row - 1

	subtotal := cellName(4, row)
	if err := b.set(sheet, cellName(3, row), "Subtotal", label); err != nil {
		return err
	}
	if err := b.formula(sheet, subtotal, fmt.Sprintf("SUM(D%d:D%d)", first, last), number); err != nil {
		return err
	}
	row++
	tax := cellName(4, row)
	if err := b.set(sheet, cellName(3, row), fmt.Sprintf("Tax %.0f%%", inv.TaxRate*100), label); err != nil {
		return err
	}
	if err := b.formula(sheet, tax, fmt.Sprintf("%s*%g", subtotal, inv.TaxRate), number); err != nil {
		return err
	}
	row++
	if err := b.set(sheet, cellName(3, row), "Total", label); err != nil {
		return err
	}
	return b.formula(sheet, cellName(4, row), fmt.Sprintf("%s+%s", subtotal, tax), total)
}

func (b *invoiceBuilder) set(sheet, cell string, value interface{}, tmpl *StyleTemplate) error {
	if err := b.file.SetCellValue(sheet, cell, value); err != nil {
		return err
	}
	return b.apply(sheet, cell, tmpl)
}

func (b *invoiceBuilder) formula(sheet, cell, formula string, tmpl *StyleTemplate) error {
	if err := b.file.SetCellFormula(sheet, cell, formula); err != nil {
		return err
	}
	return b.apply(sheet, cell, tmpl)
}

func (b *invoiceBuilder) apply(sheet, cell string, tmpl *StyleTemplate) error {
	if tmpl == nil {
		return nil
	}
	styleID, err := b.createStyle(tmpl)
	if err != nil {
		return err
	}
	return b.file.SetCellStyle(sheet, cell, cell, styleID)
}

func (b *invoiceBuilder) createStyle(tmpl *StyleTemplate) (int, error) {
	var sb strings.Builder
	if tmpl.Font != nil {
		fmt.Fprintf(&sb, "f:%v:%v:%g:%s|", tmpl.Font.Bold, tmpl.Font.Italic, tmpl.Font.Size, tmpl.Font.Color)
	}
	if tmpl.Fill != nil {
		fmt.Fprintf(&sb, "i:%s|", tmpl.Fill.Color)
	}
	if tmpl.Alignment != nil {
		fmt.Fprintf(&sb, "a:%s:%s|", tmpl.Alignment.Horizontal, tmpl.Alignment.Vertical)
	}
	fmt.Fprintf(&sb, "n:%d|b:%v", tmpl.NumFmt, tmpl.Border)
	key := sb.String()

	if id, ok := b.styleCache[key]; ok {
		return id, nil
	}

	style := &excelize.Style{NumFmt: tmpl.NumFmt}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:   tmpl.Font.Bold,
			Italic: tmpl.Font.Italic,
			Size:   tmpl.Font.Size,
			Color:  strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: solidFillPattern,
		}
	}
	if tmpl.Alignment != nil {
		style.Alignment = &excelize.Alignment{
			Horizontal: tmpl.Alignment.Horizontal,
			Vertical:   tmpl.Alignment.Vertical,
		}
	}
	if tmpl.Border {
		for _, side := range []string{"left", "top", "right", "bottom"} {
			style.Border = append(style.Border, excelize.Border{Type: side, Color: "BDBDBD", Style: 1})
		}
	}
	id, err := b.file.NewStyle(style)
	if err == nil {
		b.styleCache[key] = id
	}
	return id, err
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
