package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newInvoiceSpreadsheet(t *testing.T) *Spreadsheet {
	t.Helper()
	f, err := BuildInvoice(SampleInvoice())
	require.NoError(t, err)
	ss := FromFile(f)
	t.Cleanup(func() { ss.Close() })
	return ss
}

func cellStyle(t *testing.T, ss *Spreadsheet, name string) (int, *excelize.Style) {
	t.Helper()
	id, err := ss.Workbook().GetCellStyle(ss.SheetName(), name)
	require.NoError(t, err)
	style, err := ss.Workbook().GetStyle(id)
	require.NoError(t, err)
	return id, style
}

func colorPtr(t *testing.T, css string) *Color {
	t.Helper()
	c, err := ParseColor(css)
	require.NoError(t, err)
	return &c
}

func TestToggleBoldTwiceRestoresStyle(t *testing.T) {
	ss := newInvoiceSpreadsheet(t)
	// A13 is a bold header cell, A14 a plain bordered item cell.
	require.NoError(t, ss.Select("A13", "A14"))

	_, headerBefore := cellStyle(t, ss, "A13")
	_, itemBefore := cellStyle(t, ss, "A14")
	require.True(t, headerBefore.Font.Bold)

	views, err := ToggleBold(ss)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.False(t, views[0].Bold)
	assert.True(t, views[1].Bold)

	views, err = ToggleBold(ss)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].Bold)
	assert.False(t, views[1].Bold)

	for name, before := range map[string]*excelize.Style{"A13": headerBefore, "A14": itemBefore} {
		_, after := cellStyle(t, ss, name)
		assert.Equal(t, before.Fill, after.Fill, name)
		assert.Equal(t, before.Border, after.Border, name)
		assert.Equal(t, before.Alignment, after.Alignment, name)
		assert.Equal(t, before.NumFmt, after.NumFmt, name)
		assertFontAttributes(t, before.Font, after.Font, true)
	}
}

func TestCloneDoesNotAffectCellsSharingStyle(t *testing.T) {
	ss := newInvoiceSpreadsheet(t)
	sharedID, shared := cellStyle(t, ss, "A13")
	otherID, _ := cellStyle(t, ss, "B13")
	require.Equal(t, sharedID, otherID, "header cells share one style")

	require.NoError(t, ss.Select("B13"))
	_, err := SetBackgroundColor(ss, colorPtr(t, "#00FF00"))
	require.NoError(t, err)
	_, err = ToggleBold(ss)
	require.NoError(t, err)
	_, err = SetFontColor(ss, colorPtr(t, "#000000"))
	require.NoError(t, err)

	idA, styleA := cellStyle(t, ss, "A13")
	assert.Equal(t, sharedID, idA)
	assert.Equal(t, shared, styleA)
	for _, name := range []string{"C13", "D13"} {
		id, _ := cellStyle(t, ss, name)
		assert.Equal(t, sharedID, id, name)
	}

	idB, styleB := cellStyle(t, ss, "B13")
	assert.NotEqual(t, sharedID, idB)
	assert.Equal(t, Color("00FF00"), NativeColor(styleB.Fill.Color[0]))
	assert.False(t, styleB.Font.Bold)
	assert.Equal(t, Color("000000"), NativeColor(styleB.Font.Color))
}

func TestCloneStyleIsDeepCopy(t *testing.T) {
	ss := newInvoiceSpreadsheet(t)
	cell, err := ss.GetCell(CellRef{Row: 12, Col: 0})
	require.NoError(t, err)
	require.NotNil(t, cell)

	original, err := ss.CloneStyle(cell)
	require.NoError(t, err)
	clone := copyStyle(original)
	clone.Font.Bold = false
	clone.Fill.Color[0] = "000000"
	clone.Border[0].Color = "FF0000"
	clone.Alignment.Horizontal = "left"

	assert.True(t, original.Font.Bold)
	assert.Equal(t, "1565C0", original.Fill.Color[0])
	assert.Equal(t, "BDBDBD", original.Border[0].Color)
	assert.Equal(t, "center", original.Alignment.Horizontal)

	font := ss.CloneFont(original)
	font.Color = "00FF00"
	assert.Equal(t, "FFFFFF", original.Font.Color)
}

func TestCloneFontWithoutFont(t *testing.T) {
	ss := New()
	defer ss.Close()
	font := ss.CloneFont(&excelize.Style{})
	require.NotNil(t, font)
	assert.Equal(t, excelize.Font{}, *font)
}

func TestBackgroundColorRoundTrip(t *testing.T) {
	ss := New()
	defer ss.Close()
	require.NoError(t, ss.Select("C3"))

	for _, css := range []string{"#FF0000", "#1a2b3c", "#0f0"} {
		want := colorPtr(t, css)
		views, err := SetBackgroundColor(ss, want)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, *want, views[0].Background)

		_, style := cellStyle(t, ss, "C3")
		require.Len(t, style.Fill.Color, 1)
		assert.Equal(t, *want, NativeColor(style.Fill.Color[0]))
	}
}

func TestRepaintEntryPerSelectedCell(t *testing.T) {
	ss := New()
	defer ss.Close()
	_, err := ss.CreateCell(CellRef{Row: 0, Col: 0}, "present")
	require.NoError(t, err)

	require.NoError(t, ss.Select("A1:B3", "A1"))
	refs := ss.SelectedCellReferences()
	require.Len(t, refs, 6)

	for name, run := range map[string]func() ([]CellView, error){
		"bold":       func() ([]CellView, error) { return ToggleBold(ss) },
		"background": func() ([]CellView, error) { return SetBackgroundColor(ss, colorPtr(t, "#ABCDEF")) },
		"font color": func() ([]CellView, error) { return SetFontColor(ss, colorPtr(t, "#123456")) },
	} {
		views, err := run()
		require.NoError(t, err, name)
		require.Len(t, views, len(refs), name)
		for i, ref := range refs {
			assert.Equal(t, ref.Name(), views[i].Ref, name)
		}
	}
	assert.Equal(t, "present", mustValue(t, ss, "A1"))
}

func TestNilColorLeavesStylesUnchanged(t *testing.T) {
	ss := newInvoiceSpreadsheet(t)
	require.NoError(t, ss.Select("A1", "A13", "Z99"))
	before := map[string]int{}
	for _, name := range []string{"A1", "A13", "Z99"} {
		before[name], _ = cellStyle(t, ss, name)
	}

	views, err := SetBackgroundColor(ss, nil)
	require.NoError(t, err)
	assert.Empty(t, views)
	views, err = SetFontColor(ss, nil)
	require.NoError(t, err)
	assert.Empty(t, views)

	for name, id := range before {
		after, _ := cellStyle(t, ss, name)
		assert.Equal(t, id, after, name)
	}
	cell, err := ss.GetCell(CellRef{Row: 98, Col: 25})
	require.NoError(t, err)
	assert.Nil(t, cell, "no cell is created for a no-op")
}

func TestEmptySelectionAndMissingSpreadsheet(t *testing.T) {
	ss := New()
	defer ss.Close()

	views, err := ToggleBold(ss)
	require.NoError(t, err)
	assert.Empty(t, views)

	views, err = ToggleBold(nil)
	require.NoError(t, err)
	assert.Empty(t, views)
	views, err = SetBackgroundColor(nil, colorPtr(t, "#FF0000"))
	require.NoError(t, err)
	assert.Empty(t, views)
	views, err = SetFontColor(nil, colorPtr(t, "#FF0000"))
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestBackgroundOnAbsentCellKeepsDefaultFont(t *testing.T) {
	ss := New()
	defer ss.Close()

	cell, err := ss.GetCell(CellRef{Row: 0, Col: 0})
	require.NoError(t, err)
	require.Nil(t, cell)
	defaultStyle, err := ss.Style(0)
	require.NoError(t, err)

	ss.SetSelection([]CellRef{{Row: 0, Col: 0}})
	views, err := SetBackgroundColor(ss, colorPtr(t, "#FF0000"))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "A1", views[0].Ref)
	assert.Equal(t, "", views[0].Value)

	cell, err = ss.GetCell(CellRef{Row: 0, Col: 0})
	require.NoError(t, err)
	require.NotNil(t, cell)
	assert.Equal(t, "", cell.Value())

	style, err := ss.Style(cell.StyleID())
	require.NoError(t, err)
	require.Len(t, style.Fill.Color, 1)
	assert.Equal(t, "#FF0000", NativeColor(style.Fill.Color[0]).CSS())
	assertFontAttributes(t, defaultStyle.Font, style.Font, false)
}

func TestFontColorClearsThemeColor(t *testing.T) {
	ss := New()
	defer ss.Close()
	require.NoError(t, ss.Select("B2"))

	views, err := SetFontColor(ss, colorPtr(t, "#00ff00"))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, Color("00FF00"), views[0].FontColor)
	assert.Contains(t, views[0].CSS, "color:#00FF00;")

	_, style := cellStyle(t, ss, "B2")
	require.NotNil(t, style.Font)
	assert.Nil(t, style.Font.ColorTheme)
	assert.Equal(t, "00FF00", style.Font.Color)
}

func TestExportKeepsStyleChanges(t *testing.T) {
	ss := newInvoiceSpreadsheet(t)
	require.NoError(t, ss.Select("A1"))
	_, err := ToggleBold(ss)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ss.Export(&buf))

	reopened, err := OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, InvoiceSheet, reopened.SheetName())
	_, style := cellStyle(t, reopened, "A1")
	require.NotNil(t, style.Font)
	assert.False(t, style.Font.Bold)
	assert.Equal(t, DefaultInvoiceTitle, mustValue(t, reopened, "A1"))
}

// assertFontAttributes compares every font attribute the toolbar does not
// own. Bold is compared too unless skipped by the caller.
func assertFontAttributes(t *testing.T, want, got *excelize.Font, compareBold bool) {
	t.Helper()
	if want == nil {
		want = &excelize.Font{}
	}
	if got == nil {
		got = &excelize.Font{}
	}
	if compareBold {
		assert.Equal(t, want.Bold, got.Bold, "bold")
	}
	assert.Equal(t, want.Italic, got.Italic, "italic")
	assert.Equal(t, want.Underline, got.Underline, "underline")
	assert.Equal(t, want.Strike, got.Strike, "strike")
	assert.Equal(t, want.Size, got.Size, "size")
	assert.Equal(t, want.Family, got.Family, "family")
	assert.Equal(t, want.Color, got.Color, "color")
}

func mustValue(t *testing.T, ss *Spreadsheet, name string) string {
	t.Helper()
	v, err := ss.Workbook().GetCellValue(ss.SheetName(), name)
	require.NoError(t, err)
	return v
}
