package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/locvowork/spreadsheet_tutorial/internal/config"
	"github.com/locvowork/spreadsheet_tutorial/internal/service"
	"github.com/locvowork/spreadsheet_tutorial/internal/session"
	"github.com/locvowork/spreadsheet_tutorial/pkg/spreadsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func invoiceLoader(ctx context.Context) (*spreadsheet.Spreadsheet, error) {
	f, err := spreadsheet.BuildInvoice(spreadsheet.SampleInvoice())
	if err != nil {
		return nil, err
	}
	return spreadsheet.FromFile(f), nil
}

func newFixture(t *testing.T, load session.Loader) (service.StylingService, *session.Session) {
	t.Helper()
	st := session.NewStore(load, 0)
	t.Cleanup(func() { st.Close() })
	return service.NewStylingService(config.DefaultToolbarConfig(), spreadsheet.GridSize{Rows: 10, Cols: 6, MaxRows: 100, MaxCols: 26}), st.Create(context.Background())
}

func strPtr(s string) *string {
	return &s
}

func TestStylingServiceToolbarActions(t *testing.T) {
	svc, sess := newFixture(t, invoiceLoader)
	ctx := context.Background()

	selected, err := svc.Select(ctx, sess, []string{"A1", "B14:C15"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B14", "C14", "B15", "C15"}, selected.Cells)
	assert.Equal(t, []string{"A1", "B14:C15"}, selected.Ranges)

	t.Run("bold", func(t *testing.T) {
		repaint, err := svc.ToggleBold(ctx, sess)
		require.NoError(t, err)
		assert.False(t, repaint.Degraded)
		require.Len(t, repaint.Cells, 5)
		assert.False(t, repaint.Cells[0].Bold, "title starts bold")
		assert.True(t, repaint.Cells[1].Bold)
	})

	t.Run("background", func(t *testing.T) {
		repaint, err := svc.SetBackgroundColor(ctx, sess, strPtr("#ffeb3b"))
		require.NoError(t, err)
		require.Len(t, repaint.Cells, 5)
		for _, cell := range repaint.Cells {
			assert.Equal(t, spreadsheet.Color("FFEB3B"), cell.Background, cell.Ref)
		}
	})

	t.Run("font color", func(t *testing.T) {
		repaint, err := svc.SetFontColor(ctx, sess, strPtr("#0f0"))
		require.NoError(t, err)
		require.Len(t, repaint.Cells, 5)
		assert.Equal(t, spreadsheet.Color("00FF00"), repaint.Cells[4].FontColor)
		assert.Contains(t, repaint.Cells[4].CSS, "color:#00FF00")
	})

	t.Run("nil color is a no-op", func(t *testing.T) {
		repaint, err := svc.SetFontColor(ctx, sess, nil)
		require.NoError(t, err)
		assert.Empty(t, repaint.Cells)

		repaint, err = svc.SetBackgroundColor(ctx, sess, strPtr("  "))
		require.NoError(t, err)
		assert.Empty(t, repaint.Cells)
	})

	t.Run("invalid color", func(t *testing.T) {
		_, err := svc.SetBackgroundColor(ctx, sess, strPtr("#GGGGGG"))
		assert.True(t, errors.Is(err, service.ErrInvalidColor))
	})
}

func TestStylingServiceEmptySelection(t *testing.T) {
	svc, sess := newFixture(t, invoiceLoader)

	repaint, err := svc.ToggleBold(context.Background(), sess)
	require.NoError(t, err)
	assert.Empty(t, repaint.Cells)
	assert.False(t, repaint.Degraded)
}

func TestStylingServiceInvalidSelectionKeepsPrevious(t *testing.T) {
	svc, sess := newFixture(t, invoiceLoader)
	ctx := context.Background()

	_, err := svc.Select(ctx, sess, []string{"B2"})
	require.NoError(t, err)

	_, err = svc.Select(ctx, sess, []string{"C3", "not-a-cell"})
	assert.True(t, errors.Is(err, service.ErrInvalidSelection))

	view, err := svc.Sheet(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, []string{"B2"}, view.Cells)
	assert.Equal(t, []string{"B2"}, view.Ranges)
}

func TestStylingServiceSheet(t *testing.T) {
	svc, sess := newFixture(t, invoiceLoader)

	view, err := svc.Sheet(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, view.Grid)
	assert.Equal(t, spreadsheet.InvoiceSheet, view.Grid.Sheet)
	assert.GreaterOrEqual(t, len(view.Grid.Rows), 20, "grid grows to the invoice rows")
	assert.Equal(t, spreadsheet.DefaultInvoiceTitle, view.Grid.Rows[0][0].Value)
	assert.Equal(t, config.DefaultToolbarConfig(), svc.Toolbar())
	assert.False(t, view.Grid.Truncated)
}

func TestStylingServiceSheetClampsGrid(t *testing.T) {
	st := session.NewStore(invoiceLoader, 0)
	t.Cleanup(func() { st.Close() })
	sess := st.Create(context.Background())
	svc := service.NewStylingService(config.DefaultToolbarConfig(), spreadsheet.GridSize{Rows: 5, Cols: 2, MaxRows: 8, MaxCols: 3})

	view, err := svc.Sheet(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, view.Grid)
	assert.True(t, view.Grid.Truncated)
	assert.Len(t, view.Grid.Rows, 8)
	assert.Equal(t, []string{"A", "B", "C"}, view.Grid.Columns)
}

func TestStylingServiceExport(t *testing.T) {
	svc, sess := newFixture(t, invoiceLoader)
	ctx := context.Background()

	_, err := svc.Select(ctx, sess, []string{"A1"})
	require.NoError(t, err)
	_, err = svc.SetBackgroundColor(ctx, sess, strPtr("#FF0000"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, sess, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	id, err := f.GetCellStyle(spreadsheet.InvoiceSheet, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"FF0000"}, style.Fill.Color)
}

func TestStylingServiceDegradedSession(t *testing.T) {
	svc, sess := newFixture(t, func(context.Context) (*spreadsheet.Spreadsheet, error) {
		return nil, errors.New("open Simple Invoice.xlsx: no such file")
	})
	ctx := context.Background()

	repaint, err := svc.ToggleBold(ctx, sess)
	require.NoError(t, err)
	assert.True(t, repaint.Degraded)
	assert.Empty(t, repaint.Cells)

	repaint, err = svc.SetFontColor(ctx, sess, strPtr("#000000"))
	require.NoError(t, err)
	assert.True(t, repaint.Degraded)

	selected, err := svc.Select(ctx, sess, []string{"A1"})
	require.NoError(t, err)
	assert.Empty(t, selected.Cells)
	assert.Empty(t, selected.Ranges)

	view, err := svc.Sheet(ctx, sess)
	require.NoError(t, err)
	assert.True(t, view.Degraded)
	assert.Nil(t, view.Grid)

	assert.ErrorIs(t, svc.Export(ctx, sess, &bytes.Buffer{}), service.ErrNoWorkbook)
}
