package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/locvowork/spreadsheet_tutorial/internal/config"
	"github.com/locvowork/spreadsheet_tutorial/internal/logger"
	"github.com/locvowork/spreadsheet_tutorial/internal/session"
	"github.com/locvowork/spreadsheet_tutorial/pkg/spreadsheet"
)

var (
	// ErrNoWorkbook is returned by operations that need the workbook when
	// the session failed to load it.
	ErrNoWorkbook = errors.New("no workbook loaded")
	// ErrInvalidColor wraps color values that are not hex triplets.
	ErrInvalidColor = errors.New("invalid color")
	// ErrInvalidSelection wraps malformed cell ranges.
	ErrInvalidSelection = errors.New("invalid selection")
)

// Repaint lists the cells the page must redraw after a toolbar action.
type Repaint struct {
	Cells    []spreadsheet.CellView `json:"repaint"`
	Degraded bool                   `json:"degraded"`
}

// Selection is the current selection both cell by cell and as the compact
// ranges the page sends back when extending it.
type Selection struct {
	Cells  []string `json:"selection"`
	Ranges []string `json:"ranges"`
}

// SheetView is the grid shown on page load.
type SheetView struct {
	Grid *spreadsheet.GridView `json:"grid,omitempty"`
	Selection
	Degraded bool `json:"degraded"`
}

type StylingService interface {
	ToggleBold(ctx context.Context, sess *session.Session) (*Repaint, error)
	SetBackgroundColor(ctx context.Context, sess *session.Session, color *string) (*Repaint, error)
	SetFontColor(ctx context.Context, sess *session.Session, color *string) (*Repaint, error)
	Select(ctx context.Context, sess *session.Session, ranges []string) (*Selection, error)
	Sheet(ctx context.Context, sess *session.Session) (*SheetView, error)
	Export(ctx context.Context, sess *session.Session, w io.Writer) error
	Toolbar() config.ToolbarConfig
}

type stylingService struct {
	toolbar config.ToolbarConfig
	grid    spreadsheet.GridSize
}

// NewStylingService renders sheet grids bounded by grid.
func NewStylingService(toolbar config.ToolbarConfig, grid spreadsheet.GridSize) StylingService {
	return &stylingService{toolbar: toolbar, grid: grid}
}

func (s *stylingService) Toolbar() config.ToolbarConfig {
	return s.toolbar
}

func (s *stylingService) ToggleBold(ctx context.Context, sess *session.Session) (*Repaint, error) {
	return s.restyle(ctx, sess, "bold", func(sheet *spreadsheet.Spreadsheet) ([]spreadsheet.CellView, error) {
		return spreadsheet.ToggleBold(sheet)
	})
}

func (s *stylingService) SetBackgroundColor(ctx context.Context, sess *session.Session, color *string) (*Repaint, error) {
	c, err := spreadsheet.ParseColorPtr(color)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	return s.restyle(ctx, sess, "background "+describe(c), func(sheet *spreadsheet.Spreadsheet) ([]spreadsheet.CellView, error) {
		return spreadsheet.SetBackgroundColor(sheet, c)
	})
}

func (s *stylingService) SetFontColor(ctx context.Context, sess *session.Session, color *string) (*Repaint, error) {
	c, err := spreadsheet.ParseColorPtr(color)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	return s.restyle(ctx, sess, "font color "+describe(c), func(sheet *spreadsheet.Spreadsheet) ([]spreadsheet.CellView, error) {
		return spreadsheet.SetFontColor(sheet, c)
	})
}

func (s *stylingService) restyle(ctx context.Context, sess *session.Session, action string, apply func(*spreadsheet.Spreadsheet) ([]spreadsheet.CellView, error)) (*Repaint, error) {
	ctx = logger.WithSessionID(ctx, sess.ID)
	repaint := &Repaint{Cells: []spreadsheet.CellView{}}
	err := sess.Do(func(sheet *spreadsheet.Spreadsheet) error {
		if sheet == nil {
			repaint.Degraded = true
			return nil
		}
		views, err := apply(sheet)
		repaint.Cells = append(repaint.Cells, views...)
		return err
	})
	if err != nil {
		logger.ErrorLog(ctx, "%s failed after %d cells: %v", action, len(repaint.Cells), err)
		return repaint, fmt.Errorf("apply %s: %w", action, err)
	}
	if repaint.Degraded {
		logger.WarnLog(ctx, "%s ignored: %v", action, ErrNoWorkbook)
		return repaint, nil
	}
	logger.InfoLog(ctx, "%s applied to %d cells", action, len(repaint.Cells))
	return repaint, nil
}

func (s *stylingService) Select(ctx context.Context, sess *session.Session, ranges []string) (*Selection, error) {
	ctx = logger.WithSessionID(ctx, sess.ID)
	selected := emptySelection()
	err := sess.Do(func(sheet *spreadsheet.Spreadsheet) error {
		if sheet == nil {
			return nil
		}
		if err := sheet.Select(ranges...); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		selected = selectionOf(sheet)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.DebugLog(ctx, "selection changed to %d cells in %d ranges", len(selected.Cells), len(selected.Ranges))
	return &selected, nil
}

func (s *stylingService) Sheet(ctx context.Context, sess *session.Session) (*SheetView, error) {
	view := &SheetView{Selection: emptySelection()}
	err := sess.Do(func(sheet *spreadsheet.Spreadsheet) error {
		if sheet == nil {
			view.Degraded = true
			return nil
		}
		grid, err := sheet.Grid(s.grid)
		if err != nil {
			return err
		}
		view.Grid = grid
		view.Selection = selectionOf(sheet)
		return nil
	})
	if err != nil {
		logger.ErrorLog(logger.WithSessionID(ctx, sess.ID), "failed to render sheet: %v", err)
		return nil, fmt.Errorf("render sheet: %w", err)
	}
	return view, nil
}

func (s *stylingService) Export(ctx context.Context, sess *session.Session, w io.Writer) error {
	return sess.Do(func(sheet *spreadsheet.Spreadsheet) error {
		if sheet == nil {
			return ErrNoWorkbook
		}
		if err := sheet.Export(w); err != nil {
			logger.ErrorLog(logger.WithSessionID(ctx, sess.ID), "export failed: %v", err)
			return err
		}
		return nil
	})
}

func emptySelection() Selection {
	return Selection{Cells: []string{}, Ranges: []string{}}
}

func selectionOf(sheet *spreadsheet.Spreadsheet) Selection {
	return Selection{
		Cells:  refNames(sheet.SelectedCellReferences()),
		Ranges: sheet.SelectionRanges(),
	}
}

func refNames(refs []spreadsheet.CellRef) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name())
	}
	return names
}

func describe(c *spreadsheet.Color) string {
	if c == nil {
		return "<nil>"
	}
	return c.CSS()
}
