package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/spreadsheet_tutorial/internal/config"
	"github.com/locvowork/spreadsheet_tutorial/internal/logger"
	"github.com/locvowork/spreadsheet_tutorial/internal/service"
	"github.com/locvowork/spreadsheet_tutorial/internal/service/serviceutils"
	"github.com/locvowork/spreadsheet_tutorial/internal/session"
)

const (
	SessionCookie = "spreadsheet_session"
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SelectionRequest replaces the selection with the listed cells and ranges.
type SelectionRequest struct {
	Cells []string `json:"cells" validate:"max=256,dive,cellrange"`
}

// ColorRequest carries a picker value. A null or absent color is ignored.
type ColorRequest struct {
	Color *string `json:"color" validate:"omitempty,csscolor"`
}

type PageData struct {
	Toolbar config.ToolbarConfig
	Sheet   *service.SheetView
}

type SpreadsheetHandler struct {
	svc   service.StylingService
	store *session.Store
	ttl   time.Duration
}

func NewSpreadsheetHandler(svc service.StylingService, store *session.Store, ttl time.Duration) *SpreadsheetHandler {
	return &SpreadsheetHandler{svc: svc, store: store, ttl: ttl}
}

// session resolves the caller's session from its cookie, starting a new one
// when the cookie is missing or stale.
func (h *SpreadsheetHandler) session(c echo.Context) (context.Context, *session.Session) {
	ctx := c.Request().Context()
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		ctx = logger.WithRequestID(ctx, id)
	}

	var id string
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		id = cookie.Value
	}
	sess, created := h.store.GetOrCreate(ctx, id)
	if created {
		cookie := &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		if h.ttl > 0 {
			cookie.MaxAge = int(h.ttl.Seconds())
		}
		c.SetCookie(cookie)
	}
	return logger.WithSessionID(ctx, sess.ID), sess
}

func (h *SpreadsheetHandler) PageHandler(c echo.Context) error {
	ctx, sess := h.session(c)
	view, err := h.svc.Sheet(ctx, sess)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render sheet").SetInternal(err)
	}
	return c.Render(http.StatusOK, "page", PageData{Toolbar: h.svc.Toolbar(), Sheet: view})
}

func (h *SpreadsheetHandler) SheetHandler(c echo.Context) error {
	ctx, sess := h.session(c)
	view, err := h.svc.Sheet(ctx, sess)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to render sheet", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", view)
}

func (h *SpreadsheetHandler) SelectionHandler(c echo.Context) error {
	ctx, sess := h.session(c)
	var req SelectionRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid selection", err)
	}

	selected, err := h.svc.Select(ctx, sess, req.Cells)
	if err != nil {
		return h.serviceError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Selection updated", selected)
}

func (h *SpreadsheetHandler) BoldHandler(c echo.Context) error {
	ctx, sess := h.session(c)
	repaint, err := h.svc.ToggleBold(ctx, sess)
	if err != nil {
		return h.serviceError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Bold toggled", repaint)
}

func (h *SpreadsheetHandler) BackgroundHandler(c echo.Context) error {
	return h.colorAction(c, "Background color updated", h.svc.SetBackgroundColor)
}

func (h *SpreadsheetHandler) FontColorHandler(c echo.Context) error {
	return h.colorAction(c, "Font color updated", h.svc.SetFontColor)
}

func (h *SpreadsheetHandler) colorAction(c echo.Context, msg string, apply func(context.Context, *session.Session, *string) (*service.Repaint, error)) error {
	ctx, sess := h.session(c)
	var req ColorRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid color", err)
	}

	repaint, err := apply(ctx, sess, req.Color)
	if err != nil {
		return h.serviceError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, msg, repaint)
}

func (h *SpreadsheetHandler) ExportHandler(c echo.Context) error {
	ctx, sess := h.session(c)

	// Buffer first so a failed export can still report an error status.
	var buf bytes.Buffer
	if err := h.svc.Export(ctx, sess, &buf); err != nil {
		return h.serviceError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="Simple Invoice.xlsx"`)
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(buf.Len()))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

func (h *SpreadsheetHandler) HealthHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", map[string]interface{}{
		"sessions": h.store.Len(),
	})
}

func (h *SpreadsheetHandler) serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidColor), errors.Is(err, service.ErrInvalidSelection):
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, service.ErrNoWorkbook):
		return serviceutils.ResponseError(c, http.StatusServiceUnavailable, "Workbook not loaded", err)
	default:
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to update sheet", err)
	}
}
