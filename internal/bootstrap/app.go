package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/spreadsheet_tutorial/internal/config"
	"github.com/locvowork/spreadsheet_tutorial/internal/handler"
	"github.com/locvowork/spreadsheet_tutorial/internal/logger"
	"github.com/locvowork/spreadsheet_tutorial/internal/service"
	"github.com/locvowork/spreadsheet_tutorial/internal/session"
	"github.com/locvowork/spreadsheet_tutorial/pkg/spreadsheet"
)

type App struct {
	Echo     *echo.Echo
	Sessions *session.Store
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.SetLevel(config.DefaultEnvConfig.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	samplePath := config.DefaultEnvConfig.SAMPLE_FILE_PATH
	if config.DefaultEnvConfig.SEED_SAMPLE_FILE {
		written, err := spreadsheet.WriteSampleInvoice(samplePath)
		if err != nil {
			// Sessions still start, just without a workbook.
			logger.ErrorLog(ctx, "failed to seed sample workbook %s: %v", samplePath, err)
		} else if written {
			logger.InfoLog(ctx, "Seeded sample workbook at %s", samplePath)
		}
	}

	toolbar, err := config.LoadToolbarConfig(config.DefaultEnvConfig.TOOLBAR_CONFIG_PATH)
	if err != nil {
		return fmt.Errorf("failed to load toolbar config: %w", err)
	}

	renderer, err := handler.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	a.Echo.Renderer = renderer
	a.Echo.Validator = handler.NewValidator()

	static, err := handler.StaticFS()
	if err != nil {
		return err
	}

	// Initialize dependencies
	ttl := config.DefaultEnvConfig.SESSION_TTL
	a.Sessions = session.NewStore(session.FileLoader(samplePath), ttl, session.WithMaxSessions(config.DefaultEnvConfig.MAX_SESSIONS))
	stylingSvc := service.NewStylingService(toolbar, spreadsheet.GridSize{
		Rows:    config.DefaultEnvConfig.GRID_ROWS,
		Cols:    config.DefaultEnvConfig.GRID_COLS,
		MaxRows: config.DefaultEnvConfig.GRID_MAX_ROWS,
		MaxCols: config.DefaultEnvConfig.GRID_MAX_COLS,
	})
	sheetHandler := handler.NewSpreadsheetHandler(stylingSvc, a.Sessions, ttl)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(sheetHandler, static)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(sheetHandler *handler.SpreadsheetHandler, static fs.FS) {
	a.Echo.GET("/", sheetHandler.PageHandler)
	a.Echo.GET("/healthz", sheetHandler.HealthHandler)
	a.Echo.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	apiGroup := a.Echo.Group("/api")
	apiGroup.GET("/sheet", sheetHandler.SheetHandler)
	apiGroup.PUT("/selection", sheetHandler.SelectionHandler)
	apiGroup.GET("/export", sheetHandler.ExportHandler)

	toolbarGroup := apiGroup.Group("/toolbar")
	toolbarGroup.POST("/bold", sheetHandler.BoldHandler)
	toolbarGroup.POST("/background", sheetHandler.BackgroundHandler)
	toolbarGroup.POST("/font-color", sheetHandler.FontColorHandler)
}

func (a *App) Run() error {
	defer a.Sessions.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
