package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/excelstyler/internal/config"
	"github.com/locvowork/excelstyler/internal/database"
	"github.com/locvowork/excelstyler/internal/handler"
	"github.com/locvowork/excelstyler/internal/logger"
	"github.com/locvowork/excelstyler/internal/service"
)

type App struct {
	Echo    *echo.Echo
	DB      *sql.DB
	Reports *config.ReportConfig
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{
		Echo: e,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	env := config.DefaultEnvConfig

	logger.InitLogging(env.LOG_FILE_PATH)
	logger.SetLevel(env.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	if env.DBEnabled() {
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            env.DB_HOST,
			Port:            env.DB_PORT,
			User:            env.DB_USER,
			Password:        env.DB_PASSWORD,
			DBName:          env.DB_NAME,
			SSLMode:         env.DB_SSL_MODE,
			MaxOpenConns:    env.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    env.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: env.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = db
	} else {
		logger.WarnLog(ctx, "DB_HOST not set, named reports are disabled")
	}

	if env.REPORT_CONFIG_PATH != "" {
		reports, err := config.LoadReportConfig(env.REPORT_CONFIG_PATH)
		if err != nil {
			return fmt.Errorf("failed to load report config: %w", err)
		}
		a.Reports = reports
		logger.InfoLog(ctx, "Loaded %d reports from %s", len(reports.Reports), env.REPORT_CONFIG_PATH)
	}

	reportSvc := service.NewReportService(a.DB, a.Reports)
	exportHandler := handler.NewExportHandler(reportSvc)

	a.RegisterMiddlewares()
	a.RegisterRoutes(exportHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(requestLogger)
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

// requestLogger attaches a logger tagged with the request id to the request context.
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		req := c.Request()
		c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		return next(c)
	}
}

func (a *App) RegisterRoutes(exportHandler *handler.ExportHandler) {
	a.Echo.GET("/healthz", handler.HealthHandler)

	exportGroup := a.Echo.Group("/export")
	exportGroup.POST("/styled", exportHandler.ExportStyledHandler)

	reportGroup := a.Echo.Group("/reports")
	reportGroup.GET("", exportHandler.ListReportsHandler)
	reportGroup.GET("/:name/export", exportHandler.ExportReportHandler)
}

func (a *App) Run() error {
	if a.DB != nil {
		defer a.DB.Close()
	}
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

// Shutdown stops the server, letting in-flight exports finish until ctx expires.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}
