package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/ougirez/mothertongue/internal/api/controller"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
)

type Config struct {
	AllowOrigins []string
}

type APIService struct {
	router *echo.Echo
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

// Handler exposes the router, mostly for tests.
func (svc *APIService) Handler() http.Handler {
	return svc.router
}

// NewAPIService wires the routes. archive may be nil when no database is
// configured; the report run routes are then not registered.
func NewAPIService(
	cfg Config,
	languages controller.LanguageService,
	backfill controller.BackfillService,
	archive controller.ReportArchive,
) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(log.WARN)
	svc.router.JSONSerializer = NewSerializer()
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	svc.router.Use(svc.RequestLogMiddleware)
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{echo.GET, echo.POST},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(languages, backfill, archive)

	api.GET("/states", cntrl.ListStates)

	languagesGroup := api.Group("/languages")
	languagesGroup.POST("/state", cntrl.TopLanguagesForState)
	languagesGroup.POST("/district", cntrl.TopLanguagesForDistrict)

	api.POST("/bilingual", cntrl.BilingualSummary)

	reports := api.Group("/reports")
	reports.GET("/states", cntrl.StatesReport)
	reports.GET("/towns", cntrl.TownsReport)
	reports.GET("/population", cntrl.PopulationReport)
	if archive != nil {
		reports.GET("/runs", cntrl.ListReportRuns)
		reports.GET("/runs/:id", cntrl.GetReport)
	}

	if backfill != nil {
		sources := api.Group("/sources")
		sources.POST("/backfill", cntrl.BackfillSources)
	}

	return svc, nil
}
