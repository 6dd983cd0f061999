// Package properties provides the HUD property catalog bounded context:
// scraper ingest and public listing reads.
package properties

import (
	apphttp "usahudhomes_backend/internal/http"
	"usahudhomes_backend/internal/properties/handler"
	"usahudhomes_backend/internal/properties/repository"
	"usahudhomes_backend/internal/properties/service"
	"usahudhomes_backend/platform/config"
	"usahudhomes_backend/platform/logger"
	"usahudhomes_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the properties bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	cfg     config.IngestConfig
}

// NewModule creates and initializes the properties module.
func NewModule(pool *pgxpool.Pool, cfg config.IngestConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		cfg:     cfg,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "properties"
}

// RegisterRoutes mounts property routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/properties", m.handler.ListByState)
	ctx.V1.GET("/properties/:caseNumber", m.handler.GetByCaseNumber)

	// The scraper authenticates with a shared key, not a JWT.
	ctx.V1.POST("/properties/ingest", handler.RequireIngestKey(m.cfg), m.handler.Ingest)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
