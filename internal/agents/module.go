// Package agents provides the agent directory bounded context: admin CRUD,
// soft deactivation, and the public active-agent listing.
package agents

import (
	apphttp "usahudhomes_backend/internal/http"
	"usahudhomes_backend/internal/agents/handler"
	"usahudhomes_backend/internal/agents/repository"
	"usahudhomes_backend/internal/agents/service"
	"usahudhomes_backend/platform/logger"
	"usahudhomes_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the agents bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the agents module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "agents"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts agent routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public directory of active agents for the marketing site.
	ctx.V1.GET("/agents", m.handler.ListActive)

	adminGroup := ctx.Admin.Group("/agents")
	adminGroup.GET("", m.handler.List)
	adminGroup.POST("", m.handler.Create)
	adminGroup.GET("/:id", m.handler.GetByID)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.POST("/:id/activate", m.handler.Activate)
	adminGroup.POST("/:id/deactivate", m.handler.Deactivate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
