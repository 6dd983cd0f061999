// Package referrals provides the referral lifecycle bounded context: intake,
// agent assignment, accept/decline, outcome recording, expiry sweeping, and
// the append-only activity trail.
package referrals

import (
	apphttp "usahudhomes_backend/internal/http"
	"usahudhomes_backend/internal/referrals/handler"
	"usahudhomes_backend/internal/referrals/ports"
	"usahudhomes_backend/internal/referrals/repository"
	"usahudhomes_backend/internal/referrals/service"
	"usahudhomes_backend/platform/events"
	"usahudhomes_backend/platform/logger"
	"usahudhomes_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the referrals bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the referrals module with all its dependencies.
func NewModule(pool *pgxpool.Pool, agents ports.AgentProvider, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, agents, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "referrals"
}

// Service returns the service layer for external use (scheduler, webhook).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts referral routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// The action endpoint is deliberately public: the marketing site and the
	// agent email links call it without a session.
	ctx.V1.POST("/referrals/actions", m.handler.Action)
	ctx.V1.POST("/consultations", m.handler.Intake)

	ctx.Protected.GET("/consultations/:id/activities", m.handler.Activities)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
