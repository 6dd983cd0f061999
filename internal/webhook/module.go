package webhook

import (
	apphttp "usahudhomes_backend/internal/http"
	"usahudhomes_backend/platform/config"
	"usahudhomes_backend/platform/logger"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the webhook module.
func NewModule(creator ConsultationCreator, cfg config.WebhookConfig, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(creator, cfg, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the webhook routes on the provided router context.
// Both routes are public; the GET handshake is token-checked and POST
// deliveries are acknowledged even on partial failure.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/webhooks/facebook", m.handler.Verify)
	ctx.V1.POST("/webhooks/facebook", m.handler.Receive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
