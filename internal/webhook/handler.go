package webhook

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"usahudhomes_backend/platform/config"
	"usahudhomes_backend/platform/logger"
)

// ConsultationCreator is the inbound port the webhook uses to hand captured
// leads to the referral lifecycle.
type ConsultationCreator interface {
	CreateFromLead(ctx context.Context, lead Lead) error
}

// Handler handles the Facebook Lead Ads webhook endpoints.
type Handler struct {
	creator ConsultationCreator
	cfg     config.WebhookConfig
	log     *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(creator ConsultationCreator, cfg config.WebhookConfig, log *logger.Logger) *Handler {
	return &Handler{creator: creator, cfg: cfg, log: log}
}

// Verify answers the Facebook subscription handshake.
// GET /api/v1/webhooks/facebook
func (h *Handler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "subscribe" || token == "" || token != h.cfg.GetFacebookVerifyToken() {
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	c.String(http.StatusOK, challenge)
}

// Receive handles a leadgen delivery. Facebook retries on non-200 responses,
// so per-lead failures are logged and the delivery is still acknowledged.
// POST /api/v1/webhooks/facebook
func (h *Handler) Receive(c *gin.Context) {
	var payload leadgenPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.String(http.StatusBadRequest, "invalid payload")
		return
	}

	captured := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "leadgen" {
				continue
			}

			lead := extractLead(change.Value)
			if lead.Email == "" && lead.Phone == "" {
				h.log.Warn("leadgen change without contact details skipped", "leadgen_id", change.Value.LeadgenID)
				continue
			}

			if err := h.creator.CreateFromLead(c.Request.Context(), lead); err != nil {
				h.log.Error("lead capture failed", "leadgen_id", change.Value.LeadgenID, "error", err)
				continue
			}
			captured++
		}
	}

	h.log.Info("facebook webhook processed", "captured", captured)
	c.String(http.StatusOK, "EVENT_RECEIVED")
}
