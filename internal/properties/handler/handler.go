package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"usahudhomes_backend/internal/properties/service"
	"usahudhomes_backend/internal/properties/transport"
	"usahudhomes_backend/platform/config"
	"usahudhomes_backend/platform/httpkit"
	"usahudhomes_backend/platform/validator"
)

const (
	msgInvalidRequest = "invalid request"
	msgStateRequired  = "state query parameter is required"

	ingestKeyHeader = "X-Ingest-API-Key"
)

// Handler handles HTTP requests for the property catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new properties handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RequireIngestKey authenticates the scraper by a shared API key header.
// Rejects everything when no key is configured.
func RequireIngestKey(cfg config.IngestConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := cfg.GetIngestAPIKey()
		provided := c.GetHeader(ingestKeyHeader)
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid ingest key"})
			return
		}
		c.Next()
	}
}

// Ingest writes a scraper batch into the catalog.
// POST /api/v1/properties/ingest
func (h *Handler) Ingest(c *gin.Context) {
	var req transport.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return
	}

	result, err := h.svc.Ingest(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, result)
}

// ListByState returns listings for one US state (public).
// GET /api/v1/properties?state=NC
func (h *Handler) ListByState(c *gin.Context) {
	state := c.Query("state")
	if state == "" {
		httpkit.Error(c, http.StatusBadRequest, msgStateRequired, nil)
		return
	}

	results, err := h.svc.ListByState(c.Request.Context(), state)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, results)
}

// GetByCaseNumber returns one listing (public).
// GET /api/v1/properties/:caseNumber
func (h *Handler) GetByCaseNumber(c *gin.Context) {
	result, err := h.svc.GetByCaseNumber(c.Request.Context(), c.Param("caseNumber"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, result)
}
