package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"usahudhomes_backend/internal/agents/service"
	"usahudhomes_backend/internal/agents/transport"
	"usahudhomes_backend/platform/httpkit"
	"usahudhomes_backend/platform/validator"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid agent ID"
)

// Handler handles HTTP requests for the agent directory.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new agents handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListActive returns active agents for the marketing site (public).
// GET /api/v1/agents
func (h *Handler) ListActive(c *gin.Context) {
	results, err := h.svc.ListActivePublic(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, results)
}

// List returns all agents (admin only).
// GET /api/v1/admin/agents
func (h *Handler) List(c *gin.Context) {
	results, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, results)
}

// GetByID returns one agent (admin only).
// GET /api/v1/admin/agents/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, result)
}

// Create onboards a new agent (admin only).
// POST /api/v1/admin/agents
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, httpkit.Envelope{Success: true, Data: result})
}

// Update modifies an agent's profile (admin only).
// PUT /api/v1/admin/agents/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, result)
}

// Deactivate soft-deactivates an agent (admin only). Agents are never deleted.
// POST /api/v1/admin/agents/:id/deactivate
func (h *Handler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

// Activate re-activates an agent (admin only).
// POST /api/v1/admin/agents/:id/activate
func (h *Handler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *Handler) setActive(c *gin.Context, isActive bool) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.SetActive(c.Request.Context(), id, isActive)) {
		return
	}
	httpkit.Success(c, gin.H{"isActive": isActive})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
