package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"usahudhomes_backend/internal/referrals/service"
	"usahudhomes_backend/internal/referrals/transport"
	"usahudhomes_backend/platform/httpkit"
	"usahudhomes_backend/platform/validator"
)

const (
	msgInvalidRequest        = "invalid request"
	msgInvalidConsultationID = "invalid consultationId"
	msgInvalidAgentID        = "invalid agentId"
	msgConsultationRequired  = "consultationId is required"
	msgAgentRequired         = "agentId is required"
	msgOutcomeRequired       = "outcome is required"
	msgUnknownAction         = "unknown action"

	sourceWebForm = "web_form"
)

// Handler handles HTTP requests for the referral lifecycle.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new referrals handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Action is the single referral action endpoint, dispatching on the body
// field "action".
// POST /api/v1/referrals/actions
func (h *Handler) Action(c *gin.Context) {
	var req transport.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	switch req.Action {
	case transport.ActionAssign:
		h.assign(c, req)
	case transport.ActionAccept:
		h.accept(c, req)
	case transport.ActionDecline:
		h.decline(c, req)
	case transport.ActionUpdateOutcome:
		h.updateOutcome(c, req)
	case transport.ActionGetAgentReferrals:
		h.getAgentReferrals(c, req)
	case transport.ActionProcessExpired:
		h.processExpired(c)
	default:
		httpkit.Error(c, http.StatusBadRequest, msgUnknownAction, nil)
	}
}

func (h *Handler) assign(c *gin.Context, req transport.ActionRequest) {
	consultationID, ok := requireConsultationID(c, req)
	if !ok {
		return
	}

	var explicitAgentID *uuid.UUID
	if req.AgentID != "" {
		agentID, err := uuid.Parse(req.AgentID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidAgentID, nil)
			return
		}
		explicitAgentID = &agentID
	}

	result, err := h.svc.Assign(c.Request.Context(), consultationID, explicitAgentID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, transport.ToConsultationResponse(result))
}

func (h *Handler) accept(c *gin.Context, req transport.ActionRequest) {
	consultationID, agentID, ok := requireOwnershipPair(c, req)
	if !ok {
		return
	}

	result, err := h.svc.Accept(c.Request.Context(), consultationID, agentID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, transport.ToConsultationResponse(result))
}

func (h *Handler) decline(c *gin.Context, req transport.ActionRequest) {
	consultationID, agentID, ok := requireOwnershipPair(c, req)
	if !ok {
		return
	}

	result, err := h.svc.Decline(c.Request.Context(), consultationID, agentID, req.Reason, req.Notes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, transport.ToConsultationResponse(result))
}

func (h *Handler) updateOutcome(c *gin.Context, req transport.ActionRequest) {
	consultationID, ok := requireConsultationID(c, req)
	if !ok {
		return
	}
	if req.Outcome == "" {
		httpkit.Error(c, http.StatusBadRequest, msgOutcomeRequired, nil)
		return
	}

	result, err := h.svc.UpdateOutcome(c.Request.Context(), consultationID, req.Outcome, req.Notes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, transport.ToConsultationResponse(result))
}

func (h *Handler) getAgentReferrals(c *gin.Context, req transport.ActionRequest) {
	if req.AgentID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgAgentRequired, nil)
		return
	}
	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAgentID, nil)
		return
	}

	results, err := h.svc.ListAgentReferrals(c.Request.Context(), agentID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, transport.ToConsultationResponses(results))
}

func (h *Handler) processExpired(c *gin.Context) {
	summary, err := h.svc.ProcessExpired(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, transport.ExpirySummaryResponse{
		Expired:    summary.Expired,
		Reassigned: summary.Reassigned,
		Failures:   summary.Failures,
	})
}

// Intake creates a consultation from the public consultation form.
// POST /api/v1/consultations
func (h *Handler) Intake(c *gin.Context) {
	var req transport.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if httpkit.HandleError(c, h.val.Struct(req)) {
		return
	}

	result, err := h.svc.CreateIntake(c.Request.Context(), service.IntakeParams{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		State:           req.State,
		Message:         req.Message,
		PropertyAddress: req.PropertyAddress,
		CaseNumber:      req.CaseNumber,
		Source:          sourceWebForm,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, httpkit.Envelope{Success: true, Data: transport.ToConsultationResponse(result)})
}

// Activities returns a consultation's audit trail.
// GET /api/v1/consultations/:id/activities
func (h *Handler) Activities(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidConsultationID, nil)
		return
	}

	results, err := h.svc.Activities(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Success(c, transport.ToActivityResponses(results))
}

func requireConsultationID(c *gin.Context, req transport.ActionRequest) (uuid.UUID, bool) {
	if req.ConsultationID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgConsultationRequired, nil)
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(req.ConsultationID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidConsultationID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func requireOwnershipPair(c *gin.Context, req transport.ActionRequest) (uuid.UUID, uuid.UUID, bool) {
	consultationID, ok := requireConsultationID(c, req)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, false
	}
	if req.AgentID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgAgentRequired, nil)
		return uuid.UUID{}, uuid.UUID{}, false
	}
	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAgentID, nil)
		return uuid.UUID{}, uuid.UUID{}, false
	}
	return consultationID, agentID, true
}
