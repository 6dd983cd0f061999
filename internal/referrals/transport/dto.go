// Package transport defines the HTTP request and response shapes for the
// referrals bounded context.
package transport

import (
	"time"

	"usahudhomes_backend/internal/referrals/domain"
)

// Action names accepted by the referral action endpoint.
const (
	ActionAssign            = "assign"
	ActionAccept            = "accept"
	ActionDecline           = "decline"
	ActionUpdateOutcome     = "update_outcome"
	ActionGetAgentReferrals = "get_agent_referrals"
	ActionProcessExpired    = "process_expired"
)

// ActionRequest is the single dispatch body for the referral action endpoint.
// Which fields are required depends on the action.
type ActionRequest struct {
	Action         string `json:"action"`
	ConsultationID string `json:"consultationId"`
	AgentID        string `json:"agentId"`
	Reason         string `json:"reason"`
	Notes          string `json:"notes"`
	Outcome        string `json:"outcome"`
}

// IntakeRequest is the public consultation intake body.
type IntakeRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"max=32"`
	State           string `json:"state" validate:"required,us_state"`
	Message         string `json:"message" validate:"max=4000"`
	PropertyAddress string `json:"propertyAddress" validate:"max=300"`
	CaseNumber      string `json:"caseNumber" validate:"max=40"`
}

// AgentResponse is the agent view embedded in consultation responses.
type AgentResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// CustomerResponse is the customer view embedded in consultation responses.
type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// PropertyResponse is the property view embedded in consultation responses.
type PropertyResponse struct {
	ID         string `json:"id"`
	CaseNumber string `json:"caseNumber"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
}

// ConsultationResponse is the full consultation view returned by the action
// endpoint. Status is derived from the lifecycle timestamps.
type ConsultationResponse struct {
	ID                string             `json:"id"`
	Status            string             `json:"status"`
	CustomerName      string             `json:"customerName"`
	CustomerEmail     string             `json:"customerEmail"`
	CustomerPhone     string             `json:"customerPhone,omitempty"`
	PropertyAddress   string             `json:"propertyAddress,omitempty"`
	CaseNumber        string             `json:"caseNumber,omitempty"`
	Message           string             `json:"message,omitempty"`
	State             string             `json:"state"`
	Source            string             `json:"source,omitempty"`
	AssignedBrokerID  *string            `json:"assignedBrokerId"`
	AssignedAt        *string            `json:"assignedAt"`
	ReferralExpiresAt *string            `json:"referralExpiresAt"`
	AcceptedAt        *string            `json:"acceptedAt"`
	DeclinedAt        *string            `json:"declinedAt"`
	ExpiredAt         *string            `json:"expiredAt"`
	DeclineReason     string             `json:"declineReason,omitempty"`
	DeclineNotes      string             `json:"declineNotes,omitempty"`
	Outcome           string             `json:"outcome,omitempty"`
	OutcomeNotes      string             `json:"outcomeNotes,omitempty"`
	CreatedAt         string             `json:"createdAt"`
	UpdatedAt         string             `json:"updatedAt"`
	Agent             *AgentResponse     `json:"agent,omitempty"`
	Customer          *CustomerResponse  `json:"customer,omitempty"`
	Property          *PropertyResponse  `json:"property,omitempty"`
}

// ActivityResponse is one entry in a consultation's audit trail.
type ActivityResponse struct {
	ID             string            `json:"id"`
	ConsultationID string            `json:"consultationId"`
	AgentID        *string           `json:"agentId"`
	Type           string            `json:"type"`
	Description    string            `json:"description"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      string            `json:"createdAt"`
}

// ExpirySummaryResponse is the result of a process_expired invocation.
// Reassigned is always zero: the sweep marks referrals expired but never
// re-routes them automatically.
type ExpirySummaryResponse struct {
	Expired    int      `json:"expired"`
	Reassigned int      `json:"reassigned"`
	Failures   []string `json:"failures,omitempty"`
}

// ToConsultationResponse maps a domain consultation to its response shape.
func ToConsultationResponse(c domain.Consultation) ConsultationResponse {
	resp := ConsultationResponse{
		ID:                c.ID.String(),
		Status:            string(c.Status()),
		CustomerName:      c.CustomerName,
		CustomerEmail:     c.CustomerEmail,
		CustomerPhone:     c.CustomerPhone,
		PropertyAddress:   c.PropertyAddress,
		CaseNumber:        c.CaseNumber,
		Message:           c.Message,
		State:             c.State,
		Source:            c.Source,
		AssignedAt:        formatTime(c.AssignedAt),
		ReferralExpiresAt: formatTime(c.ReferralExpiresAt),
		AcceptedAt:        formatTime(c.AcceptedAt),
		DeclinedAt:        formatTime(c.DeclinedAt),
		ExpiredAt:         formatTime(c.ExpiredAt),
		DeclineReason:     c.DeclineReason,
		DeclineNotes:      c.DeclineNotes,
		Outcome:           c.Outcome,
		OutcomeNotes:      c.OutcomeNotes,
		CreatedAt:         c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         c.UpdatedAt.Format(time.RFC3339),
	}

	if c.AssignedBrokerID != nil {
		id := c.AssignedBrokerID.String()
		resp.AssignedBrokerID = &id
	}
	if c.Agent != nil {
		resp.Agent = &AgentResponse{
			ID:    c.Agent.ID.String(),
			Name:  c.Agent.Name,
			Email: c.Agent.Email,
			Phone: c.Agent.Phone,
		}
	}
	if c.Customer != nil {
		resp.Customer = &CustomerResponse{
			ID:    c.Customer.ID.String(),
			Name:  c.Customer.Name,
			Email: c.Customer.Email,
			Phone: c.Customer.Phone,
		}
	}
	if c.Property != nil {
		resp.Property = &PropertyResponse{
			ID:         c.Property.ID.String(),
			CaseNumber: c.Property.CaseNumber,
			Address:    c.Property.Address,
			City:       c.Property.City,
			State:      c.Property.State,
		}
	}

	return resp
}

// ToConsultationResponses maps a slice of domain consultations.
func ToConsultationResponses(items []domain.Consultation) []ConsultationResponse {
	responses := make([]ConsultationResponse, len(items))
	for i, item := range items {
		responses[i] = ToConsultationResponse(item)
	}
	return responses
}

// ToActivityResponses maps a consultation's audit trail.
func ToActivityResponses(items []domain.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, len(items))
	for i, item := range items {
		resp := ActivityResponse{
			ID:             item.ID.String(),
			ConsultationID: item.ConsultationID.String(),
			Type:           string(item.Type),
			Description:    item.Description,
			Metadata:       item.Metadata,
			CreatedAt:      item.CreatedAt.Format(time.RFC3339),
		}
		if item.AgentID != nil {
			id := item.AgentID.String()
			resp.AgentID = &id
		}
		responses[i] = resp
	}
	return responses
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
