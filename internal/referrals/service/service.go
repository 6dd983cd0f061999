// Package service implements the referral lifecycle operations: intake,
// assignment, accept/decline, outcome recording, and the expiry sweep.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainevents "usahudhomes_backend/internal/events"
	"usahudhomes_backend/internal/referrals/assignment"
	"usahudhomes_backend/internal/referrals/domain"
	"usahudhomes_backend/internal/referrals/ports"
	"usahudhomes_backend/internal/referrals/repository"
	"usahudhomes_backend/platform/events"
	"usahudhomes_backend/platform/logger"
	"usahudhomes_backend/platform/phone"
)

// IntakeParams holds the fields for a new consultation from any capture source.
type IntakeParams struct {
	Name            string
	Email           string
	Phone           string
	State           string
	Message         string
	PropertyAddress string
	CaseNumber      string
	Source          string
}

// ExpirySummary reports one expiry sweep. Reassigned is always zero; the
// sweep only marks referrals expired, re-routing stays a manual follow-up.
// Failures lists rows whose audit record could not be written; the sweep
// continues past them rather than aborting the batch.
type ExpirySummary struct {
	Expired    int
	Reassigned int
	Failures   []string
}

// Service provides business logic for the referral lifecycle.
type Service struct {
	repo   repository.Repository
	agents ports.AgentProvider
	bus    events.Bus
	log    *logger.Logger

	// now is injectable for tests that pin the clock.
	now func() time.Time
}

// New creates a new referrals service.
func New(repo repository.Repository, agents ports.AgentProvider, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		agents: agents,
		bus:    bus,
		log:    log,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateIntake captures a new consultation in the unassigned state, upserting
// the customer by email and linking a property when the case number resolves.
func (s *Service) CreateIntake(ctx context.Context, params IntakeParams) (domain.Consultation, error) {
	normalizedPhone := phone.NormalizeE164(params.Phone)

	customerID, err := s.repo.UpsertCustomer(ctx, params.Name, params.Email, normalizedPhone)
	if err != nil {
		return domain.Consultation{}, err
	}

	var propertyID *uuid.UUID
	if params.CaseNumber != "" {
		propertyID, err = s.repo.FindPropertyIDByCaseNumber(ctx, params.CaseNumber)
		if err != nil {
			return domain.Consultation{}, err
		}
	}

	consultation, err := s.repo.CreateConsultation(ctx, repository.CreateConsultationParams{
		CustomerID:      &customerID,
		PropertyID:      propertyID,
		CustomerName:    params.Name,
		CustomerEmail:   params.Email,
		CustomerPhone:   normalizedPhone,
		PropertyAddress: params.PropertyAddress,
		CaseNumber:      params.CaseNumber,
		Message:         params.Message,
		State:           params.State,
		Source:          params.Source,
	})
	if err != nil {
		return domain.Consultation{}, err
	}

	s.bus.Publish(ctx, domainevents.ConsultationCreated{
		BaseEvent:      events.NewBaseEvent(),
		ConsultationID: consultation.ID,
		CustomerName:   consultation.CustomerName,
		CustomerEmail:  consultation.CustomerEmail,
		PropertyState:  consultation.State,
		Source:         consultation.Source,
	})

	s.log.Info("consultation created", "id", consultation.ID, "state", consultation.State, "source", consultation.Source)
	return consultation, nil
}

// Assign refers a consultation to an agent and opens a 48 hour response
// window. With no explicit agent the first active agent covering the target
// state is chosen. An explicit agent bypasses the coverage filter entirely;
// callers are trusted. Each call resets the window, last write wins.
func (s *Service) Assign(ctx context.Context, consultationID uuid.UUID, explicitAgentID *uuid.UUID) (domain.Consultation, error) {
	consultation, err := s.repo.GetByID(ctx, consultationID)
	if err != nil {
		return domain.Consultation{}, err
	}

	auto := explicitAgentID == nil
	var agent ports.AgentCandidate
	if auto {
		candidates, err := s.agents.ListActive(ctx)
		if err != nil {
			return domain.Consultation{}, err
		}
		agent, err = assignment.Select(consultation.TargetState(), candidates)
		if err != nil {
			return domain.Consultation{}, err
		}
	} else {
		agent, err = s.agents.GetByID(ctx, *explicitAgentID)
		if err != nil {
			return domain.Consultation{}, err
		}
	}

	now := s.now()
	expiresAt := now.Add(domain.ReferralWindow)

	updated, err := s.repo.MarkReferred(ctx, consultationID, agent.ID, now, expiresAt)
	if err != nil {
		return domain.Consultation{}, err
	}

	err = s.repo.AppendActivity(ctx, repository.AppendActivityParams{
		ConsultationID: consultationID,
		AgentID:        &agent.ID,
		Type:           domain.ActivityReferralAssigned,
		Description:    fmt.Sprintf("Referred to %s", agent.Name),
		Metadata:       map[string]string{"auto": fmt.Sprintf("%t", auto)},
	})
	if err != nil {
		return domain.Consultation{}, err
	}

	event := domainevents.ReferralAssigned{
		BaseEvent:      events.NewBaseEvent(),
		ConsultationID: updated.ID,
		AgentID:        agent.ID,
		AgentName:      agent.Name,
		AgentEmail:     agent.Email,
		CustomerName:   updated.CustomerName,
		CustomerEmail:  updated.CustomerEmail,
		CustomerPhone:  updated.CustomerPhone,
		PropertyState:  updated.TargetState(),
		CaseNumber:     updated.CaseNumber,
		ExpiresAt:      expiresAt,
		Auto:           auto,
	}
	if updated.Property != nil {
		event.PropertyCity = updated.Property.City
	}
	s.bus.Publish(ctx, event)

	s.log.ReferralEvent("assigned", updated.ID.String(), agent.ID.String())
	return updated, nil
}

// Accept records the assigned agent's acceptance of a referral.
func (s *Service) Accept(ctx context.Context, consultationID, agentID uuid.UUID) (domain.Consultation, error) {
	updated, err := s.repo.MarkAccepted(ctx, consultationID, agentID, s.now())
	if err != nil {
		return domain.Consultation{}, err
	}

	description := "Referral accepted"
	if updated.Agent != nil {
		description = fmt.Sprintf("Referral accepted by %s", updated.Agent.Name)
	}
	err = s.repo.AppendActivity(ctx, repository.AppendActivityParams{
		ConsultationID: consultationID,
		AgentID:        &agentID,
		Type:           domain.ActivityReferralAccepted,
		Description:    description,
	})
	if err != nil {
		return domain.Consultation{}, err
	}

	event := domainevents.ReferralAccepted{
		BaseEvent:      events.NewBaseEvent(),
		ConsultationID: updated.ID,
		AgentID:        agentID,
		CustomerName:   updated.CustomerName,
		CustomerEmail:  updated.CustomerEmail,
	}
	if updated.Agent != nil {
		event.AgentName = updated.Agent.Name
		event.AgentEmail = updated.Agent.Email
		event.AgentPhone = updated.Agent.Phone
	}
	s.bus.Publish(ctx, event)

	s.log.ReferralEvent("accepted", updated.ID.String(), agentID.String())
	return updated, nil
}

// Decline records the assigned agent's decline, with optional reason and notes.
func (s *Service) Decline(ctx context.Context, consultationID, agentID uuid.UUID, reason, notes string) (domain.Consultation, error) {
	updated, err := s.repo.MarkDeclined(ctx, consultationID, agentID, s.now(), reason, notes)
	if err != nil {
		return domain.Consultation{}, err
	}

	metadata := map[string]string{}
	if reason != "" {
		metadata["reason"] = reason
	}
	description := "Referral declined"
	if updated.Agent != nil {
		description = fmt.Sprintf("Referral declined by %s", updated.Agent.Name)
	}
	err = s.repo.AppendActivity(ctx, repository.AppendActivityParams{
		ConsultationID: consultationID,
		AgentID:        &agentID,
		Type:           domain.ActivityReferralDeclined,
		Description:    description,
		Metadata:       metadata,
	})
	if err != nil {
		return domain.Consultation{}, err
	}

	event := domainevents.ReferralDeclined{
		BaseEvent:      events.NewBaseEvent(),
		ConsultationID: updated.ID,
		AgentID:        agentID,
		CustomerName:   updated.CustomerName,
		PropertyState:  updated.TargetState(),
		Reason:         reason,
	}
	if updated.Agent != nil {
		event.AgentName = updated.Agent.Name
	}
	s.bus.Publish(ctx, event)

	s.log.ReferralEvent("declined", updated.ID.String(), agentID.String())
	return updated, nil
}

// UpdateOutcome records the final business result for a consultation. No
// status precondition: outcomes can be layered on any lifecycle state and the
// assignment timestamps stay untouched.
func (s *Service) UpdateOutcome(ctx context.Context, consultationID uuid.UUID, outcome, notes string) (domain.Consultation, error) {
	updated, err := s.repo.SetOutcome(ctx, consultationID, outcome, notes)
	if err != nil {
		return domain.Consultation{}, err
	}

	s.bus.Publish(ctx, domainevents.OutcomeRecorded{
		BaseEvent:      events.NewBaseEvent(),
		ConsultationID: updated.ID,
		Outcome:        outcome,
		Notes:          notes,
	})

	s.log.Info("consultation outcome recorded", "id", updated.ID, "outcome", outcome)
	return updated, nil
}

// ListAgentReferrals returns an agent's referrals, newest assignment first.
func (s *Service) ListAgentReferrals(ctx context.Context, agentID uuid.UUID) ([]domain.Consultation, error) {
	return s.repo.ListByAgent(ctx, agentID)
}

// Activities returns a consultation's audit trail, oldest first.
func (s *Service) Activities(ctx context.Context, consultationID uuid.UUID) ([]domain.Activity, error) {
	if _, err := s.repo.GetByID(ctx, consultationID); err != nil {
		return nil, err
	}
	return s.repo.ListActivities(ctx, consultationID)
}

// ProcessExpired sweeps referred consultations whose window lapsed and marks
// them expired. Idempotent: a second sweep finds nothing because the status
// guard no longer matches. A failed audit append for one row is reported in
// the summary and does not stop the rest of the batch.
func (s *Service) ProcessExpired(ctx context.Context) (ExpirySummary, error) {
	expired, err := s.repo.ExpireOverdue(ctx, s.now())
	if err != nil {
		return ExpirySummary{}, err
	}

	summary := ExpirySummary{Expired: len(expired), Reassigned: 0}
	for _, consultation := range expired {
		err := s.repo.AppendActivity(ctx, repository.AppendActivityParams{
			ConsultationID: consultation.ID,
			AgentID:        consultation.AssignedBrokerID,
			Type:           domain.ActivityReferralExpired,
			Description:    "Referral expired without a response",
		})
		if err != nil {
			s.log.Error("expired referral activity append failed", "consultation_id", consultation.ID, "error", err)
			summary.Failures = append(summary.Failures, fmt.Sprintf("%s: %v", consultation.ID, err))
			continue
		}

		event := domainevents.ReferralExpired{
			BaseEvent:      events.NewBaseEvent(),
			ConsultationID: consultation.ID,
			CustomerName:   consultation.CustomerName,
			PropertyState:  consultation.State,
		}
		if consultation.AssignedBrokerID != nil {
			event.AgentID = *consultation.AssignedBrokerID
			if agent, err := s.agents.GetByID(ctx, *consultation.AssignedBrokerID); err == nil {
				event.AgentName = agent.Name
			}
		}
		if consultation.AssignedAt != nil {
			event.AssignedAt = *consultation.AssignedAt
		}
		s.bus.Publish(ctx, event)

		agentRef := ""
		if consultation.AssignedBrokerID != nil {
			agentRef = consultation.AssignedBrokerID.String()
		}
		s.log.ReferralEvent("expired", consultation.ID.String(), agentRef)
	}

	return summary, nil
}
