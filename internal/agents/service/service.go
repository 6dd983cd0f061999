// Package service provides business logic for the agent directory.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"usahudhomes_backend/internal/agents/repository"
	"usahudhomes_backend/internal/agents/transport"
	"usahudhomes_backend/platform/logger"
	"usahudhomes_backend/platform/phone"
)

// Service provides business logic for agents.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new agents service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create onboards a new agent with a bcrypt password hash.
func (s *Service) Create(ctx context.Context, req transport.CreateAgentRequest) (transport.AgentResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return transport.AgentResponse{}, err
	}

	agent, err := s.repo.Create(ctx, repository.CreateParams{
		Name:          req.Name,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         phone.NormalizeE164(req.Phone),
		LicenseNumber: req.LicenseNumber,
		LicenseState:  strings.ToUpper(strings.TrimSpace(req.LicenseState)),
		Specialties:   req.Specialties,
		StatesCovered: normalizeStates(req.StatesCovered),
		IsAdmin:       req.IsAdmin,
		PasswordHash:  string(hash),
	})
	if err != nil {
		return transport.AgentResponse{}, err
	}

	s.log.Info("agent created", "id", agent.ID, "email", agent.Email, "states", agent.StatesCovered)
	return toResponse(agent), nil
}

// Update modifies an agent's profile.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateAgentRequest) (transport.AgentResponse, error) {
	params := repository.UpdateParams{
		ID:            id,
		Name:          req.Name,
		LicenseNumber: req.LicenseNumber,
		LicenseState:  req.LicenseState,
		Specialties:   req.Specialties,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}
	if req.StatesCovered != nil {
		params.StatesCovered = normalizeStates(req.StatesCovered)
	}

	agent, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.AgentResponse{}, err
	}

	s.log.Info("agent updated", "id", agent.ID)
	return toResponse(agent), nil
}

// GetByID retrieves one agent.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.AgentResponse, error) {
	agent, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.AgentResponse{}, err
	}
	return toResponse(agent), nil
}

// List retrieves all agents for the admin directory.
func (s *Service) List(ctx context.Context) ([]transport.AgentResponse, error) {
	agents, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.AgentResponse, len(agents))
	for i, agent := range agents {
		responses[i] = toResponse(agent)
	}
	return responses, nil
}

// ListActivePublic retrieves active agents for the marketing site.
func (s *Service) ListActivePublic(ctx context.Context) ([]transport.PublicAgentResponse, error) {
	agents, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.PublicAgentResponse, len(agents))
	for i, agent := range agents {
		responses[i] = transport.PublicAgentResponse{
			ID:            agent.ID.String(),
			Name:          agent.Name,
			Email:         agent.Email,
			Phone:         agent.Phone,
			Specialties:   agent.Specialties,
			StatesCovered: agent.StatesCovered,
		}
	}
	return responses, nil
}

// SetActive soft-activates or deactivates an agent. Deactivated agents stop
// receiving new referrals; existing referrals are unaffected.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	if err := s.repo.SetActive(ctx, id, isActive); err != nil {
		return err
	}
	s.log.Info("agent active flag changed", "id", id, "isActive", isActive)
	return nil
}

// Repository exposes the repo for cross-module adapters.
func (s *Service) Repository() repository.Repository {
	return s.repo
}

func toResponse(a repository.Agent) transport.AgentResponse {
	return transport.AgentResponse{
		ID:            a.ID.String(),
		Name:          a.Name,
		Email:         a.Email,
		Phone:         a.Phone,
		LicenseNumber: a.LicenseNumber,
		LicenseState:  a.LicenseState,
		Specialties:   a.Specialties,
		StatesCovered: a.StatesCovered,
		IsActive:      a.IsActive,
		IsAdmin:       a.IsAdmin,
		TotalListings: a.TotalListings,
		TotalSales:    a.TotalSales,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
}

func normalizeStates(states []string) []string {
	normalized := make([]string, len(states))
	for i, state := range states {
		normalized[i] = strings.ToUpper(strings.TrimSpace(state))
	}
	return normalized
}
