package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"usahudhomes_backend/internal/referrals/domain"
	"usahudhomes_backend/platform/apperr"
)

const (
	consultationNotFoundMessage = "consultation not found"
	ownershipMismatchMessage    = "referral is assigned to a different agent"
	notAwaitingResponseMessage  = "referral is not awaiting a response"
)

// consultationColumns is the shared SELECT list with the agent, customer,
// and property relations joined in.
const consultationColumns = `
	c.id, c.customer_id, c.property_id,
	c.customer_name, c.customer_email, c.customer_phone,
	c.property_address, c.case_number, c.message, c.state, c.source,
	c.assigned_broker_id,
	c.assigned_at, c.referral_expires_at, c.accepted_at, c.declined_at, c.expired_at,
	COALESCE(c.decline_reason, ''), COALESCE(c.decline_notes, ''),
	COALESCE(c.outcome, ''), COALESCE(c.outcome_notes, ''),
	c.created_at, c.updated_at,
	a.id, a.name, a.email, COALESCE(a.phone, ''),
	cu.id, cu.name, cu.email, COALESCE(cu.phone, ''),
	p.id, p.case_number, p.address, p.city, p.state`

const consultationJoins = `
	FROM consultations c
	LEFT JOIN agents a ON a.id = c.assigned_broker_id
	LEFT JOIN customers cu ON cu.id = c.customer_id
	LEFT JOIN properties p ON p.id = c.property_id`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new referrals repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateConsultation inserts a consultation in the unassigned state.
func (r *Repo) CreateConsultation(ctx context.Context, params CreateConsultationParams) (domain.Consultation, error) {
	query := `
		INSERT INTO consultations (
			customer_id, property_id, customer_name, customer_email, customer_phone,
			property_address, case_number, message, state, source, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'unassigned')
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		params.CustomerID, params.PropertyID, params.CustomerName, params.CustomerEmail,
		params.CustomerPhone, params.PropertyAddress, params.CaseNumber, params.Message,
		params.State, params.Source,
	).Scan(&id)
	if err != nil {
		return domain.Consultation{}, fmt.Errorf("create consultation: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves a consultation with its embedded relations.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Consultation, error) {
	query := `SELECT` + consultationColumns + consultationJoins + ` WHERE c.id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	consultation, err := scanConsultation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Consultation{}, apperr.NotFound(consultationNotFoundMessage)
		}
		return domain.Consultation{}, fmt.Errorf("get consultation by id: %w", err)
	}

	return consultation, nil
}

// MarkReferred assigns an agent and opens a fresh response window. The update
// clears terminal timestamps and decline fields so a declined or expired
// consultation can be re-referred; last write wins on concurrent assigns.
func (r *Repo) MarkReferred(ctx context.Context, id, agentID uuid.UUID, assignedAt, expiresAt time.Time) (domain.Consultation, error) {
	query := `
		UPDATE consultations SET
			assigned_broker_id = $2,
			status = 'referred',
			assigned_at = $3,
			referral_expires_at = $4,
			accepted_at = NULL,
			declined_at = NULL,
			expired_at = NULL,
			decline_reason = NULL,
			decline_notes = NULL,
			updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, agentID, assignedAt, expiresAt)
	if err != nil {
		return domain.Consultation{}, fmt.Errorf("mark consultation referred: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.Consultation{}, apperr.NotFound(consultationNotFoundMessage)
	}

	return r.GetByID(ctx, id)
}

// MarkAccepted records acceptance under the ownership and status guard.
func (r *Repo) MarkAccepted(ctx context.Context, id, agentID uuid.UUID, at time.Time) (domain.Consultation, error) {
	query := `
		UPDATE consultations SET
			status = 'accepted',
			accepted_at = $3,
			updated_at = now()
		WHERE id = $1 AND assigned_broker_id = $2 AND status = 'referred'`

	result, err := r.pool.Exec(ctx, query, id, agentID, at)
	if err != nil {
		return domain.Consultation{}, fmt.Errorf("mark consultation accepted: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.Consultation{}, r.explainGuardFailure(ctx, id, agentID)
	}

	return r.GetByID(ctx, id)
}

// MarkDeclined records a decline under the ownership and status guard.
func (r *Repo) MarkDeclined(ctx context.Context, id, agentID uuid.UUID, at time.Time, reason, notes string) (domain.Consultation, error) {
	query := `
		UPDATE consultations SET
			status = 'declined',
			declined_at = $3,
			decline_reason = NULLIF($4, ''),
			decline_notes = NULLIF($5, ''),
			updated_at = now()
		WHERE id = $1 AND assigned_broker_id = $2 AND status = 'referred'`

	result, err := r.pool.Exec(ctx, query, id, agentID, at, reason, notes)
	if err != nil {
		return domain.Consultation{}, fmt.Errorf("mark consultation declined: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.Consultation{}, r.explainGuardFailure(ctx, id, agentID)
	}

	return r.GetByID(ctx, id)
}

// SetOutcome records the final business result. No status precondition.
func (r *Repo) SetOutcome(ctx context.Context, id uuid.UUID, outcome, notes string) (domain.Consultation, error) {
	query := `
		UPDATE consultations SET
			outcome = $2,
			outcome_notes = NULLIF($3, ''),
			updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, outcome, notes)
	if err != nil {
		return domain.Consultation{}, fmt.Errorf("set consultation outcome: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.Consultation{}, apperr.NotFound(consultationNotFoundMessage)
	}

	return r.GetByID(ctx, id)
}

// ListByAgent returns the agent's referrals, newest assignment first.
func (r *Repo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Consultation, error) {
	query := `SELECT` + consultationColumns + consultationJoins + `
		WHERE c.assigned_broker_id = $1
		ORDER BY c.assigned_at DESC NULLS LAST`

	rows, err := r.pool.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("list consultations by agent: %w", err)
	}
	defer rows.Close()

	var results []domain.Consultation
	for rows.Next() {
		consultation, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		results = append(results, consultation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consultations: %w", err)
	}

	return results, nil
}

// ExpireOverdue transitions every referred consultation whose window lapsed.
// Each row carries enough denormalized fields for activity and event emission.
func (r *Repo) ExpireOverdue(ctx context.Context, now time.Time) ([]domain.Consultation, error) {
	query := `
		UPDATE consultations SET
			status = 'expired',
			expired_at = $1,
			updated_at = now()
		WHERE status = 'referred'
			AND referral_expires_at < $1
			AND accepted_at IS NULL
		RETURNING id, assigned_broker_id, customer_name, customer_email, state, assigned_at, expired_at`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("expire overdue consultations: %w", err)
	}
	defer rows.Close()

	var results []domain.Consultation
	for rows.Next() {
		var c domain.Consultation
		err := rows.Scan(
			&c.ID, &c.AssignedBrokerID, &c.CustomerName, &c.CustomerEmail,
			&c.State, &c.AssignedAt, &c.ExpiredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan expired consultation: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired consultations: %w", err)
	}

	return results, nil
}

// FindPropertyIDByCaseNumber resolves a HUD case number to a property ID.
func (r *Repo) FindPropertyIDByCaseNumber(ctx context.Context, caseNumber string) (*uuid.UUID, error) {
	query := `SELECT id FROM properties WHERE case_number = $1`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query, caseNumber).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find property by case number: %w", err)
	}

	return &id, nil
}

// explainGuardFailure disambiguates a zero-row conditional update on
// accept/decline: the row is absent, owned by another agent, or no longer
// awaiting a response.
func (r *Repo) explainGuardFailure(ctx context.Context, id, agentID uuid.UUID) error {
	query := `SELECT assigned_broker_id, status FROM consultations WHERE id = $1`

	var assignedBrokerID *uuid.UUID
	var status string
	err := r.pool.QueryRow(ctx, query, id).Scan(&assignedBrokerID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(consultationNotFoundMessage)
		}
		return fmt.Errorf("inspect consultation guard: %w", err)
	}

	if assignedBrokerID == nil || *assignedBrokerID != agentID {
		return apperr.Forbidden(ownershipMismatchMessage)
	}
	return apperr.Conflict(notAwaitingResponseMessage)
}

// scanConsultation reads one joined consultation row.
func scanConsultation(row pgx.Row) (domain.Consultation, error) {
	var c domain.Consultation
	var agentID, customerID, propertyID *uuid.UUID
	var agentName, agentEmail, agentPhone *string
	var custName, custEmail, custPhone *string
	var propCaseNumber, propAddress, propCity, propState *string

	err := row.Scan(
		&c.ID, &c.CustomerID, &c.PropertyID,
		&c.CustomerName, &c.CustomerEmail, &c.CustomerPhone,
		&c.PropertyAddress, &c.CaseNumber, &c.Message, &c.State, &c.Source,
		&c.AssignedBrokerID,
		&c.AssignedAt, &c.ReferralExpiresAt, &c.AcceptedAt, &c.DeclinedAt, &c.ExpiredAt,
		&c.DeclineReason, &c.DeclineNotes,
		&c.Outcome, &c.OutcomeNotes,
		&c.CreatedAt, &c.UpdatedAt,
		&agentID, &agentName, &agentEmail, &agentPhone,
		&customerID, &custName, &custEmail, &custPhone,
		&propertyID, &propCaseNumber, &propAddress, &propCity, &propState,
	)
	if err != nil {
		return domain.Consultation{}, err
	}

	if agentID != nil {
		c.Agent = &domain.AgentSummary{
			ID:    *agentID,
			Name:  deref(agentName),
			Email: deref(agentEmail),
			Phone: deref(agentPhone),
		}
	}
	if customerID != nil {
		c.Customer = &domain.CustomerSummary{
			ID:    *customerID,
			Name:  deref(custName),
			Email: deref(custEmail),
			Phone: deref(custPhone),
		}
	}
	if propertyID != nil {
		c.Property = &domain.PropertySummary{
			ID:         *propertyID,
			CaseNumber: deref(propCaseNumber),
			Address:    deref(propAddress),
			City:       deref(propCity),
			State:      deref(propState),
		}
	}

	return c, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
