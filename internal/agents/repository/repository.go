package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"usahudhomes_backend/platform/apperr"
)

const agentNotFoundMessage = "agent not found"

const agentColumns = `
	id, name, email, COALESCE(phone, ''),
	COALESCE(license_number, ''), COALESCE(license_state, ''),
	specialties, states_covered,
	is_active, is_admin, total_listings, total_sales,
	COALESCE(password_hash, ''), created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new agents repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new agent.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Agent, error) {
	query := `
		INSERT INTO agents (
			name, email, phone, license_number, license_state,
			specialties, states_covered, is_admin, password_hash
		)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, NULLIF($9, ''))
		RETURNING` + agentColumns

	row := r.pool.QueryRow(ctx, query,
		params.Name, params.Email, params.Phone, params.LicenseNumber, params.LicenseState,
		params.Specialties, params.StatesCovered, params.IsAdmin, params.PasswordHash,
	)
	agent, err := scanAgent(row)
	if err != nil {
		return Agent{}, fmt.Errorf("create agent: %w", err)
	}

	return agent, nil
}

// Update modifies an existing agent's profile fields.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Agent, error) {
	query := `
		UPDATE agents SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			license_number = COALESCE($4, license_number),
			license_state = COALESCE($5, license_state),
			specialties = COALESCE($6, specialties),
			states_covered = COALESCE($7, states_covered),
			updated_at = now()
		WHERE id = $1
		RETURNING` + agentColumns

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Phone, params.LicenseNumber, params.LicenseState,
		params.Specialties, params.StatesCovered,
	)
	agent, err := scanAgent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, apperr.NotFound(agentNotFoundMessage)
		}
		return Agent{}, fmt.Errorf("update agent: %w", err)
	}

	return agent, nil
}

// GetByID retrieves an agent regardless of active flag.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Agent, error) {
	query := `SELECT` + agentColumns + ` FROM agents WHERE id = $1`

	agent, err := scanAgent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, apperr.NotFound(agentNotFoundMessage)
		}
		return Agent{}, fmt.Errorf("get agent by id: %w", err)
	}

	return agent, nil
}

// GetByEmail retrieves an agent by email, for login.
func (r *Repo) GetByEmail(ctx context.Context, email string) (Agent, error) {
	query := `SELECT` + agentColumns + ` FROM agents WHERE lower(email) = lower($1)`

	agent, err := scanAgent(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, apperr.NotFound(agentNotFoundMessage)
		}
		return Agent{}, fmt.Errorf("get agent by email: %w", err)
	}

	return agent, nil
}

// List retrieves all agents ordered by name.
func (r *Repo) List(ctx context.Context) ([]Agent, error) {
	query := `SELECT` + agentColumns + ` FROM agents ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	return scanAgents(rows)
}

// ListActive retrieves only active agents in creation order. This order is
// what makes the first-match assignment policy deterministic.
func (r *Repo) ListActive(ctx context.Context) ([]Agent, error) {
	query := `SELECT` + agentColumns + ` FROM agents WHERE is_active = true ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active agents: %w", err)
	}
	defer rows.Close()

	return scanAgents(rows)
}

// SetActive soft-activates or deactivates an agent.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	query := `UPDATE agents SET is_active = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, isActive)
	if err != nil {
		return fmt.Errorf("set agent active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(agentNotFoundMessage)
	}

	return nil
}

func scanAgent(row pgx.Row) (Agent, error) {
	var a Agent
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone,
		&a.LicenseNumber, &a.LicenseState,
		&a.Specialties, &a.StatesCovered,
		&a.IsActive, &a.IsAdmin, &a.TotalListings, &a.TotalSales,
		&a.PasswordHash, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func scanAgents(rows pgx.Rows) ([]Agent, error) {
	var results []Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		results = append(results, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agents: %w", err)
	}
	return results, nil
}
