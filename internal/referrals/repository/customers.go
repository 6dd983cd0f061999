package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UpsertCustomer finds or creates a customer by email and returns its ID.
// Name and phone are refreshed on conflict so the latest intake wins.
func (r *Repo) UpsertCustomer(ctx context.Context, name, email, phone string) (uuid.UUID, error) {
	query := `
		INSERT INTO customers (name, email, phone)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			phone = COALESCE(EXCLUDED.phone, customers.phone),
			updated_at = now()
		RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, name, email, phone).Scan(&id); err != nil {
		return uuid.UUID{}, fmt.Errorf("upsert customer: %w", err)
	}

	return id, nil
}
