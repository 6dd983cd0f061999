// Package repository provides data access for the HUD property catalog.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"usahudhomes_backend/platform/apperr"
)

const propertyNotFoundMessage = "property not found"

// Property is one HUD listing, keyed by the government case number.
type Property struct {
	ID            uuid.UUID
	CaseNumber    string
	Address       string
	City          string
	State         string
	Zip           string
	Price         int64
	Bedrooms      int
	Bathrooms     float64
	SquareFeet    int
	ListingStatus string
	ImageURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UpsertParams holds one scraped listing.
type UpsertParams struct {
	CaseNumber    string
	Address       string
	City          string
	State         string
	Zip           string
	Price         int64
	Bedrooms      int
	Bathrooms     float64
	SquareFeet    int
	ListingStatus string
	ImageURL      string
}

// Repository defines data access for properties.
type Repository interface {
	// UpsertBatch inserts or refreshes listings by case number and returns
	// the number of rows written.
	UpsertBatch(ctx context.Context, listings []UpsertParams) (int, error)
	// ListByState returns listings for one US state, newest first.
	ListByState(ctx context.Context, state string, limit int) ([]Property, error)
	// GetByCaseNumber returns one listing.
	GetByCaseNumber(ctx context.Context, caseNumber string) (Property, error)
}

const propertyColumns = `
	id, case_number, address, COALESCE(city, ''), state, COALESCE(zip, ''),
	price, bedrooms, bathrooms, square_feet, COALESCE(listing_status, ''),
	COALESCE(image_url, ''), created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new properties repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// UpsertBatch inserts or refreshes listings by case number. Each row is an
// independent statement inside one transaction so a malformed listing fails
// the batch before anything is committed.
func (r *Repo) UpsertBatch(ctx context.Context, listings []UpsertParams) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin property upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO properties (
			case_number, address, city, state, zip, price,
			bedrooms, bathrooms, square_feet, listing_status, image_url
		)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''))
		ON CONFLICT (case_number) DO UPDATE SET
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip = EXCLUDED.zip,
			price = EXCLUDED.price,
			bedrooms = EXCLUDED.bedrooms,
			bathrooms = EXCLUDED.bathrooms,
			square_feet = EXCLUDED.square_feet,
			listing_status = EXCLUDED.listing_status,
			image_url = EXCLUDED.image_url,
			updated_at = now()`

	written := 0
	for _, listing := range listings {
		_, err := tx.Exec(ctx, query,
			listing.CaseNumber, listing.Address, listing.City, listing.State, listing.Zip,
			listing.Price, listing.Bedrooms, listing.Bathrooms, listing.SquareFeet,
			listing.ListingStatus, listing.ImageURL,
		)
		if err != nil {
			return 0, fmt.Errorf("upsert property %s: %w", listing.CaseNumber, err)
		}
		written++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit property upsert: %w", err)
	}

	return written, nil
}

// ListByState returns listings for one US state, newest first.
func (r *Repo) ListByState(ctx context.Context, state string, limit int) ([]Property, error) {
	query := `SELECT` + propertyColumns + `
		FROM properties
		WHERE state = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, state, limit)
	if err != nil {
		return nil, fmt.Errorf("list properties by state: %w", err)
	}
	defer rows.Close()

	var results []Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		results = append(results, property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}

	return results, nil
}

// GetByCaseNumber returns one listing.
func (r *Repo) GetByCaseNumber(ctx context.Context, caseNumber string) (Property, error) {
	query := `SELECT` + propertyColumns + ` FROM properties WHERE case_number = $1`

	property, err := scanProperty(r.pool.QueryRow(ctx, query, caseNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, apperr.NotFound(propertyNotFoundMessage)
		}
		return Property{}, fmt.Errorf("get property by case number: %w", err)
	}

	return property, nil
}

func scanProperty(row pgx.Row) (Property, error) {
	var p Property
	err := row.Scan(
		&p.ID, &p.CaseNumber, &p.Address, &p.City, &p.State, &p.Zip,
		&p.Price, &p.Bedrooms, &p.Bathrooms, &p.SquareFeet, &p.ListingStatus,
		&p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
