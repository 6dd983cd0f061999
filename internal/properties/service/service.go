// Package service provides business logic for the property catalog.
package service

import (
	"context"
	"strings"

	"usahudhomes_backend/internal/properties/repository"
	"usahudhomes_backend/internal/properties/transport"
	"usahudhomes_backend/platform/logger"
)

const defaultListLimit = 100

// Service provides business logic for properties.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new properties service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Ingest writes a scraper batch into the catalog.
func (s *Service) Ingest(ctx context.Context, req transport.IngestRequest) (transport.IngestResponse, error) {
	listings := make([]repository.UpsertParams, len(req.Listings))
	for i, listing := range req.Listings {
		listings[i] = repository.UpsertParams{
			CaseNumber:    strings.TrimSpace(listing.CaseNumber),
			Address:       listing.Address,
			City:          listing.City,
			State:         strings.ToUpper(strings.TrimSpace(listing.State)),
			Zip:           listing.Zip,
			Price:         listing.Price,
			Bedrooms:      listing.Bedrooms,
			Bathrooms:     listing.Bathrooms,
			SquareFeet:    listing.SquareFeet,
			ListingStatus: listing.ListingStatus,
			ImageURL:      listing.ImageURL,
		}
	}

	written, err := s.repo.UpsertBatch(ctx, listings)
	if err != nil {
		return transport.IngestResponse{}, err
	}

	s.log.Info("property batch ingested", "written", written)
	return transport.IngestResponse{Written: written}, nil
}

// ListByState returns listings for one US state.
func (s *Service) ListByState(ctx context.Context, state string) ([]transport.PropertyResponse, error) {
	properties, err := s.repo.ListByState(ctx, strings.ToUpper(strings.TrimSpace(state)), defaultListLimit)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.PropertyResponse, len(properties))
	for i, property := range properties {
		responses[i] = toResponse(property)
	}
	return responses, nil
}

// GetByCaseNumber returns one listing.
func (s *Service) GetByCaseNumber(ctx context.Context, caseNumber string) (transport.PropertyResponse, error) {
	property, err := s.repo.GetByCaseNumber(ctx, strings.TrimSpace(caseNumber))
	if err != nil {
		return transport.PropertyResponse{}, err
	}
	return toResponse(property), nil
}

func toResponse(p repository.Property) transport.PropertyResponse {
	return transport.PropertyResponse{
		ID:            p.ID.String(),
		CaseNumber:    p.CaseNumber,
		Address:       p.Address,
		City:          p.City,
		State:         p.State,
		Zip:           p.Zip,
		Price:         p.Price,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		SquareFeet:    p.SquareFeet,
		ListingStatus: p.ListingStatus,
		ImageURL:      p.ImageURL,
	}
}
