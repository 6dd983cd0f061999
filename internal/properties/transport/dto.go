// Package transport defines the HTTP request and response shapes for the
// property catalog.
package transport

// IngestListing is one scraped HUD listing in an ingest batch.
type IngestListing struct {
	CaseNumber    string  `json:"caseNumber" validate:"required,max=40"`
	Address       string  `json:"address" validate:"required,max=300"`
	City          string  `json:"city" validate:"max=120"`
	State         string  `json:"state" validate:"required,us_state"`
	Zip           string  `json:"zip" validate:"max=10"`
	Price         int64   `json:"price" validate:"min=0"`
	Bedrooms      int     `json:"bedrooms" validate:"min=0,max=50"`
	Bathrooms     float64 `json:"bathrooms" validate:"min=0,max=50"`
	SquareFeet    int     `json:"squareFeet" validate:"min=0"`
	ListingStatus string  `json:"listingStatus" validate:"max=40"`
	ImageURL      string  `json:"imageUrl" validate:"omitempty,url,max=500"`
}

// IngestRequest is the scraper's batch upload body.
type IngestRequest struct {
	Listings []IngestListing `json:"listings" validate:"required,min=1,max=500,dive"`
}

// IngestResponse reports how many listings were written.
type IngestResponse struct {
	Written int `json:"written"`
}

// PropertyResponse is the public view of one listing.
type PropertyResponse struct {
	ID            string  `json:"id"`
	CaseNumber    string  `json:"caseNumber"`
	Address       string  `json:"address"`
	City          string  `json:"city,omitempty"`
	State         string  `json:"state"`
	Zip           string  `json:"zip,omitempty"`
	Price         int64   `json:"price"`
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	SquareFeet    int     `json:"squareFeet"`
	ListingStatus string  `json:"listingStatus,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}
