package repository

import (
	"context"

	"github.com/BenjiKandl/apertif/internal/domain"
)

// EventStore persists whole event documents
type EventStore interface {
	// Create stores doc under a freshly allocated id and returns the id.
	// The stored guest list always starts empty.
	Create(ctx context.Context, doc *domain.Document) (string, error)
	// Load returns the document for id, or domain.ErrEventNotFound
	Load(ctx context.Context, id string) (*domain.Document, error)
	// Replace overwrites the whole document for id; last writer wins
	Replace(ctx context.Context, id string, doc *domain.Document) error
}

// RSVPMarkerStore remembers which device has already replied to which event
type RSVPMarkerStore interface {
	// HasMarker reports whether deviceID has RSVP'd to eventID
	HasMarker(ctx context.Context, deviceID, eventID string) (bool, error)
	// SetMarker records that deviceID has RSVP'd to eventID
	SetMarker(ctx context.Context, deviceID, eventID string) error
}

// HealthChecker is implemented by stores whose medium is not already probed
// through a shared connection
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
