package bookingRepo

import (
	"context"
	"fmt"

	"studyspace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingRepository is the booking store payment reconciliation writes through.
// Cabin and hostel bookings each have their own implementation.
type BookingRepository interface {
	// Kind returns the booking type this store serves.
	Kind() models.BookingType
	// GetByID returns the booking or nil when it does not exist.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	// ApplyPatch writes the patch as a single update and reports whether it matched.
	ApplyPatch(ctx context.Context, id primitive.ObjectID, patch models.BookingPatch) (bool, error)
}

// Registry selects a BookingRepository by booking type.
type Registry struct {
	repos map[models.BookingType]BookingRepository
}

// NewRegistry indexes the given repositories by their Kind.
func NewRegistry(repos ...BookingRepository) *Registry {
	r := &Registry{repos: make(map[models.BookingType]BookingRepository, len(repos))}
	for _, repo := range repos {
		r.repos[repo.Kind()] = repo
	}
	return r
}

// For returns the repository for the booking type.
func (r *Registry) For(kind models.BookingType) (BookingRepository, error) {
	repo, ok := r.repos[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBookingType, kind)
	}
	return repo, nil
}
