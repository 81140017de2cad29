package offer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for offers.
type Repository interface {
	// FindByID retrieves an offer by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Offer, error)

	// FindByCode retrieves an offer by its redeemable code.
	FindByCode(ctx context.Context, code string) (*Offer, error)

	// ListByAdmin retrieves all offers owned by an admin.
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]*Offer, error)

	// ListPublicActive retrieves active public offers across all admins.
	ListPublicActive(ctx context.Context) ([]*Offer, error)

	// Save persists a new offer.
	Save(ctx context.Context, offer *Offer) error

	// Update persists changes to an existing offer with optimistic locking.
	Update(ctx context.Context, offer *Offer) error

	// Delete removes an offer.
	Delete(ctx context.Context, id uuid.UUID) error
}
