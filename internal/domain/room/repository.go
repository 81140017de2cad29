package room

import (
	"context"

	"github.com/google/uuid"
)

// CandidateFilter narrows the cheap attribute phase of an availability search.
// Rooms in maintenance are always excluded.
type CandidateFilter struct {
	MinCapacity   int
	RoomType      string
	MinPriceCents *int64
	MaxPriceCents *int64
}

// Repository defines the persistence contract for room aggregates.
type Repository interface {
	// FindByID retrieves a room by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindByIDForUpdate retrieves a room with a row-level lock. Must be called
	// inside a transaction; the lock is held until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindByNumber retrieves a room by its room number.
	FindByNumber(ctx context.Context, roomNumber string) (*Room, error)

	// ListByAdmin retrieves all rooms owned by an admin.
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]*Room, error)

	// ListCandidates retrieves rooms passing the attribute filter, across all admins.
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]*Room, error)

	// Save persists a new room.
	Save(ctx context.Context, room *Room) error

	// Update persists changes to an existing room with optimistic locking.
	Update(ctx context.Context, room *Room) error

	// Delete removes a room.
	Delete(ctx context.Context, id uuid.UUID) error
}
