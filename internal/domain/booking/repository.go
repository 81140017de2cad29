package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByReference retrieves a booking by its human-readable reference.
	FindByReference(ctx context.Context, reference string) (*Booking, error)

	// ListByRoom retrieves all bookings on a room, newest first.
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*Booking, error)

	// ListByAdmin retrieves bookings on rooms owned by an admin, with pagination.
	ListByAdmin(ctx context.Context, adminID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ExistsOverlapping reports whether any non-cancelled booking on the room
	// overlaps the stay under half-open interval semantics.
	ExistsOverlapping(ctx context.Context, roomID uuid.UUID, stay Stay) (bool, error)

	// ListOverlapping retrieves non-cancelled bookings on the room overlapping
	// the window [from, to).
	ListOverlapping(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*Booking, error)

	// SumActiveGuests returns the authoritative occupancy of a room: the sum of
	// number_of_guests over bookings in pending/confirmed/checked_in.
	SumActiveGuests(ctx context.Context, roomID uuid.UUID) (int, error)

	// CountActiveByRoom returns the number of active bookings on a room.
	CountActiveByRoom(ctx context.Context, roomID uuid.UUID) (int64, error)

	// ListArrivals retrieves bookings checking in within [from, to] that are
	// still pending or confirmed, scoped to an admin's rooms.
	ListArrivals(ctx context.Context, adminID uuid.UUID, from, to time.Time) ([]*Booking, error)

	// ListDepartures retrieves bookings checking out within [from, to] that are
	// confirmed or checked in, scoped to an admin's rooms.
	ListDepartures(ctx context.Context, adminID uuid.UUID, from, to time.Time) ([]*Booking, error)

	// CountByStatus returns booking counts grouped by status for an admin's rooms.
	CountByStatus(ctx context.Context, adminID uuid.UUID) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// Delete removes a booking.
	Delete(ctx context.Context, id uuid.UUID) error
}
