package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/hostelhub/hostel-backend/internal/domain"
)

// referenceChars deliberately omits ambiguous characters (0/O, 1/I).
const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id        uuid.UUID
	reference string
	guestID   uuid.UUID
	roomID    uuid.UUID
	offerID   *uuid.UUID
	stay      Stay
	guests    int
	status    Status

	totalAmountCents    int64
	originalAmountCents int64
	discountAmountCents int64

	specialRequests string
	cancelNote      string

	confirmedAt  *time.Time
	checkedInAt  *time.Time
	checkedOutAt *time.Time
	cancelledAt  *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateReference creates a booking reference in the format "BKXXXXXXXX".
func generateReference() (string, error) {
	result := make([]byte, 8)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return "BK" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=pending.
func NewBooking(
	guestID uuid.UUID,
	roomID uuid.UUID,
	offerID *uuid.UUID,
	stay Stay,
	guests int,
	originalAmountCents int64,
	discountAmountCents int64,
	specialRequests string,
) (*Booking, error) {
	if guestID == uuid.Nil {
		return nil, domain.NewValidationError("guest ID is required")
	}
	if roomID == uuid.Nil {
		return nil, domain.NewValidationError("room ID is required")
	}
	if guests < 1 {
		return nil, domain.NewValidationError("number of guests must be at least 1")
	}
	if originalAmountCents < 0 || discountAmountCents < 0 || discountAmountCents > originalAmountCents {
		return nil, domain.NewValidationError("invalid booking amounts")
	}

	reference, err := generateReference()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:                  uuid.New(),
		reference:           reference,
		guestID:             guestID,
		roomID:              roomID,
		offerID:             offerID,
		stay:                stay,
		guests:              guests,
		status:              StatusPending,
		totalAmountCents:    originalAmountCents - discountAmountCents,
		originalAmountCents: originalAmountCents,
		discountAmountCents: discountAmountCents,
		specialRequests:     specialRequests,
		version:             1,
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	reference string,
	guestID uuid.UUID,
	roomID uuid.UUID,
	offerID *uuid.UUID,
	stay Stay,
	guests int,
	status Status,
	totalAmountCents int64,
	originalAmountCents int64,
	discountAmountCents int64,
	specialRequests string,
	cancelNote string,
	confirmedAt *time.Time,
	checkedInAt *time.Time,
	checkedOutAt *time.Time,
	cancelledAt *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                  id,
		reference:           reference,
		guestID:             guestID,
		roomID:              roomID,
		offerID:             offerID,
		stay:                stay,
		guests:              guests,
		status:              status,
		totalAmountCents:    totalAmountCents,
		originalAmountCents: originalAmountCents,
		discountAmountCents: discountAmountCents,
		specialRequests:     specialRequests,
		cancelNote:          cancelNote,
		confirmedAt:         confirmedAt,
		checkedInAt:         checkedInAt,
		checkedOutAt:        checkedOutAt,
		cancelledAt:         cancelledAt,
		version:             version,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Reference returns the human-readable booking reference.
func (b *Booking) Reference() string { return b.reference }

// GuestID returns the booking guest's ID.
func (b *Booking) GuestID() uuid.UUID { return b.guestID }

// RoomID returns the booked room's ID.
func (b *Booking) RoomID() uuid.UUID { return b.roomID }

// OfferID returns the applied offer's ID, or nil.
func (b *Booking) OfferID() *uuid.UUID { return b.offerID }

// Stay returns the booked date range.
func (b *Booking) Stay() Stay { return b.stay }

// Guests returns the number of guests on the booking.
func (b *Booking) Guests() int { return b.guests }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// TotalAmountCents returns the amount due after discount.
func (b *Booking) TotalAmountCents() int64 { return b.totalAmountCents }

// OriginalAmountCents returns the pre-discount amount.
func (b *Booking) OriginalAmountCents() int64 { return b.originalAmountCents }

// DiscountAmountCents returns the discount applied.
func (b *Booking) DiscountAmountCents() int64 { return b.discountAmountCents }

// SpecialRequests returns the guest's free-text requests.
func (b *Booking) SpecialRequests() string { return b.specialRequests }

// CancelNote returns the cancellation reason.
func (b *Booking) CancelNote() string { return b.cancelNote }

// ConfirmedAt returns the confirmation time.
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }

// CheckedInAt returns the check-in time.
func (b *Booking) CheckedInAt() *time.Time { return b.checkedInAt }

// CheckedOutAt returns the check-out time.
func (b *Booking) CheckedOutAt() *time.Time { return b.checkedOutAt }

// CancelledAt returns the cancellation time.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsActive returns true if the booking currently holds beds in its room.
func (b *Booking) IsActive() bool {
	return b.status.CountsTowardOccupancy()
}

// --- Behavior ---

// Confirm transitions the booking from pending to confirmed. Occupancy was
// already reserved at creation, so the room is untouched.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusConfirmed))
	}
	now := time.Now().UTC()
	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.updatedAt = now
	return nil
}

// CheckIn transitions the booking from confirmed to checked_in.
func (b *Booking) CheckIn() error {
	if !b.status.CanTransitionTo(StatusCheckedIn) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCheckedIn))
	}
	now := time.Now().UTC()
	b.status = StatusCheckedIn
	b.checkedInAt = &now
	b.updatedAt = now
	return nil
}

// CheckOut transitions the booking from checked_in to checked_out. The caller
// releases the booking's guests from room occupancy in the same transaction.
func (b *Booking) CheckOut() error {
	if !b.status.CanTransitionTo(StatusCheckedOut) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCheckedOut))
	}
	now := time.Now().UTC()
	b.status = StatusCheckedOut
	b.checkedOutAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to cancelled from any active state. A
// checked-out booking is already settled and cannot be cancelled.
func (b *Booking) Cancel(note string) error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelNote = note
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
