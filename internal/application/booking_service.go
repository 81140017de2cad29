package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostelhub/hostel-backend/internal/domain"
	bookingDomain "github.com/hostelhub/hostel-backend/internal/domain/booking"
	guestDomain "github.com/hostelhub/hostel-backend/internal/domain/guest"
	offerDomain "github.com/hostelhub/hostel-backend/internal/domain/offer"
	roomDomain "github.com/hostelhub/hostel-backend/internal/domain/room"
	"github.com/hostelhub/hostel-backend/internal/events"
)

// EventPublisher publishes booking lifecycle events. Failures are swallowed by
// the implementation; publishing never fails a booking operation.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, evt events.BookingEvent)
}

// GuestDetails carries the guest identity submitted with a booking request.
type GuestDetails struct {
	FirstName             string     `json:"first_name" binding:"required"`
	LastName              string     `json:"last_name" binding:"required"`
	Email                 string     `json:"email" binding:"required,email"`
	Phone                 string     `json:"phone"`
	Nationality           string     `json:"nationality"`
	DateOfBirth           *time.Time `json:"date_of_birth"`
	IDType                string     `json:"id_type"`
	IDNumber              string     `json:"id_number"`
	Address               string     `json:"address"`
	EmergencyContactName  string     `json:"emergency_contact_name"`
	EmergencyContactPhone string     `json:"emergency_contact_phone"`
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	RoomID          uuid.UUID    `json:"room_id" binding:"required"`
	CheckInDate     time.Time    `json:"check_in_date" binding:"required"`
	CheckOutDate    time.Time    `json:"check_out_date" binding:"required"`
	NumberOfGuests  int          `json:"number_of_guests" binding:"required,min=1"`
	OfferCode       string       `json:"offer_code"`
	SpecialRequests string       `json:"special_requests"`
	Guest           GuestDetails `json:"guest" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                  uuid.UUID  `json:"id"`
	Reference           string     `json:"reference"`
	GuestID             uuid.UUID  `json:"guest_id"`
	RoomID              uuid.UUID  `json:"room_id"`
	OfferID             *uuid.UUID `json:"offer_id,omitempty"`
	CheckInDate         time.Time  `json:"check_in_date"`
	CheckOutDate        time.Time  `json:"check_out_date"`
	Nights              int        `json:"nights"`
	NumberOfGuests      int        `json:"number_of_guests"`
	Status              string     `json:"status"`
	TotalAmountCents    int64      `json:"total_amount_cents"`
	OriginalAmountCents int64      `json:"original_amount_cents"`
	DiscountAmountCents int64      `json:"discount_amount_cents"`
	SpecialRequests     string     `json:"special_requests,omitempty"`
	CancelNote          string     `json:"cancel_note,omitempty"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`
	CheckedInAt         *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt        *time.Time `json:"checked_out_at,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	Version             int64      `json:"version"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// BookingService is the application service orchestrating the booking
// lifecycle. All occupancy-mutating paths run inside a transaction holding a
// row lock on the booking's room, so an availability check and the occupancy
// change it authorizes are a single atomic unit.
type BookingService struct {
	rooms     roomDomain.Repository
	bookings  bookingDomain.Repository
	guests    guestDomain.Repository
	offers    offerDomain.Repository
	tx        domain.Transactor
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	rooms roomDomain.Repository,
	bookings bookingDomain.Repository,
	guests guestDomain.Repository,
	offers offerDomain.Repository,
	tx domain.Transactor,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		rooms:     rooms,
		bookings:  bookings,
		guests:    guests,
		offers:    offers,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking creates a booking and reserves room occupancy for it. The
// booking starts as pending and already holds its beds.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	stay, err := bookingDomain.NewStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	var (
		created    *bookingDomain.Booking
		roomNumber string
	)
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		rm, err := s.rooms.FindByIDForUpdate(ctx, req.RoomID)
		if err != nil {
			return err
		}

		// All preconditions are checked before anything is written.
		if rm.Status() == roomDomain.StatusMaintenance {
			return domain.NewConflictError(fmt.Sprintf("room %s is under maintenance", rm.RoomNumber()))
		}
		if req.NumberOfGuests > rm.Capacity() {
			return domain.NewValidationError(fmt.Sprintf(
				"room %s takes at most %d guests", rm.RoomNumber(), rm.Capacity()))
		}
		if !rm.CanAccommodate(req.NumberOfGuests) {
			return domain.NewCapacityExceededError(fmt.Sprintf(
				"room %s has only %d beds free", rm.RoomNumber(), rm.AvailableSpaces()))
		}

		overlapping, err := s.bookings.ExistsOverlapping(ctx, rm.ID(), stay)
		if err != nil {
			return err
		}
		if overlapping {
			return domain.NewDateConflictError(fmt.Sprintf(
				"room %s is already booked between %s and %s",
				rm.RoomNumber(),
				stay.CheckIn.Format("2006-01-02"),
				stay.CheckOut.Format("2006-01-02")))
		}

		nights := stay.Nights()
		originalCents := rm.PriceCents() * int64(nights)

		offerID, discountCents, err := s.redeemOffer(ctx, req.OfferCode, req.NumberOfGuests, nights, originalCents)
		if err != nil {
			return err
		}

		g, err := s.resolveGuest(ctx, req.Guest)
		if err != nil {
			return err
		}

		bk, err := bookingDomain.NewBooking(
			g.ID(),
			rm.ID(),
			offerID,
			stay,
			req.NumberOfGuests,
			originalCents,
			discountCents,
			req.SpecialRequests,
		)
		if err != nil {
			return err
		}
		if err := s.bookings.Save(ctx, bk); err != nil {
			return err
		}

		if err := rm.Reserve(req.NumberOfGuests); err != nil {
			return err
		}
		rm.IncrementVersion()
		if err := s.rooms.Update(ctx, rm); err != nil {
			return err
		}

		created = bk
		roomNumber = rm.RoomNumber()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.BookingCreated, events.NewBookingEvent(created, roomNumber))

	result := toBookingDTO(created)
	return &result, nil
}

// ConfirmBooking transitions a pending booking to confirmed. Occupancy was
// reserved at creation, so the room is untouched.
func (s *BookingService) ConfirmBooking(ctx context.Context, adminID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, rm, err := s.loadOwnedBooking(ctx, adminID, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Confirm(); err != nil {
		return nil, err
	}
	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.BookingConfirmed, events.NewBookingEvent(bk, rm.RoomNumber()))

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckInBooking transitions a confirmed booking to checked_in.
func (s *BookingService) CheckInBooking(ctx context.Context, adminID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, rm, err := s.loadOwnedBooking(ctx, adminID, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.CheckIn(); err != nil {
		return nil, err
	}
	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.BookingCheckedIn, events.NewBookingEvent(bk, rm.RoomNumber()))

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckOutBooking transitions a checked-in booking to checked_out and releases
// its guests from room occupancy.
func (s *BookingService) CheckOutBooking(ctx context.Context, adminID, bookingID uuid.UUID) (*BookingDTO, error) {
	var (
		checked    *bookingDomain.Booking
		roomNumber string
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		bk, _, err := s.loadOwnedBooking(ctx, adminID, bookingID)
		if err != nil {
			return err
		}
		rm, err := s.rooms.FindByIDForUpdate(ctx, bk.RoomID())
		if err != nil {
			return err
		}

		if err := bk.CheckOut(); err != nil {
			return err
		}
		bk.IncrementVersion()
		if err := s.bookings.Update(ctx, bk); err != nil {
			return err
		}

		rm.Release(bk.Guests())
		rm.IncrementVersion()
		if err := s.rooms.Update(ctx, rm); err != nil {
			return err
		}

		checked = bk
		roomNumber = rm.RoomNumber()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.BookingCheckedOut, events.NewBookingEvent(checked, roomNumber))

	result := toBookingDTO(checked)
	return &result, nil
}

// CancelBooking cancels an active booking and releases its occupancy. A
// checked-out booking cannot be cancelled; its beds were already released at
// checkout and must not be released twice.
func (s *BookingService) CancelBooking(ctx context.Context, adminID, bookingID uuid.UUID, note string) (*BookingDTO, error) {
	var (
		cancelled  *bookingDomain.Booking
		roomNumber string
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		bk, _, err := s.loadOwnedBooking(ctx, adminID, bookingID)
		if err != nil {
			return err
		}
		rm, err := s.rooms.FindByIDForUpdate(ctx, bk.RoomID())
		if err != nil {
			return err
		}

		// Cancel succeeds only from states that still hold beds, so the
		// release below runs exactly when occupancy was reserved.
		if err := bk.Cancel(note); err != nil {
			return err
		}
		bk.IncrementVersion()
		if err := s.bookings.Update(ctx, bk); err != nil {
			return err
		}

		rm.Release(bk.Guests())
		rm.IncrementVersion()
		if err := s.rooms.Update(ctx, rm); err != nil {
			return err
		}

		cancelled = bk
		roomNumber = rm.RoomNumber()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.BookingCancelled, events.NewBookingEvent(cancelled, roomNumber))

	result := toBookingDTO(cancelled)
	return &result, nil
}

// TransitionBooking dispatches a status-transition request to the matching use case.
func (s *BookingService) TransitionBooking(ctx context.Context, adminID, bookingID uuid.UUID, target bookingDomain.Status) (*BookingDTO, error) {
	switch target {
	case bookingDomain.StatusConfirmed:
		return s.ConfirmBooking(ctx, adminID, bookingID)
	case bookingDomain.StatusCheckedIn:
		return s.CheckInBooking(ctx, adminID, bookingID)
	case bookingDomain.StatusCheckedOut:
		return s.CheckOutBooking(ctx, adminID, bookingID)
	case bookingDomain.StatusCancelled:
		return s.CancelBooking(ctx, adminID, bookingID, "")
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("unknown target status: %s", target))
	}
}

// DeleteBooking removes a booking. An active booking releases its occupancy
// first; a settled or cancelled one already has.
func (s *BookingService) DeleteBooking(ctx context.Context, adminID, bookingID uuid.UUID) error {
	var (
		deleted    *bookingDomain.Booking
		roomNumber string
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		bk, _, err := s.loadOwnedBooking(ctx, adminID, bookingID)
		if err != nil {
			return err
		}
		rm, err := s.rooms.FindByIDForUpdate(ctx, bk.RoomID())
		if err != nil {
			return err
		}

		// Re-read under the room lock: a checkout or cancellation that
		// committed while we waited has already released the beds, and the
		// release decision must see that state.
		bk, err = s.bookings.FindByID(ctx, bk.ID())
		if err != nil {
			return err
		}

		if bk.IsActive() {
			rm.Release(bk.Guests())
			rm.IncrementVersion()
			if err := s.rooms.Update(ctx, rm); err != nil {
				return err
			}
		}

		if err := s.bookings.Delete(ctx, bk.ID()); err != nil {
			return err
		}

		deleted = bk
		roomNumber = rm.RoomNumber()
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.BookingDeleted, events.NewBookingEvent(deleted, roomNumber))
	return nil
}

// GetBooking retrieves a single booking owned by the admin.
func (s *BookingService) GetBooking(ctx context.Context, adminID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, _, err := s.loadOwnedBooking(ctx, adminID, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookingByReference retrieves a booking by its reference. Used by the
// public widget's confirmation lookup.
func (s *BookingService) GetBookingByReference(ctx context.Context, reference string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookings retrieves paginated bookings on the admin's rooms.
func (s *BookingService) ListBookings(ctx context.Context, adminID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.ListByAdmin(ctx, adminID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ListRoomBookings retrieves all bookings on one of the admin's rooms.
func (s *BookingService) ListRoomBookings(ctx context.Context, adminID, roomID uuid.UUID) ([]BookingDTO, error) {
	rm, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if rm.AdminID() != adminID {
		return nil, domain.NewNotFoundError("Room", roomID.String())
	}

	bookings, err := s.bookings.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

// --- Helpers ---

// loadOwnedBooking loads a booking and its room, enforcing tenancy. A booking
// on another admin's room reads as not found rather than leaking existence.
func (s *BookingService) loadOwnedBooking(ctx context.Context, adminID, bookingID uuid.UUID) (*bookingDomain.Booking, *roomDomain.Room, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	rm, err := s.rooms.FindByID(ctx, bk.RoomID())
	if err != nil {
		return nil, nil, err
	}
	if rm.AdminID() != adminID {
		return nil, nil, domain.NewNotFoundError("Booking", bookingID.String())
	}
	return bk, rm, nil
}

// redeemOffer resolves and redeems an offer code, returning the offer ID and
// the discount in cents. An empty code means no offer.
func (s *BookingService) redeemOffer(ctx context.Context, code string, guests, nights int, originalCents int64) (*uuid.UUID, int64, error) {
	if code == "" {
		return nil, 0, nil
	}

	o, err := s.offers.FindByCode(ctx, code)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, 0, domain.NewValidationError(fmt.Sprintf("offer code %s is not valid", code))
		}
		return nil, 0, err
	}
	if !o.IsValidAt(time.Now()) {
		return nil, 0, domain.NewValidationError(fmt.Sprintf("offer code %s is not valid", code))
	}
	if !o.EligibleFor(guests, nights) {
		return nil, 0, domain.NewValidationError(fmt.Sprintf(
			"booking does not meet the requirements of offer %s", code))
	}

	discount := o.Discount(originalCents, nights)

	if err := o.RecordUse(); err != nil {
		return nil, 0, err
	}
	o.IncrementVersion()
	if err := s.offers.Update(ctx, o); err != nil {
		return nil, 0, err
	}

	id := o.ID()
	return &id, discount, nil
}

// resolveGuest stores the guest details submitted with the booking request.
// Every booking carries its own guest snapshot.
func (s *BookingService) resolveGuest(ctx context.Context, details GuestDetails) (*guestDomain.Guest, error) {
	g, err := guestDomain.NewGuest(
		details.FirstName,
		details.LastName,
		details.Email,
		details.Phone,
		details.Nationality,
		details.DateOfBirth,
		details.IDType,
		details.IDNumber,
		details.Address,
		details.EmergencyContactName,
		details.EmergencyContactPhone,
	)
	if err != nil {
		return nil, err
	}
	if err := s.guests.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:                  bk.ID(),
		Reference:           bk.Reference(),
		GuestID:             bk.GuestID(),
		RoomID:              bk.RoomID(),
		OfferID:             bk.OfferID(),
		CheckInDate:         bk.Stay().CheckIn,
		CheckOutDate:        bk.Stay().CheckOut,
		Nights:              bk.Stay().Nights(),
		NumberOfGuests:      bk.Guests(),
		Status:              string(bk.Status()),
		TotalAmountCents:    bk.TotalAmountCents(),
		OriginalAmountCents: bk.OriginalAmountCents(),
		DiscountAmountCents: bk.DiscountAmountCents(),
		SpecialRequests:     bk.SpecialRequests(),
		CancelNote:          bk.CancelNote(),
		ConfirmedAt:         bk.ConfirmedAt(),
		CheckedInAt:         bk.CheckedInAt(),
		CheckedOutAt:        bk.CheckedOutAt(),
		CancelledAt:         bk.CancelledAt(),
		Version:             bk.Version(),
		CreatedAt:           bk.CreatedAt(),
		UpdatedAt:           bk.UpdatedAt(),
	}
}
