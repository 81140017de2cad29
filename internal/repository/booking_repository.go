package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hostelhub/hostel-backend/internal/domain"
	bookingDomain "github.com/hostelhub/hostel-backend/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Reference           string     `gorm:"uniqueIndex;not null;size:10"`
	GuestID             uuid.UUID  `gorm:"type:uuid;index;not null"`
	RoomID              uuid.UUID  `gorm:"type:uuid;index;not null"`
	OfferID             *uuid.UUID `gorm:"type:uuid;index"`
	CheckInDate         time.Time  `gorm:"not null;index"`
	CheckOutDate        time.Time  `gorm:"not null;index"`
	NumberOfGuests      int        `gorm:"not null"`
	Status              string     `gorm:"not null;size:20;index"`
	TotalAmountCents    int64      `gorm:"not null"`
	OriginalAmountCents int64      `gorm:"not null"`
	DiscountAmountCents int64      `gorm:"not null;default:0"`
	SpecialRequests     string     `gorm:"size:1000"`
	CancelNote          string     `gorm:"size:500"`
	ConfirmedAt         *time.Time `gorm:""`
	CheckedInAt         *time.Time `gorm:""`
	CheckedOutAt        *time.Time `gorm:""`
	CancelledAt         *time.Time `gorm:""`
	Version             int64      `gorm:"not null;default:1"`
	CreatedAt           time.Time  `gorm:"not null"`
	UpdatedAt           time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByReference retrieves a booking by its human-readable reference.
func (r *GormBookingRepository) FindByReference(ctx context.Context, reference string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := dbFrom(ctx, r.db).Where("reference = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", reference)
		}
		return nil, fmt.Errorf("failed to find booking by reference: %w", err)
	}
	return toDomainBooking(&model)
}

// ListByRoom retrieves all bookings on a room, newest first.
func (r *GormBookingRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := dbFrom(ctx, r.db).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings by room: %w", err)
	}
	return toDomainBookings(models)
}

// ListByAdmin retrieves bookings on rooms owned by an admin, with pagination.
func (r *GormBookingRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	base := dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Joins("JOIN rooms ON rooms.id = bookings.room_id").
		Where("rooms.admin_id = ?", adminID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := base.
		Order("bookings.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ExistsOverlapping reports whether any non-cancelled booking on the room
// overlaps the stay. Half-open semantics: an existing checkout day is free.
func (r *GormBookingRepository) ExistsOverlapping(ctx context.Context, roomID uuid.UUID, stay bookingDomain.Stay) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Where("room_id = ?", roomID).
		Where("status <> ?", string(bookingDomain.StatusCancelled)).
		Where("check_in_date < ? AND check_out_date > ?", stay.CheckOut, stay.CheckIn).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping bookings: %w", err)
	}
	return count > 0, nil
}

// ListOverlapping retrieves non-cancelled bookings on the room overlapping [from, to).
func (r *GormBookingRepository) ListOverlapping(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	err := dbFrom(ctx, r.db).
		Where("room_id = ?", roomID).
		Where("status <> ?", string(bookingDomain.StatusCancelled)).
		Where("check_in_date < ? AND check_out_date > ?", to, from).
		Order("check_in_date").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping bookings: %w", err)
	}
	return toDomainBookings(models)
}

// SumActiveGuests returns the authoritative occupancy of a room.
func (r *GormBookingRepository) SumActiveGuests(ctx context.Context, roomID uuid.UUID) (int, error) {
	var sum *int64
	err := dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Select("SUM(number_of_guests)").
		Where("room_id = ?", roomID).
		Where("status IN ?", activeStatusStrings()).
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum active guests: %w", err)
	}
	if sum == nil {
		return 0, nil
	}
	return int(*sum), nil
}

// CountActiveByRoom returns the number of active bookings on a room.
func (r *GormBookingRepository) CountActiveByRoom(ctx context.Context, roomID uuid.UUID) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", activeStatusStrings()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}

// ListArrivals retrieves bookings checking in within [from, to] that are still
// pending or confirmed, scoped to an admin's rooms.
func (r *GormBookingRepository) ListArrivals(ctx context.Context, adminID uuid.UUID, from, to time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	err := dbFrom(ctx, r.db).
		Joins("JOIN rooms ON rooms.id = bookings.room_id").
		Where("rooms.admin_id = ?", adminID).
		Where("bookings.check_in_date BETWEEN ? AND ?", from, to).
		Where("bookings.status IN ?", []string{
			string(bookingDomain.StatusPending),
			string(bookingDomain.StatusConfirmed),
		}).
		Order("bookings.check_in_date").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list arrivals: %w", err)
	}
	return toDomainBookings(models)
}

// ListDepartures retrieves bookings checking out within [from, to] that are
// confirmed or checked in, scoped to an admin's rooms.
func (r *GormBookingRepository) ListDepartures(ctx context.Context, adminID uuid.UUID, from, to time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	err := dbFrom(ctx, r.db).
		Joins("JOIN rooms ON rooms.id = bookings.room_id").
		Where("rooms.admin_id = ?", adminID).
		Where("bookings.check_out_date BETWEEN ? AND ?", from, to).
		Where("bookings.status IN ?", []string{
			string(bookingDomain.StatusConfirmed),
			string(bookingDomain.StatusCheckedIn),
		}).
		Order("bookings.check_out_date").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list departures: %w", err)
	}
	return toDomainBookings(models)
}

// CountByStatus returns booking counts grouped by status for an admin's rooms.
func (r *GormBookingRepository) CountByStatus(ctx context.Context, adminID uuid.UUID) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Select("bookings.status AS status, COUNT(*) AS count").
		Joins("JOIN rooms ON rooms.id = bookings.room_id").
		Where("rooms.admin_id = ?", adminID).
		Group("bookings.status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	expectedVersion := bk.Version() - 1
	result := dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":        model.Status,
			"cancel_note":   model.CancelNote,
			"confirmed_at":  model.ConfirmedAt,
			"checked_in_at": model.CheckedInAt,
			"checked_out_at": model.CheckedOutAt,
			"cancelled_at":  model.CancelledAt,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// Delete removes a booking.
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFrom(ctx, r.db).Delete(&BookingModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", id.String())
	}
	return nil
}

func activeStatusStrings() []string {
	out := make([]string, len(bookingDomain.ActiveStatuses))
	for i, s := range bookingDomain.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:                  bk.ID(),
		Reference:           bk.Reference(),
		GuestID:             bk.GuestID(),
		RoomID:              bk.RoomID(),
		OfferID:             bk.OfferID(),
		CheckInDate:         bk.Stay().CheckIn,
		CheckOutDate:        bk.Stay().CheckOut,
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

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	stay := bookingDomain.Stay{
		CheckIn:  bookingDomain.ToDate(m.CheckInDate),
		CheckOut: bookingDomain.ToDate(m.CheckOutDate),
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.Reference,
		m.GuestID,
		m.RoomID,
		m.OfferID,
		stay,
		m.NumberOfGuests,
		status,
		m.TotalAmountCents,
		m.OriginalAmountCents,
		m.DiscountAmountCents,
		m.SpecialRequests,
		m.CancelNote,
		m.ConfirmedAt,
		m.CheckedInAt,
		m.CheckedOutAt,
		m.CancelledAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
