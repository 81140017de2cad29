package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostelhub/hostel-backend/internal/domain/booking"
	"github.com/hostelhub/hostel-backend/internal/platform/kafka"
)

// TopicBookingEvents carries every booking lifecycle event.
const TopicBookingEvents = "booking.events"

// Booking lifecycle event types.
const (
	BookingCreated    = "booking.created"
	BookingConfirmed  = "booking.confirmed"
	BookingCheckedIn  = "booking.checked_in"
	BookingCheckedOut = "booking.checked_out"
	BookingCancelled  = "booking.cancelled"
	BookingDeleted    = "booking.deleted"
)

// BookingEvent is the payload published on every lifecycle transition. The
// admin dashboard's notification feed consumes these.
type BookingEvent struct {
	BookingID    uuid.UUID `json:"booking_id"`
	Reference    string    `json:"reference"`
	RoomID       uuid.UUID `json:"room_id"`
	RoomNumber   string    `json:"room_number"`
	GuestID      uuid.UUID `json:"guest_id"`
	GuestCount   int       `json:"guest_count"`
	Status       string    `json:"status"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewBookingEvent builds the payload from a booking aggregate.
func NewBookingEvent(bk *booking.Booking, roomNumber string) BookingEvent {
	return BookingEvent{
		BookingID:    bk.ID(),
		Reference:    bk.Reference(),
		RoomID:       bk.RoomID(),
		RoomNumber:   roomNumber,
		GuestID:      bk.GuestID(),
		GuestCount:   bk.Guests(),
		Status:       string(bk.Status()),
		CheckInDate:  bk.Stay().CheckIn,
		CheckOutDate: bk.Stay().CheckOut,
		OccurredAt:   time.Now().UTC(),
	}
}

// Publisher publishes booking events fire-and-forget: a notification that
// fails to send must never fail the booking operation it describes.
type Publisher struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewPublisher creates a Publisher.
func NewPublisher(producer *kafka.Producer, logger *zap.Logger) *Publisher {
	return &Publisher{producer: producer, logger: logger}
}

// Publish sends a booking event, logging failures instead of returning them.
func (p *Publisher) Publish(ctx context.Context, eventType string, evt BookingEvent) {
	cloudEvent, err := kafka.NewCloudEvent("hostel-backend", eventType, evt)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := p.producer.PublishEvent(ctx, TopicBookingEvents, evt.BookingID.String(), cloudEvent); err != nil {
		p.logger.Error("failed to publish booking event",
			zap.String("event_type", eventType),
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
	}
}
