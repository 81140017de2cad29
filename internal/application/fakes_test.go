package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hostelhub/hostel-backend/internal/domain"
	bookingDomain "github.com/hostelhub/hostel-backend/internal/domain/booking"
	guestDomain "github.com/hostelhub/hostel-backend/internal/domain/guest"
	offerDomain "github.com/hostelhub/hostel-backend/internal/domain/offer"
	roomDomain "github.com/hostelhub/hostel-backend/internal/domain/room"
	"github.com/hostelhub/hostel-backend/internal/events"
)

// fakeTx runs the transactional function directly. Unit tests exercise the
// orchestration logic; real transaction and locking behavior is covered by
// the integration suite.
type fakeTx struct{}

func (fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Type  string
	Event events.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, evt events.BookingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Event: evt})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// fakeRoomRepo is an in-memory room.Repository.
type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*roomDomain.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[uuid.UUID]*roomDomain.Room)}
}

func (r *fakeRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[id]
	if !ok {
		return nil, domain.NewNotFoundError("Room", id.String())
	}
	return rm, nil
}

func (r *fakeRoomRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeRoomRepo) FindByNumber(_ context.Context, roomNumber string) (*roomDomain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rm := range r.rooms {
		if rm.RoomNumber() == roomNumber {
			return rm, nil
		}
	}
	return nil, domain.NewNotFoundError("Room", roomNumber)
}

func (r *fakeRoomRepo) ListByAdmin(_ context.Context, adminID uuid.UUID) ([]*roomDomain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*roomDomain.Room
	for _, rm := range r.rooms {
		if rm.AdminID() == adminID {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (r *fakeRoomRepo) ListCandidates(_ context.Context, filter roomDomain.CandidateFilter) ([]*roomDomain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*roomDomain.Room
	for _, rm := range r.rooms {
		if rm.Status() == roomDomain.StatusMaintenance {
			continue
		}
		if rm.Capacity() < filter.MinCapacity {
			continue
		}
		if filter.RoomType != "" && filter.RoomType != "all" && rm.RoomType() != filter.RoomType {
			continue
		}
		if filter.MinPriceCents != nil && rm.PriceCents() < *filter.MinPriceCents {
			continue
		}
		if filter.MaxPriceCents != nil && rm.PriceCents() > *filter.MaxPriceCents {
			continue
		}
		out = append(out, rm)
	}
	return out, nil
}

func (r *fakeRoomRepo) Save(_ context.Context, rm *roomDomain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[rm.ID()] = rm
	return nil
}

func (r *fakeRoomRepo) Update(_ context.Context, rm *roomDomain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[rm.ID()]; !ok {
		return domain.NewNotFoundError("Room", rm.ID().String())
	}
	r.rooms[rm.ID()] = rm
	return nil
}

func (r *fakeRoomRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return domain.NewNotFoundError("Room", id.String())
	}
	delete(r.rooms, id)
	return nil
}

// fakeBookingRepo is an in-memory booking.Repository.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	rooms    *fakeRoomRepo
}

func newFakeBookingRepo(rooms *fakeRoomRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*bookingDomain.Booking),
		rooms:    rooms,
	}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByReference(_ context.Context, reference string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.Reference() == reference {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", reference)
}

func (r *fakeBookingRepo) ListByRoom(_ context.Context, roomID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.RoomID() == roomID {
			out = append(out, bk)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByAdmin(ctx context.Context, adminID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		rm, ok := r.rooms.rooms[bk.RoomID()]
		if ok && rm.AdminID() == adminID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ExistsOverlapping(_ context.Context, roomID uuid.UUID, stay bookingDomain.Stay) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.RoomID() != roomID || bk.Status() == bookingDomain.StatusCancelled {
			continue
		}
		if bk.Stay().Overlaps(stay) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) ListOverlapping(_ context.Context, roomID uuid.UUID, from, to time.Time) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	window := bookingDomain.Stay{CheckIn: bookingDomain.ToDate(from), CheckOut: bookingDomain.ToDate(to)}
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.RoomID() != roomID || bk.Status() == bookingDomain.StatusCancelled {
			continue
		}
		if bk.Stay().Overlaps(window) {
			out = append(out, bk)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) SumActiveGuests(_ context.Context, roomID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, bk := range r.bookings {
		if bk.RoomID() == roomID && bk.IsActive() {
			sum += bk.Guests()
		}
	}
	return sum, nil
}

func (r *fakeBookingRepo) CountActiveByRoom(_ context.Context, roomID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, bk := range r.bookings {
		if bk.RoomID() == roomID && bk.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) ListArrivals(_ context.Context, adminID uuid.UUID, from, to time.Time) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		rm, ok := r.rooms.rooms[bk.RoomID()]
		if !ok || rm.AdminID() != adminID {
			continue
		}
		if bk.Status() != bookingDomain.StatusPending && bk.Status() != bookingDomain.StatusConfirmed {
			continue
		}
		in := bk.Stay().CheckIn
		if !in.Before(from) && !in.After(to) {
			out = append(out, bk)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListDepartures(_ context.Context, adminID uuid.UUID, from, to time.Time) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		rm, ok := r.rooms.rooms[bk.RoomID()]
		if !ok || rm.AdminID() != adminID {
			continue
		}
		if bk.Status() != bookingDomain.StatusConfirmed && bk.Status() != bookingDomain.StatusCheckedIn {
			continue
		}
		out1 := bk.Stay().CheckOut
		if !out1.Before(from) && !out1.After(to) {
			out = append(out, bk)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context, adminID uuid.UUID) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		rm, ok := r.rooms.rooms[bk.RoomID()]
		if ok && rm.AdminID() == adminID {
			counts[string(bk.Status())]++
		}
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return domain.NewNotFoundError("Booking", id.String())
	}
	delete(r.bookings, id)
	return nil
}

// fakeGuestRepo is an in-memory guest.Repository.
type fakeGuestRepo struct {
	mu     sync.Mutex
	guests map[uuid.UUID]*guestDomain.Guest
}

func newFakeGuestRepo() *fakeGuestRepo {
	return &fakeGuestRepo{guests: make(map[uuid.UUID]*guestDomain.Guest)}
}

func (r *fakeGuestRepo) FindByID(_ context.Context, id uuid.UUID) (*guestDomain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guests[id]
	if !ok {
		return nil, domain.NewNotFoundError("Guest", id.String())
	}
	return g, nil
}

func (r *fakeGuestRepo) FindByEmail(_ context.Context, email string) (*guestDomain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.guests {
		if g.Email() == email {
			return g, nil
		}
	}
	return nil, domain.NewNotFoundError("Guest", email)
}

func (r *fakeGuestRepo) Save(_ context.Context, g *guestDomain.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guests[g.ID()] = g
	return nil
}

// fakeOfferRepo is an in-memory offer.Repository.
type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[uuid.UUID]*offerDomain.Offer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[uuid.UUID]*offerDomain.Offer)}
}

func (r *fakeOfferRepo) FindByID(_ context.Context, id uuid.UUID) (*offerDomain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, domain.NewNotFoundError("Offer", id.String())
	}
	return o, nil
}

func (r *fakeOfferRepo) FindByCode(_ context.Context, code string) (*offerDomain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.offers {
		if o.Code() == code {
			return o, nil
		}
	}
	return nil, domain.NewNotFoundError("Offer", code)
}

func (r *fakeOfferRepo) ListByAdmin(_ context.Context, adminID uuid.UUID) ([]*offerDomain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*offerDomain.Offer
	for _, o := range r.offers {
		if o.AdminID() == adminID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) ListPublicActive(_ context.Context) ([]*offerDomain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*offerDomain.Offer
	for _, o := range r.offers {
		if o.Active() && o.Public() {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) Save(_ context.Context, o *offerDomain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers[o.ID()] = o
	return nil
}

func (r *fakeOfferRepo) Update(_ context.Context, o *offerDomain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[o.ID()]; !ok {
		return domain.NewNotFoundError("Offer", o.ID().String())
	}
	r.offers[o.ID()] = o
	return nil
}

func (r *fakeOfferRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[id]; !ok {
		return domain.NewNotFoundError("Offer", id.String())
	}
	delete(r.offers, id)
	return nil
}
