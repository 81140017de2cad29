package room

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hostelhub/hostel-backend/internal/domain"
)

// cleaningInterval is how long a room may go before it counts as needing cleaning.
const cleaningInterval = 7 * 24 * time.Hour

// Room is the aggregate root for the room domain. The occupied counter and
// status are only ever changed together: every mutation re-derives the status
// before returning, so the pair can never drift apart.
type Room struct {
	id          uuid.UUID
	adminID     uuid.UUID
	roomNumber  string
	name        string
	roomType    string
	capacity    int
	occupied    int
	floor       int
	priceCents  int64
	status      Status
	description string
	amenities   []string
	lastCleaned *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewRoom creates a new Room aggregate with zero occupancy.
func NewRoom(
	adminID uuid.UUID,
	roomNumber string,
	name string,
	roomType string,
	capacity int,
	floor int,
	priceCents int64,
	description string,
	amenities []string,
) (*Room, error) {
	if adminID == uuid.Nil {
		return nil, domain.NewValidationError("admin ID is required")
	}
	if roomNumber == "" {
		return nil, domain.NewValidationError("room number is required")
	}
	if capacity <= 0 {
		return nil, domain.NewValidationError("capacity must be positive")
	}
	if priceCents < 0 {
		return nil, domain.NewValidationError("price must not be negative")
	}

	now := time.Now().UTC()
	return &Room{
		id:          uuid.New(),
		adminID:     adminID,
		roomNumber:  roomNumber,
		name:        name,
		roomType:    roomType,
		capacity:    capacity,
		occupied:    0,
		floor:       floor,
		priceCents:  priceCents,
		status:      StatusAvailable,
		description: description,
		amenities:   amenities,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructRoom rebuilds a Room from persistence data (no validation).
func ReconstructRoom(
	id uuid.UUID,
	adminID uuid.UUID,
	roomNumber string,
	name string,
	roomType string,
	capacity int,
	occupied int,
	floor int,
	priceCents int64,
	status Status,
	description string,
	amenities []string,
	lastCleaned *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Room {
	return &Room{
		id:          id,
		adminID:     adminID,
		roomNumber:  roomNumber,
		name:        name,
		roomType:    roomType,
		capacity:    capacity,
		occupied:    occupied,
		floor:       floor,
		priceCents:  priceCents,
		status:      status,
		description: description,
		amenities:   amenities,
		lastCleaned: lastCleaned,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

// ID returns the room's unique identifier.
func (r *Room) ID() uuid.UUID { return r.id }

// AdminID returns the owning admin's ID (tenancy boundary).
func (r *Room) AdminID() uuid.UUID { return r.adminID }

// RoomNumber returns the unique room number.
func (r *Room) RoomNumber() string { return r.roomNumber }

// Name returns the display name of the room.
func (r *Room) Name() string { return r.name }

// RoomType returns the room type (dorm, private, ...).
func (r *Room) RoomType() string { return r.roomType }

// Capacity returns the number of beds in the room.
func (r *Room) Capacity() int { return r.capacity }

// Occupied returns the number of guests currently counted against capacity.
func (r *Room) Occupied() int { return r.occupied }

// Floor returns the floor number.
func (r *Room) Floor() int { return r.floor }

// PriceCents returns the nightly price in cents.
func (r *Room) PriceCents() int64 { return r.priceCents }

// Status returns the current room status.
func (r *Room) Status() Status { return r.status }

// Description returns the room description.
func (r *Room) Description() string { return r.description }

// Amenities returns the amenity list.
func (r *Room) Amenities() []string { return r.amenities }

// LastCleaned returns the last cleaning time, or nil if never cleaned.
func (r *Room) LastCleaned() *time.Time { return r.lastCleaned }

// Version returns the entity version for optimistic locking.
func (r *Room) Version() int64 { return r.version }

// CreatedAt returns the creation timestamp.
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Room) UpdatedAt() time.Time { return r.updatedAt }

// --- Derived state ---

// AvailableSpaces returns the number of free beds.
func (r *Room) AvailableSpaces() int {
	if r.capacity <= r.occupied {
		return 0
	}
	return r.capacity - r.occupied
}

// CanAccommodate returns true if the room has beds for n additional guests.
func (r *Room) CanAccommodate(n int) bool {
	return r.occupied+n <= r.capacity
}

// Bookable returns true if the room can take new bookings right now:
// not in maintenance, not full.
func (r *Room) Bookable() bool {
	return r.status.Bookable() && r.occupied < r.capacity
}

// OccupancyPercentage returns occupancy as a whole percentage of capacity.
func (r *Room) OccupancyPercentage() int {
	if r.capacity == 0 {
		return 0
	}
	return int(float64(r.occupied)/float64(r.capacity)*100 + 0.5)
}

// NeedsCleaning returns true if the room was never cleaned or the cleaning
// interval has elapsed.
func (r *Room) NeedsCleaning(now time.Time) bool {
	if r.lastCleaned == nil {
		return true
	}
	return now.Sub(*r.lastCleaned) >= cleaningInterval
}

// DaysSinceCleaned returns whole days since the last cleaning, or nil if never cleaned.
func (r *Room) DaysSinceCleaned(now time.Time) *int {
	if r.lastCleaned == nil {
		return nil
	}
	days := int(now.Sub(*r.lastCleaned).Hours() / 24)
	return &days
}

// --- Behavior ---

// Reserve counts n additional guests against the room and re-derives status.
func (r *Room) Reserve(n int) error {
	if n <= 0 {
		return domain.NewValidationError("guest count must be positive")
	}
	if !r.CanAccommodate(n) {
		return domain.NewCapacityExceededError(fmt.Sprintf(
			"room %s has %d free beds, cannot take %d guests", r.roomNumber, r.AvailableSpaces(), n))
	}
	r.occupied += n
	r.rederive()
	return nil
}

// Release removes n guests from the occupancy count and re-derives status.
// The counter never goes below zero.
func (r *Room) Release(n int) {
	r.occupied -= n
	if r.occupied < 0 {
		r.occupied = 0
	}
	r.rederive()
}

// SetOccupied overwrites the occupancy counter from an authoritative recount
// of active bookings and re-derives status.
func (r *Room) SetOccupied(n int) error {
	if n < 0 {
		return domain.NewValidationError("occupancy must not be negative")
	}
	r.occupied = n
	r.rederive()
	return nil
}

// MarkCleaned records a cleaning. Status is re-derived from occupancy unless
// the room is in maintenance.
func (r *Room) MarkCleaned(now time.Time) {
	cleaned := now.UTC()
	r.lastCleaned = &cleaned
	r.rederive()
}

// EnterMaintenance takes the room out of service. Occupancy is untouched.
func (r *Room) EnterMaintenance() {
	r.status = StatusMaintenance
	r.touch()
}

// ClearMaintenance returns the room to service and re-derives status from occupancy.
func (r *Room) ClearMaintenance() {
	r.status = DeriveStatus(r.occupied, r.capacity, StatusAvailable)
	r.touch()
}

// UpdateDetails changes the descriptive attributes of the room. Capacity may
// not shrink below current occupancy; a capacity change re-derives status.
func (r *Room) UpdateDetails(name, roomType string, capacity, floor int, priceCents int64, description string, amenities []string) error {
	if capacity <= 0 {
		return domain.NewValidationError("capacity must be positive")
	}
	if capacity < r.occupied {
		return domain.NewValidationError(fmt.Sprintf(
			"capacity %d is below current occupancy %d", capacity, r.occupied))
	}
	if priceCents < 0 {
		return domain.NewValidationError("price must not be negative")
	}
	r.name = name
	r.roomType = roomType
	r.capacity = capacity
	r.floor = floor
	r.priceCents = priceCents
	r.description = description
	r.amenities = amenities
	r.rederive()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (r *Room) IncrementVersion() {
	r.version++
	r.touch()
}

func (r *Room) rederive() {
	r.status = DeriveStatus(r.occupied, r.capacity, r.status)
	r.touch()
}

func (r *Room) touch() {
	r.updatedAt = time.Now().UTC()
}
