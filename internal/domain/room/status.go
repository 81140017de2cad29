package room

import "fmt"

// Status represents the occupancy state of a room.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusFull        Status = "full"
	StatusMaintenance Status = "maintenance"
)

var knownStatuses = map[Status]bool{
	StatusAvailable:   true,
	StatusOccupied:    true,
	StatusFull:        true,
	StatusMaintenance: true,
}

// IsValid returns true if the status is a recognized room status.
func (s Status) IsValid() bool {
	return knownStatuses[s]
}

// Bookable returns true if new bookings may target a room in this status.
func (s Status) Bookable() bool {
	return s == StatusAvailable || s == StatusOccupied
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid room status: %s", s)
	}
	return status, nil
}

// DeriveStatus maps occupancy onto a room status. Maintenance is an explicit
// override: occupancy changes never clear it. Clearing maintenance re-derives
// from occupancy via this same function with current set to a non-maintenance
// status.
func DeriveStatus(occupied, capacity int, current Status) Status {
	if current == StatusMaintenance {
		return StatusMaintenance
	}
	switch {
	case occupied >= capacity:
		return StatusFull
	case occupied > 0:
		return StatusOccupied
	default:
		return StatusAvailable
	}
}
