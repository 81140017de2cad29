package booking

import "fmt"

// Status represents the current state of a booking in its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

// validTransitions defines the state machine for booking status transitions.
// checked_out and cancelled are terminal: in particular a checked-out booking
// cannot be cancelled, which is what keeps occupancy from being released twice.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut, StatusCancelled},
	StatusCheckedOut: {},
	StatusCancelled:  {},
}

// ActiveStatuses are the statuses that count toward room occupancy.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusCheckedIn}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// CountsTowardOccupancy returns true if a booking in this status holds beds.
func (s Status) CountsTowardOccupancy() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCheckedIn
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
