package booking

import (
	"time"

	"github.com/hostelhub/hostel-backend/internal/domain"
)

// Stay is a half-open date range [CheckIn, CheckOut): the checkout day itself
// is free and can be another booking's check-in day. Both dates are normalized
// to UTC midnight.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStay validates and normalizes a date range.
func NewStay(checkIn, checkOut time.Time) (Stay, error) {
	in := ToDate(checkIn)
	out := ToDate(checkOut)
	if !out.After(in) {
		return Stay{}, domain.NewValidationError("check-out date must be after check-in date")
	}
	return Stay{CheckIn: in, CheckOut: out}, nil
}

// Nights returns the number of nights in the stay.
func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

// Overlaps reports whether two half-open ranges intersect:
// [a,b) and [c,d) overlap iff a < d && c < b.
func (s Stay) Overlaps(other Stay) bool {
	return s.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(s.CheckOut)
}

// Contains reports whether day falls inside [CheckIn, CheckOut). The night
// before checkout is the last occupied night.
func (s Stay) Contains(day time.Time) bool {
	d := ToDate(day)
	return !d.Before(s.CheckIn) && d.Before(s.CheckOut)
}

// ToDate truncates a timestamp to UTC midnight.
func ToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
