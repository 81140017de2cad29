package application

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostelhub/hostel-backend/internal/domain"
	bookingDomain "github.com/hostelhub/hostel-backend/internal/domain/booking"
	roomDomain "github.com/hostelhub/hostel-backend/internal/domain/room"
)

// SearchRoomsRequest holds the parameters of a public availability search.
type SearchRoomsRequest struct {
	CheckInDate    time.Time `form:"check_in_date" binding:"required" time_format:"2006-01-02"`
	CheckOutDate   time.Time `form:"check_out_date" binding:"required" time_format:"2006-01-02"`
	NumberOfGuests int       `form:"number_of_guests" binding:"required,min=1"`
	RoomType       string    `form:"room_type"`
	MinPriceCents  *int64    `form:"min_price_cents"`
	MaxPriceCents  *int64    `form:"max_price_cents"`
}

// AvailableRoomDTO is a search result row with computed stay pricing.
type AvailableRoomDTO struct {
	RoomDTO
	Nights          int   `json:"nights"`
	TotalPriceCents int64 `json:"total_price_cents"`
}

// CalendarDayDTO is one day of a room's availability calendar.
type CalendarDayDTO struct {
	Date     string `json:"date"`
	Occupied bool   `json:"occupied"`
}

// RoomCalendarDTO is a room's availability calendar over a window.
type RoomCalendarDTO struct {
	RoomID     uuid.UUID        `json:"room_id"`
	RoomNumber string           `json:"room_number"`
	From       string           `json:"from"`
	To         string           `json:"to"`
	Days       []CalendarDayDTO `json:"days"`
}

// OccupancySummaryDTO aggregates occupancy across an admin's rooms.
type OccupancySummaryDTO struct {
	TotalRooms      int                         `json:"total_rooms"`
	TotalCapacity   int                         `json:"total_capacity"`
	TotalOccupied   int                         `json:"total_occupied"`
	TotalAvailable  int                         `json:"total_available"`
	OccupancyRate   float64                     `json:"occupancy_rate"`
	ByStatus        map[string]int              `json:"by_status"`
	ByType          map[string]TypeOccupancyDTO `json:"by_type"`
	BookingsByState map[string]int64            `json:"bookings_by_status"`
}

// TypeOccupancyDTO aggregates occupancy for one room type.
type TypeOccupancyDTO struct {
	Rooms         int     `json:"rooms"`
	Capacity      int     `json:"capacity"`
	Occupied      int     `json:"occupied"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// RoomUtilizationDTO reports one room's night-level utilization over a window.
type RoomUtilizationDTO struct {
	RoomID          uuid.UUID `json:"room_id"`
	RoomNumber      string    `json:"room_number"`
	OccupiedNights  int       `json:"occupied_nights"`
	TotalNights     int       `json:"total_nights"`
	UtilizationRate float64   `json:"utilization_rate"`
}

// AttentionRoomDTO is a room flagged for upkeep.
type AttentionRoomDTO struct {
	RoomDTO
	Reasons          []string `json:"reasons"`
	DaysSinceCleaned *int     `json:"days_since_cleaned,omitempty"`
}

// UpcomingTransitionsDTO lists imminent check-ins and check-outs.
type UpcomingTransitionsDTO struct {
	From       string       `json:"from"`
	To         string       `json:"to"`
	Arrivals   []BookingDTO `json:"arrivals"`
	Departures []BookingDTO `json:"departures"`
}

// AvailabilityService answers availability questions and produces occupancy
// reports. It is read-only: no method mutates room or booking state.
type AvailabilityService struct {
	rooms    roomDomain.Repository
	bookings bookingDomain.Repository
	logger   *zap.Logger
	now      func() time.Time
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(
	rooms roomDomain.Repository,
	bookings bookingDomain.Repository,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		rooms:    rooms,
		bookings: bookings,
		logger:   logger,
		now:      time.Now,
	}
}

// IsRoomAvailable reports whether the room can take a booking for the stay and
// guest count. All conditions are conjunctive; any failure means unavailable.
func (s *AvailabilityService) IsRoomAvailable(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, guests int) (bool, error) {
	stay, err := bookingDomain.NewStay(checkIn, checkOut)
	if err != nil {
		return false, err
	}
	if guests < 1 {
		return false, domain.NewValidationError("number of guests must be at least 1")
	}

	rm, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return false, err
	}

	if !rm.Bookable() {
		return false, nil
	}
	if guests > rm.Capacity() || !rm.CanAccommodate(guests) {
		return false, nil
	}

	conflict, err := s.bookings.ExistsOverlapping(ctx, rm.ID(), stay)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

// GetAvailableRooms lists rooms bookable for the stay. Two-phase filter:
// cheap attribute filter in the database, then the per-room conflict check.
func (s *AvailabilityService) GetAvailableRooms(ctx context.Context, checkIn, checkOut time.Time, guests int, roomType string) ([]RoomDTO, error) {
	stay, err := bookingDomain.NewStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if guests < 1 {
		return nil, domain.NewValidationError("number of guests must be at least 1")
	}

	candidates, err := s.rooms.ListCandidates(ctx, roomDomain.CandidateFilter{
		MinCapacity: guests,
		RoomType:    roomType,
	})
	if err != nil {
		return nil, err
	}

	available, err := s.filterAvailable(ctx, candidates, stay, guests)
	if err != nil {
		return nil, err
	}
	return toRoomDTOs(available), nil
}

// SearchAvailableRooms is the public search: availability plus price-range
// filtering and computed stay pricing. Results are fully materialized.
func (s *AvailabilityService) SearchAvailableRooms(ctx context.Context, req SearchRoomsRequest) ([]AvailableRoomDTO, error) {
	stay, err := bookingDomain.NewStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	candidates, err := s.rooms.ListCandidates(ctx, roomDomain.CandidateFilter{
		MinCapacity:   req.NumberOfGuests,
		RoomType:      req.RoomType,
		MinPriceCents: req.MinPriceCents,
		MaxPriceCents: req.MaxPriceCents,
	})
	if err != nil {
		return nil, err
	}

	available, err := s.filterAvailable(ctx, candidates, stay, req.NumberOfGuests)
	if err != nil {
		return nil, err
	}

	nights := stay.Nights()
	results := make([]AvailableRoomDTO, len(available))
	for i, rm := range available {
		results[i] = AvailableRoomDTO{
			RoomDTO:         toRoomDTO(rm),
			Nights:          nights,
			TotalPriceCents: rm.PriceCents() * int64(nights),
		}
	}
	return results, nil
}

// GetRoomCalendar returns per-day occupancy for a room from today through
// months ahead. A day is occupied iff it falls inside some non-cancelled
// booking's stay; the checkout day itself is free.
func (s *AvailabilityService) GetRoomCalendar(ctx context.Context, adminID, roomID uuid.UUID, months int) (*RoomCalendarDTO, error) {
	if months < 1 {
		months = 1
	}

	rm, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if rm.AdminID() != adminID {
		return nil, domain.NewNotFoundError("Room", roomID.String())
	}

	from := bookingDomain.ToDate(s.now())
	to := from.AddDate(0, months, 0)

	overlapping, err := s.bookings.ListOverlapping(ctx, rm.ID(), from, to)
	if err != nil {
		return nil, err
	}

	var days []CalendarDayDTO
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		occupied := false
		for _, bk := range overlapping {
			if bk.Stay().Contains(day) {
				occupied = true
				break
			}
		}
		days = append(days, CalendarDayDTO{
			Date:     day.Format("2006-01-02"),
			Occupied: occupied,
		})
	}

	return &RoomCalendarDTO{
		RoomID:     rm.ID(),
		RoomNumber: rm.RoomNumber(),
		From:       from.Format("2006-01-02"),
		To:         to.Format("2006-01-02"),
		Days:       days,
	}, nil
}

// GetOccupancySummary aggregates occupancy across the admin's rooms, grouped
// by status and by room type.
func (s *AvailabilityService) GetOccupancySummary(ctx context.Context, adminID uuid.UUID) (*OccupancySummaryDTO, error) {
	rooms, err := s.rooms.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	summary := &OccupancySummaryDTO{
		ByStatus: make(map[string]int),
		ByType:   make(map[string]TypeOccupancyDTO),
	}
	for _, rm := range rooms {
		summary.TotalRooms++
		summary.TotalCapacity += rm.Capacity()
		summary.TotalOccupied += rm.Occupied()
		summary.TotalAvailable += rm.AvailableSpaces()
		summary.ByStatus[string(rm.Status())]++

		t := summary.ByType[rm.RoomType()]
		t.Rooms++
		t.Capacity += rm.Capacity()
		t.Occupied += rm.Occupied()
		t.OccupancyRate = occupancyRate(t.Occupied, t.Capacity)
		summary.ByType[rm.RoomType()] = t
	}
	summary.OccupancyRate = occupancyRate(summary.TotalOccupied, summary.TotalCapacity)

	counts, err := s.bookings.CountByStatus(ctx, adminID)
	if err != nil {
		return nil, err
	}
	summary.BookingsByState = counts

	return summary, nil
}

// GetUtilizationReport computes per-room night-level utilization over
// [start, end). Each day is independently checked against the room's
// non-cancelled overlapping bookings.
func (s *AvailabilityService) GetUtilizationReport(ctx context.Context, adminID uuid.UUID, start, end time.Time) ([]RoomUtilizationDTO, error) {
	from := bookingDomain.ToDate(start)
	to := bookingDomain.ToDate(end)
	if !to.After(from) {
		return nil, domain.NewValidationError("end date must be after start date")
	}

	rooms, err := s.rooms.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	totalNights := int(to.Sub(from).Hours() / 24)
	report := make([]RoomUtilizationDTO, 0, len(rooms))
	for _, rm := range rooms {
		overlapping, err := s.bookings.ListOverlapping(ctx, rm.ID(), from, to)
		if err != nil {
			return nil, err
		}

		occupiedNights := 0
		for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
			for _, bk := range overlapping {
				if bk.Stay().Contains(day) {
					occupiedNights++
					break
				}
			}
		}

		report = append(report, RoomUtilizationDTO{
			RoomID:          rm.ID(),
			RoomNumber:      rm.RoomNumber(),
			OccupiedNights:  occupiedNights,
			TotalNights:     totalNights,
			UtilizationRate: occupancyRate(occupiedNights, totalNights),
		})
	}
	return report, nil
}

// GetRoomsNeedingAttention lists rooms in maintenance, never cleaned, or not
// cleaned within the cleaning interval.
func (s *AvailabilityService) GetRoomsNeedingAttention(ctx context.Context, adminID uuid.UUID) ([]AttentionRoomDTO, error) {
	rooms, err := s.rooms.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var flagged []AttentionRoomDTO
	for _, rm := range rooms {
		var reasons []string
		if rm.Status() == roomDomain.StatusMaintenance {
			reasons = append(reasons, "maintenance")
		}
		if rm.NeedsCleaning(now) {
			if rm.LastCleaned() == nil {
				reasons = append(reasons, "never_cleaned")
			} else {
				reasons = append(reasons, "cleaning_overdue")
			}
		}
		if len(reasons) == 0 {
			continue
		}
		flagged = append(flagged, AttentionRoomDTO{
			RoomDTO:          toRoomDTO(rm),
			Reasons:          reasons,
			DaysSinceCleaned: rm.DaysSinceCleaned(now),
		})
	}
	return flagged, nil
}

// GetUpcomingTransitions lists check-ins and check-outs due within the next
// days: arrivals still pending/confirmed, departures confirmed/checked_in.
func (s *AvailabilityService) GetUpcomingTransitions(ctx context.Context, adminID uuid.UUID, days int) (*UpcomingTransitionsDTO, error) {
	if days < 1 {
		days = 7
	}

	from := bookingDomain.ToDate(s.now())
	to := from.AddDate(0, 0, days)

	arrivals, err := s.bookings.ListArrivals(ctx, adminID, from, to)
	if err != nil {
		return nil, err
	}
	departures, err := s.bookings.ListDepartures(ctx, adminID, from, to)
	if err != nil {
		return nil, err
	}

	arrivalDTOs := make([]BookingDTO, len(arrivals))
	for i, bk := range arrivals {
		arrivalDTOs[i] = toBookingDTO(bk)
	}
	departureDTOs := make([]BookingDTO, len(departures))
	for i, bk := range departures {
		departureDTOs[i] = toBookingDTO(bk)
	}

	return &UpcomingTransitionsDTO{
		From:       from.Format("2006-01-02"),
		To:         to.Format("2006-01-02"),
		Arrivals:   arrivalDTOs,
		Departures: departureDTOs,
	}, nil
}

// --- Helpers ---

// filterAvailable applies the conflict check to attribute-filtered candidates.
func (s *AvailabilityService) filterAvailable(ctx context.Context, candidates []*roomDomain.Room, stay bookingDomain.Stay, guests int) ([]*roomDomain.Room, error) {
	available := make([]*roomDomain.Room, 0, len(candidates))
	for _, rm := range candidates {
		if !rm.Bookable() || !rm.CanAccommodate(guests) {
			continue
		}
		conflict, err := s.bookings.ExistsOverlapping(ctx, rm.ID(), stay)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}
		available = append(available, rm)
	}
	return available, nil
}

// occupancyRate returns occupied/capacity as a percentage rounded to two
// decimals, 0 when capacity is zero.
func occupancyRate(occupied, capacity int) float64 {
	if capacity == 0 {
		return 0
	}
	return math.Round(float64(occupied)/float64(capacity)*10000) / 100
}
