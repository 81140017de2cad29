package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostelhub/hostel-backend/internal/domain"
	bookingDomain "github.com/hostelhub/hostel-backend/internal/domain/booking"
	roomDomain "github.com/hostelhub/hostel-backend/internal/domain/room"
)

// CreateRoomRequest holds the data needed to create a room.
type CreateRoomRequest struct {
	RoomNumber  string   `json:"room_number" binding:"required"`
	Name        string   `json:"name"`
	RoomType    string   `json:"room_type" binding:"required"`
	Capacity    int      `json:"capacity" binding:"required,min=1"`
	Floor       int      `json:"floor"`
	PriceCents  int64    `json:"price_cents" binding:"required,min=0"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
}

// UpdateRoomRequest holds the mutable attributes of a room.
type UpdateRoomRequest struct {
	Name        string   `json:"name"`
	RoomType    string   `json:"room_type" binding:"required"`
	Capacity    int      `json:"capacity" binding:"required,min=1"`
	Floor       int      `json:"floor"`
	PriceCents  int64    `json:"price_cents" binding:"required,min=0"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
}

// RoomDTO is the response representation of a room.
type RoomDTO struct {
	ID                  uuid.UUID  `json:"id"`
	RoomNumber          string     `json:"room_number"`
	Name                string     `json:"name"`
	RoomType            string     `json:"room_type"`
	Capacity            int        `json:"capacity"`
	Occupied            int        `json:"occupied"`
	AvailableSpaces     int        `json:"available_spaces"`
	Floor               int        `json:"floor"`
	PriceCents          int64      `json:"price_cents"`
	Status              string     `json:"status"`
	Description         string     `json:"description,omitempty"`
	Amenities           []string   `json:"amenities,omitempty"`
	OccupancyPercentage int        `json:"occupancy_percentage"`
	LastCleaned         *time.Time `json:"last_cleaned,omitempty"`
	Version             int64      `json:"version"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// SyncResultDTO reports the outcome of an occupancy resync on one room.
type SyncResultDTO struct {
	RoomID         uuid.UUID `json:"room_id"`
	RoomNumber     string    `json:"room_number"`
	OccupiedBefore int       `json:"occupied_before"`
	OccupiedAfter  int       `json:"occupied_after"`
	StatusBefore   string    `json:"status_before"`
	StatusAfter    string    `json:"status_after"`
	Changed        bool      `json:"changed"`
}

// RoomService is the application service for room management and upkeep.
type RoomService struct {
	rooms    roomDomain.Repository
	bookings bookingDomain.Repository
	tx       domain.Transactor
	logger   *zap.Logger
}

// NewRoomService creates a new RoomService.
func NewRoomService(
	rooms roomDomain.Repository,
	bookings bookingDomain.Repository,
	tx domain.Transactor,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		rooms:    rooms,
		bookings: bookings,
		tx:       tx,
		logger:   logger,
	}
}

// CreateRoom creates a new room for the admin.
func (s *RoomService) CreateRoom(ctx context.Context, adminID uuid.UUID, req CreateRoomRequest) (*RoomDTO, error) {
	if _, err := s.rooms.FindByNumber(ctx, req.RoomNumber); err == nil {
		return nil, domain.NewConflictError(fmt.Sprintf("room number %s already exists", req.RoomNumber))
	} else if !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}

	rm, err := roomDomain.NewRoom(
		adminID,
		req.RoomNumber,
		req.Name,
		req.RoomType,
		req.Capacity,
		req.Floor,
		req.PriceCents,
		req.Description,
		req.Amenities,
	)
	if err != nil {
		return nil, err
	}

	if err := s.rooms.Save(ctx, rm); err != nil {
		return nil, err
	}

	result := toRoomDTO(rm)
	return &result, nil
}

// GetRoom retrieves a room owned by the admin.
func (s *RoomService) GetRoom(ctx context.Context, adminID, roomID uuid.UUID) (*RoomDTO, error) {
	rm, err := s.loadOwnedRoom(ctx, adminID, roomID)
	if err != nil {
		return nil, err
	}
	result := toRoomDTO(rm)
	return &result, nil
}

// ListRooms retrieves all rooms owned by the admin.
func (s *RoomService) ListRooms(ctx context.Context, adminID uuid.UUID) ([]RoomDTO, error) {
	rooms, err := s.rooms.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return toRoomDTOs(rooms), nil
}

// UpdateRoom changes the descriptive attributes of a room. Capacity may not
// shrink below current occupancy.
func (s *RoomService) UpdateRoom(ctx context.Context, adminID, roomID uuid.UUID, req UpdateRoomRequest) (*RoomDTO, error) {
	rm, err := s.loadOwnedRoom(ctx, adminID, roomID)
	if err != nil {
		return nil, err
	}

	if err := rm.UpdateDetails(req.Name, req.RoomType, req.Capacity, req.Floor, req.PriceCents, req.Description, req.Amenities); err != nil {
		return nil, err
	}
	rm.IncrementVersion()
	if err := s.rooms.Update(ctx, rm); err != nil {
		return nil, err
	}

	result := toRoomDTO(rm)
	return &result, nil
}

// DeleteRoom removes a room. Rooms with active bookings cannot be deleted.
func (s *RoomService) DeleteRoom(ctx context.Context, adminID, roomID uuid.UUID) error {
	rm, err := s.loadOwnedRoom(ctx, adminID, roomID)
	if err != nil {
		return err
	}

	active, err := s.bookings.CountActiveByRoom(ctx, rm.ID())
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.NewConflictError(fmt.Sprintf(
			"room %s has %d active bookings and cannot be deleted", rm.RoomNumber(), active))
	}

	return s.rooms.Delete(ctx, rm.ID())
}

// MarkCleaned records a cleaning on the room.
func (s *RoomService) MarkCleaned(ctx context.Context, adminID, roomID uuid.UUID) (*RoomDTO, error) {
	rm, err := s.loadOwnedRoom(ctx, adminID, roomID)
	if err != nil {
		return nil, err
	}

	rm.MarkCleaned(time.Now())
	rm.IncrementVersion()
	if err := s.rooms.Update(ctx, rm); err != nil {
		return nil, err
	}

	result := toRoomDTO(rm)
	return &result, nil
}

// SetMaintenance takes the room out of service. Existing occupancy is kept.
func (s *RoomService) SetMaintenance(ctx context.Context, adminID, roomID uuid.UUID) (*RoomDTO, error) {
	rm, err := s.loadOwnedRoom(ctx, adminID, roomID)
	if err != nil {
		return nil, err
	}

	rm.EnterMaintenance()
	rm.IncrementVersion()
	if err := s.rooms.Update(ctx, rm); err != nil {
		return nil, err
	}

	result := toRoomDTO(rm)
	return &result, nil
}

// ClearMaintenance returns the room to service; its status is re-derived from
// current occupancy.
func (s *RoomService) ClearMaintenance(ctx context.Context, adminID, roomID uuid.UUID) (*RoomDTO, error) {
	rm, err := s.loadOwnedRoom(ctx, adminID, roomID)
	if err != nil {
		return nil, err
	}

	rm.ClearMaintenance()
	rm.IncrementVersion()
	if err := s.rooms.Update(ctx, rm); err != nil {
		return nil, err
	}

	result := toRoomDTO(rm)
	return &result, nil
}

// SyncOccupancy recomputes a room's occupancy from its active bookings. The
// booking sum is authoritative; the counter is overwritten, not adjusted, so
// the operation is idempotent.
func (s *RoomService) SyncOccupancy(ctx context.Context, adminID, roomID uuid.UUID) (*SyncResultDTO, error) {
	var result SyncResultDTO
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		rm, err := s.rooms.FindByIDForUpdate(ctx, roomID)
		if err != nil {
			return err
		}
		if rm.AdminID() != adminID {
			return domain.NewNotFoundError("Room", roomID.String())
		}

		actual, err := s.bookings.SumActiveGuests(ctx, rm.ID())
		if err != nil {
			return err
		}

		result = SyncResultDTO{
			RoomID:         rm.ID(),
			RoomNumber:     rm.RoomNumber(),
			OccupiedBefore: rm.Occupied(),
			StatusBefore:   string(rm.Status()),
		}

		if err := rm.SetOccupied(actual); err != nil {
			return err
		}
		rm.IncrementVersion()
		if err := s.rooms.Update(ctx, rm); err != nil {
			return err
		}

		result.OccupiedAfter = rm.Occupied()
		result.StatusAfter = string(rm.Status())
		result.Changed = result.OccupiedBefore != result.OccupiedAfter || result.StatusBefore != result.StatusAfter
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Changed {
		s.logger.Info("room occupancy resynced",
			zap.String("room_number", result.RoomNumber),
			zap.Int("occupied_before", result.OccupiedBefore),
			zap.Int("occupied_after", result.OccupiedAfter),
		)
	}
	return &result, nil
}

// SyncAllOccupancy resyncs every room owned by the admin and reports the
// rooms that changed.
func (s *RoomService) SyncAllOccupancy(ctx context.Context, adminID uuid.UUID) ([]SyncResultDTO, error) {
	rooms, err := s.rooms.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	results := make([]SyncResultDTO, 0, len(rooms))
	for _, rm := range rooms {
		res, err := s.SyncOccupancy(ctx, adminID, rm.ID())
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// --- Helpers ---

func (s *RoomService) loadOwnedRoom(ctx context.Context, adminID, roomID uuid.UUID) (*roomDomain.Room, error) {
	rm, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if rm.AdminID() != adminID {
		return nil, domain.NewNotFoundError("Room", roomID.String())
	}
	return rm, nil
}

func toRoomDTO(rm *roomDomain.Room) RoomDTO {
	return RoomDTO{
		ID:                  rm.ID(),
		RoomNumber:          rm.RoomNumber(),
		Name:                rm.Name(),
		RoomType:            rm.RoomType(),
		Capacity:            rm.Capacity(),
		Occupied:            rm.Occupied(),
		AvailableSpaces:     rm.AvailableSpaces(),
		Floor:               rm.Floor(),
		PriceCents:          rm.PriceCents(),
		Status:              string(rm.Status()),
		Description:         rm.Description(),
		Amenities:           rm.Amenities(),
		OccupancyPercentage: rm.OccupancyPercentage(),
		LastCleaned:         rm.LastCleaned(),
		Version:             rm.Version(),
		CreatedAt:           rm.CreatedAt(),
		UpdatedAt:           rm.UpdatedAt(),
	}
}

func toRoomDTOs(rooms []*roomDomain.Room) []RoomDTO {
	dtos := make([]RoomDTO, len(rooms))
	for i, rm := range rooms {
		dtos[i] = toRoomDTO(rm)
	}
	return dtos
}
