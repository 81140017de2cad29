package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hostelhub/hostel-backend/internal/domain"
	roomDomain "github.com/hostelhub/hostel-backend/internal/domain/room"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AdminID     uuid.UUID      `gorm:"type:uuid;index;not null"`
	RoomNumber  string         `gorm:"uniqueIndex;not null;size:20"`
	Name        string         `gorm:"size:100"`
	RoomType    string         `gorm:"size:30;index"`
	Capacity    int            `gorm:"not null"`
	Occupied    int            `gorm:"not null;default:0"`
	Floor       int            `gorm:"not null;default:0"`
	PriceCents  int64          `gorm:"not null"`
	Status      string         `gorm:"not null;size:20;index"`
	Description string         `gorm:"size:1000"`
	Amenities   datatypes.JSON `gorm:"type:jsonb"`
	LastCleaned *time.Time     `gorm:""`
	Version     int64          `gorm:"not null;default:1"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RoomModel) TableName() string {
	return "rooms"
}

// GormRoomRepository is the GORM-based implementation of room.Repository.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID retrieves a room by its unique identifier.
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	var model RoomModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", id.String())
		}
		return nil, fmt.Errorf("failed to find room by ID: %w", err)
	}
	return toDomainRoom(&model)
}

// FindByIDForUpdate retrieves a room with a FOR UPDATE row lock. Concurrent
// occupancy mutations on the same room serialize on this lock, so the
// availability check and the increment behave as one atomic unit.
func (r *GormRoomRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	var model RoomModel
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", id.String())
		}
		return nil, fmt.Errorf("failed to lock room: %w", err)
	}
	return toDomainRoom(&model)
}

// FindByNumber retrieves a room by its room number.
func (r *GormRoomRepository) FindByNumber(ctx context.Context, roomNumber string) (*roomDomain.Room, error) {
	var model RoomModel
	if err := dbFrom(ctx, r.db).Where("room_number = ?", roomNumber).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", roomNumber)
		}
		return nil, fmt.Errorf("failed to find room by number: %w", err)
	}
	return toDomainRoom(&model)
}

// ListByAdmin retrieves all rooms owned by an admin.
func (r *GormRoomRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := dbFrom(ctx, r.db).
		Where("admin_id = ?", adminID).
		Order("room_number").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return toDomainRooms(models)
}

// ListCandidates retrieves rooms passing the cheap attribute filter.
func (r *GormRoomRepository) ListCandidates(ctx context.Context, filter roomDomain.CandidateFilter) ([]*roomDomain.Room, error) {
	q := dbFrom(ctx, r.db).
		Where("status <> ?", string(roomDomain.StatusMaintenance)).
		Where("capacity >= ?", filter.MinCapacity)

	if filter.RoomType != "" && filter.RoomType != "all" {
		q = q.Where("room_type = ?", filter.RoomType)
	}
	if filter.MinPriceCents != nil {
		q = q.Where("price_cents >= ?", *filter.MinPriceCents)
	}
	if filter.MaxPriceCents != nil {
		q = q.Where("price_cents <= ?", *filter.MaxPriceCents)
	}

	var models []RoomModel
	if err := q.Order("room_number").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list candidate rooms: %w", err)
	}
	return toDomainRooms(models)
}

// Save persists a new room.
func (r *GormRoomRepository) Save(ctx context.Context, room *roomDomain.Room) error {
	model, err := toRoomModel(room)
	if err != nil {
		return err
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// Update persists changes to an existing room with optimistic locking.
func (r *GormRoomRepository) Update(ctx context.Context, room *roomDomain.Room) error {
	model, err := toRoomModel(room)
	if err != nil {
		return err
	}

	expectedVersion := room.Version() - 1
	result := dbFrom(ctx, r.db).
		Model(&RoomModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":         model.Name,
			"room_type":    model.RoomType,
			"capacity":     model.Capacity,
			"occupied":     model.Occupied,
			"floor":        model.Floor,
			"price_cents":  model.PriceCents,
			"status":       model.Status,
			"description":  model.Description,
			"amenities":    model.Amenities,
			"last_cleaned": model.LastCleaned,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("room was modified by another transaction")
	}
	return nil
}

// Delete removes a room.
func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFrom(ctx, r.db).Delete(&RoomModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Room", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toRoomModel(room *roomDomain.Room) (*RoomModel, error) {
	amenities, err := json.Marshal(room.Amenities())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal amenities: %w", err)
	}

	return &RoomModel{
		ID:          room.ID(),
		AdminID:     room.AdminID(),
		RoomNumber:  room.RoomNumber(),
		Name:        room.Name(),
		RoomType:    room.RoomType(),
		Capacity:    room.Capacity(),
		Occupied:    room.Occupied(),
		Floor:       room.Floor(),
		PriceCents:  room.PriceCents(),
		Status:      string(room.Status()),
		Description: room.Description(),
		Amenities:   datatypes.JSON(amenities),
		LastCleaned: room.LastCleaned(),
		Version:     room.Version(),
		CreatedAt:   room.CreatedAt(),
		UpdatedAt:   room.UpdatedAt(),
	}, nil
}

func toDomainRoom(m *RoomModel) (*roomDomain.Room, error) {
	var amenities []string
	if len(m.Amenities) > 0 {
		if err := json.Unmarshal(m.Amenities, &amenities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal amenities: %w", err)
		}
	}

	status, err := roomDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return roomDomain.ReconstructRoom(
		m.ID,
		m.AdminID,
		m.RoomNumber,
		m.Name,
		m.RoomType,
		m.Capacity,
		m.Occupied,
		m.Floor,
		m.PriceCents,
		status,
		m.Description,
		amenities,
		m.LastCleaned,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainRooms(models []RoomModel) ([]*roomDomain.Room, error) {
	rooms := make([]*roomDomain.Room, len(models))
	for i := range models {
		room, err := toDomainRoom(&models[i])
		if err != nil {
			return nil, err
		}
		rooms[i] = room
	}
	return rooms, nil
}
