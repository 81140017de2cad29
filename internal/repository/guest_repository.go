package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hostelhub/hostel-backend/internal/domain"
	guestDomain "github.com/hostelhub/hostel-backend/internal/domain/guest"
)

// GuestModel is the GORM model for the guests table.
type GuestModel struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName             string     `gorm:"not null;size:100"`
	LastName              string     `gorm:"not null;size:100"`
	Email                 string     `gorm:"index;not null;size:255"`
	Phone                 string     `gorm:"size:30"`
	Nationality           string     `gorm:"size:100"`
	DateOfBirth           *time.Time `gorm:""`
	IDType                string     `gorm:"size:30"`
	IDNumber              string     `gorm:"size:100"`
	Address               string     `gorm:"size:500"`
	EmergencyContactName  string     `gorm:"size:200"`
	EmergencyContactPhone string     `gorm:"size:30"`
	CreatedAt             time.Time  `gorm:"not null"`
	UpdatedAt             time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (GuestModel) TableName() string {
	return "guests"
}

// GormGuestRepository is the GORM-based implementation of guest.Repository.
type GormGuestRepository struct {
	db *gorm.DB
}

// NewGormGuestRepository creates a new GormGuestRepository.
func NewGormGuestRepository(db *gorm.DB) *GormGuestRepository {
	return &GormGuestRepository{db: db}
}

// FindByID retrieves a guest by its unique identifier.
func (r *GormGuestRepository) FindByID(ctx context.Context, id uuid.UUID) (*guestDomain.Guest, error) {
	var model GuestModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Guest", id.String())
		}
		return nil, fmt.Errorf("failed to find guest by ID: %w", err)
	}
	return toDomainGuest(&model), nil
}

// FindByEmail retrieves the most recent guest record for an email.
func (r *GormGuestRepository) FindByEmail(ctx context.Context, email string) (*guestDomain.Guest, error) {
	var model GuestModel
	err := dbFrom(ctx, r.db).
		Where("email = ?", email).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Guest", email)
		}
		return nil, fmt.Errorf("failed to find guest by email: %w", err)
	}
	return toDomainGuest(&model), nil
}

// Save persists a new guest.
func (r *GormGuestRepository) Save(ctx context.Context, g *guestDomain.Guest) error {
	model := toGuestModel(g)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save guest: %w", err)
	}
	return nil
}

// --- Conversion Helpers ---

func toGuestModel(g *guestDomain.Guest) *GuestModel {
	return &GuestModel{
		ID:                    g.ID(),
		FirstName:             g.FirstName(),
		LastName:              g.LastName(),
		Email:                 g.Email(),
		Phone:                 g.Phone(),
		Nationality:           g.Nationality(),
		DateOfBirth:           g.DateOfBirth(),
		IDType:                g.IDType(),
		IDNumber:              g.IDNumber(),
		Address:               g.Address(),
		EmergencyContactName:  g.EmergencyContactName(),
		EmergencyContactPhone: g.EmergencyContactPhone(),
		CreatedAt:             g.CreatedAt(),
		UpdatedAt:             g.UpdatedAt(),
	}
}

func toDomainGuest(m *GuestModel) *guestDomain.Guest {
	return guestDomain.ReconstructGuest(
		m.ID,
		m.FirstName,
		m.LastName,
		m.Email,
		m.Phone,
		m.Nationality,
		m.DateOfBirth,
		m.IDType,
		m.IDNumber,
		m.Address,
		m.EmergencyContactName,
		m.EmergencyContactPhone,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
