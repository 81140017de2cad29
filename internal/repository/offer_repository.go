package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hostelhub/hostel-backend/internal/domain"
	offerDomain "github.com/hostelhub/hostel-backend/internal/domain/offer"
)

// OfferModel is the GORM model for the offers table.
type OfferModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	AdminID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Code          string    `gorm:"uniqueIndex;not null;size:20"`
	Name          string    `gorm:"not null;size:100"`
	Description   string    `gorm:"size:1000"`
	DiscountType  string    `gorm:"not null;size:20"`
	DiscountValue int64     `gorm:"not null"`
	MinGuests     int       `gorm:"not null;default:0"`
	MinNights     int       `gorm:"not null;default:0"`
	MaxUses       *int      `gorm:""`
	UsedCount     int       `gorm:"not null;default:0"`
	ValidFrom     time.Time `gorm:"not null"`
	ValidTo       time.Time `gorm:"not null"`
	Active        bool      `gorm:"not null;default:true;index"`
	Public        bool      `gorm:"not null;default:false"`
	Version       int64     `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (OfferModel) TableName() string {
	return "offers"
}

// GormOfferRepository is the GORM-based implementation of offer.Repository.
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository creates a new GormOfferRepository.
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// FindByID retrieves an offer by its unique identifier.
func (r *GormOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*offerDomain.Offer, error) {
	var model OfferModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Offer", id.String())
		}
		return nil, fmt.Errorf("failed to find offer by ID: %w", err)
	}
	return toDomainOffer(&model)
}

// FindByCode retrieves an offer by its redeemable code.
func (r *GormOfferRepository) FindByCode(ctx context.Context, code string) (*offerDomain.Offer, error) {
	var model OfferModel
	if err := dbFrom(ctx, r.db).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Offer", code)
		}
		return nil, fmt.Errorf("failed to find offer by code: %w", err)
	}
	return toDomainOffer(&model)
}

// ListByAdmin retrieves all offers owned by an admin.
func (r *GormOfferRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]*offerDomain.Offer, error) {
	var models []OfferModel
	if err := dbFrom(ctx, r.db).
		Where("admin_id = ?", adminID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return toDomainOffers(models)
}

// ListPublicActive retrieves active public offers across all admins.
func (r *GormOfferRepository) ListPublicActive(ctx context.Context) ([]*offerDomain.Offer, error) {
	var models []OfferModel
	if err := dbFrom(ctx, r.db).
		Where("active = ? AND public = ?", true, true).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list public offers: %w", err)
	}
	return toDomainOffers(models)
}

// Save persists a new offer.
func (r *GormOfferRepository) Save(ctx context.Context, o *offerDomain.Offer) error {
	model := toOfferModel(o)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save offer: %w", err)
	}
	return nil
}

// Update persists changes to an existing offer with optimistic locking.
func (r *GormOfferRepository) Update(ctx context.Context, o *offerDomain.Offer) error {
	model := toOfferModel(o)

	expectedVersion := o.Version() - 1
	result := dbFrom(ctx, r.db).
		Model(&OfferModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":           model.Name,
			"description":    model.Description,
			"discount_type":  model.DiscountType,
			"discount_value": model.DiscountValue,
			"min_guests":     model.MinGuests,
			"min_nights":     model.MinNights,
			"max_uses":       model.MaxUses,
			"used_count":     model.UsedCount,
			"valid_from":     model.ValidFrom,
			"valid_to":       model.ValidTo,
			"active":         model.Active,
			"public":         model.Public,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update offer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("offer was modified by another transaction")
	}
	return nil
}

// Delete removes an offer.
func (r *GormOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFrom(ctx, r.db).Delete(&OfferModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete offer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Offer", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toOfferModel(o *offerDomain.Offer) *OfferModel {
	return &OfferModel{
		ID:            o.ID(),
		AdminID:       o.AdminID(),
		Code:          o.Code(),
		Name:          o.Name(),
		Description:   o.Description(),
		DiscountType:  string(o.Type()),
		DiscountValue: o.Value(),
		MinGuests:     o.MinGuests(),
		MinNights:     o.MinNights(),
		MaxUses:       o.MaxUses(),
		UsedCount:     o.UsedCount(),
		ValidFrom:     o.ValidFrom(),
		ValidTo:       o.ValidTo(),
		Active:        o.Active(),
		Public:        o.Public(),
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
}

func toDomainOffer(m *OfferModel) (*offerDomain.Offer, error) {
	discountType, err := offerDomain.ParseDiscountType(m.DiscountType)
	if err != nil {
		return nil, err
	}

	return offerDomain.ReconstructOffer(
		m.ID,
		m.AdminID,
		m.Code,
		m.Name,
		m.Description,
		discountType,
		m.DiscountValue,
		m.MinGuests,
		m.MinNights,
		m.MaxUses,
		m.UsedCount,
		m.ValidFrom,
		m.ValidTo,
		m.Active,
		m.Public,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainOffers(models []OfferModel) ([]*offerDomain.Offer, error) {
	offers := make([]*offerDomain.Offer, len(models))
	for i := range models {
		o, err := toDomainOffer(&models[i])
		if err != nil {
			return nil, err
		}
		offers[i] = o
	}
	return offers, nil
}
