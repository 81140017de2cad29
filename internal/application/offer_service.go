package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostelhub/hostel-backend/internal/domain"
	offerDomain "github.com/hostelhub/hostel-backend/internal/domain/offer"
)

// CreateOfferRequest holds the data needed to create an offer.
type CreateOfferRequest struct {
	Code          string    `json:"code"`
	Name          string    `json:"name" binding:"required"`
	Description   string    `json:"description"`
	DiscountType  string    `json:"discount_type" binding:"required"`
	DiscountValue int64     `json:"discount_value" binding:"required,min=1"`
	MinGuests     int       `json:"min_guests"`
	MinNights     int       `json:"min_nights"`
	MaxUses       *int      `json:"max_uses"`
	ValidFrom     time.Time `json:"valid_from" binding:"required"`
	ValidTo       time.Time `json:"valid_to" binding:"required"`
	Public        bool      `json:"public"`
}

// OfferDTO is the response representation of an offer.
type OfferDTO struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue int64     `json:"discount_value"`
	MinGuests     int       `json:"min_guests"`
	MinNights     int       `json:"min_nights"`
	MaxUses       *int      `json:"max_uses,omitempty"`
	UsedCount     int       `json:"used_count"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidTo       time.Time `json:"valid_to"`
	Active        bool      `json:"active"`
	Public        bool      `json:"public"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OfferQuoteDTO is the result of a validate-code preview: the discount the
// offer would grant, without redeeming it.
type OfferQuoteDTO struct {
	Code                string `json:"code"`
	Valid               bool   `json:"valid"`
	Reason              string `json:"reason,omitempty"`
	DiscountAmountCents int64  `json:"discount_amount_cents"`
	TotalAmountCents    int64  `json:"total_amount_cents"`
}

// OfferService is the application service for promotional offers.
type OfferService struct {
	offers offerDomain.Repository
	logger *zap.Logger
}

// NewOfferService creates a new OfferService.
func NewOfferService(offers offerDomain.Repository, logger *zap.Logger) *OfferService {
	return &OfferService{offers: offers, logger: logger}
}

// CreateOffer creates a new offer for the admin. An empty code gets generated.
func (s *OfferService) CreateOffer(ctx context.Context, adminID uuid.UUID, req CreateOfferRequest) (*OfferDTO, error) {
	discountType, err := offerDomain.ParseDiscountType(req.DiscountType)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if req.Code != "" {
		if _, err := s.offers.FindByCode(ctx, req.Code); err == nil {
			return nil, domain.NewConflictError("offer code already exists")
		} else if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
	}

	o, err := offerDomain.NewOffer(
		adminID,
		req.Code,
		req.Name,
		req.Description,
		discountType,
		req.DiscountValue,
		req.MinGuests,
		req.MinNights,
		req.MaxUses,
		req.ValidFrom,
		req.ValidTo,
		req.Public,
	)
	if err != nil {
		return nil, err
	}

	if err := s.offers.Save(ctx, o); err != nil {
		return nil, err
	}

	result := toOfferDTO(o)
	return &result, nil
}

// GetOffer retrieves an offer owned by the admin.
func (s *OfferService) GetOffer(ctx context.Context, adminID, offerID uuid.UUID) (*OfferDTO, error) {
	o, err := s.loadOwnedOffer(ctx, adminID, offerID)
	if err != nil {
		return nil, err
	}
	result := toOfferDTO(o)
	return &result, nil
}

// ListOffers retrieves all offers owned by the admin.
func (s *OfferService) ListOffers(ctx context.Context, adminID uuid.UUID) ([]OfferDTO, error) {
	offers, err := s.offers.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	dtos := make([]OfferDTO, len(offers))
	for i, o := range offers {
		dtos[i] = toOfferDTO(o)
	}
	return dtos, nil
}

// ListPublicOffers retrieves active public offers for the booking widget.
func (s *OfferService) ListPublicOffers(ctx context.Context) ([]OfferDTO, error) {
	offers, err := s.offers.ListPublicActive(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dtos := make([]OfferDTO, 0, len(offers))
	for _, o := range offers {
		if !o.IsValidAt(now) {
			continue
		}
		dtos = append(dtos, toOfferDTO(o))
	}
	return dtos, nil
}

// SetOfferActive switches an offer on or off.
func (s *OfferService) SetOfferActive(ctx context.Context, adminID, offerID uuid.UUID, active bool) (*OfferDTO, error) {
	o, err := s.loadOwnedOffer(ctx, adminID, offerID)
	if err != nil {
		return nil, err
	}

	if active {
		o.Activate()
	} else {
		o.Deactivate()
	}
	o.IncrementVersion()
	if err := s.offers.Update(ctx, o); err != nil {
		return nil, err
	}

	result := toOfferDTO(o)
	return &result, nil
}

// DeleteOffer removes an offer.
func (s *OfferService) DeleteOffer(ctx context.Context, adminID, offerID uuid.UUID) error {
	o, err := s.loadOwnedOffer(ctx, adminID, offerID)
	if err != nil {
		return err
	}
	return s.offers.Delete(ctx, o.ID())
}

// QuoteOffer previews the discount an offer code would grant a booking. The
// usage counter is not incremented; redemption happens at booking creation.
func (s *OfferService) QuoteOffer(ctx context.Context, code string, guests, nights int, originalCents int64) (*OfferQuoteDTO, error) {
	if guests < 1 || nights < 1 || originalCents < 0 {
		return nil, domain.NewValidationError("invalid quote parameters")
	}

	quote := &OfferQuoteDTO{Code: code, TotalAmountCents: originalCents}

	o, err := s.offers.FindByCode(ctx, code)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			quote.Reason = "unknown code"
			return quote, nil
		}
		return nil, err
	}

	if !o.IsValidAt(time.Now()) {
		quote.Reason = "offer expired or exhausted"
		return quote, nil
	}
	if !o.EligibleFor(guests, nights) {
		quote.Reason = "booking does not meet offer requirements"
		return quote, nil
	}

	discount := o.Discount(originalCents, nights)
	quote.Valid = true
	quote.DiscountAmountCents = discount
	quote.TotalAmountCents = originalCents - discount
	return quote, nil
}

// --- Helpers ---

func (s *OfferService) loadOwnedOffer(ctx context.Context, adminID, offerID uuid.UUID) (*offerDomain.Offer, error) {
	o, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if o.AdminID() != adminID {
		return nil, domain.NewNotFoundError("Offer", offerID.String())
	}
	return o, nil
}

func toOfferDTO(o *offerDomain.Offer) OfferDTO {
	return OfferDTO{
		ID:            o.ID(),
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
