package offer

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/hostelhub/hostel-backend/internal/domain"
)

// DiscountType selects how an offer's value is applied to a booking amount.
type DiscountType string

const (
	// DiscountPercentage takes Value as a whole-number percentage off the original amount.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixedAmount takes Value as cents off, capped at the original amount.
	DiscountFixedAmount DiscountType = "fixed_amount"
	// DiscountFreeNight takes Value as a number of free nights, capped at the stay length.
	DiscountFreeNight DiscountType = "free_night"
)

// IsValid returns true if the discount type is recognized.
func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixedAmount || t == DiscountFreeNight
}

// ParseDiscountType converts a string to a DiscountType.
func ParseDiscountType(s string) (DiscountType, error) {
	t := DiscountType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid discount type: %s", s)
	}
	return t, nil
}

// Offer is a promotional discount rule. It is pure calculation: the booking
// coordinator consumes it but it never touches room state.
type Offer struct {
	id           uuid.UUID
	adminID      uuid.UUID
	code         string
	name         string
	description  string
	discountType DiscountType
	// discountValue is interpreted per discountType: percent, cents, or nights.
	discountValue int64
	minGuests     int
	minNights     int
	maxUses       *int
	usedCount     int
	validFrom     time.Time
	validTo       time.Time
	active        bool
	public        bool

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// GenerateCode creates an offer code in the format "OFFNNNN".
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9999))
	if err != nil {
		return "", fmt.Errorf("failed to generate offer code: %w", err)
	}
	return fmt.Sprintf("OFF%04d", n.Int64()+1), nil
}

// NewOffer creates a new Offer.
func NewOffer(
	adminID uuid.UUID,
	code string,
	name string,
	description string,
	discountType DiscountType,
	discountValue int64,
	minGuests int,
	minNights int,
	maxUses *int,
	validFrom time.Time,
	validTo time.Time,
	public bool,
) (*Offer, error) {
	if adminID == uuid.Nil {
		return nil, domain.NewValidationError("admin ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("offer name is required")
	}
	if !discountType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid discount type: %s", discountType))
	}
	if discountValue <= 0 {
		return nil, domain.NewValidationError("discount value must be positive")
	}
	if discountType == DiscountPercentage && discountValue > 100 {
		return nil, domain.NewValidationError("percentage discount cannot exceed 100")
	}
	if validTo.Before(validFrom) {
		return nil, domain.NewValidationError("offer validity window is inverted")
	}
	if minGuests < 0 || minNights < 0 {
		return nil, domain.NewValidationError("offer minimums must not be negative")
	}

	if code == "" {
		generated, err := GenerateCode()
		if err != nil {
			return nil, err
		}
		code = generated
	}

	now := time.Now().UTC()
	return &Offer{
		id:            uuid.New(),
		adminID:       adminID,
		code:          code,
		name:          name,
		description:   description,
		discountType:  discountType,
		discountValue: discountValue,
		minGuests:     minGuests,
		minNights:     minNights,
		maxUses:       maxUses,
		validFrom:     validFrom,
		validTo:       validTo,
		active:        true,
		public:        public,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructOffer rebuilds an Offer from persistence data (no validation).
func ReconstructOffer(
	id uuid.UUID,
	adminID uuid.UUID,
	code string,
	name string,
	description string,
	discountType DiscountType,
	discountValue int64,
	minGuests int,
	minNights int,
	maxUses *int,
	usedCount int,
	validFrom time.Time,
	validTo time.Time,
	active bool,
	public bool,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Offer {
	return &Offer{
		id:            id,
		adminID:       adminID,
		code:          code,
		name:          name,
		description:   description,
		discountType:  discountType,
		discountValue: discountValue,
		minGuests:     minGuests,
		minNights:     minNights,
		maxUses:       maxUses,
		usedCount:     usedCount,
		validFrom:     validFrom,
		validTo:       validTo,
		active:        active,
		public:        public,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the offer's unique identifier.
func (o *Offer) ID() uuid.UUID { return o.id }

// AdminID returns the owning admin's ID.
func (o *Offer) AdminID() uuid.UUID { return o.adminID }

// Code returns the redeemable offer code.
func (o *Offer) Code() string { return o.code }

// Name returns the offer name.
func (o *Offer) Name() string { return o.name }

// Description returns the offer description.
func (o *Offer) Description() string { return o.description }

// Type returns the discount type.
func (o *Offer) Type() DiscountType { return o.discountType }

// Value returns the raw discount value (percent, cents, or nights).
func (o *Offer) Value() int64 { return o.discountValue }

// MinGuests returns the minimum guest count for eligibility.
func (o *Offer) MinGuests() int { return o.minGuests }

// MinNights returns the minimum stay length for eligibility.
func (o *Offer) MinNights() int { return o.minNights }

// MaxUses returns the usage cap, or nil for unlimited.
func (o *Offer) MaxUses() *int { return o.maxUses }

// UsedCount returns how many times the offer was redeemed.
func (o *Offer) UsedCount() int { return o.usedCount }

// ValidFrom returns the start of the validity window.
func (o *Offer) ValidFrom() time.Time { return o.validFrom }

// ValidTo returns the end of the validity window.
func (o *Offer) ValidTo() time.Time { return o.validTo }

// Active returns whether the offer is switched on.
func (o *Offer) Active() bool { return o.active }

// Public returns whether the offer is shown in the public widget.
func (o *Offer) Public() bool { return o.public }

// Version returns the entity version for optimistic locking.
func (o *Offer) Version() int64 { return o.version }

// CreatedAt returns the creation timestamp.
func (o *Offer) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (o *Offer) UpdatedAt() time.Time { return o.updatedAt }

// --- Behavior ---

// IsValidAt reports whether the offer can be redeemed at the given time:
// active, inside its validity window, and under its usage cap.
func (o *Offer) IsValidAt(now time.Time) bool {
	day := now.UTC().Truncate(24 * time.Hour)
	if !o.active {
		return false
	}
	if day.Before(o.validFrom) || day.After(o.validTo) {
		return false
	}
	if o.maxUses != nil && o.usedCount >= *o.maxUses {
		return false
	}
	return true
}

// EligibleFor reports whether a booking meets the offer's minimums.
func (o *Offer) EligibleFor(guests, nights int) bool {
	if guests < o.minGuests {
		return false
	}
	if o.minNights > 0 && nights < o.minNights {
		return false
	}
	return true
}

// Discount computes the discount in cents for a booking amount. The result
// never exceeds originalCents.
func (o *Offer) Discount(originalCents int64, nights int) int64 {
	var discount int64
	switch o.discountType {
	case DiscountPercentage:
		discount = originalCents * o.discountValue / 100
	case DiscountFixedAmount:
		discount = o.discountValue
	case DiscountFreeNight:
		if nights <= 0 {
			return 0
		}
		perNight := originalCents / int64(nights)
		freeNights := o.discountValue
		if freeNights > int64(nights) {
			freeNights = int64(nights)
		}
		discount = perNight * freeNights
	}
	if discount > originalCents {
		discount = originalCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// RecordUse increments the usage counter, enforcing the cap.
func (o *Offer) RecordUse() error {
	if o.maxUses != nil && o.usedCount >= *o.maxUses {
		return domain.NewConflictError(fmt.Sprintf("offer %s has reached its usage limit", o.code))
	}
	o.usedCount++
	o.touch()
	return nil
}

// Deactivate switches the offer off.
func (o *Offer) Deactivate() {
	o.active = false
	o.touch()
}

// Activate switches the offer on.
func (o *Offer) Activate() {
	o.active = true
	o.touch()
}

// IncrementVersion bumps the version for optimistic locking.
func (o *Offer) IncrementVersion() {
	o.version++
	o.touch()
}

func (o *Offer) touch() {
	o.updatedAt = time.Now().UTC()
}
