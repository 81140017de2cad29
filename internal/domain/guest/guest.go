package guest

import (
	"time"

	"github.com/google/uuid"

	"github.com/hostelhub/hostel-backend/internal/domain"
)

// Guest holds the identity and contact details captured with a booking
// request. The occupancy core only ever reads guests.
type Guest struct {
	id          uuid.UUID
	firstName   string
	lastName    string
	email       string
	phone       string
	nationality string
	dateOfBirth *time.Time
	idType      string
	idNumber    string
	address     string

	emergencyContactName  string
	emergencyContactPhone string

	createdAt time.Time
	updatedAt time.Time
}

// NewGuest creates a new Guest.
func NewGuest(
	firstName string,
	lastName string,
	email string,
	phone string,
	nationality string,
	dateOfBirth *time.Time,
	idType string,
	idNumber string,
	address string,
	emergencyContactName string,
	emergencyContactPhone string,
) (*Guest, error) {
	if firstName == "" {
		return nil, domain.NewValidationError("first name is required")
	}
	if lastName == "" {
		return nil, domain.NewValidationError("last name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}

	now := time.Now().UTC()
	return &Guest{
		id:                    uuid.New(),
		firstName:             firstName,
		lastName:              lastName,
		email:                 email,
		phone:                 phone,
		nationality:           nationality,
		dateOfBirth:           dateOfBirth,
		idType:                idType,
		idNumber:              idNumber,
		address:               address,
		emergencyContactName:  emergencyContactName,
		emergencyContactPhone: emergencyContactPhone,
		createdAt:             now,
		updatedAt:             now,
	}, nil
}

// ReconstructGuest rebuilds a Guest from persistence data (no validation).
func ReconstructGuest(
	id uuid.UUID,
	firstName string,
	lastName string,
	email string,
	phone string,
	nationality string,
	dateOfBirth *time.Time,
	idType string,
	idNumber string,
	address string,
	emergencyContactName string,
	emergencyContactPhone string,
	createdAt time.Time,
	updatedAt time.Time,
) *Guest {
	return &Guest{
		id:                    id,
		firstName:             firstName,
		lastName:              lastName,
		email:                 email,
		phone:                 phone,
		nationality:           nationality,
		dateOfBirth:           dateOfBirth,
		idType:                idType,
		idNumber:              idNumber,
		address:               address,
		emergencyContactName:  emergencyContactName,
		emergencyContactPhone: emergencyContactPhone,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

// ID returns the guest's unique identifier.
func (g *Guest) ID() uuid.UUID { return g.id }

// FirstName returns the guest's first name.
func (g *Guest) FirstName() string { return g.firstName }

// LastName returns the guest's last name.
func (g *Guest) LastName() string { return g.lastName }

// FullName returns "first last".
func (g *Guest) FullName() string { return g.firstName + " " + g.lastName }

// Email returns the guest's email address.
func (g *Guest) Email() string { return g.email }

// Phone returns the guest's phone number.
func (g *Guest) Phone() string { return g.phone }

// Nationality returns the guest's nationality.
func (g *Guest) Nationality() string { return g.nationality }

// DateOfBirth returns the guest's date of birth, or nil.
func (g *Guest) DateOfBirth() *time.Time { return g.dateOfBirth }

// IDType returns the identity document type.
func (g *Guest) IDType() string { return g.idType }

// IDNumber returns the identity document number.
func (g *Guest) IDNumber() string { return g.idNumber }

// Address returns the guest's address.
func (g *Guest) Address() string { return g.address }

// EmergencyContactName returns the emergency contact name.
func (g *Guest) EmergencyContactName() string { return g.emergencyContactName }

// EmergencyContactPhone returns the emergency contact phone.
func (g *Guest) EmergencyContactPhone() string { return g.emergencyContactPhone }

// CreatedAt returns the creation timestamp.
func (g *Guest) CreatedAt() time.Time { return g.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (g *Guest) UpdatedAt() time.Time { return g.updatedAt }
