package room

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/hostel-backend/internal/domain"
)

func newTestRoom(t *testing.T, capacity int) *Room {
	t.Helper()
	r, err := NewRoom(uuid.New(), "A-101", "Dorm A", "dorm", capacity, 1, 2500, "", []string{"wifi"})
	require.NoError(t, err)
	return r
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		occupied int
		capacity int
		current  Status
		want     Status
	}{
		{"empty room is available", 0, 4, StatusAvailable, StatusAvailable},
		{"partially filled is occupied", 1, 4, StatusAvailable, StatusOccupied},
		{"at capacity is full", 4, 4, StatusOccupied, StatusFull},
		{"over capacity is full", 5, 4, StatusOccupied, StatusFull},
		{"draining back to zero is available", 0, 4, StatusFull, StatusAvailable},
		{"maintenance sticks regardless of occupancy", 2, 4, StatusMaintenance, StatusMaintenance},
		{"maintenance sticks at zero occupancy", 0, 4, StatusMaintenance, StatusMaintenance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.occupied, tt.capacity, tt.current))
		})
	}
}

func TestRoom_StatusTracksOccupancy(t *testing.T) {
	r := newTestRoom(t, 2)
	assert.Equal(t, StatusAvailable, r.Status())

	require.NoError(t, r.Reserve(1))
	assert.Equal(t, 1, r.Occupied())
	assert.Equal(t, StatusOccupied, r.Status())

	require.NoError(t, r.Reserve(1))
	assert.Equal(t, 2, r.Occupied())
	assert.Equal(t, StatusFull, r.Status())

	r.Release(1)
	assert.Equal(t, 1, r.Occupied())
	assert.Equal(t, StatusOccupied, r.Status())

	r.Release(1)
	assert.Equal(t, 0, r.Occupied())
	assert.Equal(t, StatusAvailable, r.Status())
}

func TestRoom_ReserveRejectsOverCapacity(t *testing.T) {
	r := newTestRoom(t, 2)
	require.NoError(t, r.Reserve(2))

	err := r.Reserve(1)
	require.Error(t, err)
	assert.Equal(t, domain.KindCapacityExceeded, domain.KindOf(err))
	assert.Equal(t, 2, r.Occupied(), "failed reserve must not mutate occupancy")
	assert.Equal(t, StatusFull, r.Status())
}

func TestRoom_ReleaseNeverGoesNegative(t *testing.T) {
	r := newTestRoom(t, 4)
	r.Release(3)
	assert.Equal(t, 0, r.Occupied())
	assert.Equal(t, StatusAvailable, r.Status())
}

func TestRoom_CanAccommodateAndSpaces(t *testing.T) {
	r := newTestRoom(t, 4)
	require.NoError(t, r.Reserve(3))

	assert.Equal(t, 1, r.AvailableSpaces())
	assert.True(t, r.CanAccommodate(1))
	assert.False(t, r.CanAccommodate(2))
	assert.True(t, r.Bookable())

	require.NoError(t, r.Reserve(1))
	assert.Equal(t, 0, r.AvailableSpaces())
	assert.False(t, r.Bookable())
}

func TestRoom_MaintenanceOverride(t *testing.T) {
	r := newTestRoom(t, 4)
	require.NoError(t, r.Reserve(2))

	r.EnterMaintenance()
	assert.Equal(t, StatusMaintenance, r.Status())
	assert.False(t, r.Bookable())

	// Occupancy changes do not clear maintenance.
	r.Release(1)
	assert.Equal(t, StatusMaintenance, r.Status())
	assert.Equal(t, 1, r.Occupied())

	r.ClearMaintenance()
	assert.Equal(t, StatusOccupied, r.Status())

	r.Release(1)
	assert.Equal(t, StatusAvailable, r.Status())
}

func TestRoom_SetOccupied(t *testing.T) {
	r := newTestRoom(t, 4)

	require.NoError(t, r.SetOccupied(4))
	assert.Equal(t, StatusFull, r.Status())

	require.NoError(t, r.SetOccupied(0))
	assert.Equal(t, StatusAvailable, r.Status())

	err := r.SetOccupied(-1)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestRoom_NeedsCleaning(t *testing.T) {
	r := newTestRoom(t, 2)
	now := time.Now().UTC()

	assert.True(t, r.NeedsCleaning(now), "never-cleaned room needs cleaning")
	assert.Nil(t, r.DaysSinceCleaned(now))

	r.MarkCleaned(now)
	assert.False(t, r.NeedsCleaning(now))

	assert.False(t, r.NeedsCleaning(now.Add(6*24*time.Hour)))
	assert.True(t, r.NeedsCleaning(now.Add(7*24*time.Hour)))
}

func TestRoom_MarkCleanedKeepsMaintenance(t *testing.T) {
	r := newTestRoom(t, 2)
	r.EnterMaintenance()
	r.MarkCleaned(time.Now().UTC())
	assert.Equal(t, StatusMaintenance, r.Status(), "cleaning is not the maintenance exit")
}

func TestRoom_UpdateDetails(t *testing.T) {
	r := newTestRoom(t, 4)
	require.NoError(t, r.Reserve(3))

	err := r.UpdateDetails("Dorm A", "dorm", 2, 1, 2500, "", nil)
	require.Error(t, err, "capacity cannot shrink below occupancy")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	require.NoError(t, r.UpdateDetails("Dorm A", "dorm", 3, 1, 3000, "", nil))
	assert.Equal(t, StatusFull, r.Status(), "capacity change re-derives status")
}

func TestNewRoom_Validation(t *testing.T) {
	_, err := NewRoom(uuid.Nil, "A-1", "", "dorm", 2, 0, 100, "", nil)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = NewRoom(uuid.New(), "", "", "dorm", 2, 0, 100, "", nil)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = NewRoom(uuid.New(), "A-1", "", "dorm", 0, 0, 100, "", nil)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = NewRoom(uuid.New(), "A-1", "", "dorm", 2, 0, -1, "", nil)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
