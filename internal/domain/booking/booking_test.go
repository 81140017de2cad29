package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/hostel-backend/internal/domain"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	stay := mustStay(t, date(2025, 3, 1), date(2025, 3, 5))
	b, err := NewBooking(uuid.New(), uuid.New(), nil, stay, 2, 10000, 0, "")
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	b := newTestBooking(t)

	assert.Equal(t, StatusPending, b.Status())
	assert.True(t, b.IsActive())
	assert.Len(t, b.Reference(), 10)
	assert.Equal(t, "BK", b.Reference()[:2])
	assert.Equal(t, int64(10000), b.TotalAmountCents())
}

func TestNewBooking_Validation(t *testing.T) {
	stay := Stay{CheckIn: date(2025, 3, 1), CheckOut: date(2025, 3, 5)}

	_, err := NewBooking(uuid.Nil, uuid.New(), nil, stay, 1, 100, 0, "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = NewBooking(uuid.New(), uuid.Nil, nil, stay, 1, 100, 0, "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = NewBooking(uuid.New(), uuid.New(), nil, stay, 0, 100, 0, "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = NewBooking(uuid.New(), uuid.New(), nil, stay, 1, 100, 200, "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err), "discount larger than original")
}

func TestBooking_Lifecycle(t *testing.T) {
	b := newTestBooking(t)

	require.NoError(t, b.Confirm())
	assert.Equal(t, StatusConfirmed, b.Status())
	require.NotNil(t, b.ConfirmedAt())

	require.NoError(t, b.CheckIn())
	assert.Equal(t, StatusCheckedIn, b.Status())
	require.NotNil(t, b.CheckedInAt())
	assert.True(t, b.IsActive())

	require.NoError(t, b.CheckOut())
	assert.Equal(t, StatusCheckedOut, b.Status())
	require.NotNil(t, b.CheckedOutAt())
	assert.False(t, b.IsActive())
}

func TestBooking_InvalidJumps(t *testing.T) {
	b := newTestBooking(t)

	err := b.CheckIn()
	require.Error(t, err, "pending cannot jump to checked_in")
	assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))

	err = b.CheckOut()
	require.Error(t, err, "pending cannot jump to checked_out")
	assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))

	require.NoError(t, b.Confirm())
	err = b.Confirm()
	assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err), "confirm is not idempotent")
}

func TestBooking_CancelFromActiveStates(t *testing.T) {
	for _, advance := range []int{0, 1, 2} {
		b := newTestBooking(t)
		if advance >= 1 {
			require.NoError(t, b.Confirm())
		}
		if advance >= 2 {
			require.NoError(t, b.CheckIn())
		}
		require.NoError(t, b.Cancel("change of plans"))
		assert.Equal(t, StatusCancelled, b.Status())
		assert.Equal(t, "change of plans", b.CancelNote())
		require.NotNil(t, b.CancelledAt())
	}
}

func TestBooking_CancelAfterCheckoutRejected(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Confirm())
	require.NoError(t, b.CheckIn())
	require.NoError(t, b.CheckOut())

	err := b.Cancel("too late")
	require.Error(t, err, "checked_out is settled, not cancellable")
	assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))
	assert.Equal(t, StatusCheckedOut, b.Status())
	assert.Nil(t, b.CancelledAt())
}

func TestStatus_TransitionTable(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusPending.CanTransitionTo(StatusCheckedIn))
	assert.False(t, StatusCheckedIn.CanTransitionTo(StatusPending))
	assert.False(t, StatusCheckedOut.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusCheckedOut.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func TestStatus_CountsTowardOccupancy(t *testing.T) {
	assert.True(t, StatusPending.CountsTowardOccupancy())
	assert.True(t, StatusConfirmed.CountsTowardOccupancy())
	assert.True(t, StatusCheckedIn.CountsTowardOccupancy())
	assert.False(t, StatusCheckedOut.CountsTowardOccupancy())
	assert.False(t, StatusCancelled.CountsTowardOccupancy())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("teleported")
	require.Error(t, err)
}

func TestGenerateReference_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		ref, err := generateReference()
		require.NoError(t, err)
		require.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestBooking_Reconstruct(t *testing.T) {
	now := time.Now().UTC()
	id := uuid.New()
	stay := Stay{CheckIn: date(2025, 3, 1), CheckOut: date(2025, 3, 5)}

	b := ReconstructBooking(id, "BKTESTREF1", uuid.New(), uuid.New(), nil, stay, 2,
		StatusConfirmed, 9000, 10000, 1000, "late arrival", "",
		&now, nil, nil, nil, 3, now, now)

	assert.Equal(t, id, b.ID())
	assert.Equal(t, StatusConfirmed, b.Status())
	assert.Equal(t, int64(3), b.Version())
	require.NoError(t, b.CheckIn(), "reconstructed aggregate continues its lifecycle")
}
