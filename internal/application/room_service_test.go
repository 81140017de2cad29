package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostelhub/hostel-backend/internal/domain"
	bookingDomain "github.com/hostelhub/hostel-backend/internal/domain/booking"
	roomDomain "github.com/hostelhub/hostel-backend/internal/domain/room"
)

type roomFixture struct {
	svc      *RoomService
	rooms    *fakeRoomRepo
	bookings *fakeBookingRepo
	adminID  uuid.UUID
}

func newRoomFixture(t *testing.T) *roomFixture {
	t.Helper()
	rooms := newFakeRoomRepo()
	bookings := newFakeBookingRepo(rooms)
	svc := NewRoomService(rooms, bookings, fakeTx{}, zap.NewNop())
	return &roomFixture{
		svc:      svc,
		rooms:    rooms,
		bookings: bookings,
		adminID:  uuid.New(),
	}
}

func (f *roomFixture) seedActiveBooking(t *testing.T, roomID uuid.UUID, guests int) *bookingDomain.Booking {
	t.Helper()
	stay, err := bookingDomain.NewStay(date(2025, 3, 10), date(2025, 3, 15))
	require.NoError(t, err)
	bk, err := bookingDomain.NewBooking(uuid.New(), roomID, nil, stay, guests, 1000, 0, "")
	require.NoError(t, err)
	require.NoError(t, f.bookings.Save(context.Background(), bk))
	return bk
}

func TestRoomService_CreateRoom(t *testing.T) {
	f := newRoomFixture(t)

	dto, err := f.svc.CreateRoom(context.Background(), f.adminID, CreateRoomRequest{
		RoomNumber: "101",
		Name:       "Garden Dorm",
		RoomType:   "dorm",
		Capacity:   6,
		Floor:      1,
		PriceCents: 2500,
		Amenities:  []string{"wifi", "locker"},
	})
	require.NoError(t, err)
	assert.Equal(t, string(roomDomain.StatusAvailable), dto.Status)
	assert.Equal(t, 0, dto.Occupied)
	assert.Equal(t, 6, dto.AvailableSpaces)

	// Duplicate room number is rejected.
	_, err = f.svc.CreateRoom(context.Background(), f.adminID, CreateRoomRequest{
		RoomNumber: "101",
		RoomType:   "dorm",
		Capacity:   4,
		PriceCents: 2000,
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestRoomService_UpdateRoomCannotShrinkBelowOccupancy(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRoom(ctx, f.adminID, CreateRoomRequest{
		RoomNumber: "101", RoomType: "dorm", Capacity: 4, PriceCents: 2000,
	})
	require.NoError(t, err)

	rm, err := f.rooms.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NoError(t, rm.Reserve(3))
	require.NoError(t, f.rooms.Update(ctx, rm))

	_, err = f.svc.UpdateRoom(ctx, f.adminID, created.ID, UpdateRoomRequest{
		RoomType: "dorm", Capacity: 2, PriceCents: 2000,
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestRoomService_DeleteRoomWithActiveBookingsRejected(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRoom(ctx, f.adminID, CreateRoomRequest{
		RoomNumber: "101", RoomType: "dorm", Capacity: 4, PriceCents: 2000,
	})
	require.NoError(t, err)

	bk := f.seedActiveBooking(t, created.ID, 2)

	err = f.svc.DeleteRoom(ctx, f.adminID, created.ID)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	// Once the booking settles, deletion goes through.
	require.NoError(t, bk.Cancel(""))
	require.NoError(t, f.bookings.Update(ctx, bk))
	require.NoError(t, f.svc.DeleteRoom(ctx, f.adminID, created.ID))
}

func TestRoomService_MaintenanceCycle(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRoom(ctx, f.adminID, CreateRoomRequest{
		RoomNumber: "101", RoomType: "dorm", Capacity: 4, PriceCents: 2000,
	})
	require.NoError(t, err)

	rm, err := f.rooms.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NoError(t, rm.Reserve(2))
	require.NoError(t, f.rooms.Update(ctx, rm))

	dto, err := f.svc.SetMaintenance(ctx, f.adminID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(roomDomain.StatusMaintenance), dto.Status)
	assert.Equal(t, 2, dto.Occupied)

	// Clearing maintenance re-derives status from occupancy.
	dto, err = f.svc.ClearMaintenance(ctx, f.adminID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(roomDomain.StatusOccupied), dto.Status)
}

func TestRoomService_MarkCleaned(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRoom(ctx, f.adminID, CreateRoomRequest{
		RoomNumber: "101", RoomType: "dorm", Capacity: 4, PriceCents: 2000,
	})
	require.NoError(t, err)
	require.Nil(t, created.LastCleaned)

	dto, err := f.svc.MarkCleaned(ctx, f.adminID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, dto.LastCleaned)
	assert.WithinDuration(t, time.Now(), *dto.LastCleaned, 5*time.Second)
}

func TestRoomService_SyncOccupancyRepairsDrift(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRoom(ctx, f.adminID, CreateRoomRequest{
		RoomNumber: "101", RoomType: "dorm", Capacity: 6, PriceCents: 2000,
	})
	require.NoError(t, err)

	// Two active bookings hold 3 beds; the cached counter has drifted to 5.
	f.seedActiveBooking(t, created.ID, 2)
	f.seedActiveBooking(t, created.ID, 1)
	rm, err := f.rooms.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NoError(t, rm.SetOccupied(5))
	require.NoError(t, f.rooms.Update(ctx, rm))

	res, err := f.svc.SyncOccupancy(ctx, f.adminID, created.ID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 5, res.OccupiedBefore)
	assert.Equal(t, 3, res.OccupiedAfter)
	assert.Equal(t, string(roomDomain.StatusOccupied), res.StatusAfter)

	// Idempotent: a second sync without booking changes is a no-op.
	res, err = f.svc.SyncOccupancy(ctx, f.adminID, created.ID)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 3, res.OccupiedAfter)
}

func TestRoomService_SyncAllOccupancy(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateRoom(ctx, f.adminID, CreateRoomRequest{
		RoomNumber: "101", RoomType: "dorm", Capacity: 4, PriceCents: 2000,
	})
	require.NoError(t, err)
	_, err = f.svc.CreateRoom(ctx, f.adminID, CreateRoomRequest{
		RoomNumber: "102", RoomType: "dorm", Capacity: 4, PriceCents: 2000,
	})
	require.NoError(t, err)

	f.seedActiveBooking(t, first.ID, 2)

	results, err := f.svc.SyncAllOccupancy(ctx, f.adminID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byNumber := make(map[string]SyncResultDTO, len(results))
	for _, res := range results {
		byNumber[res.RoomNumber] = res
	}
	assert.True(t, byNumber["101"].Changed)
	assert.Equal(t, 2, byNumber["101"].OccupiedAfter)
	assert.False(t, byNumber["102"].Changed)
}

func TestRoomService_TenancyHidesForeignRooms(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRoom(ctx, f.adminID, CreateRoomRequest{
		RoomNumber: "101", RoomType: "dorm", Capacity: 4, PriceCents: 2000,
	})
	require.NoError(t, err)

	otherAdmin := uuid.New()
	_, err = f.svc.GetRoom(ctx, otherAdmin, created.ID)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = f.svc.SyncOccupancy(ctx, otherAdmin, created.ID)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
