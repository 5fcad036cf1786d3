package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/roomboard/internal/persistence"
)

func TestRoomPostRepository(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	seedUser(t, storage, "alice")
	seedUser(t, storage, "bob")

	late := seedPost(t, storage, "alice", "2024-05-02", "09:00")
	early := seedPost(t, storage, "bob", "2024-05-01", "14:00")
	earliest := seedPost(t, storage, "alice", "2024-05-01", "08:00")

	all, err := storage.RoomPosts.ListRoomPosts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{earliest.ID, early.ID, late.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	mine, err := storage.RoomPosts.ListRoomPosts(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := storage.RoomPosts.ListRoomPosts(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	late.Capacity = 45
	late.Resources = "projector"
	updated, err := storage.RoomPosts.UpdateRoomPost(ctx, late)
	require.NoError(t, err)
	assert.Equal(t, 45, updated.Capacity)
	assert.Equal(t, "projector", updated.Resources)
	assert.Equal(t, "alice", updated.PostedBy)

	missing := late
	missing.ID = 9999
	_, err = storage.RoomPosts.UpdateRoomPost(ctx, missing)
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	require.NoError(t, storage.RoomPosts.DeleteRoomPost(ctx, late.ID))
	assert.ErrorIs(t, storage.RoomPosts.DeleteRoomPost(ctx, late.ID), persistence.ErrNotFound)
	_, err = storage.RoomPosts.GetRoomPost(ctx, late.ID)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestRoomPostRepository_Constraints(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	seedUser(t, storage, "alice")

	base := persistence.RoomPost{
		Room: "101", Date: "2024-05-01", StartTime: "10:00", EndTime: "11:00",
		PostedBy: "alice", Description: "Lecture", Location: "Bldg A", Capacity: 10,
		CreatedAt: testNow, UpdatedAt: testNow,
	}

	unknown := base
	unknown.PostedBy = "ghost"
	_, err := storage.RoomPosts.CreateRoomPost(ctx, unknown)
	assert.ErrorIs(t, err, persistence.ErrConstraintViolation)

	backwards := base
	backwards.EndTime = "09:00"
	_, err = storage.RoomPosts.CreateRoomPost(ctx, backwards)
	assert.ErrorIs(t, err, persistence.ErrConstraintViolation)

	empty := base
	empty.Capacity = 0
	_, err = storage.RoomPosts.CreateRoomPost(ctx, empty)
	assert.ErrorIs(t, err, persistence.ErrConstraintViolation)
}

func TestRoomRequestRepository(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	seedUser(t, storage, "alice")
	seedUser(t, storage, "bob")

	newRequest := func(by, date string) persistence.RoomRequest {
		request, err := storage.RoomRequests.CreateRoomRequest(ctx, persistence.RoomRequest{
			Date: date, StartTime: "13:00", EndTime: "15:00",
			Description: "Seminar", Location: "Bldg B", Capacity: 40,
			RequestedBy: by, CreatedAt: testNow, UpdatedAt: testNow,
		})
		require.NoError(t, err)
		return request
	}

	second := newRequest("alice", "2024-05-03")
	first := newRequest("bob", "2024-05-02")

	all, err := storage.RoomRequests.ListRoomRequests(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	mine, err := storage.RoomRequests.ListRoomRequests(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	second.Capacity = 60
	updated, err := storage.RoomRequests.UpdateRoomRequest(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 60, updated.Capacity)

	got, err := storage.RoomRequests.GetRoomRequest(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.RequestedBy)

	require.NoError(t, storage.RoomRequests.DeleteRoomRequest(ctx, second.ID))
	assert.ErrorIs(t, storage.RoomRequests.DeleteRoomRequest(ctx, second.ID), persistence.ErrNotFound)
}
