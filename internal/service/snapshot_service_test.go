package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RohanLambture/InteractiveQ/internal/repository/memory"
	"github.com/RohanLambture/InteractiveQ/pkg/logger"
	"github.com/RohanLambture/InteractiveQ/pkg/redis"
)

func newCachedTestEnv(t *testing.T) (*testEnv, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cache, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	log := logger.NewNop()
	repos := memory.NewRepositories()
	snapshots := NewSnapshotService(repos, cache, log)
	return &testEnv{
		repos:     repos,
		rooms:     NewRoomService(repos.Rooms, snapshots, log),
		questions: NewQuestionService(repos.Questions, repos.Rooms, snapshots, log),
		polls:     NewPollService(repos.Polls, repos.Rooms, snapshots, log),
		snapshots: snapshots,
	}, mr
}

func TestSnapshotServiceAggregates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Live", nil, 0)
	require.NoError(t, err)
	_, err = env.questions.Submit(ctx, room.ID, "user-1", "A question", false)
	require.NoError(t, err)
	_, err = env.polls.Create(ctx, room.ID, "owner-1", "A poll", []string{"A", "B"})
	require.NoError(t, err)

	snapshot, err := env.snapshots.GetSnapshot(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, snapshot.Room.ID)
	assert.Len(t, snapshot.Questions, 1)
	assert.Len(t, snapshot.Polls, 1)
	assert.WithinDuration(t, time.Now().UTC(), snapshot.GeneratedAt, 5*time.Second)
}

func TestSnapshotServiceUnknownRoom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	_, err := env.snapshots.GetSnapshot(ctx, "missing")
	require.Error(t, err)
	appErr := requireAppError(t, err, http.StatusNotFound)
	assert.Equal(t, "Room not found", appErr.Message)
}

func TestSnapshotServiceEmptyRoomHasEmptyLists(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Empty", nil, 0)
	require.NoError(t, err)

	snapshot, err := env.snapshots.GetSnapshot(ctx, room.ID)
	require.NoError(t, err)
	assert.NotNil(t, snapshot.Questions)
	assert.Empty(t, snapshot.Questions)
	assert.NotNil(t, snapshot.Polls)
	assert.Empty(t, snapshot.Polls)
}

func TestSnapshotServiceCaching(t *testing.T) {
	ctx := context.Background()
	env, mr := newCachedTestEnv(t)

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Cached", nil, 0)
	require.NoError(t, err)

	first, err := env.snapshots.GetSnapshot(ctx, room.ID)
	require.NoError(t, err)

	t.Run("repeat read inside the TTL is served from cache", func(t *testing.T) {
		second, err := env.snapshots.GetSnapshot(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, first.GeneratedAt.Unix(), second.GeneratedAt.Unix())
	})

	t.Run("expired entry falls back to the store", func(t *testing.T) {
		mr.FastForward(redis.TTLRoomSnapshot + time.Second)

		_, err := env.snapshots.GetSnapshot(ctx, room.ID)
		require.NoError(t, err)
	})
}

func TestSnapshotServiceInvalidationOnMutation(t *testing.T) {
	ctx := context.Background()
	env, _ := newCachedTestEnv(t)

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Fresh", nil, 0)
	require.NoError(t, err)

	snapshot, err := env.snapshots.GetSnapshot(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Questions)

	// A submitted question must show up in the very next read, even
	// though the previous snapshot was cached moments ago
	_, err = env.questions.Submit(ctx, room.ID, "user-1", "Visible immediately?", false)
	require.NoError(t, err)

	snapshot, err = env.snapshots.GetSnapshot(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, snapshot.Questions, 1)

	// Same for ending the room
	_, err = env.rooms.EndRoom(ctx, room.ID, "owner-1")
	require.NoError(t, err)

	snapshot, err = env.snapshots.GetSnapshot(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "ended", string(snapshot.Room.Status))
}

func TestSnapshotServiceCorruptedCacheEntry(t *testing.T) {
	ctx := context.Background()
	env, mr := newCachedTestEnv(t)

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Sturdy", nil, 0)
	require.NoError(t, err)

	// Poison the cache; reads must fall back to the store
	key := "staging:room:" + room.ID + ":snapshot"
	require.NoError(t, mr.Set(key, "{not json"))

	snapshot, err := env.snapshots.GetSnapshot(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, snapshot.Room.ID)
}
