package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/internal/repository"
	"github.com/RohanLambture/InteractiveQ/pkg/errors"
	"github.com/RohanLambture/InteractiveQ/pkg/logger"
	"github.com/RohanLambture/InteractiveQ/pkg/redis"
)

// SnapshotService composes room, question board and poll state into one
// consistent read model for polling clients. Snapshots are produced on
// demand and optionally cached in Redis with a TTL shorter than the client
// poll interval; they are never persisted.
type SnapshotService struct {
	rooms     repository.RoomRepository
	questions repository.QuestionRepository
	polls     repository.PollRepository
	cache     *redis.Client
	logger    *logger.Logger
}

// NewSnapshotService creates a new snapshot service. cache may be nil, in
// which case every read goes to the store.
func NewSnapshotService(repos *repository.Repositories, cache *redis.Client, logger *logger.Logger) *SnapshotService {
	return &SnapshotService{
		rooms:     repos.Rooms,
		questions: repos.Questions,
		polls:     repos.Polls,
		cache:     cache,
		logger:    logger,
	}
}

// GetSnapshot aggregates the room, its questions and its polls, each list
// ordered newest first. The three stores are read independently, so a
// reader may observe a room marked ended alongside slightly older lists;
// convergence is bounded by the client poll interval.
func (s *SnapshotService) GetSnapshot(ctx context.Context, roomID string) (*domain.RoomSnapshot, error) {
	if cached := s.fromCache(ctx, roomID); cached != nil {
		return cached, nil
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to get room", err)
	}
	if room == nil {
		return nil, errors.NewNotFoundError("Room not found")
	}

	questions, err := s.questions.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to list questions", err)
	}
	polls, err := s.polls.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to list polls", err)
	}
	if questions == nil {
		questions = []*domain.Question{}
	}
	if polls == nil {
		polls = []*domain.Poll{}
	}

	snapshot := &domain.RoomSnapshot{
		Room:        room,
		Questions:   questions,
		Polls:       polls,
		GeneratedAt: time.Now().UTC(),
	}
	s.toCache(ctx, roomID, snapshot)
	return snapshot, nil
}

// InvalidateRoom drops the cached snapshot after a mutation. Safe to call
// without a cache; failures are logged and swallowed since the TTL bounds
// staleness anyway.
func (s *SnapshotService) InvalidateRoom(ctx context.Context, roomID string) {
	if s.cache == nil {
		return
	}
	key := s.cache.KeyBuilder.KeyRoomSnapshot(roomID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("room_id", roomID).Warn("Failed to invalidate snapshot cache")
	}
}

func (s *SnapshotService) fromCache(ctx context.Context, roomID string) *domain.RoomSnapshot {
	if s.cache == nil {
		return nil
	}
	key := s.cache.KeyBuilder.KeyRoomSnapshot(roomID)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			s.logger.WithError(err).WithField("room_id", roomID).Warn("Snapshot cache error, falling back to store")
		}
		return nil
	}
	var snapshot domain.RoomSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		s.logger.WithError(err).WithField("room_id", roomID).Warn("Snapshot cache corrupted, falling back to store")
		return nil
	}
	return &snapshot
}

func (s *SnapshotService) toCache(ctx context.Context, roomID string, snapshot *domain.RoomSnapshot) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode snapshot for cache")
		return
	}
	key := s.cache.KeyBuilder.KeyRoomSnapshot(roomID)
	if err := s.cache.Set(ctx, key, data, redis.TTLRoomSnapshot); err != nil {
		s.logger.WithError(err).WithField("room_id", roomID).Warn("Failed to cache snapshot")
	}
}
