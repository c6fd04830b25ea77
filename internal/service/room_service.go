package service

import (
	"context"
	"strings"
	"time"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/internal/repository"
	"github.com/RohanLambture/InteractiveQ/pkg/errors"
	"github.com/RohanLambture/InteractiveQ/pkg/logger"
	"github.com/RohanLambture/InteractiveQ/pkg/roomcode"
	"github.com/google/uuid"
)

// RoomService owns room lifecycle: creation with a unique short code,
// joining, settings updates and the terminal end transition.
type RoomService struct {
	rooms     repository.RoomRepository
	snapshots *SnapshotService
	logger    *logger.Logger
}

// NewRoomService creates a new room service
func NewRoomService(rooms repository.RoomRepository, snapshots *SnapshotService, logger *logger.Logger) *RoomService {
	return &RoomService{
		rooms:     rooms,
		snapshots: snapshots,
		logger:    logger,
	}
}

// CreateRoom creates a room owned by ownerID. durationMinutes > 0 sets an
// advisory expiry; zero means the room never expires.
func (s *RoomService) CreateRoom(ctx context.Context, ownerID, name string, settings *domain.RoomSettingsPatch, durationMinutes int) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("Room name is required")
	}
	if durationMinutes < 0 {
		return nil, errors.NewValidationError("Duration must be positive")
	}

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	room := &domain.Room{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		OwnerID:   ownerID,
		Settings:  settings.Apply(domain.DefaultRoomSettings()),
		Status:    domain.RoomStatusActive,
		CreatedAt: now,
	}
	if durationMinutes > 0 {
		expiresAt := now.Add(time.Duration(durationMinutes) * time.Minute)
		room.ExpiresAt = &expiresAt
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, errors.NewInternalError("Failed to create room", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"room_id": room.ID,
		"code":    room.Code,
		"owner":   ownerID,
	}).Info("Room created")

	return room, nil
}

// generateUniqueCode samples codes until one not present in the store is
// found. Codes stay unique among all rooms ever created, ended ones
// included, so a lookup is never ambiguous.
func (s *RoomService) generateUniqueCode(ctx context.Context) (string, error) {
	for {
		code, err := roomcode.Generate()
		if err != nil {
			return "", errors.NewInternalError("Failed to generate room code", err)
		}
		exists, err := s.rooms.CodeExists(ctx, code)
		if err != nil {
			return "", errors.NewInternalError("Failed to check room code", err)
		}
		if !exists {
			return code, nil
		}
	}
}

// JoinRoom looks up a room by exact code. Only active rooms whose expiry
// has not passed are joinable; everything else is reported as not found,
// whether or not the code ever existed.
func (s *RoomService) JoinRoom(ctx context.Context, code string) (*domain.Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !roomcode.Valid(code) {
		return nil, errors.NewValidationError("Invalid room code")
	}

	room, err := s.rooms.GetJoinable(ctx, code, time.Now().UTC())
	if err != nil {
		return nil, errors.NewInternalError("Failed to look up room", err)
	}
	if room == nil {
		return nil, errors.NewNotFoundError("Room not found or inactive")
	}
	return room, nil
}

// GetRoom retrieves a room by ID
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to get room", err)
	}
	if room == nil {
		return nil, errors.NewNotFoundError("Room not found")
	}
	return room, nil
}

// ListOwnerRooms retrieves rooms owned by ownerID, newest first
func (s *RoomService) ListOwnerRooms(ctx context.Context, ownerID string) ([]*domain.Room, error) {
	rooms, err := s.rooms.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to list rooms", err)
	}
	if rooms == nil {
		rooms = []*domain.Room{}
	}
	return rooms, nil
}

// EndRoom sets the room status to ended. The transition is terminal and
// owner-only.
func (s *RoomService) EndRoom(ctx context.Context, roomID, requesterID string) (*domain.Room, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.OwnerID != requesterID {
		return nil, errors.NewAuthorizationError("Only room owner can end the session")
	}

	ended, err := s.rooms.End(ctx, roomID, time.Now().UTC())
	if err != nil {
		return nil, errors.NewInternalError("Failed to end room", err)
	}
	if ended == nil {
		return nil, errors.NewNotFoundError("Room not found")
	}

	s.snapshots.InvalidateRoom(ctx, roomID)
	s.logger.WithField("room_id", roomID).Info("Room ended")
	return ended, nil
}

// UpdateSettings shallow-merges the patch over the room's settings;
// fields absent from the patch are preserved. Owner-only.
func (s *RoomService) UpdateSettings(ctx context.Context, roomID, requesterID string, patch *domain.RoomSettingsPatch) (*domain.Room, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.OwnerID != requesterID {
		return nil, errors.NewAuthorizationError("Not authorized")
	}

	updated, err := s.rooms.MergeSettings(ctx, roomID, patch)
	if err != nil {
		return nil, errors.NewInternalError("Failed to update settings", err)
	}
	if updated == nil {
		return nil, errors.NewNotFoundError("Room not found")
	}

	s.snapshots.InvalidateRoom(ctx, roomID)
	return updated, nil
}
