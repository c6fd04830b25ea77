package service

import (
	"context"
	"strings"
	"time"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/internal/repository"
	"github.com/RohanLambture/InteractiveQ/pkg/errors"
	"github.com/RohanLambture/InteractiveQ/pkg/logger"
	"github.com/google/uuid"
)

// PollService owns polls: owner-only creation with at least two options,
// single-vote-per-participant casting and the end transition.
type PollService struct {
	polls     repository.PollRepository
	rooms     repository.RoomRepository
	snapshots *SnapshotService
	logger    *logger.Logger
}

// NewPollService creates a new poll service
func NewPollService(polls repository.PollRepository, rooms repository.RoomRepository, snapshots *SnapshotService, logger *logger.Logger) *PollService {
	return &PollService{
		polls:     polls,
		rooms:     rooms,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Create creates a poll in an active room. Only the room owner may create
// polls, and at least two non-empty options are required after trimming.
func (s *PollService) Create(ctx context.Context, roomID, requesterID, question string, options []string) (*domain.Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.NewValidationError("Poll question is required")
	}

	trimmed := make([]domain.PollOption, 0, len(options))
	for _, opt := range options {
		if text := strings.TrimSpace(opt); text != "" {
			trimmed = append(trimmed, domain.PollOption{Text: text, Votes: 0})
		}
	}
	if len(trimmed) < 2 {
		return nil, errors.NewValidationError("At least 2 options required")
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to get room", err)
	}
	if room == nil || room.Status != domain.RoomStatusActive {
		return nil, errors.NewNotFoundError("Room not found or inactive")
	}
	if room.OwnerID != requesterID {
		return nil, errors.NewAuthorizationError("Only room owner can create polls")
	}

	poll := &domain.Poll{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Question:  question,
		Options:   trimmed,
		Voters:    []domain.PollVoter{},
		Status:    domain.PollStatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.polls.Create(ctx, poll); err != nil {
		return nil, errors.NewInternalError("Failed to create poll", err)
	}

	s.snapshots.InvalidateRoom(ctx, roomID)
	s.logger.WithFields(map[string]interface{}{
		"poll_id": poll.ID,
		"room_id": roomID,
		"options": len(trimmed),
	}).Info("Poll created")

	return poll, nil
}

// Vote casts the user's single vote for one option. A second vote by the
// same user conflicts, an out-of-range option index is a validation error
// and an ended poll accepts no further votes. The counter increment and the
// voter record land atomically relative to other votes on the same poll.
func (s *PollService) Vote(ctx context.Context, pollID, userID string, optionIndex int, anonymous bool) (*domain.Poll, error) {
	voter := domain.PollVoter{UserID: userID, Anonymous: anonymous}
	poll, err := s.polls.AddVote(ctx, pollID, voter, optionIndex)
	if err != nil {
		switch err {
		case repository.ErrAlreadyVoted:
			return nil, errors.NewConflictError("Already voted in this poll")
		case repository.ErrOptionOutOfRange:
			return nil, errors.NewValidationError("Invalid option index")
		case repository.ErrPollEnded:
			return nil, errors.NewConflictError("Poll has ended")
		}
		return nil, errors.NewInternalError("Failed to cast vote", err)
	}
	if poll == nil {
		return nil, errors.NewNotFoundError("Poll not found")
	}

	s.snapshots.InvalidateRoom(ctx, poll.RoomID)
	return poll, nil
}

// End sets the poll status to ended. Owner-only; ended polls reject votes.
func (s *PollService) End(ctx context.Context, pollID, requesterID string) (*domain.Poll, error) {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to get poll", err)
	}
	if poll == nil {
		return nil, errors.NewNotFoundError("Poll not found")
	}

	room, err := s.rooms.GetByID(ctx, poll.RoomID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to get room", err)
	}
	if room == nil {
		return nil, errors.NewNotFoundError("Room not found")
	}
	if room.OwnerID != requesterID {
		return nil, errors.NewAuthorizationError("Not authorized")
	}

	ended, err := s.polls.End(ctx, pollID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to end poll", err)
	}
	if ended == nil {
		return nil, errors.NewNotFoundError("Poll not found")
	}

	s.snapshots.InvalidateRoom(ctx, ended.RoomID)
	s.logger.WithField("poll_id", pollID).Info("Poll ended")
	return ended, nil
}

// ListRoomPolls retrieves a room's polls, newest first
func (s *PollService) ListRoomPolls(ctx context.Context, roomID string) ([]*domain.Poll, error) {
	polls, err := s.polls.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to list polls", err)
	}
	if polls == nil {
		polls = []*domain.Poll{}
	}
	return polls, nil
}
