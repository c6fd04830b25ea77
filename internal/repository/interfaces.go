package repository

import (
	"context"
	"errors"
	"time"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
)

// Sentinel errors returned by atomic mutation operations. Services classify
// them into boundary errors.
var (
	// ErrAlreadyVoted is returned when a user already appears in a poll's
	// voter list
	ErrAlreadyVoted = errors.New("user has already voted")

	// ErrPollEnded is returned when a vote targets a poll whose status is
	// no longer active
	ErrPollEnded = errors.New("poll has ended")

	// ErrOptionOutOfRange is returned when a vote references an option
	// index outside the poll's options
	ErrOptionOutOfRange = errors.New("option index out of range")
)

// RoomRepository defines the interface for room data operations.
// Lookups return (nil, nil) when no row matches.
type RoomRepository interface {
	// Create persists a new room
	Create(ctx context.Context, room *domain.Room) error

	// GetByID retrieves a room by ID
	GetByID(ctx context.Context, id string) (*domain.Room, error)

	// GetJoinable retrieves a room by exact code where status is active
	// and the expiry, if set, is after now
	GetJoinable(ctx context.Context, code string, now time.Time) (*domain.Room, error)

	// CodeExists reports whether any room, active or not, holds the code
	CodeExists(ctx context.Context, code string) (bool, error)

	// ListByOwner retrieves an owner's rooms, newest first
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Room, error)

	// End marks a room ended at the given time and returns the updated
	// room, or (nil, nil) if the room is absent
	End(ctx context.Context, id string, endedAt time.Time) (*domain.Room, error)

	// MergeSettings shallow-merges the patch over the room's settings as
	// one atomic update and returns the updated room
	MergeSettings(ctx context.Context, id string, patch *domain.RoomSettingsPatch) (*domain.Room, error)
}

// QuestionRepository defines the interface for question data operations
type QuestionRepository interface {
	// Create persists a new question
	Create(ctx context.Context, question *domain.Question) error

	// GetByID retrieves a question by ID
	GetByID(ctx context.Context, id string) (*domain.Question, error)

	// ListByRoom retrieves a room's questions, newest first
	ListByRoom(ctx context.Context, roomID string) ([]*domain.Question, error)

	// ToggleVote atomically adds userID to the voter set if absent, or
	// removes it if present, and returns the updated question
	ToggleVote(ctx context.Context, id, userID string) (*domain.Question, error)

	// SetStatus updates the moderation status and returns the updated
	// question
	SetStatus(ctx context.Context, id string, status domain.QuestionStatus) (*domain.Question, error)

	// AppendAnswer atomically appends an answer and returns the updated
	// question
	AppendAnswer(ctx context.Context, id string, answer domain.Answer) (*domain.Question, error)

	// Delete permanently removes a question. Deleting an absent question
	// is not an error.
	Delete(ctx context.Context, id string) error
}

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	// Create persists a new poll
	Create(ctx context.Context, poll *domain.Poll) error

	// GetByID retrieves a poll by ID
	GetByID(ctx context.Context, id string) (*domain.Poll, error)

	// ListByRoom retrieves a room's polls, newest first
	ListByRoom(ctx context.Context, roomID string) ([]*domain.Poll, error)

	// AddVote atomically increments the targeted option's counter and
	// appends the voter record. It returns ErrAlreadyVoted, ErrPollEnded
	// or ErrOptionOutOfRange without mutating state when the vote is not
	// admissible.
	AddVote(ctx context.Context, id string, voter domain.PollVoter, optionIndex int) (*domain.Poll, error)

	// End marks a poll ended and returns the updated poll
	End(ctx context.Context, id string) (*domain.Poll, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create persists a new user
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Rooms     RoomRepository
	Questions QuestionRepository
	Polls     PollRepository
	Users     UserRepository
}
