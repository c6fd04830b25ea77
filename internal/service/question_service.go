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

// QuestionService owns the question board: submission with optional
// anonymity, toggle voting, moderation transitions, threaded answers and
// deletion.
type QuestionService struct {
	questions repository.QuestionRepository
	rooms     repository.RoomRepository
	snapshots *SnapshotService
	logger    *logger.Logger
}

// NewQuestionService creates a new question service
func NewQuestionService(questions repository.QuestionRepository, rooms repository.RoomRepository, snapshots *SnapshotService, logger *logger.Logger) *QuestionService {
	return &QuestionService{
		questions: questions,
		rooms:     rooms,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Submit creates a question in the room. Anonymous submissions never store
// the author, even when an authenticated identity is available. The initial
// status is pending when the room requires moderation, approved otherwise.
func (s *QuestionService) Submit(ctx context.Context, roomID, authorID, content string, isAnonymous bool) (*domain.Question, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.NewValidationError("Question content is required")
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to get room", err)
	}
	if room == nil || room.Status != domain.RoomStatusActive {
		return nil, errors.NewNotFoundError("Room not found or inactive")
	}
	if isAnonymous && !room.Settings.AllowAnonymousQuestions {
		return nil, errors.NewValidationError("Anonymous questions are not allowed in this room")
	}

	status := domain.QuestionStatusApproved
	if room.Settings.RequireModeration {
		status = domain.QuestionStatusPending
	}

	question := &domain.Question{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		Content:     content,
		IsAnonymous: isAnonymous,
		Votes:       []string{},
		Status:      status,
		Answers:     []domain.Answer{},
		CreatedAt:   time.Now().UTC(),
	}
	if !isAnonymous {
		question.AuthorID = authorID
	}

	if err := s.questions.Create(ctx, question); err != nil {
		return nil, errors.NewInternalError("Failed to create question", err)
	}

	s.snapshots.InvalidateRoom(ctx, roomID)
	s.logger.WithFields(map[string]interface{}{
		"question_id": question.ID,
		"room_id":     roomID,
		"anonymous":   isAnonymous,
	}).Info("Question submitted")

	return question, nil
}

// ToggleVote flips the user's membership in the question's voter set:
// voting again retracts the prior vote.
func (s *QuestionService) ToggleVote(ctx context.Context, questionID, userID string) (*domain.Question, error) {
	question, err := s.questions.ToggleVote(ctx, questionID, userID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to toggle vote", err)
	}
	if question == nil {
		return nil, errors.NewNotFoundError("Question not found")
	}

	s.snapshots.InvalidateRoom(ctx, question.RoomID)
	return question, nil
}

// SetStatus updates the moderation status. Only the owner of the
// question's room may do this, and the status must be one of the defined
// moderation states.
func (s *QuestionService) SetStatus(ctx context.Context, questionID, requesterID string, status domain.QuestionStatus) (*domain.Question, error) {
	if !domain.ValidQuestionStatus(status) {
		return nil, errors.NewValidationError("Invalid question status")
	}

	question, err := s.getQuestionForOwner(ctx, questionID, requesterID)
	if err != nil {
		return nil, err
	}

	updated, err := s.questions.SetStatus(ctx, question.ID, status)
	if err != nil {
		return nil, errors.NewInternalError("Failed to set question status", err)
	}
	if updated == nil {
		return nil, errors.NewNotFoundError("Question not found")
	}

	s.snapshots.InvalidateRoom(ctx, updated.RoomID)
	return updated, nil
}

// AddAnswer appends an answer to the question's thread. Any caller may
// answer; the author is a free-text label, not a verified identity.
func (s *QuestionService) AddAnswer(ctx context.Context, questionID, text, authorLabel string) (*domain.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NewValidationError("Answer text is required")
	}
	if strings.TrimSpace(authorLabel) == "" {
		return nil, errors.NewValidationError("Answer author is required")
	}

	answer := domain.Answer{
		Text:      text,
		Author:    authorLabel,
		CreatedAt: time.Now().UTC(),
	}
	question, err := s.questions.AppendAnswer(ctx, questionID, answer)
	if err != nil {
		return nil, errors.NewInternalError("Failed to add answer", err)
	}
	if question == nil {
		return nil, errors.NewNotFoundError("Question not found")
	}

	s.snapshots.InvalidateRoom(ctx, question.RoomID)
	return question, nil
}

// Remove permanently deletes a question. Owner-only.
func (s *QuestionService) Remove(ctx context.Context, questionID, requesterID string) error {
	question, err := s.getQuestionForOwner(ctx, questionID, requesterID)
	if err != nil {
		return err
	}

	if err := s.questions.Delete(ctx, questionID); err != nil {
		return errors.NewInternalError("Failed to delete question", err)
	}

	s.snapshots.InvalidateRoom(ctx, question.RoomID)
	s.logger.WithField("question_id", questionID).Info("Question deleted")
	return nil
}

// ListRoomQuestions retrieves a room's questions, newest first
func (s *QuestionService) ListRoomQuestions(ctx context.Context, roomID string) ([]*domain.Question, error) {
	questions, err := s.questions.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to list questions", err)
	}
	if questions == nil {
		questions = []*domain.Question{}
	}
	return questions, nil
}

// getQuestionForOwner loads the question and verifies that requesterID
// owns the question's room
func (s *QuestionService) getQuestionForOwner(ctx context.Context, questionID, requesterID string) (*domain.Question, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to get question", err)
	}
	if question == nil {
		return nil, errors.NewNotFoundError("Question not found")
	}

	room, err := s.rooms.GetByID(ctx, question.RoomID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to get room", err)
	}
	if room == nil {
		return nil, errors.NewNotFoundError("Room not found")
	}
	if room.OwnerID != requesterID {
		return nil, errors.NewAuthorizationError("Not authorized")
	}
	return question, nil
}
