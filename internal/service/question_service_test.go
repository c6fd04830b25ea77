package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
)

func TestQuestionServiceSubmit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Q&A", nil, 0)
	require.NoError(t, err)

	t.Run("authenticated submission records the author", func(t *testing.T) {
		q, err := env.questions.Submit(ctx, room.ID, "user-1", "What is the roadmap?", false)
		require.NoError(t, err)
		assert.Equal(t, "user-1", q.AuthorID)
		assert.False(t, q.IsAnonymous)
		assert.Equal(t, domain.QuestionStatusApproved, q.Status)
		assert.Empty(t, q.Votes)
		assert.Empty(t, q.Answers)
	})

	t.Run("anonymous submission never stores the author", func(t *testing.T) {
		q, err := env.questions.Submit(ctx, room.ID, "user-1", "Asking anonymously", true)
		require.NoError(t, err)
		assert.Empty(t, q.AuthorID)
		assert.True(t, q.IsAnonymous)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		_, err := env.questions.Submit(ctx, room.ID, "user-1", "   ", false)
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := env.questions.Submit(ctx, "missing", "user-1", "Hello?", false)
		appErr := requireAppError(t, err, http.StatusNotFound)
		assert.Equal(t, "Room not found or inactive", appErr.Message)
	})
}

func TestQuestionServiceSubmitModeratedRoom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Moderated", &domain.RoomSettingsPatch{
		RequireModeration: boolPtr(true),
	}, 0)
	require.NoError(t, err)

	q, err := env.questions.Submit(ctx, room.ID, "user-1", "Needs review", false)
	require.NoError(t, err)
	assert.Equal(t, domain.QuestionStatusPending, q.Status)
}

func TestQuestionServiceSubmitAnonymousDisallowed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Named only", &domain.RoomSettingsPatch{
		AllowAnonymousQuestions: boolPtr(false),
	}, 0)
	require.NoError(t, err)

	_, err = env.questions.Submit(ctx, room.ID, "user-1", "Sneaky", true)
	requireAppError(t, err, http.StatusBadRequest)

	// Named submissions still go through
	_, err = env.questions.Submit(ctx, room.ID, "user-1", "Open question", false)
	assert.NoError(t, err)
}

func TestQuestionServiceSubmitEndedRoom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Closing", nil, 0)
	require.NoError(t, err)
	_, err = env.rooms.EndRoom(ctx, room.ID, "owner-1")
	require.NoError(t, err)

	_, err = env.questions.Submit(ctx, room.ID, "user-1", "Too late", false)
	requireAppError(t, err, http.StatusNotFound)
}

func TestQuestionServiceToggleVote(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Voting", nil, 0)
	require.NoError(t, err)
	q, err := env.questions.Submit(ctx, room.ID, "user-1", "Upvote me", false)
	require.NoError(t, err)

	voted, err := env.questions.ToggleVote(ctx, q.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 1, voted.VoteCount())

	retracted, err := env.questions.ToggleVote(ctx, q.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 0, retracted.VoteCount())

	_, err = env.questions.ToggleVote(ctx, "missing", "user-2")
	requireAppError(t, err, http.StatusNotFound)
}

func TestQuestionServiceSetStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Moderation", &domain.RoomSettingsPatch{
		RequireModeration: boolPtr(true),
	}, 0)
	require.NoError(t, err)
	q, err := env.questions.Submit(ctx, room.ID, "user-1", "Judge me", false)
	require.NoError(t, err)

	t.Run("unknown status rejected before any lookup", func(t *testing.T) {
		_, err := env.questions.SetStatus(ctx, q.ID, "owner-1", "archived")
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, "Invalid question status", appErr.Message)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := env.questions.SetStatus(ctx, q.ID, "user-1", domain.QuestionStatusApproved)
		requireAppError(t, err, http.StatusForbidden)
	})

	t.Run("owner moves through moderation states", func(t *testing.T) {
		updated, err := env.questions.SetStatus(ctx, q.ID, "owner-1", domain.QuestionStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, domain.QuestionStatusApproved, updated.Status)

		updated, err = env.questions.SetStatus(ctx, q.ID, "owner-1", domain.QuestionStatusAnswered)
		require.NoError(t, err)
		assert.Equal(t, domain.QuestionStatusAnswered, updated.Status)
	})
}

func TestQuestionServiceAddAnswer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Answers", nil, 0)
	require.NoError(t, err)
	q, err := env.questions.Submit(ctx, room.ID, "user-1", "Anyone?", false)
	require.NoError(t, err)

	t.Run("answers accumulate in order", func(t *testing.T) {
		updated, err := env.questions.AddAnswer(ctx, q.ID, "First take", "Host")
		require.NoError(t, err)
		require.Len(t, updated.Answers, 1)

		updated, err = env.questions.AddAnswer(ctx, q.ID, "Second take", "Panelist")
		require.NoError(t, err)
		require.Len(t, updated.Answers, 2)
		assert.Equal(t, "First take", updated.Answers[0].Text)
		assert.Equal(t, "Panelist", updated.Answers[1].Author)
	})

	t.Run("text and author required", func(t *testing.T) {
		_, err := env.questions.AddAnswer(ctx, q.ID, "  ", "Host")
		requireAppError(t, err, http.StatusBadRequest)
		_, err = env.questions.AddAnswer(ctx, q.ID, "Body", " ")
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("unknown question", func(t *testing.T) {
		_, err := env.questions.AddAnswer(ctx, "missing", "Body", "Host")
		requireAppError(t, err, http.StatusNotFound)
	})
}

func TestQuestionServiceRemove(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Cleanup", nil, 0)
	require.NoError(t, err)
	q, err := env.questions.Submit(ctx, room.ID, "user-1", "Delete me", false)
	require.NoError(t, err)

	err = env.questions.Remove(ctx, q.ID, "user-1")
	requireAppError(t, err, http.StatusForbidden)

	require.NoError(t, env.questions.Remove(ctx, q.ID, "owner-1"))

	questions, err := env.questions.ListRoomQuestions(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, questions)

	err = env.questions.Remove(ctx, q.ID, "owner-1")
	requireAppError(t, err, http.StatusNotFound)
}

func TestQuestionServiceListNewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Ordering", nil, 0)
	require.NoError(t, err)

	base := time.Now().UTC()
	for i, content := range []string{"First", "Second", "Third"} {
		require.NoError(t, env.repos.Questions.Create(ctx, &domain.Question{
			ID:        content,
			RoomID:    room.ID,
			Content:   content,
			Votes:     []string{},
			Status:    domain.QuestionStatusApproved,
			Answers:   []domain.Answer{},
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	questions, err := env.questions.ListRoomQuestions(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "Third", questions[0].ID)
	assert.Equal(t, "Second", questions[1].ID)
	assert.Equal(t, "First", questions[2].ID)
}
