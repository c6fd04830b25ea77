package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestRoomSettingsPatchApply(t *testing.T) {
	base := DefaultRoomSettings()

	t.Run("nil patch leaves settings unchanged", func(t *testing.T) {
		var p *RoomSettingsPatch
		assert.Equal(t, base, p.Apply(base))
	})

	t.Run("empty patch leaves settings unchanged", func(t *testing.T) {
		assert.Equal(t, base, (&RoomSettingsPatch{}).Apply(base))
	})

	t.Run("single field patch preserves the rest", func(t *testing.T) {
		got := (&RoomSettingsPatch{RequireModeration: boolPtr(true)}).Apply(base)
		assert.True(t, got.RequireModeration)
		assert.True(t, got.AllowAnonymousQuestions)
		assert.True(t, got.AllowAnonymousPolls)
		assert.Equal(t, 100, got.ParticipantLimit)
	})

	t.Run("explicit false is applied, not treated as unset", func(t *testing.T) {
		got := (&RoomSettingsPatch{AllowAnonymousQuestions: boolPtr(false)}).Apply(base)
		assert.False(t, got.AllowAnonymousQuestions)
	})

	t.Run("full patch replaces everything", func(t *testing.T) {
		got := (&RoomSettingsPatch{
			AllowAnonymousQuestions: boolPtr(false),
			AllowAnonymousPolls:     boolPtr(false),
			RequireModeration:       boolPtr(true),
			ParticipantLimit:        intPtr(25),
		}).Apply(base)
		assert.Equal(t, RoomSettings{
			AllowAnonymousQuestions: false,
			AllowAnonymousPolls:     false,
			RequireModeration:       true,
			ParticipantLimit:        25,
		}, got)
	})
}

func TestRoomIsJoinable(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		room Room
		want bool
	}{
		{"active without expiry", Room{Status: RoomStatusActive}, true},
		{"active before expiry", Room{Status: RoomStatusActive, ExpiresAt: &future}, true},
		{"active past expiry", Room{Status: RoomStatusActive, ExpiresAt: &past}, false},
		{"expiry exactly now", Room{Status: RoomStatusActive, ExpiresAt: &now}, false},
		{"ended", Room{Status: RoomStatusEnded}, false},
		{"ended with future expiry", Room{Status: RoomStatusEnded, ExpiresAt: &future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.room.IsJoinable(now))
		})
	}
}

func TestValidQuestionStatus(t *testing.T) {
	for _, s := range []QuestionStatus{QuestionStatusPending, QuestionStatusApproved, QuestionStatusRejected, QuestionStatusAnswered} {
		assert.True(t, ValidQuestionStatus(s), string(s))
	}
	for _, s := range []QuestionStatus{"", "archived", "Approved", "deleted"} {
		assert.False(t, ValidQuestionStatus(s), string(s))
	}
}

func TestPollTotals(t *testing.T) {
	poll := Poll{
		Options: []PollOption{{Text: "Go", Votes: 3}, {Text: "Rust", Votes: 1}},
		Voters: []PollVoter{
			{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"}, {UserID: "u4", Anonymous: true},
		},
	}
	assert.Equal(t, 4, poll.TotalVotes())
	assert.True(t, poll.HasVoted("u2"))
	assert.False(t, poll.HasVoted("u9"))
}
