package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
)

func TestPollServiceCreate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Polling", nil, 0)
	require.NoError(t, err)

	t.Run("owner creates a poll", func(t *testing.T) {
		poll, err := env.polls.Create(ctx, room.ID, "owner-1", "Tabs or spaces?", []string{"Tabs", "Spaces"})
		require.NoError(t, err)
		assert.Equal(t, domain.PollStatusActive, poll.Status)
		require.Len(t, poll.Options, 2)
		assert.Equal(t, 0, poll.Options[0].Votes)
		assert.Empty(t, poll.Voters)
	})

	t.Run("options are trimmed and blanks dropped", func(t *testing.T) {
		poll, err := env.polls.Create(ctx, room.ID, "owner-1", "Pick one", []string{" A ", "", "  ", "B"})
		require.NoError(t, err)
		require.Len(t, poll.Options, 2)
		assert.Equal(t, "A", poll.Options[0].Text)
		assert.Equal(t, "B", poll.Options[1].Text)
	})

	t.Run("fewer than two usable options rejected", func(t *testing.T) {
		_, err := env.polls.Create(ctx, room.ID, "owner-1", "Pick one", []string{"Only", "  "})
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, "At least 2 options required", appErr.Message)
	})

	t.Run("question required", func(t *testing.T) {
		_, err := env.polls.Create(ctx, room.ID, "owner-1", " ", []string{"A", "B"})
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := env.polls.Create(ctx, room.ID, "user-1", "Allowed?", []string{"Yes", "No"})
		appErr := requireAppError(t, err, http.StatusForbidden)
		assert.Equal(t, "Only room owner can create polls", appErr.Message)
	})

	t.Run("ended room rejects new polls", func(t *testing.T) {
		closing, err := env.rooms.CreateRoom(ctx, "owner-1", "Closing", nil, 0)
		require.NoError(t, err)
		_, err = env.rooms.EndRoom(ctx, closing.ID, "owner-1")
		require.NoError(t, err)

		_, err = env.polls.Create(ctx, closing.ID, "owner-1", "Too late?", []string{"Yes", "No"})
		requireAppError(t, err, http.StatusNotFound)
	})
}

func TestPollServiceVote(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Voting", nil, 0)
	require.NoError(t, err)
	poll, err := env.polls.Create(ctx, room.ID, "owner-1", "Tabs or spaces?", []string{"Tabs", "Spaces"})
	require.NoError(t, err)

	t.Run("first vote lands", func(t *testing.T) {
		voted, err := env.polls.Vote(ctx, poll.ID, "user-1", 1, false)
		require.NoError(t, err)
		assert.Equal(t, 1, voted.Options[1].Votes)
		require.Len(t, voted.Voters, 1)
		assert.Equal(t, "user-1", voted.Voters[0].UserID)
	})

	t.Run("second vote by same user conflicts", func(t *testing.T) {
		_, err := env.polls.Vote(ctx, poll.ID, "user-1", 0, false)
		appErr := requireAppError(t, err, http.StatusConflict)
		assert.Equal(t, "Already voted in this poll", appErr.Message)
	})

	t.Run("second vote conflicts even with an out of range index", func(t *testing.T) {
		_, err := env.polls.Vote(ctx, poll.ID, "user-1", 7, false)
		appErr := requireAppError(t, err, http.StatusConflict)
		assert.Equal(t, "Already voted in this poll", appErr.Message)
	})

	t.Run("out of range index is a validation error", func(t *testing.T) {
		_, err := env.polls.Vote(ctx, poll.ID, "user-2", 5, false)
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, "Invalid option index", appErr.Message)
	})

	t.Run("anonymous flag is recorded on the voter", func(t *testing.T) {
		voted, err := env.polls.Vote(ctx, poll.ID, "user-3", 0, true)
		require.NoError(t, err)
		require.Len(t, voted.Voters, 2)
		assert.True(t, voted.Voters[1].Anonymous)
	})

	t.Run("unknown poll", func(t *testing.T) {
		_, err := env.polls.Vote(ctx, "missing", "user-4", 0, false)
		requireAppError(t, err, http.StatusNotFound)
	})
}

func TestPollServiceVoteAfterEnd(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Finishing", nil, 0)
	require.NoError(t, err)
	poll, err := env.polls.Create(ctx, room.ID, "owner-1", "Last call", []string{"A", "B"})
	require.NoError(t, err)

	t.Run("non-owner cannot end", func(t *testing.T) {
		_, err := env.polls.End(ctx, poll.ID, "user-1")
		requireAppError(t, err, http.StatusForbidden)
	})

	ended, err := env.polls.End(ctx, poll.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PollStatusEnded, ended.Status)

	t.Run("vote after end conflicts and changes nothing", func(t *testing.T) {
		_, err := env.polls.Vote(ctx, poll.ID, "user-1", 0, false)
		appErr := requireAppError(t, err, http.StatusConflict)
		assert.Equal(t, "Poll has ended", appErr.Message)

		current, err := env.repos.Polls.GetByID(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, current.TotalVotes())
	})

	t.Run("ended poll still appears in listings with final tallies", func(t *testing.T) {
		polls, err := env.polls.ListRoomPolls(ctx, room.ID)
		require.NoError(t, err)
		require.Len(t, polls, 1)
		assert.Equal(t, domain.PollStatusEnded, polls[0].Status)
	})
}

func TestPollServiceConcurrentVotes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	room, err := env.rooms.CreateRoom(ctx, "owner-1", "Load", nil, 0)
	require.NoError(t, err)
	poll, err := env.polls.Create(ctx, room.ID, "owner-1", "Busy poll", []string{"A", "B", "C"})
	require.NoError(t, err)

	const voters = 60
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := env.polls.Vote(ctx, poll.ID, fmt.Sprintf("user-%d", n), n%3, false)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	final, err := env.repos.Polls.GetByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Len(t, final.Voters, voters)
	assert.Equal(t, voters, final.TotalVotes())
	for i, opt := range final.Options {
		assert.Equal(t, voters/3, opt.Votes, "option %d", i)
	}
}
