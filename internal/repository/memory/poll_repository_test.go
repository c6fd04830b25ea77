package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/internal/repository"
)

func newTestPoll(id, roomID string) *domain.Poll {
	return &domain.Poll{
		ID:       id,
		RoomID:   roomID,
		Question: "Which option?",
		Options: []domain.PollOption{
			{Text: "A"}, {Text: "B"},
		},
		Voters:    []domain.PollVoter{},
		Status:    domain.PollStatusActive,
		CreatedAt: time.Now().UTC(),
	}
}

func TestPollRepositoryAddVote(t *testing.T) {
	ctx := context.Background()
	repo := NewPollRepository()
	require.NoError(t, repo.Create(ctx, newTestPoll("p1", "r1")))

	poll, err := repo.AddVote(ctx, "p1", domain.PollVoter{UserID: "u1"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, poll.Options[0].Votes)
	assert.Equal(t, 0, poll.Options[1].Votes)
	require.Len(t, poll.Voters, 1)
	assert.Equal(t, "u1", poll.Voters[0].UserID)

	t.Run("second vote by same user is rejected for any option", func(t *testing.T) {
		_, err := repo.AddVote(ctx, "p1", domain.PollVoter{UserID: "u1"}, 1)
		assert.ErrorIs(t, err, repository.ErrAlreadyVoted)

		// even an out of range index reads as a duplicate, not a bad index
		_, err = repo.AddVote(ctx, "p1", domain.PollVoter{UserID: "u1"}, 7)
		assert.ErrorIs(t, err, repository.ErrAlreadyVoted)

		current, err := repo.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 1, current.TotalVotes())
	})

	t.Run("out of range index mutates nothing", func(t *testing.T) {
		for _, idx := range []int{-1, 2, 100} {
			_, err := repo.AddVote(ctx, "p1", domain.PollVoter{UserID: "u2"}, idx)
			assert.ErrorIs(t, err, repository.ErrOptionOutOfRange)
		}
		current, err := repo.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 1, current.TotalVotes())
		assert.Len(t, current.Voters, 1)
	})

	t.Run("missing poll returns nil, nil", func(t *testing.T) {
		poll, err := repo.AddVote(ctx, "nope", domain.PollVoter{UserID: "u3"}, 0)
		assert.NoError(t, err)
		assert.Nil(t, poll)
	})
}

func TestPollRepositoryAddVoteEnded(t *testing.T) {
	ctx := context.Background()
	repo := NewPollRepository()
	require.NoError(t, repo.Create(ctx, newTestPoll("p1", "r1")))

	ended, err := repo.End(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PollStatusEnded, ended.Status)

	_, err = repo.AddVote(ctx, "p1", domain.PollVoter{UserID: "u1"}, 0)
	assert.ErrorIs(t, err, repository.ErrPollEnded)

	current, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, current.TotalVotes())
	assert.Empty(t, current.Voters)
}

func TestPollRepositoryConcurrentVotes(t *testing.T) {
	ctx := context.Background()
	repo := NewPollRepository()
	require.NoError(t, repo.Create(ctx, newTestPoll("p1", "r1")))

	const voters = 50
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := repo.AddVote(ctx, "p1", domain.PollVoter{UserID: fmt.Sprintf("user-%d", n)}, n%2)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	poll, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, poll.Voters, voters)
	assert.Equal(t, voters, poll.TotalVotes())
	assert.Equal(t, voters/2, poll.Options[0].Votes)
	assert.Equal(t, voters/2, poll.Options[1].Votes)
}

func TestPollRepositoryListByRoom(t *testing.T) {
	ctx := context.Background()
	repo := NewPollRepository()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		p := newTestPoll(fmt.Sprintf("p%d", i), "r1")
		p.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, p))
	}
	other := newTestPoll("px", "r2")
	require.NoError(t, repo.Create(ctx, other))

	polls, err := repo.ListByRoom(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, polls, 3)
	assert.Equal(t, "p2", polls[0].ID)
	assert.Equal(t, "p1", polls[1].ID)
	assert.Equal(t, "p0", polls[2].ID)
}

func TestPollRepositoryReturnsClones(t *testing.T) {
	ctx := context.Background()
	repo := NewPollRepository()
	require.NoError(t, repo.Create(ctx, newTestPoll("p1", "r1")))

	first, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	first.Options[0].Votes = 999
	first.Status = domain.PollStatusEnded

	second, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Options[0].Votes)
	assert.Equal(t, domain.PollStatusActive, second.Status)
}
