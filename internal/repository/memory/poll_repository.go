package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/internal/repository"
)

type pollEntry struct {
	mu   sync.Mutex
	poll *domain.Poll
}

// PollRepository is an in-memory poll store
type PollRepository struct {
	mu    sync.RWMutex
	polls map[string]*pollEntry
}

// NewPollRepository creates an in-memory poll repository
func NewPollRepository() *PollRepository {
	return &PollRepository{polls: make(map[string]*pollEntry)}
}

func (r *PollRepository) entry(id string) *pollEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.polls[id]
}

// Create persists a new poll
func (r *PollRepository) Create(ctx context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls[poll.ID] = &pollEntry{poll: clonePoll(poll)}
	return nil
}

// GetByID retrieves a poll by ID
func (r *PollRepository) GetByID(ctx context.Context, id string) (*domain.Poll, error) {
	e := r.entry(id)
	if e == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return clonePoll(e.poll), nil
}

// ListByRoom retrieves a room's polls, newest first
func (r *PollRepository) ListByRoom(ctx context.Context, roomID string) ([]*domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Poll, 0)
	for _, e := range r.polls {
		e.mu.Lock()
		if e.poll.RoomID == roomID {
			out = append(out, clonePoll(e.poll))
		}
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// AddVote applies the counter increment and voter append as one step under
// the poll's lock, so concurrent votes on the same poll all land
func (r *PollRepository) AddVote(ctx context.Context, id string, voter domain.PollVoter, optionIndex int) (*domain.Poll, error) {
	e := r.entry(id)
	if e == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.poll
	if p.Status != domain.PollStatusActive {
		return nil, repository.ErrPollEnded
	}
	// a returning voter is rejected before the index is even looked at
	if p.HasVoted(voter.UserID) {
		return nil, repository.ErrAlreadyVoted
	}
	if optionIndex < 0 || optionIndex >= len(p.Options) {
		return nil, repository.ErrOptionOutOfRange
	}
	p.Options[optionIndex].Votes++
	p.Voters = append(p.Voters, voter)
	return clonePoll(p), nil
}

// End marks a poll ended
func (r *PollRepository) End(ctx context.Context, id string) (*domain.Poll, error) {
	e := r.entry(id)
	if e == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.poll.Status = domain.PollStatusEnded
	return clonePoll(e.poll), nil
}
