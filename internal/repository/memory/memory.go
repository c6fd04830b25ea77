// Package memory provides in-memory repository implementations. Mutations
// take a per-entity lock so concurrent read-modify-write cycles on the same
// entity serialize without lost updates. Used by tests and when no database
// is configured.
package memory

import (
	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/internal/repository"
)

// NewRepositories returns a full in-memory repository set
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Rooms:     NewRoomRepository(),
		Questions: NewQuestionRepository(),
		Polls:     NewPollRepository(),
		Users:     NewUserRepository(),
	}
}

func cloneRoom(r *domain.Room) *domain.Room {
	out := *r
	if r.ExpiresAt != nil {
		t := *r.ExpiresAt
		out.ExpiresAt = &t
	}
	if r.EndedAt != nil {
		t := *r.EndedAt
		out.EndedAt = &t
	}
	return &out
}

func cloneQuestion(q *domain.Question) *domain.Question {
	out := *q
	out.Votes = append([]string(nil), q.Votes...)
	out.Answers = append([]domain.Answer(nil), q.Answers...)
	return &out
}

func clonePoll(p *domain.Poll) *domain.Poll {
	out := *p
	out.Options = append([]domain.PollOption(nil), p.Options...)
	out.Voters = append([]domain.PollVoter(nil), p.Voters...)
	return &out
}

func cloneUser(u *domain.User) *domain.User {
	out := *u
	return &out
}
