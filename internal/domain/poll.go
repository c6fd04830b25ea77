package domain

import (
	"time"
)

// PollStatus represents the lifecycle state of a poll
type PollStatus string

const (
	PollStatusActive PollStatus = "active"
	PollStatusEnded  PollStatus = "ended"
)

// PollOption pairs an option's display text with its vote counter
type PollOption struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// PollVoter records one cast vote. The option chosen is reflected only in
// the option counters; the record exists to enforce one vote per user.
type PollVoter struct {
	UserID    string `json:"user"`
	Anonymous bool   `json:"anonymous"`
}

// Poll is a room-scoped poll with single-vote-per-participant semantics
type Poll struct {
	ID        string       `json:"id"`
	RoomID    string       `json:"room"`
	Question  string       `json:"question"`
	Options   []PollOption `json:"options"`
	Voters    []PollVoter  `json:"voters"`
	Status    PollStatus   `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

// HasVoted reports whether userID appears in the voter list
func (p *Poll) HasVoted(userID string) bool {
	for _, v := range p.Voters {
		if v.UserID == userID {
			return true
		}
	}
	return false
}

// TotalVotes sums the option counters
func (p *Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}
