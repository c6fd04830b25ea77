package domain

import (
	"time"
)

// QuestionStatus represents the moderation state of a question
type QuestionStatus string

const (
	QuestionStatusPending  QuestionStatus = "pending"
	QuestionStatusApproved QuestionStatus = "approved"
	QuestionStatusRejected QuestionStatus = "rejected"
	QuestionStatusAnswered QuestionStatus = "answered"
)

// ValidQuestionStatus reports whether s is one of the defined moderation states
func ValidQuestionStatus(s QuestionStatus) bool {
	switch s {
	case QuestionStatusPending, QuestionStatusApproved, QuestionStatusRejected, QuestionStatusAnswered:
		return true
	}
	return false
}

// Answer is a threaded reply on a question. Author is a free-text label,
// not a user reference.
type Answer struct {
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Question is an audience question scoped to a room. Votes holds the voter
// identities; its length is the vote count.
type Question struct {
	ID          string         `json:"id"`
	RoomID      string         `json:"room"`
	Content     string         `json:"content"`
	AuthorID    string         `json:"author,omitempty"`
	IsAnonymous bool           `json:"isAnonymous"`
	Votes       []string       `json:"votes"`
	Status      QuestionStatus `json:"status"`
	Answers     []Answer       `json:"answers"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// VoteCount returns the number of distinct voters
func (q *Question) VoteCount() int {
	return len(q.Votes)
}

// HasVoted reports whether userID is in the voter set
func (q *Question) HasVoted(userID string) bool {
	for _, v := range q.Votes {
		if v == userID {
			return true
		}
	}
	return false
}
