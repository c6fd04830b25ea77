package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
)

type questionEntry struct {
	mu       sync.Mutex
	question *domain.Question
}

// QuestionRepository is an in-memory question store
type QuestionRepository struct {
	mu        sync.RWMutex
	questions map[string]*questionEntry
}

// NewQuestionRepository creates an in-memory question repository
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{questions: make(map[string]*questionEntry)}
}

func (r *QuestionRepository) entry(id string) *questionEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.questions[id]
}

// Create persists a new question
func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[question.ID] = &questionEntry{question: cloneQuestion(question)}
	return nil
}

// GetByID retrieves a question by ID
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	e := r.entry(id)
	if e == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneQuestion(e.question), nil
}

// ListByRoom retrieves a room's questions, newest first
func (r *QuestionRepository) ListByRoom(ctx context.Context, roomID string) ([]*domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Question, 0)
	for _, e := range r.questions {
		e.mu.Lock()
		if e.question.RoomID == roomID {
			out = append(out, cloneQuestion(e.question))
		}
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ToggleVote flips userID's membership in the voter set under the
// question's lock
func (r *QuestionRepository) ToggleVote(ctx context.Context, id, userID string) (*domain.Question, error) {
	e := r.entry(id)
	if e == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.question
	if q.HasVoted(userID) {
		votes := q.Votes[:0]
		for _, v := range q.Votes {
			if v != userID {
				votes = append(votes, v)
			}
		}
		q.Votes = votes
	} else {
		q.Votes = append(q.Votes, userID)
	}
	return cloneQuestion(q), nil
}

// SetStatus updates the moderation status
func (r *QuestionRepository) SetStatus(ctx context.Context, id string, status domain.QuestionStatus) (*domain.Question, error) {
	e := r.entry(id)
	if e == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.question.Status = status
	return cloneQuestion(e.question), nil
}

// AppendAnswer appends an answer under the question's lock
func (r *QuestionRepository) AppendAnswer(ctx context.Context, id string, answer domain.Answer) (*domain.Question, error) {
	e := r.entry(id)
	if e == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.question.Answers = append(e.question.Answers, answer)
	return cloneQuestion(e.question), nil
}

// Delete permanently removes a question
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.questions, id)
	return nil
}
