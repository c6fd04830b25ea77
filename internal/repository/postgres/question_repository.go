package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/pkg/database"
)

// QuestionRepository is a pgx-backed question store. Voter identities and
// answers live in child tables so toggles and appends are row-level
// operations instead of whole-document rewrites.
type QuestionRepository struct {
	db *database.PostgresDB
}

// NewQuestionRepository creates a postgres question repository
func NewQuestionRepository(db *database.PostgresDB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create persists a new question
func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	query := `
		INSERT INTO questions (id, room_id, content, author_id, is_anonymous, status, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		question.ID, question.RoomID, question.Content, question.AuthorID,
		question.IsAnonymous, question.Status, question.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *QuestionRepository) fetch(ctx context.Context, id string) (*domain.Question, error) {
	var q domain.Question
	var author *string
	query := `
		SELECT id, room_id, content, author_id, is_anonymous, status, created_at
		FROM questions
		WHERE id = $1
	`
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.RoomID, &q.Content, &author, &q.IsAnonymous, &q.Status, &q.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if author != nil {
		q.AuthorID = *author
	}
	if err := r.loadChildren(ctx, []*domain.Question{&q}); err != nil {
		return nil, err
	}
	return &q, nil
}

// loadChildren populates Votes and Answers for the given questions
func (r *QuestionRepository) loadChildren(ctx context.Context, questions []*domain.Question) error {
	byID := make(map[string]*domain.Question, len(questions))
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		q.Votes = []string{}
		q.Answers = []domain.Answer{}
		byID[q.ID] = q
		ids = append(ids, q.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	voteRows, err := r.db.Pool.Query(ctx,
		`SELECT question_id, user_id FROM question_votes WHERE question_id = ANY($1) ORDER BY voted_at`, ids)
	if err != nil {
		return fmt.Errorf("failed to load question votes: %w", err)
	}
	defer voteRows.Close()
	for voteRows.Next() {
		var questionID, userID string
		if err := voteRows.Scan(&questionID, &userID); err != nil {
			return fmt.Errorf("failed to scan question vote: %w", err)
		}
		q := byID[questionID]
		q.Votes = append(q.Votes, userID)
	}
	if err := voteRows.Err(); err != nil {
		return err
	}

	answerRows, err := r.db.Pool.Query(ctx,
		`SELECT question_id, text, author_label, created_at FROM question_answers WHERE question_id = ANY($1) ORDER BY created_at`, ids)
	if err != nil {
		return fmt.Errorf("failed to load question answers: %w", err)
	}
	defer answerRows.Close()
	for answerRows.Next() {
		var questionID string
		var answer domain.Answer
		if err := answerRows.Scan(&questionID, &answer.Text, &answer.Author, &answer.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan question answer: %w", err)
		}
		q := byID[questionID]
		q.Answers = append(q.Answers, answer)
	}
	return answerRows.Err()
}

// GetByID retrieves a question with its votes and answers
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	return r.fetch(ctx, id)
}

// ListByRoom retrieves a room's questions, newest first
func (r *QuestionRepository) ListByRoom(ctx context.Context, roomID string) ([]*domain.Question, error) {
	query := `
		SELECT id, room_id, content, author_id, is_anonymous, status, created_at
		FROM questions
		WHERE room_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []*domain.Question
	for rows.Next() {
		var q domain.Question
		var author *string
		if err := rows.Scan(&q.ID, &q.RoomID, &q.Content, &author, &q.IsAnonymous, &q.Status, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if author != nil {
			q.AuthorID = *author
		}
		questions = append(questions, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// ToggleVote inserts the voter row if absent, otherwise deletes it. The
// insert is conditional at the store level, so two users toggling
// concurrently both register.
func (r *QuestionRepository) ToggleVote(ctx context.Context, id, userID string) (*domain.Question, error) {
	var exists bool
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM questions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check question: %w", err)
	}
	if !exists {
		return nil, nil
	}

	tag, err := r.db.Pool.Exec(ctx, `
		INSERT INTO question_votes (question_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (question_id, user_id) DO NOTHING
	`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to add question vote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already voted: the toggle retracts it
		if _, err := r.db.Pool.Exec(ctx,
			`DELETE FROM question_votes WHERE question_id = $1 AND user_id = $2`, id, userID); err != nil {
			return nil, fmt.Errorf("failed to remove question vote: %w", err)
		}
	}
	return r.fetch(ctx, id)
}

// SetStatus updates the moderation status in one atomic update
func (r *QuestionRepository) SetStatus(ctx context.Context, id string, status domain.QuestionStatus) (*domain.Question, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE questions SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to set question status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.fetch(ctx, id)
}

// AppendAnswer inserts the answer row; appends never rewrite the question
func (r *QuestionRepository) AppendAnswer(ctx context.Context, id string, answer domain.Answer) (*domain.Question, error) {
	var exists bool
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM questions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check question: %w", err)
	}
	if !exists {
		return nil, nil
	}

	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO question_answers (question_id, text, author_label, created_at)
		VALUES ($1, $2, $3, $4)
	`, id, answer.Text, answer.Author, answer.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append answer: %w", err)
	}
	return r.fetch(ctx, id)
}

// Delete permanently removes a question; child rows cascade
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}
