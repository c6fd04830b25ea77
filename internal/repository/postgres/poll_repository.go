package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/internal/repository"
	"github.com/RohanLambture/InteractiveQ/pkg/database"
)

// PollRepository is a pgx-backed poll store
type PollRepository struct {
	db *database.PostgresDB
}

// NewPollRepository creates a postgres poll repository
func NewPollRepository(db *database.PostgresDB) *PollRepository {
	return &PollRepository{db: db}
}

// Create persists a poll and its options in one transaction
func (r *PollRepository) Create(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO polls (id, room_id, question, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, poll.ID, poll.RoomID, poll.Question, poll.Status, poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	for i, opt := range poll.Options {
		_, err = tx.Exec(ctx, `
			INSERT INTO poll_options (poll_id, idx, text, votes)
			VALUES ($1, $2, $3, $4)
		`, poll.ID, i, opt.Text, opt.Votes)
		if err != nil {
			return fmt.Errorf("failed to create poll option: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit poll: %w", err)
	}
	return nil
}

func (r *PollRepository) fetch(ctx context.Context, id string) (*domain.Poll, error) {
	var p domain.Poll
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, room_id, question, status, created_at
		FROM polls
		WHERE id = $1
	`, id).Scan(&p.ID, &p.RoomID, &p.Question, &p.Status, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if err := r.loadChildren(ctx, []*domain.Poll{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PollRepository) loadChildren(ctx context.Context, polls []*domain.Poll) error {
	byID := make(map[string]*domain.Poll, len(polls))
	ids := make([]string, 0, len(polls))
	for _, p := range polls {
		p.Options = []domain.PollOption{}
		p.Voters = []domain.PollVoter{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	optRows, err := r.db.Pool.Query(ctx,
		`SELECT poll_id, text, votes FROM poll_options WHERE poll_id = ANY($1) ORDER BY poll_id, idx`, ids)
	if err != nil {
		return fmt.Errorf("failed to load poll options: %w", err)
	}
	defer optRows.Close()
	for optRows.Next() {
		var pollID string
		var opt domain.PollOption
		if err := optRows.Scan(&pollID, &opt.Text, &opt.Votes); err != nil {
			return fmt.Errorf("failed to scan poll option: %w", err)
		}
		p := byID[pollID]
		p.Options = append(p.Options, opt)
	}
	if err := optRows.Err(); err != nil {
		return err
	}

	voterRows, err := r.db.Pool.Query(ctx,
		`SELECT poll_id, user_id, anonymous FROM poll_voters WHERE poll_id = ANY($1) ORDER BY voted_at`, ids)
	if err != nil {
		return fmt.Errorf("failed to load poll voters: %w", err)
	}
	defer voterRows.Close()
	for voterRows.Next() {
		var pollID string
		var voter domain.PollVoter
		if err := voterRows.Scan(&pollID, &voter.UserID, &voter.Anonymous); err != nil {
			return fmt.Errorf("failed to scan poll voter: %w", err)
		}
		p := byID[pollID]
		p.Voters = append(p.Voters, voter)
	}
	return voterRows.Err()
}

// GetByID retrieves a poll with its options and voters
func (r *PollRepository) GetByID(ctx context.Context, id string) (*domain.Poll, error) {
	return r.fetch(ctx, id)
}

// ListByRoom retrieves a room's polls, newest first
func (r *PollRepository) ListByRoom(ctx context.Context, roomID string) ([]*domain.Poll, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, room_id, question, status, created_at
		FROM polls
		WHERE room_id = $1
		ORDER BY created_at DESC
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []*domain.Poll
	for rows.Next() {
		var p domain.Poll
		if err := rows.Scan(&p.ID, &p.RoomID, &p.Question, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// AddVote runs the admission checks, counter increment and voter append in
// one transaction holding the poll's row lock, so concurrent votes on the
// same poll serialize and none are lost
func (r *PollRepository) AddVote(ctx context.Context, id string, voter domain.PollVoter, optionIndex int) (*domain.Poll, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status domain.PollStatus
	var optionCount int
	var alreadyVoted bool
	err = tx.QueryRow(ctx, `
		SELECT status,
		       (SELECT count(*) FROM poll_options o WHERE o.poll_id = p.id),
		       EXISTS (SELECT 1 FROM poll_voters v WHERE v.poll_id = p.id AND v.user_id = $2)
		FROM polls p
		WHERE id = $1
		FOR UPDATE
	`, id, voter.UserID).Scan(&status, &optionCount, &alreadyVoted)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock poll: %w", err)
	}

	if status != domain.PollStatusActive {
		return nil, repository.ErrPollEnded
	}
	// a returning voter is rejected before the index is even looked at
	if alreadyVoted {
		return nil, repository.ErrAlreadyVoted
	}
	if optionIndex < 0 || optionIndex >= optionCount {
		return nil, repository.ErrOptionOutOfRange
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO poll_voters (poll_id, user_id, anonymous)
		VALUES ($1, $2, $3)
		ON CONFLICT (poll_id, user_id) DO NOTHING
	`, id, voter.UserID, voter.Anonymous)
	if err != nil {
		return nil, fmt.Errorf("failed to add poll voter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrAlreadyVoted
	}

	_, err = tx.Exec(ctx, `
		UPDATE poll_options SET votes = votes + 1
		WHERE poll_id = $1 AND idx = $2
	`, id, optionIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to increment option counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}
	return r.fetch(ctx, id)
}

// End marks a poll ended in one atomic update
func (r *PollRepository) End(ctx context.Context, id string) (*domain.Poll, error) {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE polls SET status = 'ended' WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to end poll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.fetch(ctx, id)
}
