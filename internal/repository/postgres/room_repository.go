package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/pkg/database"
)

// RoomRepository is a pgx-backed room store
type RoomRepository struct {
	db *database.PostgresDB
}

// NewRoomRepository creates a postgres room repository
func NewRoomRepository(db *database.PostgresDB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, code, name, owner_id, settings, status, created_at, expires_at, ended_at`

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var room domain.Room
	var settings []byte
	err := row.Scan(
		&room.ID,
		&room.Code,
		&room.Name,
		&room.OwnerID,
		&settings,
		&room.Status,
		&room.CreatedAt,
		&room.ExpiresAt,
		&room.EndedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(settings, &room.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode room settings: %w", err)
	}
	return &room, nil
}

// Create persists a new room
func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	settings, err := json.Marshal(room.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode room settings: %w", err)
	}

	query := `
		INSERT INTO rooms (id, code, name, owner_id, settings, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Pool.Exec(ctx, query,
		room.ID, room.Code, room.Name, room.OwnerID,
		settings, room.Status, room.CreatedAt, room.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	room, err := scanRoom(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

// GetJoinable retrieves an active, unexpired room by exact code
func (r *RoomRepository) GetJoinable(ctx context.Context, code string, now time.Time) (*domain.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE code = $1
		  AND status = 'active'
		  AND (expires_at IS NULL OR expires_at > $2)
	`
	room, err := scanRoom(r.db.Pool.QueryRow(ctx, query, code, now))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room by code: %w", err)
	}
	return room, nil
}

// CodeExists reports whether any room holds the code
func (r *RoomRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM rooms WHERE code = $1)`
	if err := r.db.Pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check room code: %w", err)
	}
	return exists, nil
}

// ListByOwner retrieves an owner's rooms, newest first
func (r *RoomRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// End marks a room ended in one atomic update
func (r *RoomRepository) End(ctx context.Context, id string, endedAt time.Time) (*domain.Room, error) {
	query := `
		UPDATE rooms
		SET status = 'ended', ended_at = $2
		WHERE id = $1
		RETURNING ` + roomColumns
	room, err := scanRoom(r.db.Pool.QueryRow(ctx, query, id, endedAt))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to end room: %w", err)
	}
	return room, nil
}

// MergeSettings shallow-merges the patch over the stored settings with a
// jsonb concatenation, which is atomic at the statement level
func (r *RoomRepository) MergeSettings(ctx context.Context, id string, patch *domain.RoomSettingsPatch) (*domain.Room, error) {
	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings patch: %w", err)
	}

	query := `
		UPDATE rooms
		SET settings = settings || $2::jsonb
		WHERE id = $1
		RETURNING ` + roomColumns
	room, err := scanRoom(r.db.Pool.QueryRow(ctx, query, id, patchJSON))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to merge room settings: %w", err)
	}
	return room, nil
}
