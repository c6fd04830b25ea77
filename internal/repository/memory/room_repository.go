package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
)

type roomEntry struct {
	mu   sync.Mutex
	room *domain.Room
}

// RoomRepository is an in-memory room store
type RoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry
}

// NewRoomRepository creates an in-memory room repository
func NewRoomRepository() *RoomRepository {
	return &RoomRepository{rooms: make(map[string]*roomEntry)}
}

func (r *RoomRepository) entry(id string) *roomEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[id]
}

// Create persists a new room
func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID] = &roomEntry{room: cloneRoom(room)}
	return nil
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	e := r.entry(id)
	if e == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneRoom(e.room), nil
}

// GetJoinable retrieves an active, unexpired room by exact code
func (r *RoomRepository) GetJoinable(ctx context.Context, code string, now time.Time) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.rooms {
		e.mu.Lock()
		room := e.room
		if room.Code == code && room.IsJoinable(now) {
			out := cloneRoom(room)
			e.mu.Unlock()
			return out, nil
		}
		e.mu.Unlock()
	}
	return nil, nil
}

// CodeExists reports whether any room ever created holds the code
func (r *RoomRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.rooms {
		if e.room.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// ListByOwner retrieves an owner's rooms, newest first
func (r *RoomRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Room, 0)
	for _, e := range r.rooms {
		e.mu.Lock()
		if e.room.OwnerID == ownerID {
			out = append(out, cloneRoom(e.room))
		}
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// End marks a room ended
func (r *RoomRepository) End(ctx context.Context, id string, endedAt time.Time) (*domain.Room, error) {
	e := r.entry(id)
	if e == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.room.Status = domain.RoomStatusEnded
	t := endedAt
	e.room.EndedAt = &t
	return cloneRoom(e.room), nil
}

// MergeSettings shallow-merges the patch under the room's lock
func (r *RoomRepository) MergeSettings(ctx context.Context, id string, patch *domain.RoomSettingsPatch) (*domain.Room, error) {
	e := r.entry(id)
	if e == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.room.Settings = patch.Apply(e.room.Settings)
	return cloneRoom(e.room), nil
}
