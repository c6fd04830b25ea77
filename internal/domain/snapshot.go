package domain

import (
	"time"
)

// RoomSnapshot is an ephemeral aggregate of a room's full state, produced
// on demand for polling clients and never stored. Questions and polls are
// ordered newest-first.
type RoomSnapshot struct {
	Room        *Room       `json:"room"`
	Questions   []*Question `json:"questions"`
	Polls       []*Poll     `json:"polls"`
	GeneratedAt time.Time   `json:"timestamp"`
}
