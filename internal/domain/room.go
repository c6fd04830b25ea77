package domain

import (
	"time"
)

// RoomStatus represents the lifecycle state of a room
type RoomStatus string

const (
	RoomStatusActive RoomStatus = "active"
	RoomStatusEnded  RoomStatus = "ended"
)

// RoomSettings holds per-room behavior flags
type RoomSettings struct {
	AllowAnonymousQuestions bool `json:"allowAnonymousQuestions"`
	AllowAnonymousPolls     bool `json:"allowAnonymousPolls"`
	RequireModeration       bool `json:"requireModeration"`
	ParticipantLimit        int  `json:"participantLimit"`
}

// DefaultRoomSettings returns the settings applied when a room is created
// without explicit overrides
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		AllowAnonymousQuestions: true,
		AllowAnonymousPolls:     true,
		RequireModeration:       false,
		ParticipantLimit:        100,
	}
}

// RoomSettingsPatch is a partial settings update; nil fields are left unchanged
type RoomSettingsPatch struct {
	AllowAnonymousQuestions *bool `json:"allowAnonymousQuestions,omitempty"`
	AllowAnonymousPolls     *bool `json:"allowAnonymousPolls,omitempty"`
	RequireModeration       *bool `json:"requireModeration,omitempty"`
	ParticipantLimit        *int  `json:"participantLimit,omitempty"`
}

// Apply merges the patch over existing settings, preserving unset fields
func (p *RoomSettingsPatch) Apply(s RoomSettings) RoomSettings {
	if p == nil {
		return s
	}
	if p.AllowAnonymousQuestions != nil {
		s.AllowAnonymousQuestions = *p.AllowAnonymousQuestions
	}
	if p.AllowAnonymousPolls != nil {
		s.AllowAnonymousPolls = *p.AllowAnonymousPolls
	}
	if p.RequireModeration != nil {
		s.RequireModeration = *p.RequireModeration
	}
	if p.ParticipantLimit != nil {
		s.ParticipantLimit = *p.ParticipantLimit
	}
	return s
}

// Room represents a live session joined by a short code
type Room struct {
	ID        string       `json:"id"`
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	OwnerID   string       `json:"owner"`
	Settings  RoomSettings `json:"settings"`
	Status    RoomStatus   `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	EndedAt   *time.Time   `json:"endedAt,omitempty"`
}

// IsJoinable reports whether participants may enter the room at the given time.
// Expiry is advisory and checked here rather than by a background sweep.
func (r *Room) IsJoinable(now time.Time) bool {
	if r.Status != RoomStatusActive {
		return false
	}
	if r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
		return false
	}
	return true
}
