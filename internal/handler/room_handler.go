package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/internal/middleware"
	"github.com/RohanLambture/InteractiveQ/internal/service"
	"github.com/RohanLambture/InteractiveQ/pkg/errors"
	"github.com/RohanLambture/InteractiveQ/pkg/logger"
)

// RoomHandler handles room lifecycle and snapshot endpoints
type RoomHandler struct {
	rooms     *service.RoomService
	snapshots *service.SnapshotService
	logger    *logger.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *service.RoomService, snapshots *service.SnapshotService, logger *logger.Logger) *RoomHandler {
	return &RoomHandler{
		rooms:     rooms,
		snapshots: snapshots,
		logger:    logger,
	}
}

type createRoomRequest struct {
	Name     string                    `json:"name"`
	Settings *domain.RoomSettingsPatch `json:"settings,omitempty"`
	Duration int                       `json:"duration,omitempty"`
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("Invalid request body"), h.logger)
		return
	}

	room, err := h.rooms.CreateRoom(r.Context(), middleware.UserID(r), req.Name, req.Settings, req.Duration)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusCreated, room)
}

type joinRoomRequest struct {
	Code string `json:"code"`
}

// Join handles POST /api/v1/rooms/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("Invalid request body"), h.logger)
		return
	}

	room, err := h.rooms.JoinRoom(r.Context(), req.Code)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// MyRooms handles GET /api/v1/rooms/my-rooms
func (h *RoomHandler) MyRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListOwnerRooms(r.Context(), middleware.UserID(r))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, rooms)
}

// Get handles GET /api/v1/rooms/{roomID}: the room with its questions and
// polls in one consistent read
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.GetSnapshot(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"room":      snapshot.Room,
		"questions": snapshot.Questions,
		"polls":     snapshot.Polls,
	})
}

// GetUpdates handles GET /api/v1/rooms/{roomID}/updates, the explicit
// polling endpoint. Same aggregate as Get plus the generation timestamp.
func (h *RoomHandler) GetUpdates(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.GetSnapshot(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

type updateSettingsRequest struct {
	Settings *domain.RoomSettingsPatch `json:"settings"`
}

// UpdateSettings handles PATCH /api/v1/rooms/{roomID}/settings
func (h *RoomHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("Invalid request body"), h.logger)
		return
	}
	if req.Settings == nil {
		respondError(w, errors.NewValidationError("Settings are required"), h.logger)
		return
	}

	room, err := h.rooms.UpdateSettings(r.Context(), chi.URLParam(r, "roomID"), middleware.UserID(r), req.Settings)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// End handles PATCH /api/v1/rooms/{roomID}/end
func (h *RoomHandler) End(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.EndRoom(r.Context(), chi.URLParam(r, "roomID"), middleware.UserID(r))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Room session ended successfully",
		"room":    room,
	})
}
