package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RohanLambture/InteractiveQ/internal/middleware"
	"github.com/RohanLambture/InteractiveQ/internal/service"
	"github.com/RohanLambture/InteractiveQ/pkg/errors"
	"github.com/RohanLambture/InteractiveQ/pkg/logger"
)

// PollHandler handles poll endpoints
type PollHandler struct {
	polls  *service.PollService
	logger *logger.Logger
}

// NewPollHandler creates a new poll handler
func NewPollHandler(polls *service.PollService, logger *logger.Logger) *PollHandler {
	return &PollHandler{
		polls:  polls,
		logger: logger,
	}
}

type createPollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	RoomID   string   `json:"roomId"`
}

// Create handles POST /api/v1/polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("Invalid request body"), h.logger)
		return
	}
	if req.RoomID == "" {
		respondError(w, errors.NewValidationError("Room ID is required"), h.logger)
		return
	}

	poll, err := h.polls.Create(r.Context(), req.RoomID, middleware.UserID(r), req.Question, req.Options)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusCreated, poll)
}

// ListByRoom handles GET /api/v1/polls/room/{roomID}
func (h *PollHandler) ListByRoom(w http.ResponseWriter, r *http.Request) {
	polls, err := h.polls.ListRoomPolls(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, polls)
}

type votePollRequest struct {
	OptionIndex int  `json:"optionIndex"`
	Anonymous   bool `json:"anonymous"`
}

// Vote handles POST /api/v1/polls/{pollID}/vote (one vote per user)
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req votePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("Invalid request body"), h.logger)
		return
	}

	poll, err := h.polls.Vote(r.Context(), chi.URLParam(r, "pollID"), middleware.UserID(r), req.OptionIndex, req.Anonymous)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, poll)
}

// End handles PATCH /api/v1/polls/{pollID}/end
func (h *PollHandler) End(w http.ResponseWriter, r *http.Request) {
	poll, err := h.polls.End(r.Context(), chi.URLParam(r, "pollID"), middleware.UserID(r))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, poll)
}
