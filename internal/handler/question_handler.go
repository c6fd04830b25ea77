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

// QuestionHandler handles question board endpoints
type QuestionHandler struct {
	questions *service.QuestionService
	logger    *logger.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questions *service.QuestionService, logger *logger.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		logger:    logger,
	}
}

type createQuestionRequest struct {
	Content     string `json:"content"`
	RoomID      string `json:"roomId"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// Create handles POST /api/v1/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("Invalid request body"), h.logger)
		return
	}
	if req.RoomID == "" {
		respondError(w, errors.NewValidationError("Room ID is required"), h.logger)
		return
	}

	question, err := h.questions.Submit(r.Context(), req.RoomID, middleware.UserID(r), req.Content, req.IsAnonymous)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusCreated, question)
}

// ListByRoom handles GET /api/v1/questions/room/{roomID}
func (h *QuestionHandler) ListByRoom(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questions.ListRoomQuestions(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, questions)
}

// Vote handles POST /api/v1/questions/{questionID}/vote (toggle semantics)
func (h *QuestionHandler) Vote(w http.ResponseWriter, r *http.Request) {
	question, err := h.questions.ToggleVote(r.Context(), chi.URLParam(r, "questionID"), middleware.UserID(r))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, question)
}

type setStatusRequest struct {
	Status domain.QuestionStatus `json:"status"`
}

// SetStatus handles PATCH /api/v1/questions/{questionID}/status
func (h *QuestionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("Invalid request body"), h.logger)
		return
	}

	question, err := h.questions.SetStatus(r.Context(), chi.URLParam(r, "questionID"), middleware.UserID(r), req.Status)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, question)
}

// Delete handles DELETE /api/v1/questions/{questionID}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.questions.Remove(r.Context(), chi.URLParam(r, "questionID"), middleware.UserID(r)); err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Question deleted successfully"})
}

type addAnswerRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// AddAnswer handles POST /api/v1/questions/{questionID}/answers
func (h *QuestionHandler) AddAnswer(w http.ResponseWriter, r *http.Request) {
	var req addAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("Invalid request body"), h.logger)
		return
	}

	question, err := h.questions.AddAnswer(r.Context(), chi.URLParam(r, "questionID"), req.Text, req.Author)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, question)
}
