package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RohanLambture/InteractiveQ/internal/middleware"
	"github.com/RohanLambture/InteractiveQ/internal/service"
	"github.com/RohanLambture/InteractiveQ/pkg/errors"
	"github.com/RohanLambture/InteractiveQ/pkg/logger"
)

// AuthHandler handles signup, signin and profile endpoints
type AuthHandler struct {
	auth   service.AuthService
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth service.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

type signupRequest struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	TermsAccepted bool   `json:"termsAccepted"`
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("Invalid request body"), h.logger)
		return
	}

	token, user, err := h.auth.Signup(r.Context(), req.FullName, req.Email, req.Password, req.TermsAccepted)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin handles POST /api/v1/auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.NewValidationError("Invalid request body"), h.logger)
		return
	}

	token, user, err := h.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Profile handles GET /api/v1/users/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUser(r.Context(), middleware.UserID(r))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
