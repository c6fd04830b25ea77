package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RohanLambture/InteractiveQ/pkg/errors"
	"github.com/RohanLambture/InteractiveQ/pkg/logger"
)

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError classifies err and writes the {message} error body the UI
// expects, with the HTTP status conveying the kind. Unclassified store
// failures surface as 500 and get logged with their cause.
func respondError(w http.ResponseWriter, err error, log *logger.Logger) {
	appErr := errors.AsAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(appErr).Error("Request failed")
	} else {
		log.WithError(appErr).Debug("Request rejected")
	}
	respondJSON(w, appErr.StatusCode, map[string]string{"message": appErr.Message})
}
