package handler

import (
	"encoding/json"
	"net/http"

	"doc-manager/internal/domain"
	apperrors "doc-manager/pkg/errors"
)

// writeError writes an {"error": message} response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, domain.ErrorResponse{Error: message})
}

// writeAppError maps an application error onto its status and public message.
func writeAppError(w http.ResponseWriter, err error) {
	writeError(w, apperrors.GetStatusCode(err), apperrors.PublicMessage(err))
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
