package chi

import (
	"encoding/json"
	"net/http"
)

// Machine-readable error codes returned to clients.
const (
	codeInvalidRequest    = "invalid_request"
	codeSessionNotFound   = "session_not_found"
	codeDocumentNotFound  = "document_not_found"
	codeSearchUnavailable = "search_unavailable"
	codeGenerationFailed  = "generation_failed"
	codeUnauthorized      = "unauthorized"
	codeInternalError     = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
