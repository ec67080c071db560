package domain

import "errors"

// Sentinel errors for the query pipeline.
var (
	// ErrDocumentNotFound signals a missing corpus document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrSearchUnavailable signals a failed retrieval branch.
	ErrSearchUnavailable = errors.New("search unavailable")
	// ErrGenerationFailed signals a failed model completion.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrSessionNotFound signals a missing or expired session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidRequest signals a malformed query request.
	ErrInvalidRequest = errors.New("invalid request")
)
