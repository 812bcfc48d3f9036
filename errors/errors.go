package errors

import (
	stderrors "errors"
	"net/http"
)

// Error pairs a client-facing message with the HTTP status it should be
// reported under.
type Error struct {
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

var (
	// Upload pipeline, client-input side. All of these abort before any
	// side effect.
	ErrNoFilePart      = New("no file part in request", http.StatusBadRequest)
	ErrEmptyFilename   = New("no file selected", http.StatusBadRequest)
	ErrInvalidFileType = New("file type not allowed", http.StatusBadRequest)
	ErrFileTooLarge    = New("file exceeds the maximum upload size", http.StatusBadRequest)

	// Writing the blob failed; nothing was recorded.
	ErrStorageWrite = New("unable to store uploaded file", http.StatusInternalServerError)

	// The blob was written but the metadata row was not. Reported as 207 so
	// the client knows the bytes survived even though no record exists.
	ErrMetadataPersist = New("file stored but metadata could not be saved", http.StatusMultiStatus)

	ErrNotFound = New("record not found", http.StatusNotFound)

	// Read-path failures degrade to empty lists at the handler; this kind
	// exists so the degradation is visible in logs and callers can tell it
	// apart from not-found.
	ErrDatabaseUnavailable = New("database unavailable", http.StatusInternalServerError)
)

// StatusOf extracts the HTTP status carried by err, unwrapping as needed.
// Anything that doesn't carry one maps to 500.
func StatusOf(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether err is, or wraps, target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
