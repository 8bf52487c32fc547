package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrTranscriptionMissing blocks anamnesis extraction until a completed
	// transcription with text exists for the appointment.
	ErrTranscriptionMissing = errors.New("no completed transcription for this appointment")

	// ErrFileMissing means the database row exists but the bytes on disk do
	// not.
	ErrFileMissing = errors.New("stored file is missing on the server")
)

// ValidationError carries per-field messages for a rejected request body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}
