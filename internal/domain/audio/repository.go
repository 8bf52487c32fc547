package audio

import "context"

type Repository interface {
	// GetByID returns the audio record, or ErrAudioNotFound.
	GetByID(ctx context.Context, id uint) (*AudioFile, error)

	// GetByAppointment returns the single audio record for an appointment,
	// or ErrAudioNotFound.
	GetByAppointment(ctx context.Context, appointmentID uint) (*AudioFile, error)

	// Create inserts a new record with status forced to pending regardless
	// of caller input. A duplicate appointment surfaces as
	// ErrAudioAlreadyExists.
	Create(ctx context.Context, cmd *CreateCommand) (*AudioFile, error)

	// UpdateTranscription transitions status; text is applied only when
	// non-empty, and transcribed_at is stamped only on reaching completed.
	UpdateTranscription(ctx context.Context, id uint, status TranscriptionStatus, text string) (*AudioFile, error)

	// Delete removes the database row only; physical file cleanup belongs
	// to the caller.
	Delete(ctx context.Context, id uint) error
}
