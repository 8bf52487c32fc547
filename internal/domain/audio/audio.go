package audio

import "time"

// TranscriptionStatus lifecycle:
//
//	pending → processing → completed
//	pending → completed            (manual text overwrite)
//	processing → failed            (text generation error; retriable)
type TranscriptionStatus string

const (
	StatusPending    TranscriptionStatus = "pending"
	StatusProcessing TranscriptionStatus = "processing"
	StatusCompleted  TranscriptionStatus = "completed"
	StatusFailed     TranscriptionStatus = "failed"
)

func (s TranscriptionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// AudioFile is the recording (or machine-generated stand-in) attached to one
// appointment. At most one per appointment, enforced by a unique FK.
type AudioFile struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"column:appointment_id;not null;uniqueIndex" json:"appointment_id"`

	Filename string `gorm:"column:filename;type:varchar(255);not null" json:"filename"`
	// Filepath may be empty when the "recording" is generated text with no
	// bytes on disk.
	Filepath string `gorm:"column:filepath;type:varchar(512)" json:"filepath"`
	FileSize int64  `gorm:"column:file_size;not null" json:"file_size"`
	MimeType string `gorm:"column:mime_type;type:varchar(50)" json:"mime_type"`

	TranscriptionStatus TranscriptionStatus `gorm:"column:transcription_status;type:varchar(20);not null;default:'pending'" json:"transcription_status"`
	TranscriptionText   *string             `gorm:"column:transcription_text;type:text" json:"transcription_text"`

	UploadedAt    time.Time  `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
	TranscribedAt *time.Time `gorm:"column:transcribed_at" json:"transcribed_at"`
}

func (AudioFile) TableName() string {
	return "audio_files"
}

// HasTranscription reports whether completed transcription text is present
// and non-empty.
func (a *AudioFile) HasTranscription() bool {
	return a.TranscriptionText != nil && *a.TranscriptionText != ""
}

type CreateCommand struct {
	AppointmentID uint
	Filename      string
	Filepath      string
	FileSize      int64
	MimeType      string
}
