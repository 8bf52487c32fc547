package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/eliahealth/elia/internal/domain/audio"
)

type AudioRepository struct {
	database *gorm.DB
}

func NewAudioRepository(database *gorm.DB) *AudioRepository {
	return &AudioRepository{database: database}
}

func (repo *AudioRepository) GetByID(ctx context.Context, id uint) (*audio.AudioFile, error) {
	var a audio.AudioFile
	err := repo.database.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, audio.ErrAudioNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (repo *AudioRepository) GetByAppointment(ctx context.Context, appointmentID uint) (*audio.AudioFile, error) {
	var a audio.AudioFile
	err := repo.database.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, audio.ErrAudioNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (repo *AudioRepository) Create(ctx context.Context, cmd *audio.CreateCommand) (*audio.AudioFile, error) {
	a := &audio.AudioFile{
		AppointmentID:       cmd.AppointmentID,
		Filename:            cmd.Filename,
		Filepath:            cmd.Filepath,
		FileSize:            cmd.FileSize,
		MimeType:            cmd.MimeType,
		TranscriptionStatus: audio.StatusPending,
	}
	if err := repo.database.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, audio.ErrAudioAlreadyExists
		}
		return nil, err
	}
	return a, nil
}

func (repo *AudioRepository) UpdateTranscription(ctx context.Context, id uint, status audio.TranscriptionStatus, text string) (*audio.AudioFile, error) {
	a, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"transcription_status": status}
	if text != "" {
		updates["transcription_text"] = text
	}
	if status == audio.StatusCompleted {
		updates["transcribed_at"] = time.Now().UTC()
	}

	if err := repo.database.WithContext(ctx).Model(a).Updates(updates).Error; err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

func (repo *AudioRepository) Delete(ctx context.Context, id uint) error {
	a, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return repo.database.WithContext(ctx).Delete(a).Error
}

// isUniqueViolation covers both the sqlite and postgres phrasings of a
// unique-constraint failure on the appointment_id index.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
