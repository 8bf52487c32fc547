package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eliahealth/elia/internal/ai"
	"github.com/eliahealth/elia/internal/config"
	"github.com/eliahealth/elia/internal/domain/appointment"
	"github.com/eliahealth/elia/internal/domain/audio"
	"github.com/eliahealth/elia/internal/domain/patient"
	"github.com/eliahealth/elia/internal/storage"
	"github.com/eliahealth/elia/pkg/metrics"
)

var allowedAudioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
}

const defaultAudioMimeType = "audio/mpeg"

type AudioService struct {
	audio        audio.Repository
	appointments appointment.Repository
	patients     patient.Repository
	files        *storage.FileStore
	ai           *ai.Client
	sim          config.SimulationConfig
	collector    *metrics.Collector
	log          *zap.Logger
}

func NewAudioService(
	audioRepo audio.Repository,
	appointments appointment.Repository,
	patients patient.Repository,
	files *storage.FileStore,
	aiClient *ai.Client,
	sim config.SimulationConfig,
	collector *metrics.Collector,
	log *zap.Logger,
) *AudioService {
	return &AudioService{
		audio:        audioRepo,
		appointments: appointments,
		patients:     patients,
		files:        files,
		ai:           aiClient,
		sim:          sim,
		collector:    collector,
		log:          log,
	}
}

func (s *AudioService) Get(ctx context.Context, id uint) (*audio.AudioFile, error) {
	return s.audio.GetByID(ctx, id)
}

// Upload attaches a recording to an appointment. The duplicate check runs
// before any disk write so a conflicting upload never leaves bytes behind; the
// unique FK still backstops a concurrent race.
func (s *AudioService) Upload(ctx context.Context, appointmentID uint, originalName, mimeType string, r io.Reader) (*audio.AudioFile, error) {
	if _, err := s.appointments.GetByID(ctx, appointmentID); err != nil {
		return nil, err
	}

	if _, err := s.audio.GetByAppointment(ctx, appointmentID); err == nil {
		return nil, audio.ErrAudioAlreadyExists
	} else if !errors.Is(err, audio.ErrAudioNotFound) {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedAudioExtensions[ext] {
		return nil, audio.ErrUnsupportedFormat
	}

	if mimeType == "" {
		mimeType = defaultAudioMimeType
	}

	storedName := uuid.NewString() + ext
	path, size, err := s.files.Save(storedName, r)
	if err != nil {
		return nil, err
	}

	rec, err := s.audio.Create(ctx, &audio.CreateCommand{
		AppointmentID: appointmentID,
		Filename:      originalName,
		Filepath:      path,
		FileSize:      size,
		MimeType:      mimeType,
	})
	if err != nil {
		s.files.Remove(path)
		return nil, err
	}

	s.collector.AudioUploadsTotal.Inc()
	s.log.Info("audio file uploaded",
		zap.Uint("appointment_id", appointmentID),
		zap.Uint("audio_id", rec.ID),
		zap.Int64("size", size),
	)
	return rec, nil
}

// Transcribe runs the stand-in transcription. Completed and in-flight records
// are rejected; pending and failed records may start. The text comes from the
// AI collaborator when configured, otherwise from the built-in sample
// dialogue. A generation failure leaves the record in the failed state so the
// operation can be retried.
func (s *AudioService) Transcribe(ctx context.Context, id uint) (*audio.AudioFile, error) {
	rec, err := s.audio.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch rec.TranscriptionStatus {
	case audio.StatusCompleted:
		return nil, audio.ErrAlreadyTranscribed
	case audio.StatusProcessing:
		return nil, audio.ErrTranscriptionActive
	}

	if _, err := s.audio.UpdateTranscription(ctx, id, audio.StatusProcessing, ""); err != nil {
		return nil, err
	}

	if err := simulateDelay(ctx, s.sim.TranscriptionDelay); err != nil {
		s.audio.UpdateTranscription(context.WithoutCancel(ctx), id, audio.StatusFailed, "")
		return nil, err
	}

	text, err := s.transcriptText(ctx, rec.AppointmentID)
	if err != nil {
		s.audio.UpdateTranscription(context.WithoutCancel(ctx), id, audio.StatusFailed, "")
		s.collector.TranscriptionsTotal.WithLabelValues("failed").Inc()
		s.log.Error("transcription failed", zap.Uint("audio_id", id), zap.Error(err))
		return nil, err
	}

	rec, err = s.audio.UpdateTranscription(ctx, id, audio.StatusCompleted, text)
	if err != nil {
		return nil, err
	}

	s.collector.TranscriptionsTotal.WithLabelValues("completed").Inc()
	s.log.Info("transcription completed",
		zap.Uint("audio_id", id),
		zap.Int("text_length", len(text)),
	)
	return rec, nil
}

// Download returns the record for serving the stored bytes, verifying they
// still exist on disk.
func (s *AudioService) Download(ctx context.Context, id uint) (*audio.AudioFile, error) {
	rec, err := s.audio.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Filepath == "" || !s.files.Exists(rec.Filepath) {
		return nil, ErrFileMissing
	}
	return rec, nil
}

func (s *AudioService) transcriptText(ctx context.Context, appointmentID uint) (string, error) {
	if !s.ai.Configured() {
		return sampleDialogue, nil
	}

	app, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return "", err
	}
	p, err := s.patients.GetByID(ctx, app.PatientID)
	if err != nil {
		return "", err
	}
	return s.ai.GenerateConversation(ctx, p.FullName(), p.Age(), string(p.Gender))
}

// sampleDialogue is the canned consultation transcript used when no AI
// credential is configured.
const sampleDialogue = `Врач: Здравствуйте! Проходите, присаживайтесь. Что вас беспокоит?

Пациент: Добрый день, доктор. Последние несколько дней у меня сильные боли в верхней части живота, особенно усиливаются после приема пищи. Также ощущаю тяжесть и жжение.

Врач: Понятно. А когда именно начались эти симптомы? И с чем вы связываете их появление?

Пациент: Примерно неделю назад. Может быть связано с тем, что в последнее время часто питаюсь нерегулярно, употребляю много кофе и часто перекусываю на работе острой пищей.

Врач: Хорошо. Отмечали ли вы изжогу, отрыжку, тошноту? Были ли эпизоды рвоты?

Пациент: Да, изжога беспокоит, особенно по утрам и после еды. Отрыжка тоже периодически бывает. Тошноты нет, рвоты не было.

Врач: Принимали ли вы какие-либо препараты для облегчения симптомов?

Пациент: Пробовал принимать антациды, немного помогают, но ненадолго.

Врач: Ясно. Сейчас я вас осмотрю. Прилягте, пожалуйста, на кушетку. При пальпации отмечается болезненность в эпигастральной области. Напряжения мышц передней брюшной стенки нет. Печень, селезёнка не увеличены.

Пациент: Ох, да, здесь как раз болит.

Врач: На основании жалоб и осмотра у вас, вероятно, обострение гастрита или начинающаяся язвенная болезнь желудка. Я назначу вам обследование: общий анализ крови, анализ на Helicobacter pylori, а также гастроскопию для уточнения диагноза.

Пациент: Хорошо, доктор.

Врач: Также рекомендую придерживаться диеты: исключить острое, жирное, копчёное, кофе, алкоголь. Питаться часто, но небольшими порциями. Назначу вам препараты для снижения кислотности и защиты слизистой желудка.

Пациент: Спасибо большое! Буду следовать рекомендациям.

Врач: Результаты анализов принесёте на повторный приём через неделю. Если состояние ухудшится — сразу обращайтесь. Будьте здоровы!

Пациент: Спасибо, до свидания!`
