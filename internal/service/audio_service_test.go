package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/eliahealth/elia/internal/ai"
	"github.com/eliahealth/elia/internal/config"
	"github.com/eliahealth/elia/internal/domain/appointment"
	"github.com/eliahealth/elia/internal/domain/audio"
	"github.com/eliahealth/elia/internal/storage"
)

type audioFixture struct {
	svc          *AudioService
	audio        *stubAudioRepo
	appointments *stubAppointmentRepo
	patients     *stubPatientRepo
	uploadDir    string
}

func newAudioFixture(t *testing.T) *audioFixture {
	t.Helper()

	dir := t.TempDir()
	files, err := storage.NewFileStore(dir, 1024)
	if err != nil {
		t.Fatalf("creating file store: %v", err)
	}

	audioRepo := newStubAudioRepo()
	appointments := newStubAppointmentRepo()
	patients := newStubPatientRepo()
	aiClient := ai.NewClient(config.OpenAIConfig{}, zap.NewNop())

	svc := NewAudioService(
		audioRepo, appointments, patients, files, aiClient,
		config.SimulationConfig{}, testCollector, zap.NewNop(),
	)
	return &audioFixture{
		svc:          svc,
		audio:        audioRepo,
		appointments: appointments,
		patients:     patients,
		uploadDir:    dir,
	}
}

func (f *audioFixture) seedAppointment(t *testing.T) *appointment.Appointment {
	t.Helper()
	p := seedStubPatient(t, f.patients)
	a := &appointment.Appointment{
		PatientID: p.ID,
		Date:      time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		TimeStart: "16:10",
		TimeEnd:   "16:20",
		Status:    appointment.StatusScheduled,
	}
	if err := f.appointments.Create(context.Background(), a); err != nil {
		t.Fatalf("seeding appointment: %v", err)
	}
	return a
}

func TestUploadHappyPath(t *testing.T) {
	f := newAudioFixture(t)
	a := f.seedAppointment(t)

	rec, err := f.svc.Upload(context.Background(), a.ID, "visit.mp3", "audio/mpeg", strings.NewReader("audio bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.TranscriptionStatus != audio.StatusPending {
		t.Errorf("status = %q, want pending", rec.TranscriptionStatus)
	}
	if rec.Filename != "visit.mp3" {
		t.Errorf("filename = %q, want original name", rec.Filename)
	}
	if filepath.Base(rec.Filepath) == "visit.mp3" {
		t.Error("stored file should use a generated name, not the original")
	}
	if _, err := os.Stat(rec.Filepath); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestUploadUnknownAppointment(t *testing.T) {
	f := newAudioFixture(t)

	_, err := f.svc.Upload(context.Background(), 404, "visit.mp3", "", strings.NewReader("x"))
	if !errors.Is(err, appointment.ErrAppointmentNotFound) {
		t.Errorf("err = %v, want ErrAppointmentNotFound", err)
	}
}

func TestUploadDuplicateBeforeDiskWrite(t *testing.T) {
	f := newAudioFixture(t)
	a := f.seedAppointment(t)

	if _, err := f.svc.Upload(context.Background(), a.ID, "first.mp3", "", strings.NewReader("x")); err != nil {
		t.Fatalf("first upload: %v", err)
	}

	_, err := f.svc.Upload(context.Background(), a.ID, "second.mp3", "", strings.NewReader("y"))
	if !errors.Is(err, audio.ErrAudioAlreadyExists) {
		t.Fatalf("err = %v, want ErrAudioAlreadyExists", err)
	}

	entries, err := os.ReadDir(f.uploadDir)
	if err != nil {
		t.Fatalf("reading upload dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d stored files, want 1: the rejected upload must not touch disk", len(entries))
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	f := newAudioFixture(t)
	a := f.seedAppointment(t)

	for _, name := range []string{"notes.txt", "video.mp4", "recording"} {
		_, err := f.svc.Upload(context.Background(), a.ID, name, "", strings.NewReader("x"))
		if !errors.Is(err, audio.ErrUnsupportedFormat) {
			t.Errorf("%s: err = %v, want ErrUnsupportedFormat", name, err)
		}
	}

	if _, err := f.svc.Upload(context.Background(), a.ID, "VISIT.WAV", "", strings.NewReader("x")); err != nil {
		t.Errorf("uppercase extension rejected: %v", err)
	}
}

func TestUploadTooLargeCleansUp(t *testing.T) {
	f := newAudioFixture(t)
	a := f.seedAppointment(t)

	big := strings.NewReader(strings.Repeat("a", 2048))
	_, err := f.svc.Upload(context.Background(), a.ID, "visit.mp3", "", big)
	if !errors.Is(err, storage.ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}

	entries, err := os.ReadDir(f.uploadDir)
	if err != nil {
		t.Fatalf("reading upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d stored files, want 0 after oversize rejection", len(entries))
	}
}

func TestTranscribeFallbackDialogue(t *testing.T) {
	f := newAudioFixture(t)
	a := f.seedAppointment(t)

	rec, err := f.svc.Upload(context.Background(), a.ID, "visit.mp3", "", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	done, err := f.svc.Transcribe(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if done.TranscriptionStatus != audio.StatusCompleted {
		t.Errorf("status = %q, want completed", done.TranscriptionStatus)
	}
	if !done.HasTranscription() {
		t.Fatal("no transcription text")
	}
	if !strings.Contains(*done.TranscriptionText, "Врач:") {
		t.Error("fallback dialogue missing doctor lines")
	}
	if done.TranscribedAt == nil {
		t.Error("transcribed_at not stamped")
	}
}

func TestTranscribeGuards(t *testing.T) {
	f := newAudioFixture(t)
	a := f.seedAppointment(t)

	rec, err := f.svc.Upload(context.Background(), a.ID, "visit.mp3", "", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := f.audio.UpdateTranscription(context.Background(), rec.ID, audio.StatusProcessing, ""); err != nil {
		t.Fatalf("forcing processing: %v", err)
	}
	if _, err := f.svc.Transcribe(context.Background(), rec.ID); !errors.Is(err, audio.ErrTranscriptionActive) {
		t.Errorf("processing guard: err = %v, want ErrTranscriptionActive", err)
	}

	if _, err := f.audio.UpdateTranscription(context.Background(), rec.ID, audio.StatusCompleted, "done"); err != nil {
		t.Fatalf("forcing completed: %v", err)
	}
	if _, err := f.svc.Transcribe(context.Background(), rec.ID); !errors.Is(err, audio.ErrAlreadyTranscribed) {
		t.Errorf("completed guard: err = %v, want ErrAlreadyTranscribed", err)
	}
}

func TestTranscribeRetriableFromFailed(t *testing.T) {
	f := newAudioFixture(t)
	a := f.seedAppointment(t)

	rec, err := f.svc.Upload(context.Background(), a.ID, "visit.mp3", "", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := f.audio.UpdateTranscription(context.Background(), rec.ID, audio.StatusFailed, ""); err != nil {
		t.Fatalf("forcing failed: %v", err)
	}

	done, err := f.svc.Transcribe(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if done.TranscriptionStatus != audio.StatusCompleted {
		t.Errorf("status = %q, want completed after retry", done.TranscriptionStatus)
	}
}

func TestDownloadMissingFile(t *testing.T) {
	f := newAudioFixture(t)
	a := f.seedAppointment(t)

	rec, err := f.svc.Upload(context.Background(), a.ID, "visit.mp3", "", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := os.Remove(rec.Filepath); err != nil {
		t.Fatalf("removing stored file: %v", err)
	}

	if _, err := f.svc.Download(context.Background(), rec.ID); !errors.Is(err, ErrFileMissing) {
		t.Errorf("err = %v, want ErrFileMissing", err)
	}
}
