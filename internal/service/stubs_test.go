package service

import (
	"context"
	"time"

	"github.com/eliahealth/elia/internal/domain/appointment"
	"github.com/eliahealth/elia/internal/domain/audio"
	"github.com/eliahealth/elia/internal/domain/patient"
	"github.com/eliahealth/elia/internal/domain/report"
	"github.com/eliahealth/elia/pkg/metrics"
)

// The prometheus default registry rejects duplicate collectors, so all tests
// in this package share one.
var testCollector = metrics.NewCollector("service_test")

type stubPatientRepo struct {
	patients   map[uint]*patient.Patient
	indicators map[uint]*patient.HealthIndicator
	nextID     uint
}

func newStubPatientRepo() *stubPatientRepo {
	return &stubPatientRepo{
		patients:   make(map[uint]*patient.Patient),
		indicators: make(map[uint]*patient.HealthIndicator),
		nextID:     1,
	}
}

func (s *stubPatientRepo) GetByID(_ context.Context, id uint) (*patient.Patient, error) {
	p, ok := s.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	if hi, ok := s.indicators[id]; ok {
		p.HealthIndicators = hi
	}
	return p, nil
}

func (s *stubPatientRepo) List(_ context.Context, _ *patient.ListPatientsQuery) ([]*patient.Patient, error) {
	out := make([]*patient.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubPatientRepo) Create(_ context.Context, p *patient.Patient) error {
	p.ID = s.nextID
	s.nextID++
	s.patients[p.ID] = p
	return nil
}

func (s *stubPatientRepo) GetHealthIndicators(_ context.Context, patientID uint) (*patient.HealthIndicator, error) {
	hi, ok := s.indicators[patientID]
	if !ok {
		return nil, patient.ErrIndicatorsNotFound
	}
	return hi, nil
}

func (s *stubPatientRepo) UpdateBloodPressure(_ context.Context, cmd *patient.UpdateBloodPressureCommand) (*patient.HealthIndicator, error) {
	now := time.Now().UTC()
	hi, ok := s.indicators[cmd.PatientID]
	if !ok {
		hi = &patient.HealthIndicator{PatientID: cmd.PatientID}
		s.indicators[cmd.PatientID] = hi
	}
	hi.SystolicPressure = &cmd.Systolic
	hi.DiastolicPressure = &cmd.Diastolic
	if cmd.Pulse != nil {
		hi.Pulse = cmd.Pulse
	}
	hi.BPSource = cmd.Source
	hi.BPUpdatedAt = &now
	return hi, nil
}

type stubAppointmentRepo struct {
	appointments map[uint]*appointment.Appointment
	nextID       uint
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{appointments: make(map[uint]*appointment.Appointment), nextID: 1}
}

func (s *stubAppointmentRepo) GetByID(_ context.Context, id uint) (*appointment.Appointment, error) {
	a, ok := s.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return a, nil
}

func (s *stubAppointmentRepo) List(_ context.Context, _ *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	out := make([]*appointment.Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		out = append(out, a)
	}
	return out, nil
}

func (s *stubAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	a.ID = s.nextID
	s.nextID++
	s.appointments[a.ID] = a
	return nil
}

type stubReportRepo struct {
	appointments *stubAppointmentRepo
	reports      map[uint]*report.MedicalReport
	nextID       uint
}

func newStubReportRepo(appointments *stubAppointmentRepo) *stubReportRepo {
	return &stubReportRepo{
		appointments: appointments,
		reports:      make(map[uint]*report.MedicalReport),
		nextID:       1,
	}
}

func (s *stubReportRepo) GetByAppointment(_ context.Context, appointmentID uint) (*report.MedicalReport, error) {
	r, ok := s.reports[appointmentID]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	return r, nil
}

func (s *stubReportRepo) Upsert(ctx context.Context, cmd *report.UpsertCommand) (*report.MedicalReport, error) {
	if _, err := s.appointments.GetByID(ctx, cmd.AppointmentID); err != nil {
		return nil, err
	}

	r, ok := s.reports[cmd.AppointmentID]
	if !ok {
		r = &report.MedicalReport{ID: s.nextID, AppointmentID: cmd.AppointmentID}
		s.nextID++
		s.reports[cmd.AppointmentID] = r
	}
	if cmd.Purpose != nil {
		r.Purpose = cmd.Purpose
	}
	if cmd.Complaints != nil {
		r.Complaints = cmd.Complaints
	}
	if cmd.Anamnesis != nil {
		r.Anamnesis = cmd.Anamnesis
	}
	r.UpdatedAt = time.Now().UTC()
	return r, nil
}

func (s *stubReportRepo) SubmitToMIS(_ context.Context, appointmentID uint) (*report.MedicalReport, error) {
	r, ok := s.reports[appointmentID]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	now := time.Now().UTC()
	r.SubmittedToMIS = true
	r.SubmittedAt = &now
	return r, nil
}

type stubAudioRepo struct {
	records map[uint]*audio.AudioFile
	nextID  uint
}

func newStubAudioRepo() *stubAudioRepo {
	return &stubAudioRepo{records: make(map[uint]*audio.AudioFile), nextID: 1}
}

func (s *stubAudioRepo) GetByID(_ context.Context, id uint) (*audio.AudioFile, error) {
	a, ok := s.records[id]
	if !ok {
		return nil, audio.ErrAudioNotFound
	}
	return a, nil
}

func (s *stubAudioRepo) GetByAppointment(_ context.Context, appointmentID uint) (*audio.AudioFile, error) {
	for _, a := range s.records {
		if a.AppointmentID == appointmentID {
			return a, nil
		}
	}
	return nil, audio.ErrAudioNotFound
}

func (s *stubAudioRepo) Create(ctx context.Context, cmd *audio.CreateCommand) (*audio.AudioFile, error) {
	if _, err := s.GetByAppointment(ctx, cmd.AppointmentID); err == nil {
		return nil, audio.ErrAudioAlreadyExists
	}
	a := &audio.AudioFile{
		ID:                  s.nextID,
		AppointmentID:       cmd.AppointmentID,
		Filename:            cmd.Filename,
		Filepath:            cmd.Filepath,
		FileSize:            cmd.FileSize,
		MimeType:            cmd.MimeType,
		TranscriptionStatus: audio.StatusPending,
		UploadedAt:          time.Now().UTC(),
	}
	s.nextID++
	s.records[a.ID] = a
	return a, nil
}

func (s *stubAudioRepo) UpdateTranscription(_ context.Context, id uint, status audio.TranscriptionStatus, text string) (*audio.AudioFile, error) {
	a, ok := s.records[id]
	if !ok {
		return nil, audio.ErrAudioNotFound
	}
	a.TranscriptionStatus = status
	if text != "" {
		a.TranscriptionText = &text
	}
	if status == audio.StatusCompleted {
		now := time.Now().UTC()
		a.TranscribedAt = &now
	}
	return a, nil
}

func (s *stubAudioRepo) Delete(_ context.Context, id uint) error {
	if _, ok := s.records[id]; !ok {
		return audio.ErrAudioNotFound
	}
	delete(s.records, id)
	return nil
}
