package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/eliahealth/elia/internal/ai"
	"github.com/eliahealth/elia/internal/config"
	"github.com/eliahealth/elia/internal/domain/appointment"
	"github.com/eliahealth/elia/internal/domain/audio"
	"github.com/eliahealth/elia/internal/domain/patient"
	"github.com/eliahealth/elia/internal/domain/report"
	"github.com/eliahealth/elia/internal/pdf"
	"github.com/eliahealth/elia/pkg/metrics"
)

// PDFDocument is a rendered appointment report together with its download
// names: an ASCII fallback and the full UTF-8 name for the RFC 5987
// content-disposition parameter.
type PDFDocument struct {
	Content       []byte
	FilenameASCII string
	FilenameUTF8  string
}

type AppointmentService struct {
	appointments appointment.Repository
	patients     patient.Repository
	reports      report.Repository
	audio        audio.Repository
	ai           *ai.Client
	renderer     *pdf.Renderer
	sim          config.SimulationConfig
	collector    *metrics.Collector
	log          *zap.Logger
}

func NewAppointmentService(
	appointments appointment.Repository,
	patients patient.Repository,
	reports report.Repository,
	audioRepo audio.Repository,
	aiClient *ai.Client,
	renderer *pdf.Renderer,
	sim config.SimulationConfig,
	collector *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		patients:     patients,
		reports:      reports,
		audio:        audioRepo,
		ai:           aiClient,
		renderer:     renderer,
		sim:          sim,
		collector:    collector,
		log:          log,
	}
}

func (s *AppointmentService) Get(ctx context.Context, id uint) (*appointment.Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *AppointmentService) List(ctx context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	return s.appointments.List(ctx, q)
}

// GetReport returns the report for an appointment. The appointment is checked
// first so a bad appointment id and a merely missing report surface as
// different not-found errors.
func (s *AppointmentService) GetReport(ctx context.Context, appointmentID uint) (*report.MedicalReport, error) {
	if _, err := s.appointments.GetByID(ctx, appointmentID); err != nil {
		return nil, err
	}
	return s.reports.GetByAppointment(ctx, appointmentID)
}

func (s *AppointmentService) SaveReport(ctx context.Context, cmd *report.UpsertCommand) (*report.MedicalReport, error) {
	rep, err := s.reports.Upsert(ctx, cmd)
	if err != nil {
		return nil, err
	}
	s.log.Info("medical report saved", zap.Uint("appointment_id", cmd.AppointmentID))
	return rep, nil
}

// SubmitToMIS marks the appointment's report as submitted after a simulated
// transport delay. Resubmitting is allowed and refreshes the timestamp.
func (s *AppointmentService) SubmitToMIS(ctx context.Context, appointmentID uint) (*report.MedicalReport, error) {
	if _, err := s.appointments.GetByID(ctx, appointmentID); err != nil {
		return nil, err
	}
	if _, err := s.reports.GetByAppointment(ctx, appointmentID); err != nil {
		return nil, err
	}

	if err := simulateDelay(ctx, s.sim.MISSubmitDelay); err != nil {
		return nil, err
	}

	rep, err := s.reports.SubmitToMIS(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	s.collector.MISSubmissionsTotal.Inc()
	s.log.Info("report submitted to MIS",
		zap.Uint("appointment_id", appointmentID),
		zap.Timep("submitted_at", rep.SubmittedAt),
	)
	return rep, nil
}

// ExtractAnamnesis runs the AI extraction over the appointment's completed
// transcription and writes the triple through the regular report upsert, so
// fields the model left empty keep their stored values.
func (s *AppointmentService) ExtractAnamnesis(ctx context.Context, appointmentID uint) (*report.MedicalReport, error) {
	if _, err := s.appointments.GetByID(ctx, appointmentID); err != nil {
		return nil, err
	}

	rec, err := s.audio.GetByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if rec.TranscriptionStatus != audio.StatusCompleted || !rec.HasTranscription() {
		return nil, ErrTranscriptionMissing
	}

	data, err := s.ai.ExtractAnamnesis(ctx, *rec.TranscriptionText)
	if err != nil {
		return nil, err
	}

	rep, err := s.reports.Upsert(ctx, &report.UpsertCommand{
		AppointmentID: appointmentID,
		Purpose:       data.Purpose,
		Complaints:    data.Complaints,
		Anamnesis:     data.Anamnesis,
	})
	if err != nil {
		return nil, err
	}

	s.collector.ExtractionsTotal.Inc()
	s.log.Info("anamnesis extracted", zap.Uint("appointment_id", appointmentID))
	return rep, nil
}

// GeneratePDF assembles the appointment, full patient card and report (if
// any) into the printable document. A missing report is not an error.
func (s *AppointmentService) GeneratePDF(ctx context.Context, appointmentID uint) (*PDFDocument, error) {
	app, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	// The appointment preload carries only the bare patient row; the PDF
	// needs diseases and vitals too.
	p, err := s.patients.GetByID(ctx, app.PatientID)
	if err != nil {
		return nil, err
	}

	rep, err := s.reports.GetByAppointment(ctx, appointmentID)
	if err != nil && !errors.Is(err, report.ErrReportNotFound) {
		return nil, err
	}

	appData := pdf.AppointmentData{
		Date:      app.Date.Format("02.01.2006"),
		TimeStart: app.TimeStart,
		TimeEnd:   app.TimeEnd,
		Status:    string(app.Status),
	}

	patData := pdf.PatientData{
		FullName:            p.FullName(),
		Gender:              string(p.Gender),
		Age:                 p.Age(),
		DateOfBirth:         p.DateOfBirth.Format("02.01.2006"),
		MedicalOrganization: p.MedicalOrganization,
		MedicalArea:         p.MedicalArea,
	}
	for _, d := range p.ChronicDiseases {
		patData.ChronicDiseases = append(patData.ChronicDiseases, d.Name)
	}
	for _, d := range p.RecentDiseases {
		patData.RecentDiseases = append(patData.RecentDiseases, d.Name)
	}
	if hi := p.HealthIndicators; hi != nil {
		patData.HealthIndicators = &pdf.HealthIndicatorData{
			Hemoglobin:  hi.Hemoglobin,
			Cholesterol: hi.Cholesterol,
			BMI:         hi.BMI,
			HeartRate:   hi.HeartRate,
		}
	}

	var repData *pdf.ReportData
	if rep != nil {
		repData = &pdf.ReportData{
			Purpose:        rep.Purpose,
			Complaints:     rep.Complaints,
			Anamnesis:      rep.Anamnesis,
			SubmittedToMIS: rep.SubmittedToMIS,
		}
		if rep.SubmittedAt != nil {
			repData.SubmittedAt = rep.SubmittedAt.Format("02.01.2006 15:04")
		}
	}

	content, err := s.renderer.AppointmentReport(appData, patData, repData)
	if err != nil {
		return nil, fmt.Errorf("generating appointment pdf: %w", err)
	}

	datePart := app.Date.Format("20060102")
	doc := &PDFDocument{
		Content:       content,
		FilenameASCII: fmt.Sprintf("priem_%s.pdf", datePart),
		FilenameUTF8:  fmt.Sprintf("priem_%s_%s.pdf", p.LastName, datePart),
	}

	s.collector.PDFGeneratedTotal.Inc()
	s.log.Info("appointment pdf generated",
		zap.Uint("appointment_id", appointmentID),
		zap.Int("bytes", len(content)),
	)
	return doc, nil
}

// ContentDisposition renders the two-part attachment header: an ASCII
// fallback plus the percent-encoded UTF-8 name per RFC 5987.
func (d *PDFDocument) ContentDisposition() string {
	return fmt.Sprintf("attachment; filename=%s; filename*=UTF-8''%s",
		d.FilenameASCII, url.PathEscape(d.FilenameUTF8))
}
