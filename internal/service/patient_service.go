package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eliahealth/elia/internal/ai"
	"github.com/eliahealth/elia/internal/domain/patient"
)

// Inclusive physiological plausibility bounds for a tonometer reading.
const (
	systolicMin  = 60
	systolicMax  = 300
	diastolicMin = 30
	diastolicMax = 200
	pulseMin     = 30
	pulseMax     = 250
)

const (
	BPSourceManual = "manual"
	BPSourcePhoto  = "photo"
)

// BloodPressureInput is a manual or recognized reading before validation.
type BloodPressureInput struct {
	PatientID uint
	Systolic  int
	Diastolic int
	Pulse     *int
	Source    string
}

type PatientService struct {
	patients patient.Repository
	ai       *ai.Client
	log      *zap.Logger
}

func NewPatientService(patients patient.Repository, aiClient *ai.Client, log *zap.Logger) *PatientService {
	return &PatientService{patients: patients, ai: aiClient, log: log}
}

func (s *PatientService) Get(ctx context.Context, id uint) (*patient.Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *PatientService) List(ctx context.Context, q *patient.ListPatientsQuery) ([]*patient.Patient, error) {
	return s.patients.List(ctx, q)
}

// DigitalPortrait is the patient card with conditions and vitals; it is the
// same preloaded aggregate the detail endpoint serves.
func (s *PatientService) DigitalPortrait(ctx context.Context, id uint) (*patient.Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// UpdateBloodPressure validates the reading and upserts the pressure fields
// of the patient's indicators row.
func (s *PatientService) UpdateBloodPressure(ctx context.Context, in *BloodPressureInput) (*patient.HealthIndicator, error) {
	if err := validateBloodPressure(in.Systolic, in.Diastolic, in.Pulse); err != nil {
		return nil, err
	}
	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		return nil, err
	}

	source := in.Source
	if source == "" {
		source = BPSourceManual
	}

	hi, err := s.patients.UpdateBloodPressure(ctx, &patient.UpdateBloodPressureCommand{
		PatientID: in.PatientID,
		Systolic:  in.Systolic,
		Diastolic: in.Diastolic,
		Pulse:     in.Pulse,
		Source:    source,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("blood pressure updated",
		zap.Uint("patient_id", in.PatientID),
		zap.Int("systolic", in.Systolic),
		zap.Int("diastolic", in.Diastolic),
		zap.String("source", source),
	)
	return hi, nil
}

// RecognizeBloodPressure reads a tonometer display photo and, when the model
// returns a confident reading, persists it with the photo source tag. An
// unreadable photo is not an error: the reading comes back with Success=false
// and nothing is stored.
func (s *PatientService) RecognizeBloodPressure(ctx context.Context, patientID uint, imageBase64 string) (*ai.BloodPressureReading, *patient.HealthIndicator, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, nil, err
	}

	reading, err := s.ai.RecognizeBloodPressure(ctx, imageBase64)
	if err != nil {
		return nil, nil, fmt.Errorf("recognizing tonometer photo: %w", err)
	}
	if !reading.Success {
		s.log.Info("tonometer photo not readable",
			zap.Uint("patient_id", patientID),
			zap.String("reason", reading.Error),
		)
		return reading, nil, nil
	}

	var pulse *int
	if reading.Pulse > 0 {
		p := reading.Pulse
		pulse = &p
	}

	hi, err := s.UpdateBloodPressure(ctx, &BloodPressureInput{
		PatientID: patientID,
		Systolic:  reading.Systolic,
		Diastolic: reading.Diastolic,
		Pulse:     pulse,
		Source:    BPSourcePhoto,
	})
	if err != nil {
		return nil, nil, err
	}
	return reading, hi, nil
}

func validateBloodPressure(systolic, diastolic int, pulse *int) error {
	verr := newValidationError()
	if systolic < systolicMin || systolic > systolicMax {
		verr.Fields["systolic"] = fmt.Sprintf("must be between %d and %d", systolicMin, systolicMax)
	}
	if diastolic < diastolicMin || diastolic > diastolicMax {
		verr.Fields["diastolic"] = fmt.Sprintf("must be between %d and %d", diastolicMin, diastolicMax)
	}
	if pulse != nil && (*pulse < pulseMin || *pulse > pulseMax) {
		verr.Fields["pulse"] = fmt.Sprintf("must be between %d and %d", pulseMin, pulseMax)
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
