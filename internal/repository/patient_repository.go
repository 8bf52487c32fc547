package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eliahealth/elia/internal/domain/patient"
)

const (
	maxPageSize     = 500
	defaultPageSize = 100
)

type PatientRepository struct {
	database *gorm.DB
}

func NewPatientRepository(database *gorm.DB) *PatientRepository {
	return &PatientRepository{database: database}
}

func (repo *PatientRepository) GetByID(ctx context.Context, id uint) (*patient.Patient, error) {
	var p patient.Patient
	err := repo.database.WithContext(ctx).
		Preload("ChronicDiseases").
		Preload("RecentDiseases").
		Preload("HealthIndicators").
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (repo *PatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) ([]*patient.Patient, error) {
	query := repo.database.WithContext(ctx).Model(&patient.Patient{})

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"lower(first_name) LIKE lower(?) OR lower(last_name) LIKE lower(?) OR lower(middle_name) LIKE lower(?)",
			pattern, pattern, pattern,
		)
	}

	patients := make([]*patient.Patient, 0)
	err := query.
		Order("id").
		Offset(clampOffset(q.Offset)).
		Limit(clampLimit(q.Limit)).
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (repo *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	if !p.Gender.IsValid() {
		return patient.ErrInvalidGender
	}
	return repo.database.WithContext(ctx).Create(p).Error
}

func (repo *PatientRepository) GetHealthIndicators(ctx context.Context, patientID uint) (*patient.HealthIndicator, error) {
	var hi patient.HealthIndicator
	err := repo.database.WithContext(ctx).
		Where("patient_id = ?", patientID).
		First(&hi).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrIndicatorsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &hi, nil
}

func (repo *PatientRepository) UpdateBloodPressure(ctx context.Context, cmd *patient.UpdateBloodPressureCommand) (*patient.HealthIndicator, error) {
	var hi patient.HealthIndicator
	now := time.Now().UTC()

	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("patient_id = ?", cmd.PatientID).First(&hi).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hi = patient.HealthIndicator{
				PatientID:         cmd.PatientID,
				SystolicPressure:  &cmd.Systolic,
				DiastolicPressure: &cmd.Diastolic,
				Pulse:             cmd.Pulse,
				BPSource:          cmd.Source,
				BPUpdatedAt:       &now,
			}
			return tx.Create(&hi).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]any{
			"systolic_pressure":  cmd.Systolic,
			"diastolic_pressure": cmd.Diastolic,
			"bp_source":          cmd.Source,
			"bp_updated_at":      now,
		}
		if cmd.Pulse != nil {
			updates["pulse"] = *cmd.Pulse
		}
		if err := tx.Model(&hi).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("patient_id = ?", cmd.PatientID).First(&hi).Error
	})
	if err != nil {
		return nil, err
	}
	return &hi, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultPageSize
	case limit > maxPageSize:
		return maxPageSize
	default:
		return limit
	}
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
