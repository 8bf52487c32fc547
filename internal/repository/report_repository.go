package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eliahealth/elia/internal/domain/appointment"
	"github.com/eliahealth/elia/internal/domain/report"
)

type ReportRepository struct {
	database *gorm.DB
}

func NewReportRepository(database *gorm.DB) *ReportRepository {
	return &ReportRepository{database: database}
}

func (repo *ReportRepository) GetByAppointment(ctx context.Context, appointmentID uint) (*report.MedicalReport, error) {
	var r report.MedicalReport
	err := repo.database.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *ReportRepository) Upsert(ctx context.Context, cmd *report.UpsertCommand) (*report.MedicalReport, error) {
	var r report.MedicalReport

	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The appointment check lives inside the transaction so a concurrent
		// delete cannot leave an orphaned report behind.
		var matched int64
		if err := tx.Model(&appointment.Appointment{}).
			Where("id = ?", cmd.AppointmentID).
			Count(&matched).Error; err != nil {
			return err
		}
		if matched == 0 {
			return appointment.ErrAppointmentNotFound
		}

		err := tx.Where("appointment_id = ?", cmd.AppointmentID).First(&r).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r = report.MedicalReport{
				AppointmentID: cmd.AppointmentID,
				Purpose:       cmd.Purpose,
				Complaints:    cmd.Complaints,
				Anamnesis:     cmd.Anamnesis,
			}
			return tx.Create(&r).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]any{"updated_at": time.Now().UTC()}
		if cmd.Purpose != nil {
			updates["purpose"] = *cmd.Purpose
		}
		if cmd.Complaints != nil {
			updates["complaints"] = *cmd.Complaints
		}
		if cmd.Anamnesis != nil {
			updates["anamnesis"] = *cmd.Anamnesis
		}
		if err := tx.Model(&r).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("appointment_id = ?", cmd.AppointmentID).First(&r).Error
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *ReportRepository) SubmitToMIS(ctx context.Context, appointmentID uint) (*report.MedicalReport, error) {
	r, err := repo.GetByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = repo.database.WithContext(ctx).Model(r).Updates(map[string]any{
		"submitted_to_mis": true,
		"submitted_at":     now,
	}).Error
	if err != nil {
		return nil, err
	}

	r.SubmittedToMIS = true
	r.SubmittedAt = &now
	return r, nil
}
