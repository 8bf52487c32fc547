package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/eliahealth/elia/internal/domain/appointment"
)

type AppointmentRepository struct {
	database *gorm.DB
}

func NewAppointmentRepository(database *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{database: database}
}

func (repo *AppointmentRepository) GetByID(ctx context.Context, id uint) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := repo.database.WithContext(ctx).
		Preload("Patient").
		First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (repo *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	query := repo.database.WithContext(ctx).Model(&appointment.Appointment{}).Preload("Patient")

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.
			Joins("JOIN patients ON patients.id = appointments.patient_id").
			Where(
				"lower(patients.first_name) LIKE lower(?) OR lower(patients.last_name) LIKE lower(?) OR lower(patients.middle_name) LIKE lower(?)",
				pattern, pattern, pattern,
			)
	}

	appointments := make([]*appointment.Appointment, 0)
	err := query.
		Order("appointment_date DESC, appointment_time_start DESC").
		Offset(clampOffset(q.Offset)).
		Limit(clampLimit(q.Limit)).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (repo *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if !a.Status.IsValid() {
		return appointment.ErrInvalidStatus
	}
	return repo.database.WithContext(ctx).Create(a).Error
}
