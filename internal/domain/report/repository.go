package report

import "context"

type Repository interface {
	// GetByAppointment returns the report for an appointment, or
	// ErrReportNotFound.
	GetByAppointment(ctx context.Context, appointmentID uint) (*MedicalReport, error)

	// Upsert creates the report if absent, otherwise overwrites only the
	// non-nil fields and bumps updated_at. The referenced appointment is
	// verified inside the same transaction; a missing appointment surfaces
	// as appointment.ErrAppointmentNotFound.
	Upsert(ctx context.Context, cmd *UpsertCommand) (*MedicalReport, error)

	// SubmitToMIS marks the report submitted and stamps submitted_at with
	// the current time. Resubmission is allowed and re-stamps.
	SubmitToMIS(ctx context.Context, appointmentID uint) (*MedicalReport, error)
}
