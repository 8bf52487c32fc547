package appointment

import "context"

type Repository interface {
	// GetByID retrieves an appointment with its patient preloaded.
	// Returns ErrAppointmentNotFound if absent.
	GetByID(ctx context.Context, id uint) (*Appointment, error)

	// List returns appointments with patients preloaded, most recent first:
	// appointment_date descending, then start time descending. This ordering
	// is a contract the UI relies on.
	List(ctx context.Context, q *ListAppointmentsQuery) ([]*Appointment, error)

	// Create persists a new appointment. An unknown visit status is
	// rejected with ErrInvalidStatus.
	Create(ctx context.Context, a *Appointment) error
}
