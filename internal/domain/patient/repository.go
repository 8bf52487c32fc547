package patient

import "context"

type Repository interface {
	// GetByID retrieves a patient with chronic/recent diseases and health
	// indicators preloaded. Returns ErrPatientNotFound if absent.
	GetByID(ctx context.Context, id uint) (*Patient, error)

	// List returns patients matching the query, ordered by id for stable
	// pagination. An empty result is not an error.
	List(ctx context.Context, q *ListPatientsQuery) ([]*Patient, error)

	// Create persists a new patient together with owned disease and
	// indicator rows. An unknown gender value is rejected with
	// ErrInvalidGender.
	Create(ctx context.Context, p *Patient) error

	// GetHealthIndicators returns the single indicators row for a patient,
	// or ErrIndicatorsNotFound.
	GetHealthIndicators(ctx context.Context, patientID uint) (*HealthIndicator, error)

	// UpdateBloodPressure creates the indicators row if absent, or updates
	// only the pressure fields, source tag and bp_updated_at if present.
	// Lab vitals are never touched by this path.
	UpdateBloodPressure(ctx context.Context, cmd *UpdateBloodPressureCommand) (*HealthIndicator, error)
}
