package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eliahealth/elia/internal/config"
	"github.com/eliahealth/elia/internal/domain/appointment"
	"github.com/eliahealth/elia/internal/domain/patient"
	"github.com/eliahealth/elia/pkg/database"
)

// openTestDB goes through database.Connect so tests run against the same
// sqlite setup as the server, unicode lower() override included.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := database.Migrate(db, zap.NewNop()); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func seedPatient(t *testing.T, repos *Repositories, first, last, middle string) *patient.Patient {
	t.Helper()

	p := &patient.Patient{
		FirstName:   first,
		LastName:    last,
		MiddleName:  middle,
		DateOfBirth: time.Date(1985, 3, 15, 0, 0, 0, 0, time.UTC),
		Gender:      patient.GenderMale,
	}
	if err := repos.Patients.Create(context.Background(), p); err != nil {
		t.Fatalf("seeding patient: %v", err)
	}
	return p
}

func seedAppointment(t *testing.T, repos *Repositories, patientID uint, date time.Time, start string) *appointment.Appointment {
	t.Helper()

	a := &appointment.Appointment{
		PatientID: patientID,
		Date:      date,
		TimeStart: start,
		TimeEnd:   "23:59",
		Status:    appointment.StatusScheduled,
	}
	if err := repos.Appointments.Create(context.Background(), a); err != nil {
		t.Fatalf("seeding appointment: %v", err)
	}
	return a
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
