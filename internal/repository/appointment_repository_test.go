package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eliahealth/elia/internal/domain/appointment"
)

func TestAppointmentGetByIDPreloadsPatient(t *testing.T) {
	repos := New(openTestDB(t))
	p := seedPatient(t, repos, "Иван", "Иванов", "Алексеевич")
	a := seedAppointment(t, repos, p.ID, time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), "16:10")

	got, err := repos.Appointments.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Patient == nil {
		t.Fatal("patient not preloaded")
	}
	if got.Patient.LastName != "Иванов" {
		t.Errorf("patient last name = %q, want Иванов", got.Patient.LastName)
	}
}

func TestAppointmentGetByIDNotFound(t *testing.T) {
	repos := New(openTestDB(t))

	_, err := repos.Appointments.GetByID(context.Background(), 42)
	if !errors.Is(err, appointment.ErrAppointmentNotFound) {
		t.Errorf("err = %v, want ErrAppointmentNotFound", err)
	}
}

func TestAppointmentListMostRecentFirst(t *testing.T) {
	repos := New(openTestDB(t))
	p := seedPatient(t, repos, "Иван", "Иванов", "Алексеевич")

	day1 := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)

	seedAppointment(t, repos, p.ID, day1, "11:10")
	seedAppointment(t, repos, p.ID, day2, "09:00")
	seedAppointment(t, repos, p.ID, day2, "16:10")
	seedAppointment(t, repos, p.ID, day1, "12:00")

	got, err := repos.Appointments.List(context.Background(), &appointment.ListAppointmentsQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d appointments, want 4", len(got))
	}

	wantStarts := []string{"16:10", "09:00", "12:00", "11:10"}
	for i, want := range wantStarts {
		if got[i].TimeStart != want {
			t.Errorf("position %d: start = %q, want %q", i, got[i].TimeStart, want)
		}
	}
	if got[0].Patient == nil {
		t.Error("patient not preloaded in list")
	}
}

func TestAppointmentListSearchByPatientName(t *testing.T) {
	repos := New(openTestDB(t))

	ivanov := seedPatient(t, repos, "Иван", "Иванов", "Алексеевич")
	smirnova := seedPatient(t, repos, "Анна", "Смирнова", "Петровна")

	date := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
	seedAppointment(t, repos, ivanov.ID, date, "10:00")
	seedAppointment(t, repos, smirnova.ID, date, "11:00")

	got, err := repos.Appointments.List(context.Background(), &appointment.ListAppointmentsQuery{Search: "Смирнова"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d appointments, want 1", len(got))
	}
	if got[0].PatientID != smirnova.ID {
		t.Errorf("patient_id = %d, want %d", got[0].PatientID, smirnova.ID)
	}

	// Cyrillic case folding must hold here the same as in the patient list.
	got, err = repos.Appointments.List(context.Background(), &appointment.ListAppointmentsQuery{Search: "смирнова"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].PatientID != smirnova.ID {
		t.Fatalf("search смирнова returned %d rows, want 1", len(got))
	}
}

func TestAppointmentCreateRejectsInvalidStatus(t *testing.T) {
	repos := New(openTestDB(t))
	p := seedPatient(t, repos, "Иван", "Иванов", "Алексеевич")

	a := &appointment.Appointment{
		PatientID: p.ID,
		Date:      time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		TimeStart: "10:00",
		TimeEnd:   "10:30",
		Status:    "Неизвестный статус",
	}
	err := repos.Appointments.Create(context.Background(), a)
	if !errors.Is(err, appointment.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}
