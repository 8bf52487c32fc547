package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eliahealth/elia/internal/domain/appointment"
	"github.com/eliahealth/elia/internal/domain/report"
)

func TestReportUpsertCreatesThenMergesFields(t *testing.T) {
	repos := New(openTestDB(t))
	ctx := context.Background()

	p := seedPatient(t, repos, "Иван", "Иванов", "Алексеевич")
	a := seedAppointment(t, repos, p.ID, time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), "16:10")

	first, err := repos.Reports.Upsert(ctx, &report.UpsertCommand{
		AppointmentID: a.ID,
		Purpose:       strPtr("Жалобы на боли в животе"),
		Complaints:    strPtr("Боли после еды, изжога"),
	})
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	if first.Anamnesis != nil {
		t.Errorf("anamnesis = %v, want nil on create", *first.Anamnesis)
	}

	// Only anamnesis in the second save: purpose and complaints must survive.
	second, err := repos.Reports.Upsert(ctx, &report.UpsertCommand{
		AppointmentID: a.ID,
		Anamnesis:     strPtr("Предварительный диагноз: гастрит"),
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second upsert created a new row: id %d vs %d", second.ID, first.ID)
	}
	if second.Purpose == nil || *second.Purpose != "Жалобы на боли в животе" {
		t.Errorf("purpose = %v, want preserved value", second.Purpose)
	}
	if second.Complaints == nil || *second.Complaints != "Боли после еды, изжога" {
		t.Errorf("complaints = %v, want preserved value", second.Complaints)
	}
	if second.Anamnesis == nil || *second.Anamnesis != "Предварительный диагноз: гастрит" {
		t.Errorf("anamnesis = %v, want the new value", second.Anamnesis)
	}
}

func TestReportUpsertRejectsMissingAppointment(t *testing.T) {
	repos := New(openTestDB(t))

	_, err := repos.Reports.Upsert(context.Background(), &report.UpsertCommand{
		AppointmentID: 777,
		Purpose:       strPtr("x"),
	})
	if !errors.Is(err, appointment.ErrAppointmentNotFound) {
		t.Errorf("err = %v, want ErrAppointmentNotFound", err)
	}
}

func TestReportGetByAppointmentNotFound(t *testing.T) {
	repos := New(openTestDB(t))
	p := seedPatient(t, repos, "Иван", "Иванов", "Алексеевич")
	a := seedAppointment(t, repos, p.ID, time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), "16:10")

	_, err := repos.Reports.GetByAppointment(context.Background(), a.ID)
	if !errors.Is(err, report.ErrReportNotFound) {
		t.Errorf("err = %v, want ErrReportNotFound", err)
	}
}

func TestSubmitToMISStampsAndRestamps(t *testing.T) {
	repos := New(openTestDB(t))
	ctx := context.Background()

	p := seedPatient(t, repos, "Иван", "Иванов", "Алексеевич")
	a := seedAppointment(t, repos, p.ID, time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), "16:10")

	if _, err := repos.Reports.Upsert(ctx, &report.UpsertCommand{
		AppointmentID: a.ID,
		Purpose:       strPtr("Осмотр"),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	first, err := repos.Reports.SubmitToMIS(ctx, a.ID)
	if err != nil {
		t.Fatalf("SubmitToMIS: %v", err)
	}
	if !first.SubmittedToMIS || first.SubmittedAt == nil {
		t.Fatal("first submission did not stamp the report")
	}

	time.Sleep(10 * time.Millisecond)

	second, err := repos.Reports.SubmitToMIS(ctx, a.ID)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if !second.SubmittedAt.After(*first.SubmittedAt) {
		t.Errorf("resubmission did not refresh the timestamp: %v vs %v",
			second.SubmittedAt, first.SubmittedAt)
	}
}

func TestSubmitToMISRequiresReport(t *testing.T) {
	repos := New(openTestDB(t))
	p := seedPatient(t, repos, "Иван", "Иванов", "Алексеевич")
	a := seedAppointment(t, repos, p.ID, time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), "16:10")

	_, err := repos.Reports.SubmitToMIS(context.Background(), a.ID)
	if !errors.Is(err, report.ErrReportNotFound) {
		t.Errorf("err = %v, want ErrReportNotFound", err)
	}
}
