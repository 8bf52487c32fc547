package pdf

import (
	"bytes"
	"testing"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func testAppointment() AppointmentData {
	return AppointmentData{
		Date:      "16.10.2025",
		TimeStart: "16:10",
		TimeEnd:   "16:20",
		Status:    "Запланирован",
	}
}

func testPatient() PatientData {
	return PatientData{
		FullName:            "Иванов Иван Алексеевич",
		Gender:              "male",
		Age:                 40,
		DateOfBirth:         "15.03.1985",
		MedicalOrganization: "ГБУЗ Поликлиника №7",
		MedicalArea:         "Терапевтический 7",
	}
}

func assertPDF(t *testing.T, content []byte) {
	t.Helper()
	if len(content) == 0 {
		t.Fatal("empty output")
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Fatal("output does not start with the PDF magic")
	}
}

func TestAppointmentReportNilReport(t *testing.T) {
	r := NewRenderer()

	content, err := r.AppointmentReport(testAppointment(), testPatient(), nil)
	if err != nil {
		t.Fatalf("AppointmentReport: %v", err)
	}
	assertPDF(t, content)
}

func TestAppointmentReportPartialData(t *testing.T) {
	r := NewRenderer()

	p := PatientData{Gender: "female"}
	rep := &ReportData{Complaints: strPtr("Изжога после еды")}

	content, err := r.AppointmentReport(AppointmentData{}, p, rep)
	if err != nil {
		t.Fatalf("AppointmentReport with partial data: %v", err)
	}
	assertPDF(t, content)
}

func TestAppointmentReportFull(t *testing.T) {
	r := NewRenderer()

	p := testPatient()
	p.ChronicDiseases = []string{"Сахарный диабет", "Астма"}
	p.RecentDiseases = []string{"ОРВИ"}
	p.HealthIndicators = &HealthIndicatorData{
		Hemoglobin:  floatPtr(13.8),
		Cholesterol: floatPtr(4.8),
		BMI:         floatPtr(24.2),
		HeartRate:   intPtr(74),
	}

	rep := &ReportData{
		Purpose:        strPtr("Жалобы на боли в животе"),
		Complaints:     strPtr("Боли после еды, изжога"),
		Anamnesis:      strPtr("Предварительный диагноз: гастрит"),
		SubmittedToMIS: true,
		SubmittedAt:    "16.10.2025 17:05",
	}

	content, err := r.AppointmentReport(testAppointment(), p, rep)
	if err != nil {
		t.Fatalf("AppointmentReport full: %v", err)
	}
	assertPDF(t, content)

	bare, err := r.AppointmentReport(testAppointment(), testPatient(), nil)
	if err != nil {
		t.Fatalf("AppointmentReport bare: %v", err)
	}
	if len(content) <= len(bare) {
		t.Error("full report should render more content than the bare document")
	}
}
