// Package fixtures seeds demo patients and a recent appointment schedule so a
// fresh database is immediately usable. Seeding is a no-op once any patient
// exists.
package fixtures

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eliahealth/elia/internal/domain/appointment"
	"github.com/eliahealth/elia/internal/domain/patient"
	"github.com/eliahealth/elia/internal/repository"
)

type patientSeed struct {
	firstName, lastName, middleName string
	dateOfBirth                     time.Time
	gender                          patient.Gender
	organization, area              string
	lastVisit                       time.Time
	chronic, recent                 []string
	hemoglobin, cholesterol, bmi    float64
	heartRate                       int
}

type appointmentSeed struct {
	patientIdx int
	daysAgo    int
	timeStart  string
	timeEnd    string
	status     appointment.VisitStatus
	isActive   bool
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var patientSeeds = []patientSeed{
	{"Иван", "Иванов", "Алексеевич", day(1985, 3, 15), patient.GenderMale,
		"ГБУЗ Поликлиника №7", "Терапевтический 7", day(2025, 7, 20),
		[]string{"Сахарный диабет", "Анемия", "Астма"}, []string{"Инфекционный мононуклеоз", "Пневмания"},
		13.8, 4.8, 24.2, 74},
	{"Милена", "Петрова", "Игоревна", day(1992, 7, 22), patient.GenderFemale,
		"ГБУЗ Поликлиника №3", "Терапевтический 3", day(2025, 8, 15),
		[]string{"Гипертония"}, []string{"ОРВИ"},
		12.5, 5.2, 22.1, 68},
	{"Александр", "Эцкерев", "Владимирович", day(1978, 11, 8), patient.GenderMale,
		"ГБУЗ Поликлиника №5", "Терапевтический 12", day(2025, 9, 1),
		[]string{"ОРВИ"}, nil,
		14.2, 4.5, 26.8, 72},
	{"Илья", "Малинин", "Авдотьевич", day(1995, 4, 12), patient.GenderMale,
		"ГБУЗ Поликлиника №7", "Терапевтический 5", day(2025, 10, 10),
		nil, nil,
		15.1, 4.0, 23.5, 70},
	{"Мирон", "Сизов", "Генадьевич", day(1988, 6, 30), patient.GenderMale,
		"ГБУЗ Поликлиника №2", "Терапевтический 8", day(2025, 6, 5),
		[]string{"Аллергический ринит"}, []string{"Анемия"},
		13.0, 5.5, 28.3, 78},
	{"Игнат", "Ехимов", "Михайлович", day(1982, 9, 17), patient.GenderMale,
		"ГБУЗ Поликлиника №1", "Терапевтический 4", day(2025, 5, 22),
		[]string{"Головная боль"}, nil,
		14.5, 4.2, 25.0, 69},
	{"Пётр", "Гуменников", "Петрович", day(1990, 12, 5), patient.GenderMale,
		"ГБУЗ Поликлиника №4", "Терапевтический 9", day(2025, 4, 18),
		[]string{"ОРВИ"}, nil,
		13.5, 4.7, 24.8, 73},
	{"Людмила", "Терентьева", "Ивановна", day(1987, 2, 25), patient.GenderFemale,
		"ГБУЗ Поликлиника №6", "Терапевтический 11", day(2025, 3, 30),
		[]string{"Инфекционный мононуклеоз"}, nil,
		12.8, 5.0, 21.5, 66},
	{"Анна", "Смирнова", "Петровна", day(1993, 5, 10), patient.GenderFemale,
		"ГБУЗ Поликлиника №3", "Терапевтический 6", day(2025, 2, 14),
		[]string{"Остеохондроз"}, []string{"Бронхит"},
		13.2, 4.6, 20.9, 71},
	{"Дмитрий", "Кузнецов", "Сергеевич", day(1980, 8, 20), patient.GenderMale,
		"ГБУЗ Поликлиника №5", "Терапевтический 10", day(2025, 1, 8),
		[]string{"Язва желудка"}, nil,
		14.0, 5.3, 27.2, 75},
	{"Елена", "Волкова", "Андреевна", day(1991, 10, 3), patient.GenderFemale,
		"ГБУЗ Поликлиника №2", "Терапевтический 2", day(2024, 12, 20),
		nil, []string{"Ангина"},
		12.3, 4.3, 22.7, 67},
	{"Сергей", "Морозов", "Викторович", day(1986, 1, 28), patient.GenderMale,
		"ГБУЗ Поликлиника №8", "Терапевтический 1", day(2024, 11, 15),
		[]string{"Гастрит"}, nil,
		14.8, 4.9, 25.5, 72},
}

var appointmentSeeds = []appointmentSeed{
	{0, 10, "16:10", "16:20", appointment.StatusScheduled, true},
	{1, 10, "15:45", "16:00", appointment.StatusAnemia, false},
	{2, 10, "15:20", "15:40", appointment.StatusHeadache, false},
	{3, 10, "11:40", "12:00", appointment.StatusReferral, false},

	{4, 11, "12:00", "12:20", appointment.StatusAnemia, false},
	{5, 11, "11:45", "12:05", appointment.StatusHeadache, false},
	{6, 11, "11:10", "11:30", appointment.StatusCold, false},
	{7, 11, "10:50", "11:10", appointment.StatusMononucleosis, false},

	{8, 12, "14:00", "14:20", appointment.StatusAnalysis, false},
	{9, 13, "10:30", "10:50", appointment.StatusCold, false},
	{10, 14, "16:00", "16:20", appointment.StatusScheduled, false},
	{11, 15, "13:30", "13:50", appointment.StatusHeadache, false},
}

// Seed loads the demo dataset unless the patients table is already populated.
func Seed(ctx context.Context, repos *repository.Repositories, log *zap.Logger) error {
	existing, err := repos.Patients.List(ctx, &patient.ListPatientsQuery{Limit: 1})
	if err != nil {
		return fmt.Errorf("checking for existing patients: %w", err)
	}
	if len(existing) > 0 {
		log.Info("fixtures already loaded, skipping seed")
		return nil
	}

	created := make([]*patient.Patient, 0, len(patientSeeds))
	for _, seed := range patientSeeds {
		lastVisit := seed.lastVisit
		hemoglobin := seed.hemoglobin
		cholesterol := seed.cholesterol
		bmi := seed.bmi
		heartRate := seed.heartRate

		p := &patient.Patient{
			FirstName:           seed.firstName,
			LastName:            seed.lastName,
			MiddleName:          seed.middleName,
			DateOfBirth:         seed.dateOfBirth,
			Gender:              seed.gender,
			MedicalOrganization: seed.organization,
			MedicalArea:         seed.area,
			LastVisitDate:       &lastVisit,
			HealthIndicators: &patient.HealthIndicator{
				Hemoglobin:  &hemoglobin,
				Cholesterol: &cholesterol,
				BMI:         &bmi,
				HeartRate:   &heartRate,
			},
		}
		for _, name := range seed.chronic {
			p.ChronicDiseases = append(p.ChronicDiseases, patient.ChronicDisease{Name: name})
		}
		for _, name := range seed.recent {
			p.RecentDiseases = append(p.RecentDiseases, patient.RecentDisease{Name: name})
		}

		if err := repos.Patients.Create(ctx, p); err != nil {
			return fmt.Errorf("seeding patient %s: %w", p.FullName(), err)
		}
		created = append(created, p)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, seed := range appointmentSeeds {
		a := &appointment.Appointment{
			PatientID: created[seed.patientIdx].ID,
			Date:      today.AddDate(0, 0, -seed.daysAgo),
			TimeStart: seed.timeStart,
			TimeEnd:   seed.timeEnd,
			Status:    seed.status,
			IsActive:  seed.isActive,
		}
		if err := repos.Appointments.Create(ctx, a); err != nil {
			return fmt.Errorf("seeding appointment for patient %d: %w", a.PatientID, err)
		}
	}

	log.Info("fixtures loaded",
		zap.Int("patients", len(created)),
		zap.Int("appointments", len(appointmentSeeds)),
	)
	return nil
}
