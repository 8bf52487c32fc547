package repository

import "gorm.io/gorm"

type Repositories struct {
	Patients     *PatientRepository
	Appointments *AppointmentRepository
	Reports      *ReportRepository
	Audio        *AudioRepository
}

func New(database *gorm.DB) *Repositories {
	return &Repositories{
		Patients:     NewPatientRepository(database),
		Appointments: NewAppointmentRepository(database),
		Reports:      NewReportRepository(database),
		Audio:        NewAudioRepository(database),
	}
}
