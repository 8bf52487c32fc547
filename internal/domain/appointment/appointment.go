package appointment

import (
	"time"

	"github.com/eliahealth/elia/internal/domain/patient"
)

// VisitStatus is the clinical category shown on the appointment list. The
// values are the Russian display strings persisted by the original schema.
type VisitStatus string

const (
	StatusScheduled     VisitStatus = "Запланирован"
	StatusAnalysis      VisitStatus = "Анализ"
	StatusHeadache      VisitStatus = "Головная боль"
	StatusCold          VisitStatus = "ОРВИ"
	StatusReferral      VisitStatus = "Направление на анализы"
	StatusMononucleosis VisitStatus = "Инфекционный мононуклеоз"
	StatusAnemia        VisitStatus = "Анемия"
)

func (s VisitStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusAnalysis, StatusHeadache, StatusCold,
		StatusReferral, StatusMononucleosis, StatusAnemia:
		return true
	}
	return false
}

type Appointment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	PatientID uint             `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Patient   *patient.Patient `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"patient,omitempty"`

	Date time.Time `gorm:"column:appointment_date;not null;index" json:"appointment_date"`

	// Start/end are opaque "HH:MM" display strings; the fixed width makes a
	// descending string sort equivalent to a time sort.
	TimeStart string `gorm:"column:appointment_time_start;type:varchar(5)" json:"appointment_time_start"`
	TimeEnd   string `gorm:"column:appointment_time_end;type:varchar(5)" json:"appointment_time_end"`

	Status   VisitStatus `gorm:"column:status;type:varchar(50);not null" json:"status"`
	IsActive bool        `gorm:"column:is_active;default:false" json:"is_active"`
}

func (Appointment) TableName() string {
	return "appointments"
}

type ListAppointmentsQuery struct {
	// Search is a case-insensitive substring matched against the patient's
	// name parts.
	Search string
	Offset int
	Limit  int
}
