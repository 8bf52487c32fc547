package report

import "time"

// MedicalReport is the clinician's structured write-up for one appointment.
// There is at most one report per appointment; saves go through upsert
// semantics with per-field most-recent-write-wins.
type MedicalReport struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"column:appointment_id;not null;uniqueIndex" json:"appointment_id"`

	Purpose    *string `gorm:"column:purpose;type:text" json:"purpose"`
	Complaints *string `gorm:"column:complaints;type:text" json:"complaints"`
	Anamnesis  *string `gorm:"column:anamnesis;type:text" json:"anamnesis"`

	SubmittedToMIS bool       `gorm:"column:submitted_to_mis;default:false" json:"submitted_to_mis"`
	SubmittedAt    *time.Time `gorm:"column:submitted_at" json:"submitted_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MedicalReport) TableName() string {
	return "medical_reports"
}

// UpsertCommand carries the fields of a save. Nil fields leave the stored
// value untouched on update; on create they stay null.
type UpsertCommand struct {
	AppointmentID uint
	Purpose       *string
	Complaints    *string
	Anamnesis     *string
}
