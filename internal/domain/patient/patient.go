package patient

import (
	"fmt"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	}
	return false
}

type Patient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	FirstName   string `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName    string `gorm:"column:last_name;type:varchar(100);not null" json:"last_name"`
	MiddleName  string `gorm:"column:middle_name;type:varchar(100);not null" json:"middle_name"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null" json:"date_of_birth"`
	Gender      Gender    `gorm:"column:gender;type:varchar(10);not null" json:"gender"`

	MedicalOrganization string     `gorm:"column:medical_organization;type:varchar(255)" json:"medical_organization"`
	MedicalArea         string     `gorm:"column:medical_area;type:varchar(50)" json:"medical_area"`
	LastVisitDate       *time.Time `gorm:"column:last_visit_date" json:"last_visit_date"`

	ChronicDiseases  []ChronicDisease `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"chronic_diseases"`
	RecentDiseases   []RecentDisease  `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"recent_diseases"`
	HealthIndicators *HealthIndicator `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"health_indicators"`
}

func (Patient) TableName() string {
	return "patients"
}

// FullName renders the display name in the "last first middle" order used
// throughout the clinic UI.
func (p *Patient) FullName() string {
	return fmt.Sprintf("%s %s %s", p.LastName, p.FirstName, p.MiddleName)
}

// AgeAt computes full years lived as of the reference date, accounting for
// whether the birthday has occurred yet that year.
func (p *Patient) AgeAt(ref time.Time) int {
	years := ref.Year() - p.DateOfBirth.Year()
	if ref.Month() < p.DateOfBirth.Month() ||
		(ref.Month() == p.DateOfBirth.Month() && ref.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

func (p *Patient) Age() int {
	return p.AgeAt(time.Now())
}

type ChronicDisease struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PatientID uint   `gorm:"column:patient_id;not null;index" json:"-"`
	Name      string `gorm:"column:name;type:varchar(255);not null" json:"name"`
}

func (ChronicDisease) TableName() string {
	return "chronic_diseases"
}

type RecentDisease struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PatientID uint   `gorm:"column:patient_id;not null;index" json:"-"`
	Name      string `gorm:"column:name;type:varchar(255);not null" json:"name"`
}

func (RecentDisease) TableName() string {
	return "recent_diseases"
}

// HealthIndicator holds the latest known vitals for a patient, one row per
// patient. Updates overwrite in place; there is no history of prior readings.
// The blood-pressure fields are maintained independently of the lab vitals.
type HealthIndicator struct {
	ID        uint `gorm:"primaryKey" json:"-"`
	PatientID uint `gorm:"column:patient_id;not null;uniqueIndex" json:"-"`

	Hemoglobin  *float64 `gorm:"column:hemoglobin" json:"hemoglobin"`   // г/л
	Cholesterol *float64 `gorm:"column:cholesterol" json:"cholesterol"` // ммоль/л
	BMI         *float64 `gorm:"column:bmi" json:"bmi"`                 // кг/м²
	HeartRate   *int     `gorm:"column:heart_rate" json:"heart_rate"`   // уд/мин

	SystolicPressure  *int       `gorm:"column:systolic_pressure" json:"systolic_pressure"`
	DiastolicPressure *int       `gorm:"column:diastolic_pressure" json:"diastolic_pressure"`
	Pulse             *int       `gorm:"column:pulse" json:"pulse"`
	BPSource          string     `gorm:"column:bp_source;type:varchar(30)" json:"bp_source"`
	BPUpdatedAt       *time.Time `gorm:"column:bp_updated_at" json:"bp_updated_at"`
}

func (HealthIndicator) TableName() string {
	return "health_indicators"
}

// UpdateBloodPressureCommand carries a validated pressure reading into the
// narrow upsert path that never touches the lab vitals.
type UpdateBloodPressureCommand struct {
	PatientID uint
	Systolic  int
	Diastolic int
	Pulse     *int
	Source    string
}

type ListPatientsQuery struct {
	// Search is a case-insensitive substring matched against first, last and
	// middle names, OR-combined.
	Search string
	Offset int
	Limit  int
}
