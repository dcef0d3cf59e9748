package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClinicID uint   `gorm:"index" json:"clinic_id"`
	Clinic   Clinic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	DoctorID uint   `gorm:"index:idx_appointments_doctor_date" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor"`

	PatientID uint    `gorm:"index" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	// Date is the calendar day at midnight UTC; StartTime is "15:04".
	Date            time.Time `gorm:"type:date;index:idx_appointments_doctor_date" json:"date"`
	StartTime       string    `gorm:"size:5;not null" json:"start_time"`
	DurationMinutes int       `gorm:"not null;default:30" json:"duration_minutes"`

	// StartsAt/EndsAt are the wall-clock range backing the exclusion constraint.
	StartsAt time.Time `gorm:"type:timestamp" json:"starts_at"`
	EndsAt   time.Time `gorm:"type:timestamp" json:"ends_at"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	ChiefComplaint     string     `gorm:"size:255" json:"chief_complaint,omitempty"`
	CancellationReason string     `gorm:"size:500" json:"cancellation_reason,omitempty"`
	MissReason         string     `gorm:"size:500" json:"miss_reason,omitempty"`
	CompletionNotes    string     `gorm:"type:text" json:"completion_notes,omitempty"`
	FollowUpDate       *time.Time `gorm:"type:date;index" json:"follow_up_date,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	MissedAt    *time.Time `json:"missed_at,omitempty"`

	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
