package models

import "time"

// Patient belongs to a single clinic; identity is the phone number within it.
type Patient struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`

	Name        string     `gorm:"size:100;not null" json:"name"`
	Phone       string     `gorm:"size:20" json:"phone"`
	Email       string     `gorm:"size:100" json:"email"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
