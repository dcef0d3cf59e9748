package models

import "time"

// WorkingHours is one weekday of a doctor's schedule. Times are "15:04".
type WorkingHours struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"uniqueIndex:idx_working_hours_doctor_day" json:"doctor_id"`

	Weekday int `gorm:"uniqueIndex:idx_working_hours_doctor_day" json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	BreakStart string `gorm:"size:5" json:"break_start"`
	BreakEnd   string `gorm:"size:5" json:"break_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
