package dto

import (
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type AppointmentListDTO struct {
	ID              uint     `json:"id"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	DurationMinutes int      `json:"duration_minutes"`
	Status          string   `json:"status"`
	DoctorID        uint     `json:"doctor_id"`
	DoctorName      string   `json:"doctor_name"`
	PatientID       uint     `json:"patient_id"`
	PatientName     string   `json:"patient_name"`
	ChiefComplaint  string   `json:"chief_complaint,omitempty"`
	FollowUpDate    string   `json:"follow_up_date,omitempty"`
	AllowedActions  []string `json:"allowed_actions"`
}

type AppointmentDetailDTO struct {
	AppointmentListDTO

	CancellationReason string     `json:"cancellation_reason,omitempty"`
	MissReason         string     `json:"miss_reason,omitempty"`
	CompletionNotes    string     `json:"completion_notes,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	MissedAt           *time.Time `json:"missed_at,omitempty"`
	Version            int        `json:"version"`
}

func NewAppointmentList(ap models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:              ap.ID,
		Date:            ap.Date.Format(timezone.DateLayout),
		StartTime:       ap.StartTime,
		DurationMinutes: ap.DurationMinutes,
		Status:          ap.Status,
		DoctorID:        ap.DoctorID,
		DoctorName:      ap.Doctor.Name,
		PatientID:       ap.PatientID,
		PatientName:     ap.Patient.Name,
		ChiefComplaint:  ap.ChiefComplaint,
		AllowedActions:  AllowedActionNames(domain.Status(ap.Status)),
	}

	if slot, err := domain.SlotOf(ap); err == nil {
		out.EndTime = domain.FormatClock(slot.EndMinute())
	}
	if ap.FollowUpDate != nil {
		out.FollowUpDate = ap.FollowUpDate.Format(timezone.DateLayout)
	}

	return out
}

func NewAppointmentDetail(ap models.Appointment) AppointmentDetailDTO {
	return AppointmentDetailDTO{
		AppointmentListDTO: NewAppointmentList(ap),
		CancellationReason: ap.CancellationReason,
		MissReason:         ap.MissReason,
		CompletionNotes:    ap.CompletionNotes,
		StartedAt:          ap.StartedAt,
		CompletedAt:        ap.CompletedAt,
		CancelledAt:        ap.CancelledAt,
		MissedAt:           ap.MissedAt,
		Version:            ap.Version,
	}
}

// AllowedActionNames never returns nil so terminal states encode as [].
func AllowedActionNames(s domain.Status) []string {
	actions := domain.AllowedActions(s)
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, string(a))
	}
	return out
}
