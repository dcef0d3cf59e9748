package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AvailabilityInput struct {
	ClinicID        uint
	DoctorID        uint
	Date            time.Time
	DurationMinutes int
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeSlots walks the working day in steps of durationMinutes and keeps the
// slots that neither hit the break nor conflict with a reserved appointment.
func FreeSlots(
	wh *models.WorkingHours,
	doctorID uint,
	date time.Time,
	durationMinutes int,
	existing []models.Appointment,
) []TimeSlot {

	slots := []TimeSlot{}
	if wh == nil || !wh.Active || durationMinutes <= 0 {
		return slots
	}

	dayStart, err := ParseClock(wh.StartTime)
	if err != nil {
		return slots
	}
	dayEnd, err := ParseClock(wh.EndTime)
	if err != nil {
		return slots
	}

	for cur := dayStart; cur+durationMinutes <= dayEnd; cur += durationMinutes {
		candidate := Slot{
			DoctorID:        doctorID,
			Date:            date,
			StartMinute:     cur,
			DurationMinutes: durationMinutes,
		}

		if !IsWithinWorkingHours(wh, candidate) {
			continue
		}
		if HasConflict(candidate, existing) {
			continue
		}

		slots = append(slots, TimeSlot{
			Start: FormatClock(candidate.StartMinute),
			End:   FormatClock(candidate.EndMinute()),
		})
	}

	return slots
}
