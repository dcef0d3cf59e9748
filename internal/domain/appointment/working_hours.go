package appointment

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// IsWithinWorkingHours checks a slot against one weekday of a doctor's
// schedule, including the break.
func IsWithinWorkingHours(wh *models.WorkingHours, slot Slot) bool {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}

	workStart, err := ParseClock(wh.StartTime)
	if err != nil {
		return false
	}
	workEnd, err := ParseClock(wh.EndTime)
	if err != nil {
		return false
	}

	if slot.StartMinute < workStart || slot.EndMinute() > workEnd {
		return false
	}

	if br, ok := breakSlot(wh); ok && Overlaps(slot, br) {
		return false
	}

	return true
}

func breakSlot(wh *models.WorkingHours) (Slot, bool) {
	if wh.BreakStart == "" || wh.BreakEnd == "" {
		return Slot{}, false
	}
	start, err := ParseClock(wh.BreakStart)
	if err != nil {
		return Slot{}, false
	}
	end, err := ParseClock(wh.BreakEnd)
	if err != nil || end <= start {
		return Slot{}, false
	}
	return Slot{StartMinute: start, DurationMinutes: end - start}, true
}
