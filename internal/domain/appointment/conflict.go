package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const minutesPerDay = 24 * 60

// Slot is a (doctor, day, start, duration) reservation. Start is minutes
// after midnight; the interval is half-open [Start, Start+Duration).
type Slot struct {
	DoctorID        uint
	Date            time.Time
	StartMinute     int
	DurationMinutes int
}

func (s Slot) EndMinute() int {
	return s.StartMinute + s.DurationMinutes
}

// Overlaps is the half-open interval test. Slots that merely touch do not
// overlap. It does not look at doctor or date.
func Overlaps(a, b Slot) bool {
	return a.StartMinute < b.EndMinute() && b.StartMinute < a.EndMinute()
}

// SlotOf reads the reservation held by an appointment row.
func SlotOf(ap models.Appointment) (Slot, error) {
	start, err := ParseClock(ap.StartTime)
	if err != nil {
		return Slot{}, err
	}
	return Slot{
		DoctorID:        ap.DoctorID,
		Date:            ap.Date,
		StartMinute:     start,
		DurationMinutes: ap.DurationMinutes,
	}, nil
}

// reserves reports whether an appointment still holds its slot. Missed
// appointments keep theirs.
func reserves(ap models.Appointment) bool {
	return Status(ap.Status) != StatusCancelled
}

// Conflicts returns the existing appointments whose slot overlaps candidate.
// A reserved row whose start time cannot be read is reported as conflicting.
func Conflicts(candidate Slot, existing []models.Appointment) []models.Appointment {
	var out []models.Appointment
	for _, ap := range existing {
		if ap.DoctorID != candidate.DoctorID || !sameDay(ap.Date, candidate.Date) {
			continue
		}
		if !reserves(ap) {
			continue
		}
		slot, err := SlotOf(ap)
		if err != nil {
			out = append(out, ap)
			continue
		}
		if Overlaps(candidate, slot) {
			out = append(out, ap)
		}
	}
	return out
}

func HasConflict(candidate Slot, existing []models.Appointment) bool {
	return len(Conflicts(candidate, existing)) > 0
}

// ===============================
// Clock helpers
// ===============================

// ParseClock converts "15:04" into minutes after midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", hm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CrossesMidnight reports a slot that would end on the next day.
func CrossesMidnight(s Slot) bool {
	return s.EndMinute() > minutesPerDay
}

const DefaultDurationMinutes = 30

var allowedDurations = map[int]bool{15: true, 30: true, 45: true, 60: true}

func IsAllowedDuration(minutes int) bool {
	return allowedDurations[minutes]
}
