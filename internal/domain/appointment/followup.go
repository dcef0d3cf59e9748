package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type FollowUpState string

const (
	FollowUpOverdue  FollowUpState = "overdue"
	FollowUpDueToday FollowUpState = "due_today"
	FollowUpUpcoming FollowUpState = "upcoming"
)

// DeriveFollowUp returns the follow-up day carried by a completion payload,
// or nil when none was requested. The day may not precede appointmentDate.
func DeriveFollowUp(appointmentDate time.Time, p TransitionPayload) (*time.Time, error) {
	base := civilDay(appointmentDate)

	var fromInterval *time.Time
	if p.FollowUpInDays != nil {
		if *p.FollowUpInDays < 0 {
			return nil, httperr.Validation("follow_up_in_days", "must not be negative")
		}
		d := base.AddDate(0, 0, *p.FollowUpInDays)
		fromInterval = &d
	}

	if p.FollowUpDate == nil {
		return fromInterval, nil
	}

	d := civilDay(*p.FollowUpDate)
	if d.Before(base) {
		return nil, httperr.Validation("follow_up_date", "must not be before the appointment date")
	}
	if fromInterval != nil && !fromInterval.Equal(d) {
		return nil, httperr.Validation("follow_up_date", "does not match follow_up_in_days")
	}
	return &d, nil
}

// ClassifyFollowUp is a read-side view; it stores nothing.
func ClassifyFollowUp(followUp, today time.Time) FollowUpState {
	f, t := civilDay(followUp), civilDay(today)
	switch {
	case f.Before(t):
		return FollowUpOverdue
	case f.Equal(t):
		return FollowUpDueToday
	default:
		return FollowUpUpcoming
	}
}

// civilDay drops the clock and zone, keeping the calendar day as seen in t's
// own location.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return civilDay(a).Equal(civilDay(b))
}
