package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const MaxReasonLength = 500

// TransitionPayload carries everything a single status change needs.
type TransitionPayload struct {
	Reason string
	Notes  string

	// Only accepted with ActionComplete. When both are set they must name
	// the same day.
	FollowUpDate   *time.Time
	FollowUpInDays *int
}

func (p TransitionPayload) hasFollowUp() bool {
	return p.FollowUpDate != nil || p.FollowUpInDays != nil
}

// ===============================
// Domain Actions
// ===============================

// ApplyTransition validates action against the appointment's current status
// and returns the updated copy. The input is never mutated.
func ApplyTransition(
	ap models.Appointment,
	action Action,
	p TransitionPayload,
	now time.Time,
) (models.Appointment, error) {

	to, err := NextStatus(Status(ap.Status), action)
	if err != nil {
		return ap, err
	}

	if len(p.Reason) > MaxReasonLength {
		return ap, httperr.Validation("reason", "must be at most 500 characters")
	}
	if p.hasFollowUp() && action != ActionComplete {
		return ap, httperr.Validation("follow_up_date", "only accepted when completing an appointment")
	}

	out := ap
	switch action {
	case ActionStart:
		out.StartedAt = &now

	case ActionCancel:
		out.CancellationReason = p.Reason
		out.CancelledAt = &now

	case ActionMiss:
		out.MissReason = p.Reason
		out.MissedAt = &now

	case ActionComplete:
		followUp, err := DeriveFollowUp(ap.Date, p)
		if err != nil {
			return ap, err
		}
		out.FollowUpDate = followUp
		out.CompletionNotes = p.Notes
		if out.CompletionNotes == "" {
			out.CompletionNotes = p.Reason
		}
		out.CompletedAt = &now
	}

	out.Status = string(to)
	return out, nil
}

func Start(ap models.Appointment, now time.Time) (models.Appointment, error) {
	return ApplyTransition(ap, ActionStart, TransitionPayload{}, now)
}

func Cancel(ap models.Appointment, reason string, now time.Time) (models.Appointment, error) {
	return ApplyTransition(ap, ActionCancel, TransitionPayload{Reason: reason}, now)
}

func MarkMissed(ap models.Appointment, reason string, now time.Time) (models.Appointment, error) {
	return ApplyTransition(ap, ActionMiss, TransitionPayload{Reason: reason}, now)
}

func Complete(ap models.Appointment, p TransitionPayload, now time.Time) (models.Appointment, error) {
	return ApplyTransition(ap, ActionComplete, p, now)
}
