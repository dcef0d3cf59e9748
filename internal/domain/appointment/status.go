package appointment

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusMissed     Status = "missed"
)

// ===============================
// Actions
// ===============================

type Action string

const (
	ActionStart    Action = "start"
	ActionCancel   Action = "cancel"
	ActionMiss     Action = "miss"
	ActionComplete Action = "complete"
)

// Actions lists every known action in display order.
var Actions = []Action{ActionStart, ActionComplete, ActionCancel, ActionMiss}

// transitions is the single transition table for the appointment lifecycle.
// Terminal states have no entry.
var transitions = map[Status]map[Action]Status{
	StatusScheduled: {
		ActionStart:  StatusInProgress,
		ActionCancel: StatusCancelled,
		ActionMiss:   StatusMissed,
	},
	StatusInProgress: {
		ActionComplete: StatusCompleted,
		ActionCancel:   StatusCancelled,
	},
}

func InitialStatus() Status {
	return StatusScheduled
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled, StatusMissed:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

func (s Status) label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// AllowedActions returns the actions that are legal from current, in the
// order of Actions. Unknown statuses allow nothing.
func AllowedActions(current Status) []Action {
	next := transitions[current]
	out := make([]Action, 0, len(next))
	for _, a := range Actions {
		if _, ok := next[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// NextStatus resolves the target state of action from current.
func NextStatus(current Status, action Action) (Status, error) {
	if to, ok := transitions[current][action]; ok {
		return to, nil
	}
	return "", invalidTransition(current, action)
}

// CanApply is the guard used before any state change.
func CanApply(current Status, action Action) error {
	_, err := NextStatus(current, action)
	return err
}

func invalidTransition(current Status, action Action) error {
	e := httperr.InvalidTransitionError{From: string(current), Action: string(action)}

	known := false
	for _, a := range Actions {
		if a == action {
			known = true
			break
		}
	}

	switch {
	case !known:
		e.Message = fmt.Sprintf("unknown appointment action %q", action)
	case !current.Valid():
		e.Message = fmt.Sprintf("cannot %s an appointment with unknown status %q", action, current)
	default:
		sources := sourcesOf(action)
		if len(sources) == 1 {
			e.Message = fmt.Sprintf("cannot %s an appointment that is not %s", action, sources[0].label())
		} else {
			e.Message = fmt.Sprintf("cannot %s an appointment that is %s", action, current.label())
		}
	}
	return e
}

func sourcesOf(action Action) []Status {
	var out []Status
	for _, s := range []Status{StatusScheduled, StatusInProgress} {
		if _, ok := transitions[s][action]; ok {
			out = append(out, s)
		}
	}
	return out
}
