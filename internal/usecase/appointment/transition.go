package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const maxTransitionAttempts = 3

var auditActions = map[domain.Action]string{
	domain.ActionStart:    "appointment_started",
	domain.ActionCancel:   "appointment_cancelled",
	domain.ActionMiss:     "appointment_missed",
	domain.ActionComplete: "appointment_completed",
}

type TransitionInput struct {
	ClinicID      uint
	AppointmentID uint
	Actor         string

	Action  domain.Action
	Payload domain.TransitionPayload
}

// TransitionAppointment applies one lifecycle action. Each attempt works on
// a fresh snapshot and writes with a version check.
type TransitionAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.ClinicMetrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewTransitionAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	metrics *metrics.ClinicMetrics,
	logger zerolog.Logger,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:    repo,
		audit:   audit,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.Appointment, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, httperr.ErrBusiness("clinic_not_found")
	}
	loc := timezone.Location(clinic.Timezone)

	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		ap, err := uc.repo.GetAppointment(ctx, in.ClinicID, in.AppointmentID)
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		if err != nil {
			return nil, fmt.Errorf("load appointment %d: %w", in.AppointmentID, err)
		}

		expected := ap.Version
		updated, err := domain.ApplyTransition(*ap, in.Action, in.Payload, uc.now().In(loc))
		if err != nil {
			uc.metrics.ObserveTransition(string(in.Action), "rejected")
			return nil, err
		}

		err = uc.repo.UpdateAppointment(ctx, &updated, expected)
		if errors.Is(err, domain.ErrStaleAppointment) {
			uc.metrics.ObserveStaleRetry()
			uc.logger.Debug().
				Uint("appointment_id", in.AppointmentID).
				Int("attempt", attempt).
				Msg("stale appointment, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		uc.metrics.ObserveTransition(string(in.Action), "applied")
		uc.audit.Dispatch(audit.Event{
			ClinicID: in.ClinicID,
			Actor:    in.Actor,
			Action:   auditActions[in.Action],
			Entity:   "appointment",
			EntityID: &updated.ID,
			Metadata: transitionMetadata(ap.Status, updated),
		})

		return &updated, nil
	}

	uc.metrics.ObserveTransition(string(in.Action), "stale")
	return nil, fmt.Errorf("%w: %w", httperr.ErrBusiness("stale_appointment"), domain.ErrStaleAppointment)
}

func transitionMetadata(from string, ap models.Appointment) map[string]any {
	meta := map[string]any{
		"from": from,
		"to":   ap.Status,
	}
	switch domain.Status(ap.Status) {
	case domain.StatusCancelled:
		if ap.CancellationReason != "" {
			meta["reason"] = ap.CancellationReason
		}
	case domain.StatusMissed:
		if ap.MissReason != "" {
			meta["reason"] = ap.MissReason
		}
	case domain.StatusCompleted:
		if ap.FollowUpDate != nil {
			meta["follow_up_date"] = ap.FollowUpDate.Format(timezone.DateLayout)
		}
	}
	return meta
}
