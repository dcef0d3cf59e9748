package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClinicID  uint
	DoctorID  uint
	PatientID uint
	Actor     string

	Date            string
	Time            string
	DurationMinutes int
	ChiefComplaint  string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	locker  lock.BookingLocker
	audit   *audit.Dispatcher
	metrics *metrics.ClinicMetrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	locker lock.BookingLocker,
	audit *audit.Dispatcher,
	metrics *metrics.ClinicMetrics,
	logger zerolog.Logger,
) *CreateAppointment {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &CreateAppointment{
		repo:    repo,
		locker:  locker,
		audit:   audit,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)

	switch {
	case err == nil:
		uc.metrics.ObserveBooking("created")
	case httperr.IsConflict(err):
		uc.metrics.ObserveBooking("conflict")
	default:
		uc.metrics.ObserveBooking("rejected")
	}

	return ap, err
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Clinic, doctor, patient
	// --------------------------------------------------
	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, httperr.ErrBusiness("clinic_not_found")
	}

	doctor, err := uc.repo.GetDoctor(ctx, in.ClinicID, in.DoctorID)
	if err != nil || !doctor.Active {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	if _, err := uc.repo.GetPatient(ctx, in.ClinicID, in.PatientID); err != nil {
		return nil, httperr.ErrBusiness("patient_not_found")
	}

	// --------------------------------------------------
	// 2. Slot
	// --------------------------------------------------
	duration := in.DurationMinutes
	if duration == 0 {
		duration = domain.DefaultDurationMinutes
	}
	if !domain.IsAllowedDuration(duration) {
		return nil, httperr.Validation("duration_minutes", "must be one of 15, 30, 45 or 60")
	}

	date, err := timezone.ParseDay(in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	startMinute, err := domain.ParseClock(in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	slot := domain.Slot{
		DoctorID:        in.DoctorID,
		Date:            date,
		StartMinute:     startMinute,
		DurationMinutes: duration,
	}
	if domain.CrossesMidnight(slot) {
		return nil, httperr.Validation("start_time", "appointment must end on the day it starts")
	}

	// --------------------------------------------------
	// 3. Minimum advance, in the clinic timezone
	// --------------------------------------------------
	loc := timezone.Location(clinic.Timezone)
	startsAt := timezone.WallClock(date, startMinute, loc)
	now := uc.now().In(loc)

	minAdvance := time.Duration(clinic.MinAdvanceMinutes) * time.Minute
	if startsAt.Before(now.Add(minAdvance)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// 4. Working hours + break
	// --------------------------------------------------
	wh, err := uc.repo.GetWorkingHours(ctx, in.DoctorID, int(date.Weekday()))
	if err != nil || !domain.IsWithinWorkingHours(wh, slot) {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// 5. Serialize bookings for this doctor day
	// --------------------------------------------------
	release, err := uc.locker.Acquire(ctx, in.DoctorID, date)
	switch {
	case errors.Is(err, lock.ErrHeld):
		return nil, httperr.ErrBusiness("booking_in_progress")
	case err != nil:
		uc.logger.Warn().Err(err).Uint("doctor_id", in.DoctorID).Msg("booking lock unavailable, relying on database guard")
	default:
		defer release()
	}

	// --------------------------------------------------
	// 6. Conflict check + insert, one transaction
	// --------------------------------------------------
	ap, err := uc.repo.BookInTransaction(ctx, in.DoctorID, date, func(existing []models.Appointment) (*models.Appointment, error) {
		if clash := domain.Conflicts(slot, existing); len(clash) > 0 {
			ids := make([]uint, 0, len(clash))
			for _, c := range clash {
				ids = append(ids, c.ID)
			}
			return nil, httperr.ConflictError{DoctorID: in.DoctorID, ConflictingIDs: ids}
		}

		return &models.Appointment{
			ClinicID:        in.ClinicID,
			DoctorID:        in.DoctorID,
			PatientID:       in.PatientID,
			Date:            date,
			StartTime:       domain.FormatClock(startMinute),
			DurationMinutes: duration,
			StartsAt:        timezone.WallClock(date, slot.StartMinute, time.UTC),
			EndsAt:          timezone.WallClock(date, slot.EndMinute(), time.UTC),
			Status:          string(domain.InitialStatus()),
			ChiefComplaint:  in.ChiefComplaint,
			Version:         1,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		Actor:    in.Actor,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"doctor_id":  in.DoctorID,
			"patient_id": in.PatientID,
			"date":       in.Date,
			"start_time": ap.StartTime,
		},
	})

	return ap, nil
}
