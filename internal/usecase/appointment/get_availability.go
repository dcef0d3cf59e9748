package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	if _, err := uc.repo.GetDoctor(ctx, in.ClinicID, in.DoctorID); err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = domain.DefaultDurationMinutes
	}
	if !domain.IsAllowedDuration(duration) {
		return nil, httperr.Validation("duration_minutes", "must be one of 15, 30, 45 or 60")
	}

	wh, err := uc.repo.GetWorkingHours(ctx, in.DoctorID, int(in.Date.Weekday()))
	if err != nil || !wh.Active {
		return []domain.TimeSlot{}, nil
	}

	existing, err := uc.repo.ListAppointmentsForDay(ctx, in.DoctorID, in.Date)
	if err != nil {
		return nil, err
	}

	return domain.FreeSlots(wh, in.DoctorID, in.Date, duration, existing), nil
}
