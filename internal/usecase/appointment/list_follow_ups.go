package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type ListFollowUpsInput struct {
	ClinicID uint
	// Zero bounds are open.
	From time.Time
	To   time.Time
	// Optional filter on the classified state.
	State domain.FollowUpState
}

type ListFollowUps struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListFollowUps(repo domain.Repository) *ListFollowUps {
	return &ListFollowUps{repo: repo, now: time.Now}
}

func (uc *ListFollowUps) Execute(
	ctx context.Context,
	in ListFollowUpsInput,
) ([]dto.FollowUpDTO, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, httperr.ErrBusiness("clinic_not_found")
	}
	if !in.From.IsZero() && !in.To.IsZero() && in.To.Before(in.From) {
		return nil, httperr.Validation("to", "must not be before from")
	}

	today := timezone.Day(uc.now().In(timezone.Location(clinic.Timezone)))

	apps, err := uc.repo.ListFollowUps(ctx, in.ClinicID, in.From, in.To)
	if err != nil {
		return nil, err
	}

	out := make([]dto.FollowUpDTO, 0, len(apps))
	for _, ap := range apps {
		if ap.FollowUpDate == nil {
			continue
		}

		state := domain.ClassifyFollowUp(*ap.FollowUpDate, today)
		if in.State != "" && state != in.State {
			continue
		}

		out = append(out, dto.FollowUpDTO{
			AppointmentID: ap.ID,
			VisitDate:     ap.Date.Format(timezone.DateLayout),
			FollowUpDate:  ap.FollowUpDate.Format(timezone.DateLayout),
			State:         string(state),
			PatientID:     ap.PatientID,
			PatientName:   ap.Patient.Name,
			PatientPhone:  ap.Patient.Phone,
			DoctorName:    ap.Doctor.Name,
		})
	}

	return out, nil
}
