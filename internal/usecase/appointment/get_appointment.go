package appointment

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (*dto.AppointmentDetailDTO, error) {

	ap, err := uc.repo.GetAppointment(ctx, clinicID, appointmentID)
	if errors.Is(err, domain.ErrAppointmentNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment %d: %w", appointmentID, err)
	}

	out := dto.NewAppointmentDetail(*ap)
	return &out, nil
}
