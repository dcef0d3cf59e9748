package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type UpdatePaymentInput struct {
	ClinicID  uint
	InvoiceID uint
	Actor     string

	Status      domain.PaymentStatus
	Method      domain.PaymentMethod
	PaymentDate *time.Time
	Notes       *string
}

// UpdatePayment moves an invoice along its payment lifecycle. Items and
// amounts are never written.
type UpdatePayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdatePayment(repo domain.Repository, audit *audit.Dispatcher) *UpdatePayment {
	return &UpdatePayment{repo: repo, audit: audit, now: time.Now}
}

func (uc *UpdatePayment) Execute(ctx context.Context, in UpdatePaymentInput) (*dto.InvoiceDTO, error) {
	if in.Method != "" && !in.Method.Valid() {
		return nil, httperr.Validation("payment_method", "unknown payment method")
	}

	inv, err := uc.repo.GetInvoice(ctx, in.ClinicID, in.InvoiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("invoice_not_found")
	}

	from := domain.PaymentStatus(inv.PaymentStatus)
	if err := domain.CanMovePayment(from, in.Status); err != nil {
		return nil, err
	}

	inv.PaymentStatus = string(in.Status)
	if in.Method != "" {
		inv.PaymentMethod = string(in.Method)
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}

	switch {
	case in.PaymentDate != nil:
		d := in.PaymentDate.UTC()
		inv.PaymentDate = &d
	case in.Status == domain.PaymentPaid:
		d := uc.now().UTC()
		inv.PaymentDate = &d
	}

	err = uc.repo.UpdatePayment(ctx, inv, from)
	if errors.Is(err, domain.ErrStalePayment) {
		return nil, fmt.Errorf("%w: %w", httperr.ErrBusiness("stale_invoice"), err)
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		Actor:    in.Actor,
		Action:   "invoice_payment_" + string(in.Status),
		Entity:   "invoice",
		EntityID: &inv.ID,
		Metadata: map[string]any{"from": string(from), "to": string(in.Status)},
	})

	out, err := present(*inv)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
