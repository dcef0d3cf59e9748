package invoice

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type GetInvoice struct {
	repo domain.Repository
}

func NewGetInvoice(repo domain.Repository) *GetInvoice {
	return &GetInvoice{repo: repo}
}

func (uc *GetInvoice) Execute(ctx context.Context, clinicID, invoiceID uint) (*dto.InvoiceDTO, error) {
	inv, err := uc.repo.GetInvoice(ctx, clinicID, invoiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("invoice_not_found")
	}

	out, err := present(*inv)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type ListInvoicesByPatient struct {
	repo domain.Repository
}

func NewListInvoicesByPatient(repo domain.Repository) *ListInvoicesByPatient {
	return &ListInvoicesByPatient{repo: repo}
}

func (uc *ListInvoicesByPatient) Execute(ctx context.Context, clinicID, patientID uint) ([]dto.InvoiceDTO, error) {
	if _, err := uc.repo.GetPatient(ctx, clinicID, patientID); err != nil {
		return nil, httperr.ErrBusiness("patient_not_found")
	}

	invoices, err := uc.repo.ListInvoicesForPatient(ctx, clinicID, patientID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.InvoiceDTO, 0, len(invoices))
	for _, inv := range invoices {
		d, err := present(inv)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// present recomputes totals from the stored inputs; the stored grand total
// is never read back.
func present(inv models.Invoice) (dto.InvoiceDTO, error) {
	totals, err := domain.Recompute(inv)
	if err != nil {
		return dto.InvoiceDTO{}, fmt.Errorf("invoice %d has invalid stored inputs: %w", inv.ID, err)
	}
	return dto.NewInvoice(inv, totals), nil
}
