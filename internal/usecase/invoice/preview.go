package invoice

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
)

// PreviewInvoice computes totals without persisting anything.
type PreviewInvoice struct {
	repo domain.Repository
}

func NewPreviewInvoice(repo domain.Repository) *PreviewInvoice {
	return &PreviewInvoice{repo: repo}
}

func (uc *PreviewInvoice) Execute(ctx context.Context, in InvoiceInput) (*dto.InvoiceTotalsDTO, error) {
	items, err := resolveItems(ctx, uc.repo, in.ClinicID, in.Items)
	if err != nil {
		return nil, err
	}

	adj := in.adjustments()
	totals, err := domain.ComputeInvoiceTotals(items, adj)
	if err != nil {
		return nil, err
	}

	out := dto.NewInvoiceTotals(items, adj, totals)
	return &out, nil
}
