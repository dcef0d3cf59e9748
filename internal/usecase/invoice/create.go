package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Archiver stores an immutable copy of an issued invoice.
type Archiver interface {
	Archive(ctx context.Context, inv *models.Invoice) error
}

type CreateInvoice struct {
	repo     domain.Repository
	archiver Archiver
	audit    *audit.Dispatcher
	metrics  *metrics.ClinicMetrics
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCreateInvoice(
	repo domain.Repository,
	archiver Archiver,
	audit *audit.Dispatcher,
	metrics *metrics.ClinicMetrics,
	logger zerolog.Logger,
) *CreateInvoice {
	return &CreateInvoice{
		repo:     repo,
		archiver: archiver,
		audit:    audit,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func (uc *CreateInvoice) Execute(ctx context.Context, in InvoiceInput) (*dto.InvoiceDTO, error) {
	if _, err := uc.repo.GetPatient(ctx, in.ClinicID, in.PatientID); err != nil {
		return nil, httperr.ErrBusiness("patient_not_found")
	}

	if in.AppointmentID != nil {
		ap, err := uc.repo.GetAppointment(ctx, in.ClinicID, *in.AppointmentID)
		if err != nil {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		if ap.PatientID != in.PatientID {
			return nil, httperr.Validation("appointment_id", "belongs to another patient")
		}
	}

	items, err := resolveItems(ctx, uc.repo, in.ClinicID, in.Items)
	if err != nil {
		return nil, err
	}

	adj := in.adjustments()
	totals, err := domain.ComputeInvoiceTotals(items, adj)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	inv := &models.Invoice{
		ClinicID:          in.ClinicID,
		InvoiceNumber:     invoiceNumber(now),
		PatientID:         in.PatientID,
		AppointmentID:     in.AppointmentID,
		Items:             domain.ToModelItems(items, totals),
		ConsultationFee:   adj.ConsultationFee,
		AdditionalCharges: adj.AdditionalCharges,
		Discount:          adj.Discount,
		Tax:               adj.Tax,
		GrandTotal:        totals.GrandTotal,
		PaymentStatus:     string(domain.InitialPaymentStatus()),
		Notes:             in.Notes,
		CreatedAt:         now,
	}

	if err := uc.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	uc.metrics.ObserveInvoiceCreated()

	if uc.archiver != nil {
		if err := uc.archiver.Archive(ctx, inv); err != nil {
			uc.logger.Warn().Err(err).Str("invoice_number", inv.InvoiceNumber).Msg("invoice archive failed")
		}
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		Actor:    in.Actor,
		Action:   "invoice_created",
		Entity:   "invoice",
		EntityID: &inv.ID,
		Metadata: map[string]any{
			"invoice_number": inv.InvoiceNumber,
			"grand_total":    totals.GrandTotal.String(),
		},
	})

	out := dto.NewInvoice(*inv, totals)
	return &out, nil
}

func invoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}
