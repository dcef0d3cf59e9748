package invoice

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ErrStalePayment is returned by UpdatePayment when the stored payment
// status is no longer the one the caller validated against.
var ErrStalePayment = errors.New("invoice payment status changed concurrently")

type Repository interface {
	GetPatient(ctx context.Context, clinicID, patientID uint) (*models.Patient, error)
	GetAppointment(ctx context.Context, clinicID, appointmentID uint) (*models.Appointment, error)
	GetCatalogItem(ctx context.Context, clinicID, itemID uint) (*models.CatalogItem, error)

	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, clinicID, invoiceID uint) (*models.Invoice, error)
	ListInvoicesForPatient(ctx context.Context, clinicID, patientID uint) ([]models.Invoice, error)

	// UpdatePayment persists only the payment columns, and only while the
	// row still carries expected.
	UpdatePayment(ctx context.Context, inv *models.Invoice, expected PaymentStatus) error
}
