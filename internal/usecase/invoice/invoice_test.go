package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var errNotFound = errors.New("record not found")

type fakeRepo struct {
	patients     map[uint]models.Patient
	appointments map[uint]models.Appointment
	catalog      map[uint]models.CatalogItem
	invoices     map[uint]models.Invoice
	nextID       uint
	payments     int

	// racePayment simulates another request moving the stored status
	// between the read and the next UpdatePayment.
	racePayment domain.PaymentStatus
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		patients:     map[uint]models.Patient{4: {ID: 4, ClinicID: 1, Name: "Asha"}},
		appointments: map[uint]models.Appointment{8: {ID: 8, ClinicID: 1, PatientID: 4}},
		catalog: map[uint]models.CatalogItem{
			20: {ID: 20, ClinicID: 1, ItemType: "medicine", Name: "Amoxicillin 500mg", Unit: "strip", UnitPrice: dec("100"), TaxPercent: dec("10"), Active: true},
			21: {ID: 21, ClinicID: 1, ItemType: "service", Name: "Retired", Active: false},
		},
		invoices: map[uint]models.Invoice{},
		nextID:   1,
	}
}

func (r *fakeRepo) GetPatient(_ context.Context, clinicID, id uint) (*models.Patient, error) {
	p, ok := r.patients[id]
	if !ok || p.ClinicID != clinicID {
		return nil, errNotFound
	}
	return &p, nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, clinicID, id uint) (*models.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok || a.ClinicID != clinicID {
		return nil, errNotFound
	}
	return &a, nil
}

func (r *fakeRepo) GetCatalogItem(_ context.Context, clinicID, id uint) (*models.CatalogItem, error) {
	c, ok := r.catalog[id]
	if !ok || c.ClinicID != clinicID {
		return nil, errNotFound
	}
	return &c, nil
}

func (r *fakeRepo) CreateInvoice(_ context.Context, inv *models.Invoice) error {
	inv.ID = r.nextID
	r.nextID++
	r.invoices[inv.ID] = *inv
	return nil
}

func (r *fakeRepo) GetInvoice(_ context.Context, clinicID, id uint) (*models.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok || inv.ClinicID != clinicID {
		return nil, errNotFound
	}
	return &inv, nil
}

func (r *fakeRepo) ListInvoicesForPatient(_ context.Context, clinicID, patientID uint) ([]models.Invoice, error) {
	var out []models.Invoice
	for _, inv := range r.invoices {
		if inv.ClinicID == clinicID && inv.PatientID == patientID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdatePayment(_ context.Context, inv *models.Invoice, expected domain.PaymentStatus) error {
	r.payments++
	stored := r.invoices[inv.ID]
	if r.racePayment != "" {
		stored.PaymentStatus = string(r.racePayment)
		r.racePayment = ""
	}
	if stored.PaymentStatus != string(expected) {
		r.invoices[inv.ID] = stored
		return domain.ErrStalePayment
	}
	stored.PaymentStatus = inv.PaymentStatus
	stored.PaymentMethod = inv.PaymentMethod
	stored.PaymentDate = inv.PaymentDate
	stored.Notes = inv.Notes
	r.invoices[inv.ID] = stored
	return nil
}

var _ domain.Repository = (*fakeRepo)(nil)

type recordingArchiver struct {
	archived []string
	err      error
}

func (a *recordingArchiver) Archive(_ context.Context, inv *models.Invoice) error {
	a.archived = append(a.archived, inv.InvoiceNumber)
	return a.err
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func uintPtr(v uint) *uint { return &v }

// Consultation 500 + medicine 2x100 -10 at 10% (209)
// + 50 charges - 100 discount + 0 tax = 659.
func visitInvoice() InvoiceInput {
	return InvoiceInput{
		ClinicID:      1,
		PatientID:     4,
		AppointmentID: uintPtr(8),
		Actor:         "billing",
		Items: []ItemInput{{
			CatalogItemID: uintPtr(20),
			Quantity:      dec("2"),
			Discount:      dec("10"),
		}},
		ConsultationFee:   dec("500"),
		AdditionalCharges: dec("50"),
		Discount:          dec("100"),
	}
}

func newCreate(repo *fakeRepo, archiver Archiver) *CreateInvoice {
	uc := NewCreateInvoice(repo, archiver, nil, nil, zerolog.Nop())
	uc.now = func() time.Time { return time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC) }
	return uc
}

func TestCreateInvoiceComputesAndPersists(t *testing.T) {
	repo := newFakeRepo()
	arch := &recordingArchiver{}

	out, err := newCreate(repo, arch).Execute(context.Background(), visitInvoice())
	require.NoError(t, err)

	assert.Equal(t, "659.00", out.GrandTotal)
	assert.Equal(t, "209.00", out.ItemsTotal)
	assert.Equal(t, "pending", out.PaymentStatus)
	assert.Regexp(t, `^INV-20260310-[0-9A-F]{8}$`, out.InvoiceNumber)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Amoxicillin 500mg", out.Items[0].Name)
	assert.Equal(t, "strip", out.Items[0].Unit)

	stored := repo.invoices[out.ID]
	assert.True(t, stored.GrandTotal.Equal(dec("659")))
	assert.True(t, stored.Items[0].LineTotal.Equal(dec("209")))
	assert.Equal(t, []string{out.InvoiceNumber}, arch.archived)
}

func TestCreateInvoiceArchiveFailureIsNotFatal(t *testing.T) {
	repo := newFakeRepo()
	_, err := newCreate(repo, &recordingArchiver{err: errors.New("s3 down")}).Execute(context.Background(), visitInvoice())
	require.NoError(t, err)
	assert.Len(t, repo.invoices, 1)
}

func TestCreateInvoiceRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*InvoiceInput)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unknown patient",
			mutate: func(in *InvoiceInput) { in.PatientID = 99 },
			check:  func(t *testing.T, err error) { assert.True(t, httperr.IsBusiness(err, "patient_not_found")) },
		},
		{
			name:   "inactive catalog item",
			mutate: func(in *InvoiceInput) { in.Items[0].CatalogItemID = uintPtr(21) },
			check: func(t *testing.T, err error) {
				var ve httperr.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "items[0].catalog_item_id", ve.Field)
			},
		},
		{
			name:   "discount above subtotal",
			mutate: func(in *InvoiceInput) { in.Items[0].Discount = dec("250") },
			check: func(t *testing.T, err error) {
				var ve httperr.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "items[0].discount", ve.Field)
			},
		},
		{
			name:   "negative consultation fee",
			mutate: func(in *InvoiceInput) { in.ConsultationFee = dec("-1") },
			check: func(t *testing.T, err error) {
				var ve httperr.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "consultation_fee", ve.Field)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			in := visitInvoice()
			tt.mutate(&in)

			_, err := newCreate(repo, nil).Execute(context.Background(), in)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, repo.invoices)
		})
	}
}

func TestCreateInvoiceAppointmentMismatch(t *testing.T) {
	repo := newFakeRepo()
	repo.patients[5] = models.Patient{ID: 5, ClinicID: 1}
	in := visitInvoice()
	in.PatientID = 5

	_, err := newCreate(repo, nil).Execute(context.Background(), in)

	var ve httperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "appointment_id", ve.Field)
}

func TestPreviewMatchesCreate(t *testing.T) {
	repo := newFakeRepo()

	preview, err := NewPreviewInvoice(repo).Execute(context.Background(), visitInvoice())
	require.NoError(t, err)
	assert.Empty(t, repo.invoices)

	created, err := newCreate(repo, nil).Execute(context.Background(), visitInvoice())
	require.NoError(t, err)

	assert.Equal(t, created.GrandTotal, preview.GrandTotal)
	assert.Equal(t, created.Items, preview.Items)
}

func TestPreviewExplicitPriceOverridesCatalog(t *testing.T) {
	in := visitInvoice()
	in.Items[0].UnitPrice = decPtr("80")
	in.Items[0].TaxPercent = decPtr("0")

	out, err := NewPreviewInvoice(newFakeRepo()).Execute(context.Background(), in)
	require.NoError(t, err)

	// 2x80 - 10 = 150, no tax.
	assert.Equal(t, "150.00", out.ItemsTotal)
}

func TestGetInvoiceRecomputesTotals(t *testing.T) {
	repo := newFakeRepo()
	created, err := newCreate(repo, nil).Execute(context.Background(), visitInvoice())
	require.NoError(t, err)

	// Corrupt the stored figure; reads must not trust it.
	stored := repo.invoices[created.ID]
	stored.GrandTotal = dec("1")
	repo.invoices[created.ID] = stored

	out, err := NewGetInvoice(repo).Execute(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "659.00", out.GrandTotal)

	_, err = NewGetInvoice(repo).Execute(context.Background(), 2, created.ID)
	assert.True(t, httperr.IsBusiness(err, "invoice_not_found"))
}

func TestListInvoicesByPatient(t *testing.T) {
	repo := newFakeRepo()
	_, err := newCreate(repo, nil).Execute(context.Background(), visitInvoice())
	require.NoError(t, err)

	out, err := NewListInvoicesByPatient(repo).Execute(context.Background(), 1, 4)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = NewListInvoicesByPatient(repo).Execute(context.Background(), 1, 99)
	assert.True(t, httperr.IsBusiness(err, "patient_not_found"))
}

func TestUpdatePaymentLifecycle(t *testing.T) {
	repo := newFakeRepo()
	created, err := newCreate(repo, nil).Execute(context.Background(), visitInvoice())
	require.NoError(t, err)

	paidAt := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	uc := NewUpdatePayment(repo, nil)
	uc.now = func() time.Time { return paidAt }

	out, err := uc.Execute(context.Background(), UpdatePaymentInput{
		ClinicID: 1, InvoiceID: created.ID, Status: domain.PaymentPartial, Method: domain.MethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "partial", out.PaymentStatus)
	assert.Nil(t, out.PaymentDate)

	out, err = uc.Execute(context.Background(), UpdatePaymentInput{
		ClinicID: 1, InvoiceID: created.ID, Status: domain.PaymentPaid, Method: domain.MethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", out.PaymentStatus)
	assert.Equal(t, "card", out.PaymentMethod)
	require.NotNil(t, out.PaymentDate)
	assert.True(t, out.PaymentDate.Equal(paidAt))
	assert.Equal(t, "659.00", out.GrandTotal)
	assert.Empty(t, out.NextPaymentStatuses)

	_, err = uc.Execute(context.Background(), UpdatePaymentInput{
		ClinicID: 1, InvoiceID: created.ID, Status: domain.PaymentPending,
	})
	assert.True(t, httperr.IsInvalidTransition(err))
	assert.Equal(t, 2, repo.payments)
}

func TestUpdatePaymentRejectsUnknownMethod(t *testing.T) {
	repo := newFakeRepo()
	created, err := newCreate(repo, nil).Execute(context.Background(), visitInvoice())
	require.NoError(t, err)

	_, err = NewUpdatePayment(repo, nil).Execute(context.Background(), UpdatePaymentInput{
		ClinicID: 1, InvoiceID: created.ID, Status: domain.PaymentPaid, Method: "barter",
	})
	assert.True(t, httperr.IsValidation(err))
	assert.Zero(t, repo.payments)
}

func TestUpdatePaymentLosesRaceToConcurrentCancel(t *testing.T) {
	repo := newFakeRepo()
	created, err := newCreate(repo, nil).Execute(context.Background(), visitInvoice())
	require.NoError(t, err)

	repo.racePayment = domain.PaymentCancelled

	_, err = NewUpdatePayment(repo, nil).Execute(context.Background(), UpdatePaymentInput{
		ClinicID: 1, InvoiceID: created.ID, Status: domain.PaymentPaid, Method: domain.MethodCard,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "stale_invoice"))
	assert.ErrorIs(t, err, domain.ErrStalePayment)

	stored := repo.invoices[created.ID]
	assert.Equal(t, "cancelled", stored.PaymentStatus)
	assert.Nil(t, stored.PaymentDate)
}
