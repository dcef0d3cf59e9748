package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Amounts are rounded to cents here and nowhere else.
const displayPlaces = 2

func money(d decimal.Decimal) string {
	return d.StringFixedBank(displayPlaces)
}

type InvoiceLineDTO struct {
	Position      int    `json:"position"`
	CatalogItemID *uint  `json:"catalog_item_id,omitempty"`
	ItemType      string `json:"item_type"`
	Name          string `json:"name"`
	Quantity      string `json:"quantity"`
	Unit          string `json:"unit,omitempty"`
	UnitPrice     string `json:"unit_price"`
	Discount      string `json:"discount"`
	TaxPercent    string `json:"tax_percent"`
	Subtotal      string `json:"subtotal"`
	Tax           string `json:"tax"`
	Total         string `json:"total"`
}

type InvoiceTotalsDTO struct {
	Items             []InvoiceLineDTO `json:"items"`
	ConsultationFee   string           `json:"consultation_fee"`
	ItemsTotal        string           `json:"items_total"`
	AdditionalCharges string           `json:"additional_charges"`
	Discount          string           `json:"discount"`
	Tax               string           `json:"tax"`
	GrandTotal        string           `json:"grand_total"`
}

type InvoiceDTO struct {
	ID            uint   `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	PatientID     uint   `json:"patient_id"`
	AppointmentID *uint  `json:"appointment_id,omitempty"`

	InvoiceTotalsDTO

	PaymentStatus       string     `json:"payment_status"`
	PaymentMethod       string     `json:"payment_method,omitempty"`
	PaymentDate         *time.Time `json:"payment_date,omitempty"`
	NextPaymentStatuses []string   `json:"next_payment_statuses"`
	Notes               string     `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func NewInvoiceTotals(items []invoice.LineItem, adj invoice.Adjustments, totals invoice.Totals) InvoiceTotalsDTO {
	lines := make([]InvoiceLineDTO, 0, len(items))
	for i, it := range items {
		b := totals.Lines[i]
		lines = append(lines, InvoiceLineDTO{
			Position:      i + 1,
			CatalogItemID: it.CatalogItemID,
			ItemType:      string(it.Type),
			Name:          it.Name,
			Quantity:      it.Quantity.String(),
			Unit:          it.Unit,
			UnitPrice:     money(it.UnitPrice),
			Discount:      money(it.Discount),
			TaxPercent:    it.TaxPercent.String(),
			Subtotal:      money(b.Subtotal),
			Tax:           money(b.Tax),
			Total:         money(b.Total),
		})
	}

	return InvoiceTotalsDTO{
		Items:             lines,
		ConsultationFee:   money(adj.ConsultationFee),
		ItemsTotal:        money(totals.ItemsTotal),
		AdditionalCharges: money(adj.AdditionalCharges),
		Discount:          money(adj.Discount),
		Tax:               money(adj.Tax),
		GrandTotal:        money(totals.GrandTotal),
	}
}

// NewInvoice presents a stored invoice with totals recomputed from its
// inputs.
func NewInvoice(inv models.Invoice, totals invoice.Totals) InvoiceDTO {
	items, adj := invoice.FromModel(inv)

	next := invoice.NextPaymentStatuses(invoice.PaymentStatus(inv.PaymentStatus))
	nextNames := make([]string, 0, len(next))
	for _, s := range next {
		nextNames = append(nextNames, string(s))
	}

	return InvoiceDTO{
		ID:                  inv.ID,
		InvoiceNumber:       inv.InvoiceNumber,
		PatientID:           inv.PatientID,
		AppointmentID:       inv.AppointmentID,
		InvoiceTotalsDTO:    NewInvoiceTotals(items, adj, totals),
		PaymentStatus:       inv.PaymentStatus,
		PaymentMethod:       inv.PaymentMethod,
		PaymentDate:         inv.PaymentDate,
		NextPaymentStatuses: nextNames,
		Notes:               inv.Notes,
		CreatedAt:           inv.CreatedAt,
	}
}
