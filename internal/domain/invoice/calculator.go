package invoice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type ItemType string

const (
	ItemMedicine     ItemType = "medicine"
	ItemConsultation ItemType = "consultation"
	ItemTreatment    ItemType = "treatment"
	ItemService      ItemType = "service"
	ItemCustom       ItemType = "custom"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemMedicine, ItemConsultation, ItemTreatment, ItemService, ItemCustom:
		return true
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// LineItem is one billable entry as submitted by the caller.
type LineItem struct {
	Type          ItemType
	CatalogItemID *uint
	Name          string
	Quantity      decimal.Decimal
	Unit          string
	UnitPrice     decimal.Decimal
	Discount      decimal.Decimal
	TaxPercent    decimal.Decimal
}

// Adjustments are the document-level amounts. Tax is a currency amount.
type Adjustments struct {
	ConsultationFee   decimal.Decimal
	AdditionalCharges decimal.Decimal
	Discount          decimal.Decimal
	Tax               decimal.Decimal
}

type LineBreakdown struct {
	Subtotal      decimal.Decimal
	AfterDiscount decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

type Totals struct {
	Lines      []LineBreakdown
	ItemsTotal decimal.Decimal
	GrandTotal decimal.Decimal
}

// LineTotals returns only the per-line totals, in item order.
func (t Totals) LineTotals() []decimal.Decimal {
	out := make([]decimal.Decimal, len(t.Lines))
	for i, l := range t.Lines {
		out[i] = l.Total
	}
	return out
}

// ComputeLine applies
//
//	total = q*p - d + tax%/100 * (q*p - d)
//
// with no intermediate rounding. The result is not clamped at zero.
func ComputeLine(item LineItem) LineBreakdown {
	subtotal := item.Quantity.Mul(item.UnitPrice)
	after := subtotal.Sub(item.Discount)
	tax := after.Mul(item.TaxPercent).Shift(-2)
	return LineBreakdown{
		Subtotal:      subtotal,
		AfterDiscount: after,
		Tax:           tax,
		Total:         after.Add(tax),
	}
}

// ComputeInvoiceTotals is pure: same inputs, same totals.
//
//	grand = consultationFee + Σ line + additionalCharges - discount + tax
func ComputeInvoiceTotals(items []LineItem, adj Adjustments) (Totals, error) {
	if err := validateAdjustments(adj); err != nil {
		return Totals{}, err
	}

	out := Totals{
		Lines:      make([]LineBreakdown, 0, len(items)),
		ItemsTotal: decimal.Zero,
	}

	for i, item := range items {
		if err := validateItem(i, item); err != nil {
			return Totals{}, err
		}
		line := ComputeLine(item)
		out.Lines = append(out.Lines, line)
		out.ItemsTotal = out.ItemsTotal.Add(line.Total)
	}

	out.GrandTotal = adj.ConsultationFee.
		Add(out.ItemsTotal).
		Add(adj.AdditionalCharges).
		Sub(adj.Discount).
		Add(adj.Tax)

	return out, nil
}

func validateItem(i int, item LineItem) error {
	field := func(name string) string {
		return fmt.Sprintf("items[%d].%s", i, name)
	}

	switch {
	case !item.Type.Valid():
		return httperr.Validation(field("item_type"), fmt.Sprintf("unknown item type %q", item.Type))
	case strings.TrimSpace(item.Name) == "":
		return httperr.Validation(field("name"), "is required")
	case !item.Quantity.IsPositive():
		return httperr.Validation(field("quantity"), "must be greater than zero")
	case item.UnitPrice.IsNegative():
		return httperr.Validation(field("unit_price"), "must not be negative")
	case item.Discount.IsNegative():
		return httperr.Validation(field("discount"), "must not be negative")
	case item.Discount.GreaterThan(item.Quantity.Mul(item.UnitPrice)):
		return httperr.Validation(field("discount"), "must not exceed quantity × unit price")
	case item.TaxPercent.IsNegative() || item.TaxPercent.GreaterThan(hundred):
		return httperr.Validation(field("tax_percent"), "must be between 0 and 100")
	}
	return nil
}

func validateAdjustments(adj Adjustments) error {
	switch {
	case adj.ConsultationFee.IsNegative():
		return httperr.Validation("consultation_fee", "must not be negative")
	case adj.AdditionalCharges.IsNegative():
		return httperr.Validation("additional_charges", "must not be negative")
	case adj.Discount.IsNegative():
		return httperr.Validation("discount", "must not be negative")
	case adj.Tax.IsNegative():
		return httperr.Validation("tax", "must not be negative")
	}
	return nil
}
