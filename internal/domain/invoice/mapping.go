package invoice

import "github.com/BruksfildServices01/clinic-scheduler/internal/models"

// FromModel rebuilds the calculator inputs from a stored invoice.
func FromModel(inv models.Invoice) ([]LineItem, Adjustments) {
	items := make([]LineItem, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, LineItem{
			Type:          ItemType(it.ItemType),
			CatalogItemID: it.CatalogItemID,
			Name:          it.Name,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			UnitPrice:     it.UnitPrice,
			Discount:      it.Discount,
			TaxPercent:    it.TaxPercent,
		})
	}
	return items, Adjustments{
		ConsultationFee:   inv.ConsultationFee,
		AdditionalCharges: inv.AdditionalCharges,
		Discount:          inv.Discount,
		Tax:               inv.Tax,
	}
}

// ToModelItems pairs each input with its computed line total.
func ToModelItems(items []LineItem, totals Totals) []models.InvoiceItem {
	out := make([]models.InvoiceItem, 0, len(items))
	for i, it := range items {
		out = append(out, models.InvoiceItem{
			Position:      i + 1,
			CatalogItemID: it.CatalogItemID,
			ItemType:      string(it.Type),
			Name:          it.Name,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			UnitPrice:     it.UnitPrice,
			Discount:      it.Discount,
			TaxPercent:    it.TaxPercent,
			LineTotal:     totals.Lines[i].Total,
		})
	}
	return out
}

// Recompute derives the totals of a stored invoice from its inputs.
func Recompute(inv models.Invoice) (Totals, error) {
	items, adj := FromModel(inv)
	return ComputeInvoiceTotals(items, adj)
}
