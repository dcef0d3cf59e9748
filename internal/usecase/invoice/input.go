package invoice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ItemInput is one requested line. When CatalogItemID is set, missing name,
// unit, price and tax are taken from the catalog entry.
type ItemInput struct {
	Type          string
	CatalogItemID *uint
	Name          string
	Quantity      decimal.Decimal
	Unit          string
	UnitPrice     *decimal.Decimal
	Discount      decimal.Decimal
	TaxPercent    *decimal.Decimal
}

type InvoiceInput struct {
	ClinicID      uint
	PatientID     uint
	AppointmentID *uint
	Actor         string

	Items             []ItemInput
	ConsultationFee   decimal.Decimal
	AdditionalCharges decimal.Decimal
	Discount          decimal.Decimal
	Tax               decimal.Decimal
	Notes             string
}

func (in InvoiceInput) adjustments() domain.Adjustments {
	return domain.Adjustments{
		ConsultationFee:   in.ConsultationFee,
		AdditionalCharges: in.AdditionalCharges,
		Discount:          in.Discount,
		Tax:               in.Tax,
	}
}

// resolveItems turns requested lines into calculator inputs.
func resolveItems(ctx context.Context, repo domain.Repository, clinicID uint, in []ItemInput) ([]domain.LineItem, error) {
	out := make([]domain.LineItem, 0, len(in))

	for i, it := range in {
		line := domain.LineItem{
			Type:          domain.ItemType(it.Type),
			CatalogItemID: it.CatalogItemID,
			Name:          it.Name,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			Discount:      it.Discount,
		}
		if it.UnitPrice != nil {
			line.UnitPrice = *it.UnitPrice
		}
		if it.TaxPercent != nil {
			line.TaxPercent = *it.TaxPercent
		}

		if it.CatalogItemID != nil {
			cat, err := repo.GetCatalogItem(ctx, clinicID, *it.CatalogItemID)
			if err != nil || !cat.Active {
				return nil, httperr.Validation(fmt.Sprintf("items[%d].catalog_item_id", i), "unknown catalog item")
			}
			if line.Type == "" {
				line.Type = domain.ItemType(cat.ItemType)
			}
			if line.Name == "" {
				line.Name = cat.Name
			}
			if line.Unit == "" {
				line.Unit = cat.Unit
			}
			if it.UnitPrice == nil {
				line.UnitPrice = cat.UnitPrice
			}
			if it.TaxPercent == nil {
				line.TaxPercent = cat.TaxPercent
			}
		}

		out = append(out, line)
	}

	return out, nil
}
