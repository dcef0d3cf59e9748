package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func sampleItem() LineItem {
	return LineItem{
		Type:       ItemMedicine,
		Name:       "Amoxicillin 500mg",
		Quantity:   d("2"),
		Unit:       "strip",
		UnitPrice:  d("100"),
		Discount:   d("10"),
		TaxPercent: d("10"),
	}
}

func TestComputeLineScenario(t *testing.T) {
	line := ComputeLine(sampleItem())

	assertDecimal(t, "200", line.Subtotal)
	assertDecimal(t, "190", line.AfterDiscount)
	assertDecimal(t, "19", line.Tax)
	assertDecimal(t, "209", line.Total)
}

func TestComputeLineNoDiscountNoTax(t *testing.T) {
	item := LineItem{Type: ItemService, Name: "Dressing", Quantity: d("3"), UnitPrice: d("33.33")}

	line := ComputeLine(item)
	assertDecimal(t, "99.99", line.Total)
	assert.True(t, item.Quantity.Mul(item.UnitPrice).Equal(line.Total))
}

func TestComputeInvoiceTotalsScenario(t *testing.T) {
	totals, err := ComputeInvoiceTotals(
		[]LineItem{sampleItem()},
		Adjustments{
			ConsultationFee: d("500"),
			Discount:        d("50"),
		},
	)
	require.NoError(t, err)

	require.Len(t, totals.LineTotals(), 1)
	assertDecimal(t, "209", totals.LineTotals()[0])
	assertDecimal(t, "209", totals.ItemsTotal)
	assertDecimal(t, "659", totals.GrandTotal)
}

func TestComputeInvoiceTotalsNoFloatDrift(t *testing.T) {
	items := make([]LineItem, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, LineItem{Type: ItemCustom, Name: "x", Quantity: d("1"), UnitPrice: d("0.1")})
	}

	totals, err := ComputeInvoiceTotals(items, Adjustments{})
	require.NoError(t, err)
	assertDecimal(t, "1", totals.GrandTotal)
}

func TestComputeInvoiceTotalsFractionalTaxIsExact(t *testing.T) {
	item := LineItem{Type: ItemTreatment, Name: "Physio", Quantity: d("1"), UnitPrice: d("33.33"), TaxPercent: d("12.5")}

	totals, err := ComputeInvoiceTotals([]LineItem{item}, Adjustments{})
	require.NoError(t, err)
	assertDecimal(t, "37.49625", totals.GrandTotal)
}

func TestComputeInvoiceTotalsAllAdjustments(t *testing.T) {
	totals, err := ComputeInvoiceTotals(
		[]LineItem{sampleItem(), {Type: ItemConsultation, Name: "Review", Quantity: d("1"), UnitPrice: d("150")}},
		Adjustments{
			ConsultationFee:   d("500"),
			AdditionalCharges: d("25.50"),
			Discount:          d("100"),
			Tax:               d("12.25"),
		},
	)
	require.NoError(t, err)
	// 500 + 209 + 150 + 25.50 - 100 + 12.25
	assertDecimal(t, "796.75", totals.GrandTotal)
}

func TestComputeInvoiceTotalsAllowsNegativeGrandTotal(t *testing.T) {
	item := LineItem{Type: ItemService, Name: "x", Quantity: d("1"), UnitPrice: d("10")}

	totals, err := ComputeInvoiceTotals([]LineItem{item}, Adjustments{Discount: d("25")})
	require.NoError(t, err)
	assertDecimal(t, "-15", totals.GrandTotal)
}

func TestComputeInvoiceTotalsFullDiscountWithTax(t *testing.T) {
	item := sampleItem()
	item.Discount = d("200")

	totals, err := ComputeInvoiceTotals([]LineItem{item}, Adjustments{})
	require.NoError(t, err)
	assertDecimal(t, "0", totals.GrandTotal)
}

func TestComputeInvoiceTotalsEmpty(t *testing.T) {
	totals, err := ComputeInvoiceTotals(nil, Adjustments{ConsultationFee: d("300")})
	require.NoError(t, err)
	assert.Empty(t, totals.Lines)
	assertDecimal(t, "300", totals.GrandTotal)
}

func TestComputeInvoiceTotalsValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*LineItem)
		adj   Adjustments
		field string
	}{
		{"zero quantity", func(i *LineItem) { i.Quantity = d("0") }, Adjustments{}, "items[0].quantity"},
		{"negative quantity", func(i *LineItem) { i.Quantity = d("-1") }, Adjustments{}, "items[0].quantity"},
		{"negative price", func(i *LineItem) { i.UnitPrice = d("-0.01") }, Adjustments{}, "items[0].unit_price"},
		{"discount above subtotal", func(i *LineItem) { i.Discount = d("200.01") }, Adjustments{}, "items[0].discount"},
		{"negative discount", func(i *LineItem) { i.Discount = d("-1") }, Adjustments{}, "items[0].discount"},
		{"tax above 100", func(i *LineItem) { i.TaxPercent = d("100.5") }, Adjustments{}, "items[0].tax_percent"},
		{"unknown type", func(i *LineItem) { i.Type = "gift" }, Adjustments{}, "items[0].item_type"},
		{"blank name", func(i *LineItem) { i.Name = "  " }, Adjustments{}, "items[0].name"},
		{"negative fee", func(*LineItem) {}, Adjustments{ConsultationFee: d("-5")}, "consultation_fee"},
		{"negative charges", func(*LineItem) {}, Adjustments{AdditionalCharges: d("-5")}, "additional_charges"},
		{"negative document discount", func(*LineItem) {}, Adjustments{Discount: d("-5")}, "discount"},
		{"negative document tax", func(*LineItem) {}, Adjustments{Tax: d("-5")}, "tax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := sampleItem()
			tt.edit(&item)

			_, err := ComputeInvoiceTotals([]LineItem{item}, tt.adj)
			var ve httperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestComputeInvoiceTotalsReportsItemIndex(t *testing.T) {
	bad := sampleItem()
	bad.Quantity = d("0")

	_, err := ComputeInvoiceTotals([]LineItem{sampleItem(), bad}, Adjustments{})
	var ve httperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "items[1].quantity", ve.Field)
}

func TestComputeInvoiceTotalsIsDeterministic(t *testing.T) {
	items := []LineItem{sampleItem(), sampleItem()}
	adj := Adjustments{ConsultationFee: d("120.10"), Tax: d("3.3")}

	a, err := ComputeInvoiceTotals(items, adj)
	require.NoError(t, err)
	b, err := ComputeInvoiceTotals(items, adj)
	require.NoError(t, err)

	assert.True(t, a.GrandTotal.Equal(b.GrandTotal))
}
