package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucInvoice "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/invoice"
)

type invoicePreviewer interface {
	Execute(ctx context.Context, in ucInvoice.InvoiceInput) (*dto.InvoiceTotalsDTO, error)
}

type invoiceCreator interface {
	Execute(ctx context.Context, in ucInvoice.InvoiceInput) (*dto.InvoiceDTO, error)
}

type invoiceGetter interface {
	Execute(ctx context.Context, clinicID, invoiceID uint) (*dto.InvoiceDTO, error)
}

type invoicesByPatient interface {
	Execute(ctx context.Context, clinicID, patientID uint) ([]dto.InvoiceDTO, error)
}

type paymentUpdater interface {
	Execute(ctx context.Context, in ucInvoice.UpdatePaymentInput) (*dto.InvoiceDTO, error)
}

type InvoiceHandler struct {
	preview       invoicePreviewer
	create        invoiceCreator
	get           invoiceGetter
	listByPatient invoicesByPatient
	updatePayment paymentUpdater
}

func NewInvoiceHandler(
	preview invoicePreviewer,
	create invoiceCreator,
	get invoiceGetter,
	listByPatient invoicesByPatient,
	updatePayment paymentUpdater,
) *InvoiceHandler {
	return &InvoiceHandler{
		preview:       preview,
		create:        create,
		get:           get,
		listByPatient: listByPatient,
		updatePayment: updatePayment,
	}
}

// --------- Requests ---------

type InvoiceItemRequest struct {
	ItemType      string           `json:"item_type"`
	CatalogItemID *uint            `json:"catalog_item_id"`
	Name          string           `json:"name"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Unit          string           `json:"unit"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	Discount      decimal.Decimal  `json:"discount"`
	TaxPercent    *decimal.Decimal `json:"tax_percent"`
}

type InvoiceRequest struct {
	PatientID         uint                 `json:"patient_id" binding:"required"`
	AppointmentID     *uint                `json:"appointment_id"`
	Items             []InvoiceItemRequest `json:"items"`
	ConsultationFee   decimal.Decimal      `json:"consultation_fee"`
	AdditionalCharges decimal.Decimal      `json:"additional_charges"`
	Discount          decimal.Decimal      `json:"discount"`
	Tax               decimal.Decimal      `json:"tax"`
	Notes             string               `json:"notes"`
}

type UpdatePaymentRequest struct {
	Status      string  `json:"payment_status" binding:"required"`
	Method      string  `json:"payment_method"`
	PaymentDate *string `json:"payment_date"`
	Notes       *string `json:"notes"`
}

func (r InvoiceRequest) toInput(c *gin.Context) ucInvoice.InvoiceInput {
	items := make([]ucInvoice.ItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, ucInvoice.ItemInput{
			Type:          it.ItemType,
			CatalogItemID: it.CatalogItemID,
			Name:          it.Name,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			UnitPrice:     it.UnitPrice,
			Discount:      it.Discount,
			TaxPercent:    it.TaxPercent,
		})
	}

	return ucInvoice.InvoiceInput{
		ClinicID:          middleware.ClinicID(c),
		PatientID:         r.PatientID,
		AppointmentID:     r.AppointmentID,
		Actor:             middleware.Actor(c),
		Items:             items,
		ConsultationFee:   r.ConsultationFee,
		AdditionalCharges: r.AdditionalCharges,
		Discount:          r.Discount,
		Tax:               r.Tax,
		Notes:             r.Notes,
	}
}

// --------- Handlers ---------

func (h *InvoiceHandler) Preview(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	out, err := h.preview.Execute(c.Request.Context(), req.toInput(c))
	if err != nil {
		httperr.Respond(c, err, "failed_to_preview_invoice")
		return
	}

	httpresp.OK(c, out)
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	out, err := h.create.Execute(c.Request.Context(), req.toInput(c))
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_invoice")
		return
	}

	httpresp.Created(c, out)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	out, err := h.get.Execute(c.Request.Context(), middleware.ClinicID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_invoice")
		return
	}

	httpresp.OK(c, out)
}

func (h *InvoiceHandler) ListByPatient(c *gin.Context) {
	patientID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	out, err := h.listByPatient.Execute(c.Request.Context(), middleware.ClinicID(c), patientID)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_invoices")
		return
	}

	httpresp.List(c, out)
}

func (h *InvoiceHandler) UpdatePayment(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	paidOn, err := parseOptionalDay(req.PaymentDate)
	if err != nil {
		httperr.Respond(c, httperr.Validation("payment_date", "must be YYYY-MM-DD"), "")
		return
	}

	out, err := h.updatePayment.Execute(c.Request.Context(), ucInvoice.UpdatePaymentInput{
		ClinicID:    middleware.ClinicID(c),
		InvoiceID:   id,
		Actor:       middleware.Actor(c),
		Status:      domain.PaymentStatus(req.Status),
		Method:      domain.PaymentMethod(req.Method),
		PaymentDate: paidOn,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_payment")
		return
	}

	httpresp.OK(c, out)
}
