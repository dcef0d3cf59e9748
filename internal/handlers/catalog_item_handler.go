package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var hundred = decimal.NewFromInt(100)

type CatalogItemHandler struct {
	db *gorm.DB
}

func NewCatalogItemHandler(db *gorm.DB) *CatalogItemHandler {
	return &CatalogItemHandler{db: db}
}

// --------- Requests ---------

type CreateCatalogItemRequest struct {
	ItemType    string          `json:"item_type" binding:"required"`
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description" binding:"max=255"`
	Unit        string          `json:"unit" binding:"max=20"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
}

type UpdateCatalogItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	TaxPercent  *decimal.Decimal `json:"tax_percent,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

func validatePricing(price, tax decimal.Decimal) error {
	if price.IsNegative() {
		return httperr.Validation("unit_price", "must not be negative")
	}
	if tax.IsNegative() || tax.GreaterThan(hundred) {
		return httperr.Validation("tax_percent", "must be between 0 and 100")
	}
	return nil
}

// --------- Handlers ---------

func (h *CatalogItemHandler) List(c *gin.Context) {
	itemType := strings.ToLower(strings.TrimSpace(c.Query("item_type")))
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("clinic_id = ?", middleware.ClinicID(c))

	if itemType != "" {
		q = q.Where("item_type = ?", itemType)
	}

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var items []models.CatalogItem
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		httperr.Internal(c, "failed_to_list_catalog_items", "could not list catalog items")
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *CatalogItemHandler) Create(c *gin.Context) {
	var req CreateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	itemType := invoice.ItemType(strings.ToLower(req.ItemType))
	if !itemType.Valid() {
		httperr.Respond(c, httperr.Validation("item_type", "unknown item type"), "")
		return
	}
	if err := validatePricing(req.UnitPrice, req.TaxPercent); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	item := models.CatalogItem{
		ClinicID:    middleware.ClinicID(c),
		ItemType:    string(itemType),
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		TaxPercent:  req.TaxPercent,
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		httperr.Internal(c, "failed_to_create_catalog_item", "could not create catalog item")
		return
	}

	httpresp.Created(c, item)
}

// Update never rewrites issued invoices; their lines keep the price they
// were billed at.
func (h *CatalogItemHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var item models.CatalogItem
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, middleware.ClinicID(c)).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "catalog_item_not_found", "catalog item not found")
			return
		}
		httperr.Internal(c, "failed_to_get_catalog_item", "could not load catalog item")
		return
	}

	var req UpdateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}
	if req.TaxPercent != nil {
		item.TaxPercent = *req.TaxPercent
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := validatePricing(item.UnitPrice, item.TaxPercent); err != nil {
		httperr.Respond(c, err, "")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&item).Error; err != nil {
		httperr.Internal(c, "failed_to_update_catalog_item", "could not save catalog item")
		return
	}

	c.JSON(http.StatusOK, item)
}
