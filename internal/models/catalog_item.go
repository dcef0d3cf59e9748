package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem is a billable medicine, treatment or service offered by a clinic.
type CatalogItem struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`

	ItemType    string          `gorm:"size:20;not null" json:"item_type"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	Unit        string          `gorm:"size:20" json:"unit"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"unit_price"`
	TaxPercent  decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"tax_percent"`
	Active      bool            `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
