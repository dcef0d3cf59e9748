package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice stores the inputs of the totals calculation. GrandTotal is written
// once at creation and is never updated afterwards.
type Invoice struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ClinicID      uint   `gorm:"index" json:"clinic_id"`
	InvoiceNumber string `gorm:"size:40;uniqueIndex;not null" json:"invoice_number"`

	PatientID     uint  `gorm:"index" json:"patient_id"`
	AppointmentID *uint `gorm:"index" json:"appointment_id,omitempty"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`

	ConsultationFee   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"consultation_fee"`
	AdditionalCharges decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"additional_charges"`
	Discount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	Tax               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax"`
	GrandTotal        decimal.Decimal `gorm:"<-:create;type:decimal(18,4);not null" json:"grand_total"`

	PaymentStatus string     `gorm:"size:20;not null;default:'pending'" json:"payment_status"`
	PaymentMethod string     `gorm:"size:20" json:"payment_method,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvoiceItem struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	InvoiceID     uint  `gorm:"index" json:"-"`
	Position      int   `gorm:"not null" json:"position"`
	CatalogItemID *uint `json:"catalog_item_id,omitempty"`

	ItemType   string          `gorm:"size:20;not null" json:"item_type"`
	Name       string          `gorm:"size:150;not null" json:"name"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	Unit       string          `gorm:"size:20" json:"unit"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Discount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	TaxPercent decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"tax_percent"`
	LineTotal  decimal.Decimal `gorm:"<-:create;type:decimal(18,4);not null" json:"line_total"`
}
