package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) GetPatient(ctx context.Context, clinicID, patientID uint) (*models.Patient, error) {
	return findPatient(ctx, r.db, clinicID, patientID)
}

func (r *InvoiceGormRepository) GetAppointment(ctx context.Context, clinicID, appointmentID uint) (*models.Appointment, error) {
	return findAppointment(ctx, r.db, clinicID, appointmentID)
}

func (r *InvoiceGormRepository) GetCatalogItem(ctx context.Context, clinicID, itemID uint) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", itemID, clinicID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateInvoice inserts the invoice and its items atomically.
func (r *InvoiceGormRepository) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := inv.Items
		inv.Items = nil

		if err := tx.Create(inv).Error; err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}

		for i := range items {
			items[i].InvoiceID = inv.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("insert invoice items: %w", err)
			}
		}

		inv.Items = items
		return nil
	})
}

func (r *InvoiceGormRepository) GetInvoice(ctx context.Context, clinicID, invoiceID uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ? AND clinic_id = ?", invoiceID, clinicID).
		First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceGormRepository) ListInvoicesForPatient(ctx context.Context, clinicID, patientID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *InvoiceGormRepository) UpdatePayment(
	ctx context.Context,
	inv *models.Invoice,
	expected domain.PaymentStatus,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ? AND payment_status = ?", inv.ID, string(expected)).
		Updates(map[string]any{
			"payment_status": inv.PaymentStatus,
			"payment_method": inv.PaymentMethod,
			"payment_date":   inv.PaymentDate,
			"notes":          inv.Notes,
		})
	if res.Error != nil {
		return fmt.Errorf("update invoice %d payment: %w", inv.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStalePayment
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*InvoiceGormRepository)(nil)
