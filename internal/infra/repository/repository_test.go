package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	invoicedomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/invoice"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

var visitDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func TestUpdateAppointmentBumpsVersion(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectExec(`UPDATE "appointments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ap := &models.Appointment{ID: 7, Status: string(domain.StatusInProgress), Version: 2}
	require.NoError(t, repo.UpdateAppointment(context.Background(), ap, 2))

	assert.Equal(t, 3, ap.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointmentStaleVersion(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectExec(`UPDATE "appointments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ap := &models.Appointment{ID: 7, Version: 2}
	err := repo.UpdateAppointment(context.Background(), ap, 2)

	assert.ErrorIs(t, err, domain.ErrStaleAppointment)
	assert.Equal(t, 2, ap.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookInTransactionPassesLockedDay(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE doctor_id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "date", "start_time", "duration_minutes", "status"}).
			AddRow(1, 3, visitDay, "09:00", 30, "scheduled"))
	mock.ExpectRollback()

	var seen []models.Appointment
	_, err := repo.BookInTransaction(context.Background(), 3, visitDay, func(existing []models.Appointment) (*models.Appointment, error) {
		seen = existing
		return nil, httperr.ConflictError{DoctorID: 3, ConflictingIDs: []uint{1}}
	})

	assert.True(t, httperr.IsConflict(err))
	require.Len(t, seen, 1)
	assert.Equal(t, "09:00", seen[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookInTransactionMapsExclusionViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "appointments"`).
		WillReturnError(&pgconn.PgError{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})
	mock.ExpectRollback()

	_, err := repo.BookInTransaction(context.Background(), 3, visitDay, func([]models.Appointment) (*models.Appointment, error) {
		return &models.Appointment{ClinicID: 1, DoctorID: 3, PatientID: 4, Date: visitDay, StartTime: "09:00", DurationMinutes: 30}, nil
	})

	var conflict httperr.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint(3), conflict.DoctorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetInvoiceLoadsItemsInOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE .*id = \$1 AND clinic_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "clinic_id", "patient_id", "consultation_fee", "grand_total", "payment_status"}).
			AddRow(5, 1, 4, "500.0000", "709.0000", "pending"))
	mock.ExpectQuery(`SELECT \* FROM "invoice_items" WHERE "invoice_items"."invoice_id" = \$1 ORDER BY position ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id", "position", "item_type", "name", "quantity", "unit_price", "discount", "tax_percent", "line_total"}).
			AddRow(10, 5, 1, "medicine", "Amoxicillin", "2", "100", "10", "10", "209"))

	inv, err := repo.GetInvoice(context.Background(), 1, 5)
	require.NoError(t, err)

	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Amoxicillin", inv.Items[0].Name)
	assert.True(t, inv.ConsultationFee.Equal(decimal.NewFromInt(500)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentTouchesOnlyPaymentColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceGormRepository(db)

	mock.ExpectExec(`UPDATE "invoices" SET .*"payment_status"=.* WHERE id = \$\d+ AND payment_status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	paid := visitDay
	err := repo.UpdatePayment(context.Background(), &models.Invoice{
		ID:            5,
		PaymentStatus: "paid",
		PaymentMethod: "card",
		PaymentDate:   &paid,
		GrandTotal:    decimal.NewFromInt(1),
	}, invoicedomain.PaymentPending)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentStaleStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvoiceGormRepository(db)

	mock.ExpectExec(`UPDATE "invoices" SET .* WHERE id = \$\d+ AND payment_status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePayment(context.Background(), &models.Invoice{
		ID:            7,
		PaymentStatus: "cancelled",
	}, invoicedomain.PaymentPending)

	assert.ErrorIs(t, err, invoicedomain.ErrStalePayment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAppointmentNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetAppointment(context.Background(), 1, 42)
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsExclusionConflict(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})

	assert.True(t, IsExclusionConflict(wrapped))
	assert.False(t, IsExclusionConflict(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsExclusionConflict(fmt.Errorf("boom")))
	assert.True(t, IsNotFound(fmt.Errorf("get: %w", gorm.ErrRecordNotFound)))
}
