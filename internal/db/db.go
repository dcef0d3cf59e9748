package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// appointmentOverlapConstraint rejects two live appointments of the same
// doctor whose [starts_at, ends_at) ranges intersect.
const appointmentOverlapConstraint = "appointments_no_overlap"

func NewDB(cfg *config.Config, logger zerolog.Logger) (*gorm.DB, error) {
	sqlLog := logger.With().Str("component", "gorm").Logger()

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger: gormlogger.New(&sqlLog, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	db.Exec(`
        UPDATE clinics
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, cfg.DefaultTimezone)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Clinic{},
		&models.Doctor{},
		&models.Patient{},
		&models.WorkingHours{},
		&models.CatalogItem{},
		&models.Appointment{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return ensureOverlapConstraint(db)
}

// ensureOverlapConstraint is idempotent; postgres has no
// ADD CONSTRAINT IF NOT EXISTS.
func ensureOverlapConstraint(db *gorm.DB) error {
	var exists bool
	if err := db.Raw(
		`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`,
		appointmentOverlapConstraint,
	).Scan(&exists).Error; err != nil {
		return fmt.Errorf("inspect constraints: %w", err)
	}
	if exists {
		return nil
	}

	err := db.Exec(fmt.Sprintf(`
        ALTER TABLE appointments
        ADD CONSTRAINT %s
        EXCLUDE USING gist (doctor_id WITH =, tsrange(starts_at, ends_at) WITH &&)
        WHERE (status <> 'cancelled')
    `, appointmentOverlapConstraint)).Error
	if err != nil {
		return fmt.Errorf("add %s: %w", appointmentOverlapConstraint, err)
	}
	return nil
}
