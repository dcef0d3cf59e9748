package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Clinic
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClinicByID(
	ctx context.Context,
	id uint,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, id).Error; err != nil {
		return nil, err
	}
	return &clinic, nil
}

// --------------------------------------------------
// Doctor / Patient
// --------------------------------------------------

func (r *AppointmentGormRepository) GetDoctor(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
) (*models.Doctor, error) {

	var doctor models.Doctor
	if err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", doctorID, clinicID).
		First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *AppointmentGormRepository) GetPatient(
	ctx context.Context,
	clinicID uint,
	patientID uint,
) (*models.Patient, error) {
	return findPatient(ctx, r.db, clinicID, patientID)
}

// --------------------------------------------------
// Appointment (booking)
// --------------------------------------------------

func (r *AppointmentGormRepository) BookInTransaction(
	ctx context.Context,
	doctorID uint,
	date time.Time,
	fn domain.BookFunc,
) (*models.Appointment, error) {

	var created *models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("doctor_id = ? AND date = ?", doctorID, date).
			Order("start_time ASC").
			Find(&existing).Error; err != nil {
			return fmt.Errorf("lock doctor day: %w", err)
		}

		ap, err := fn(existing)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(ap).Error; err != nil {
			if IsExclusionConflict(err) {
				return httperr.ConflictError{DoctorID: doctorID}
			}
			return fmt.Errorf("insert appointment: %w", err)
		}

		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return findAppointment(ctx, r.db, clinicID, appointmentID)
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	expectedVersion int,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND version = ?", ap.ID, expectedVersion).
		Updates(map[string]any{
			"status":              ap.Status,
			"cancellation_reason": ap.CancellationReason,
			"miss_reason":         ap.MissReason,
			"completion_notes":    ap.CompletionNotes,
			"follow_up_date":      ap.FollowUpDate,
			"started_at":          ap.StartedAt,
			"completed_at":        ap.CompletedAt,
			"cancelled_at":        ap.CancelledAt,
			"missed_at":           ap.MissedAt,
			"version":             expectedVersion + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("update appointment %d: %w", ap.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStaleAppointment
	}

	ap.Version = expectedVersion + 1
	return nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	doctorID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND weekday = ?", doctorID, weekday).
		First(&wh).Error; err != nil {
		return nil, err
	}

	return &wh, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	doctorID uint,
	date time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND status <> ?", doctorID, date, string(domain.StatusCancelled)).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// ListAppointmentsForPeriod returns [start, end) for the clinic. A zero
// doctorID covers every doctor.
func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Where("clinic_id = ? AND date >= ? AND date < ?", clinicID, start, end)

	if doctorID != 0 {
		q = q.Where("doctor_id = ?", doctorID)
	}

	var apps []models.Appointment
	if err := q.Order("date ASC, start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Follow-ups
// --------------------------------------------------

func (r *AppointmentGormRepository) ListFollowUps(
	ctx context.Context,
	clinicID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Where("clinic_id = ? AND status = ? AND follow_up_date IS NOT NULL",
			clinicID, string(domain.StatusCompleted))

	if !from.IsZero() {
		q = q.Where("follow_up_date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("follow_up_date <= ?", to)
	}

	var apps []models.Appointment
	if err := q.Order("follow_up_date ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func findPatient(ctx context.Context, db *gorm.DB, clinicID, patientID uint) (*models.Patient, error) {
	var patient models.Patient
	if err := db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", patientID, clinicID).
		First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func findAppointment(ctx context.Context, db *gorm.DB, clinicID, appointmentID uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Where("id = ? AND clinic_id = ?", appointmentID, clinicID).
		First(&ap).Error; err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrAppointmentNotFound, err)
		}
		return nil, fmt.Errorf("get appointment %d: %w", appointmentID, err)
	}
	return &ap, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
