package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ErrStaleAppointment is returned by UpdateAppointment when the stored row no
// longer carries the version the caller read.
var ErrStaleAppointment = errors.New("appointment was modified concurrently")

// ErrAppointmentNotFound is returned by GetAppointment when no row matches
// the clinic and id.
var ErrAppointmentNotFound = errors.New("appointment not found")

// BookFunc runs inside the booking transaction. existing is the doctor's
// day, read under lock.
type BookFunc func(existing []models.Appointment) (*models.Appointment, error)

type Repository interface {
	// -------- Clinic --------
	GetClinicByID(
		ctx context.Context,
		id uint,
	) (*models.Clinic, error)

	// -------- Doctor / Patient --------
	GetDoctor(
		ctx context.Context,
		clinicID uint,
		doctorID uint,
	) (*models.Doctor, error)

	GetPatient(
		ctx context.Context,
		clinicID uint,
		patientID uint,
	) (*models.Patient, error)

	// -------- Appointment (create / conflict) --------

	// BookInTransaction locks the doctor's appointments for date, hands
	// them to fn, and persists the appointment fn returns in the same
	// transaction.
	BookInTransaction(
		ctx context.Context,
		doctorID uint,
		date time.Time,
		fn BookFunc,
	) (*models.Appointment, error)

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		clinicID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	// UpdateAppointment writes ap if the stored version equals
	// expectedVersion, and bumps it.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		expectedVersion int,
	) error

	// -------- Availability --------
	GetWorkingHours(
		ctx context.Context,
		doctorID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListAppointmentsForDay(
		ctx context.Context,
		doctorID uint,
		date time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		clinicID uint,
		doctorID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Follow-ups --------
	ListFollowUps(
		ctx context.Context,
		clinicID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)
}
