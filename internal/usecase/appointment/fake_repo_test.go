package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var errNotFound = errors.New("record not found")

// fakeRepo is an in-memory domain.Repository.
type fakeRepo struct {
	mu sync.Mutex

	clinic       models.Clinic
	doctors      map[uint]models.Doctor
	patients     map[uint]models.Patient
	workingHours map[int]models.WorkingHours
	appointments map[uint]models.Appointment
	nextID       uint

	// staleWrites makes the next N UpdateAppointment calls fail as if
	// another writer got there first.
	staleWrites int
	updates     int

	// getErr, when set, is returned by every GetAppointment call.
	getErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clinic:   models.Clinic{ID: 1, Name: "Riverside", Timezone: "UTC"},
		doctors:  map[uint]models.Doctor{3: {ID: 3, ClinicID: 1, Name: "Dr. Rao", Active: true}},
		patients: map[uint]models.Patient{4: {ID: 4, ClinicID: 1, Name: "Asha", Phone: "555-0100"}},
		workingHours: map[int]models.WorkingHours{
			int(time.Tuesday): {DoctorID: 3, Weekday: int(time.Tuesday), StartTime: "09:00", EndTime: "17:00", BreakStart: "12:00", BreakEnd: "13:00", Active: true},
		},
		appointments: map[uint]models.Appointment{},
		nextID:       100,
	}
}

func (r *fakeRepo) add(ap models.Appointment) models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap.ID == 0 {
		r.nextID++
		ap.ID = r.nextID
	}
	if ap.Version == 0 {
		ap.Version = 1
	}
	if ap.ClinicID == 0 {
		ap.ClinicID = 1
	}
	r.appointments[ap.ID] = ap
	return ap
}

func (r *fakeRepo) GetClinicByID(_ context.Context, id uint) (*models.Clinic, error) {
	if id != r.clinic.ID {
		return nil, errNotFound
	}
	c := r.clinic
	return &c, nil
}

func (r *fakeRepo) GetDoctor(_ context.Context, clinicID, doctorID uint) (*models.Doctor, error) {
	d, ok := r.doctors[doctorID]
	if !ok || d.ClinicID != clinicID {
		return nil, errNotFound
	}
	return &d, nil
}

func (r *fakeRepo) GetPatient(_ context.Context, clinicID, patientID uint) (*models.Patient, error) {
	p, ok := r.patients[patientID]
	if !ok || p.ClinicID != clinicID {
		return nil, errNotFound
	}
	return &p, nil
}

func (r *fakeRepo) BookInTransaction(_ context.Context, doctorID uint, date time.Time, fn domain.BookFunc) (*models.Appointment, error) {
	r.mu.Lock()
	var existing []models.Appointment
	for _, ap := range r.appointments {
		if ap.DoctorID == doctorID && ap.Date.Equal(date) {
			existing = append(existing, ap)
		}
	}
	r.mu.Unlock()

	ap, err := fn(existing)
	if err != nil {
		return nil, err
	}
	saved := r.add(*ap)
	return &saved, nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, clinicID, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	ap, ok := r.appointments[id]
	if !ok || ap.ClinicID != clinicID {
		return nil, domain.ErrAppointmentNotFound
	}
	ap.Patient = r.patients[ap.PatientID]
	ap.Doctor = r.doctors[ap.DoctorID]
	return &ap, nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++

	stored, ok := r.appointments[ap.ID]
	if !ok {
		return errNotFound
	}
	if r.staleWrites > 0 {
		r.staleWrites--
		stored.Version++
		r.appointments[ap.ID] = stored
		return domain.ErrStaleAppointment
	}
	if stored.Version != expectedVersion {
		return domain.ErrStaleAppointment
	}

	ap.Version = expectedVersion + 1
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *fakeRepo) GetWorkingHours(_ context.Context, _ uint, weekday int) (*models.WorkingHours, error) {
	wh, ok := r.workingHours[weekday]
	if !ok {
		return nil, errNotFound
	}
	return &wh, nil
}

func (r *fakeRepo) ListAppointmentsForDay(_ context.Context, doctorID uint, date time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.DoctorID == doctorID && ap.Date.Equal(date) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForPeriod(_ context.Context, clinicID, doctorID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ClinicID != clinicID || (doctorID != 0 && ap.DoctorID != doctorID) {
			continue
		}
		if ap.Date.Before(start) || !ap.Date.Before(end) {
			continue
		}
		out = append(out, ap)
	}
	return out, nil
}

func (r *fakeRepo) ListFollowUps(_ context.Context, clinicID uint, from, to time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ClinicID != clinicID || ap.FollowUpDate == nil || ap.Status != string(domain.StatusCompleted) {
			continue
		}
		if !from.IsZero() && ap.FollowUpDate.Before(from) {
			continue
		}
		if !to.IsZero() && ap.FollowUpDate.After(to) {
			continue
		}
		ap.Patient = r.patients[ap.PatientID]
		out = append(out, ap)
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)
