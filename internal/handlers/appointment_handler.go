package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type appointmentCreator interface {
	Execute(ctx context.Context, in ucAppointment.CreateAppointmentInput) (*models.Appointment, error)
}

type appointmentTransitioner interface {
	Execute(ctx context.Context, in ucAppointment.TransitionInput) (*models.Appointment, error)
}

type appointmentGetter interface {
	Execute(ctx context.Context, clinicID, appointmentID uint) (*dto.AppointmentDetailDTO, error)
}

type appointmentsByDate interface {
	Execute(ctx context.Context, clinicID, doctorID uint, date time.Time) ([]dto.AppointmentListDTO, error)
}

type appointmentsByMonth interface {
	Execute(ctx context.Context, clinicID, doctorID uint, year, month int) ([]dto.AppointmentListDTO, error)
}

type availabilityLister interface {
	Execute(ctx context.Context, in domain.AvailabilityInput) ([]domain.TimeSlot, error)
}

type followUpLister interface {
	Execute(ctx context.Context, in ucAppointment.ListFollowUpsInput) ([]dto.FollowUpDTO, error)
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       appointmentCreator
	transition   appointmentTransitioner
	get          appointmentGetter
	listByDate   appointmentsByDate
	listByMonth  appointmentsByMonth
	availability availabilityLister
	followUps    followUpLister
}

func NewAppointmentHandler(
	create appointmentCreator,
	transition appointmentTransitioner,
	get appointmentGetter,
	listByDate appointmentsByDate,
	listByMonth appointmentsByMonth,
	availability availabilityLister,
	followUps followUpLister,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		transition:   transition,
		get:          get,
		listByDate:   listByDate,
		listByMonth:  listByMonth,
		availability: availability,
		followUps:    followUps,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID        uint   `json:"doctor_id" binding:"required"`
	PatientID       uint   `json:"patient_id" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
	ChiefComplaint  string `json:"chief_complaint" binding:"max=255"`
}

type TransitionRequest struct {
	Action         string  `json:"action" binding:"required"`
	Reason         string  `json:"reason"`
	Notes          string  `json:"notes"`
	FollowUpDate   *string `json:"follow_up_date"`
	FollowUpInDays *int    `json:"follow_up_in_days"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ClinicID:        middleware.ClinicID(c),
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		Actor:           middleware.Actor(c),
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		ChiefComplaint:  req.ChiefComplaint,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_appointment")
		return
	}

	httpresp.Created(c, dto.NewAppointmentDetail(*ap))
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	out, err := h.get.Execute(c.Request.Context(), middleware.ClinicID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_appointment")
		return
	}

	httpresp.OK(c, out)
}

// AllowedActions answers which buttons a client should offer.
func (h *AppointmentHandler) AllowedActions(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	out, err := h.get.Execute(c.Request.Context(), middleware.ClinicID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_appointment")
		return
	}

	httpresp.OK(c, gin.H{
		"status":          out.Status,
		"allowed_actions": out.AllowedActions,
		"version":         out.Version,
	})
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date, ok := dayQuery(c, "date")
	if !ok {
		return
	}
	doctorID, ok := optionalUintQuery(c, "doctor_id")
	if !ok {
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), middleware.ClinicID(c), doctorID, date)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "year is required")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "month is required")
		return
	}
	doctorID, ok := optionalUintQuery(c, "doctor_id")
	if !ok {
		return
	}

	out, err := h.listByMonth.Execute(c.Request.Context(), middleware.ClinicID(c), doctorID, year, month)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) Availability(c *gin.Context) {
	doctorID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	date, ok := dayQuery(c, "date")
	if !ok {
		return
	}

	duration := 0
	if raw := c.Query("duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_duration", "duration must be a number of minutes")
			return
		}
		duration = d
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ClinicID:        middleware.ClinicID(c),
		DoctorID:        doctorID,
		Date:            date,
		DurationMinutes: duration,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_availability")
		return
	}

	httpresp.List(c, slots)
}

func (h *AppointmentHandler) FollowUps(c *gin.Context) {
	from, ok := optionalDayQuery(c, "from")
	if !ok {
		return
	}
	to, ok := optionalDayQuery(c, "to")
	if !ok {
		return
	}

	out, err := h.followUps.Execute(c.Request.Context(), ucAppointment.ListFollowUpsInput{
		ClinicID: middleware.ClinicID(c),
		From:     from,
		To:       to,
		State:    domain.FollowUpState(c.Query("state")),
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_follow_ups")
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// TRANSITION
// ======================================================

// Transition applies one lifecycle action. Every call carries its own
// action and payload.
func (h *AppointmentHandler) Transition(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	followUp, err := parseOptionalDay(req.FollowUpDate)
	if err != nil {
		httperr.Respond(c, httperr.Validation("follow_up_date", "must be YYYY-MM-DD"), "")
		return
	}

	ap, err := h.transition.Execute(c.Request.Context(), ucAppointment.TransitionInput{
		ClinicID:      middleware.ClinicID(c),
		AppointmentID: id,
		Actor:         middleware.Actor(c),
		Action:        domain.Action(req.Action),
		Payload: domain.TransitionPayload{
			Reason:         req.Reason,
			Notes:          req.Notes,
			FollowUpDate:   followUp,
			FollowUpInDays: req.FollowUpInDays,
		},
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_appointment")
		return
	}

	httpresp.OK(c, dto.NewAppointmentDetail(*ap))
}
