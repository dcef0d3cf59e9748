package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type WorkingHoursHandler struct {
	db *gorm.DB
}

func NewWorkingHoursHandler(db *gorm.DB) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

// validate checks the day is well formed: start < end and the break, when
// present, sits inside it.
func (d WorkingDayConfig) validate(i int) error {
	if !d.Active {
		return nil
	}

	field := func(name string) string { return fmt.Sprintf("days[%d].%s", i, name) }

	start, err := domain.ParseClock(d.StartTime)
	if err != nil {
		return httperr.Validation(field("start_time"), "must be HH:MM")
	}
	end, err := domain.ParseClock(d.EndTime)
	if err != nil {
		return httperr.Validation(field("end_time"), "must be HH:MM")
	}
	if end <= start {
		return httperr.Validation(field("end_time"), "must be after start_time")
	}

	if d.BreakStart == "" && d.BreakEnd == "" {
		return nil
	}
	bs, err := domain.ParseClock(d.BreakStart)
	if err != nil {
		return httperr.Validation(field("break_start"), "must be HH:MM")
	}
	be, err := domain.ParseClock(d.BreakEnd)
	if err != nil {
		return httperr.Validation(field("break_end"), "must be HH:MM")
	}
	if bs < start || be > end || be <= bs {
		return httperr.Validation(field("break_start"), "break must fall inside working hours")
	}
	return nil
}

func (h *WorkingHoursHandler) doctorInClinic(c *gin.Context) (uint, bool) {
	doctorID, ok := uintParam(c, "id")
	if !ok {
		return 0, false
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Doctor{}).
		Where("id = ? AND clinic_id = ?", doctorID, middleware.ClinicID(c)).
		Count(&count).Error; err != nil {
		httperr.Internal(c, "failed_to_get_doctor", "could not load doctor")
		return 0, false
	}
	if count == 0 {
		httperr.NotFound(c, "doctor_not_found", "doctor not found")
		return 0, false
	}

	return doctorID, true
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	doctorID, ok := h.doctorInClinic(c)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		httperr.Internal(c, "failed_to_get_working_hours", "could not load working hours")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update replaces the doctor's whole week.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	doctorID, ok := h.doctorInClinic(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	seen := make(map[int]bool, len(req.Days))
	for i, d := range req.Days {
		if seen[d.Weekday] {
			httperr.Respond(c, httperr.Validation(fmt.Sprintf("days[%d].weekday", i), "weekday listed twice"), "")
			return
		}
		seen[d.Weekday] = true

		if err := d.validate(i); err != nil {
			httperr.Respond(c, err, "")
			return
		}
		toCreate = append(toCreate, models.WorkingHours{
			DoctorID:   doctorID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) > 0 {
			return tx.Create(&toCreate).Error
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "could not save working hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
