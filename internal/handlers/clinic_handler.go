package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type ClinicHandler struct {
	db *gorm.DB
}

func NewClinicHandler(db *gorm.DB) *ClinicHandler {
	return &ClinicHandler{db: db}
}

type CreateClinicRequest struct {
	Name              string `json:"name" binding:"required,max=100"`
	Slug              string `json:"slug" binding:"required,max=100"`
	Phone             string `json:"phone" binding:"max=20"`
	Address           string `json:"address" binding:"max=255"`
	Timezone          string `json:"timezone"`
	MinAdvanceMinutes int    `json:"min_advance_minutes" binding:"min=0"`
}

type UpdateClinicConfigRequest struct {
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

func (h *ClinicHandler) Create(c *gin.Context) {
	var req CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "unknown IANA timezone")
		return
	}

	clinic := models.Clinic{
		Name:              req.Name,
		Slug:              strings.ToLower(strings.TrimSpace(req.Slug)),
		Phone:             req.Phone,
		Address:           req.Address,
		Timezone:          tz,
		MinAdvanceMinutes: req.MinAdvanceMinutes,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&clinic).Error; err != nil {
		httperr.Internal(c, "failed_to_create_clinic", "could not create clinic")
		return
	}

	httpresp.Created(c, clinic)
}

func (h *ClinicHandler) Get(c *gin.Context) {
	var clinic models.Clinic
	if err := h.db.WithContext(c.Request.Context()).First(&clinic, middleware.ClinicID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "clinic_not_found", "clinic not found")
			return
		}
		httperr.Internal(c, "failed_to_get_clinic", "could not load clinic")
		return
	}

	c.JSON(http.StatusOK, clinic)
}

func (h *ClinicHandler) UpdateConfig(c *gin.Context) {
	var clinic models.Clinic
	if err := h.db.WithContext(c.Request.Context()).First(&clinic, middleware.ClinicID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "clinic_not_found", "clinic not found")
			return
		}
		httperr.Internal(c, "failed_to_get_clinic", "could not load clinic")
		return
	}

	var req UpdateClinicConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "min_advance_minutes must be zero or positive")
			return
		}
		clinic.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "unknown IANA timezone")
			return
		}
		clinic.Timezone = *req.Timezone
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&clinic).Error; err != nil {
		httperr.Internal(c, "failed_to_update_clinic", "could not save clinic settings")
		return
	}

	c.JSON(http.StatusOK, clinic)
}
