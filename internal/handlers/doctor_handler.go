package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type DoctorHandler struct {
	db *gorm.DB
}

func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{db: db}
}

type CreateDoctorRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Specialty string `json:"specialty" binding:"max=100"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"max=20"`
}

type UpdateDoctorRequest struct {
	Name      *string `json:"name,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

func (h *DoctorHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Where("clinic_id = ?", middleware.ClinicID(c))

	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}

	var doctors []models.Doctor
	if err := q.Order("name ASC").Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "could not list doctors")
		return
	}

	c.JSON(http.StatusOK, doctors)
}

func (h *DoctorHandler) Create(c *gin.Context) {
	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	doctor := models.Doctor{
		ClinicID:  middleware.ClinicID(c),
		Name:      req.Name,
		Specialty: req.Specialty,
		Email:     req.Email,
		Phone:     req.Phone,
		Active:    true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_create_doctor", "could not create doctor")
		return
	}

	httpresp.Created(c, doctor)
}

func (h *DoctorHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var doctor models.Doctor
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, middleware.ClinicID(c)).
		First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "doctor_not_found", "doctor not found")
			return
		}
		httperr.Internal(c, "failed_to_get_doctor", "could not load doctor")
		return
	}

	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Specialty != nil {
		doctor.Specialty = *req.Specialty
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Active != nil {
		doctor.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_update_doctor", "could not save doctor")
		return
	}

	c.JSON(http.StatusOK, doctor)
}
