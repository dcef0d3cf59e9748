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
)

type PatientHandler struct {
	db *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{db: db}
}

type CreatePatientRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Phone       string  `json:"phone" binding:"required,max=20"`
	Email       string  `json:"email" binding:"omitempty,email"`
	DateOfBirth *string `json:"date_of_birth"`
}

// List searches by name, phone or email.
func (h *PatientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("clinic_id = ?", middleware.ClinicID(c))

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var patients []models.Patient
	if err := q.
		Order("created_at DESC").
		Find(&patients).Error; err != nil {
		httperr.Internal(c, "failed_to_list_patients", "could not list patients")
		return
	}

	c.JSON(http.StatusOK, patients)
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var patient models.Patient
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, middleware.ClinicID(c)).
		First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "patient_not_found", "patient not found")
			return
		}
		httperr.Internal(c, "failed_to_get_patient", "could not load patient")
		return
	}

	c.JSON(http.StatusOK, patient)
}

// Create returns the existing patient when the phone is already registered
// in the clinic.
func (h *PatientHandler) Create(c *gin.Context) {
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	dob, err := parseOptionalDay(req.DateOfBirth)
	if err != nil {
		httperr.Respond(c, httperr.Validation("date_of_birth", "must be YYYY-MM-DD"), "")
		return
	}

	clinicID := middleware.ClinicID(c)
	db := h.db.WithContext(c.Request.Context())

	var existing models.Patient
	err = db.Where("clinic_id = ? AND phone = ?", clinicID, req.Phone).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Internal(c, "failed_to_get_patient", "could not load patient")
		return
	}

	patient := models.Patient{
		ClinicID:    clinicID,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		DateOfBirth: dob,
	}
	if err := db.Create(&patient).Error; err != nil {
		httperr.Internal(c, "failed_to_create_patient", "could not create patient")
		return
	}

	httpresp.Created(c, patient)
}
