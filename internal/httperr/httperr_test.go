package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		body   HTTPError
	}{
		{
			name:   "invalid transition",
			err:    InvalidTransitionError{From: "completed", Action: "cancel"},
			status: http.StatusConflict,
			body:   HTTPError{Code: "invalid_transition", Message: "cannot cancel an appointment that is completed"},
		},
		{
			name:   "validation keeps field",
			err:    fmt.Errorf("wrapped: %w", Validation("items[0].quantity", "must be greater than zero")),
			status: http.StatusUnprocessableEntity,
			body:   HTTPError{Code: "validation_failed", Message: "items[0].quantity: must be greater than zero", Field: "items[0].quantity"},
		},
		{
			name:   "conflict",
			err:    ConflictError{DoctorID: 3, ConflictingIDs: []uint{7}},
			status: http.StatusConflict,
			body:   HTTPError{Code: "time_conflict", Message: "slot conflicts with appointments [7] for doctor 3"},
		},
		{
			name:   "not found",
			err:    ErrBusiness("invoice_not_found"),
			status: http.StatusNotFound,
			body:   HTTPError{Code: "invoice_not_found", Message: "invoice_not_found"},
		},
		{
			name:   "stale",
			err:    fmt.Errorf("%w: %w", ErrBusiness("stale_appointment"), errors.New("version moved")),
			status: http.StatusConflict,
			body:   HTTPError{Code: "stale_appointment", Message: "stale_appointment"},
		},
		{
			name:   "stale invoice",
			err:    fmt.Errorf("%w: %w", ErrBusiness("stale_invoice"), errors.New("status moved")),
			status: http.StatusConflict,
			body:   HTTPError{Code: "stale_invoice", Message: "stale_invoice"},
		},
		{
			name:   "lock held",
			err:    ErrBusiness("booking_in_progress"),
			status: http.StatusConflict,
			body:   HTTPError{Code: "booking_in_progress", Message: "booking_in_progress"},
		},
		{
			name:   "plain business",
			err:    ErrBusiness("too_soon"),
			status: http.StatusBadRequest,
			body:   HTTPError{Code: "too_soon", Message: "too_soon"},
		},
		{
			name:   "unknown",
			err:    errors.New("connection reset"),
			status: http.StatusInternalServerError,
			body:   HTTPError{Code: "failed", Message: "internal error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			Respond(c, tt.err, "failed")

			require.Equal(t, tt.status, rec.Code)
			var got HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.body, got)
		})
	}
}

func TestIsBusiness(t *testing.T) {
	err := fmt.Errorf("ctx: %w", ErrBusiness("doctor_not_found"))
	assert.True(t, IsBusiness(err, "doctor_not_found"))
	assert.False(t, IsBusiness(err, "patient_not_found"))
	assert.False(t, IsBusiness(errors.New("x"), "doctor_not_found"))
}
