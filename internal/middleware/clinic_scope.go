package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	HeaderClinicID = "X-Clinic-ID"
	HeaderActor    = "X-Actor"

	ContextClinicID = "clinicID"
	ContextActor    = "actor"
)

// ClinicScope resolves the clinic every request operates on. Identity of the
// caller is taken as given; it is only recorded in the audit trail.
func ClinicScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderClinicID)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error_code": "missing_clinic_id"})
			return
		}

		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error_code": "invalid_clinic_id"})
			return
		}

		actor := c.GetHeader(HeaderActor)
		if actor == "" {
			actor = "anonymous"
		}

		c.Set(ContextClinicID, uint(id))
		c.Set(ContextActor, actor)

		c.Next()
	}
}

func ClinicID(c *gin.Context) uint {
	return c.MustGet(ContextClinicID).(uint)
}

func Actor(c *gin.Context) string {
	if v, ok := c.Get(ContextActor); ok {
		return v.(string)
	}
	return "anonymous"
}
