package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// --------------------------------------------------
// Path / query parsing
// --------------------------------------------------

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// optionalUintQuery returns 0 when the key is absent.
func optionalUintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

func dayQuery(c *gin.Context, name string) (time.Time, bool) {
	d, err := timezone.ParseDay(c.Query(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, name+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

// optionalDayQuery returns the zero time when the key is absent.
func optionalDayQuery(c *gin.Context, name string) (time.Time, bool) {
	if c.Query(name) == "" {
		return time.Time{}, true
	}
	return dayQuery(c, name)
}

func parseOptionalDay(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := timezone.ParseDay(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
