package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/middleware"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
)

const queryDateLayout = "2006-01-02"

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CurrentUser(c)
}

// dateRangeQuery reads inclusive from/to dates. to is extended to the end of
// its day.
func dateRangeQuery(c *gin.Context) (from, to *time.Time, err error) {
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, parseErr := time.Parse(queryDateLayout, raw)
		if parseErr != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "from must use YYYY-MM-DD")
		}
		from = &t
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, parseErr := time.Parse(queryDateLayout, raw)
		if parseErr != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "to must use YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, key+" must be a non-negative integer")
	}
	return v, nil
}
