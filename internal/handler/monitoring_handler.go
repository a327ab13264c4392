package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/dto"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/middleware"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
	"github.com/matlalipitso/reporting-lwks-sub000/pkg/response"
)

type attendanceService interface {
	Summary(ctx context.Context, query dto.AttendanceQuery) (*models.AttendanceSummary, error)
	ByCourse(ctx context.Context, query dto.AttendanceQuery) ([]models.CourseAttendance, error)
}

// MonitoringHandler serves attendance monitoring views.
type MonitoringHandler struct {
	attendance attendanceService
}

// NewMonitoringHandler constructs the handler.
func NewMonitoringHandler(attendance attendanceService) *MonitoringHandler {
	return &MonitoringHandler{attendance: attendance}
}

// Attendance godoc
// @Summary Mean attendance rate
// @Tags Monitoring
// @Produce json
// @Param lecturerName query string false "Lecturer name"
// @Param courseName query string false "Course name"
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /monitoring/attendance [get]
func (h *MonitoringHandler) Attendance(c *gin.Context) {
	if h.attendance == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "attendance service not configured"))
		return
	}
	query, err := attendanceQueryFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.attendance.Summary(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// AttendanceByCourse godoc
// @Summary Attendance rate per course
// @Tags Monitoring
// @Produce json
// @Param lecturerName query string false "Lecturer name"
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /monitoring/attendance/courses [get]
func (h *MonitoringHandler) AttendanceByCourse(c *gin.Context) {
	if h.attendance == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "attendance service not configured"))
		return
	}
	query, err := attendanceQueryFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.attendance.ByCourse(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, middleware.ExtractMeta(c))
}

func attendanceQueryFromRequest(c *gin.Context) (dto.AttendanceQuery, error) {
	query := dto.AttendanceQuery{
		LecturerName: strings.TrimSpace(c.Query("lecturerName")),
		CourseName:   strings.TrimSpace(c.Query("courseName")),
	}
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return query, err
	}
	query.From, query.To = from, to
	return query, nil
}
