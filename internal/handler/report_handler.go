package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/dto"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/middleware"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/service"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
	"github.com/matlalipitso/reporting-lwks-sub000/pkg/response"
)

type reportService interface {
	Create(ctx context.Context, req dto.CreateReportRequest, actor *models.JWTClaims) (*models.Report, error)
	Get(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, query dto.ReportQuery) ([]models.Report, *models.Pagination, error)
	Transition(ctx context.Context, id string, req dto.TransitionReportRequest, actor *models.JWTClaims) (*models.Report, error)
}

type reportExporter interface {
	Reports(ctx context.Context, query dto.ReportQuery, format service.ExportFormat) (*service.ExportResult, error)
}

// ReportHandler exposes lecture report endpoints.
type ReportHandler struct {
	service  reportService
	exporter reportExporter
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService, exporter reportExporter) *ReportHandler {
	return &ReportHandler{service: service, exporter: exporter}
}

// Create godoc
// @Summary Submit a lecture report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.CreateReportRequest true "Report payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /lecture-reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "report service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid report payload"))
		return
	}
	report, err := h.service.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// List godoc
// @Summary List lecture reports
// @Tags Reports
// @Produce json
// @Param authorId query string false "Author user id"
// @Param reviewerId query string false "Reviewer user id"
// @Param status query string false "Comma separated statuses"
// @Param lecturerName query string false "Lecturer name"
// @Param courseName query string false "Course name"
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /lecture-reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "report service not configured"))
		return
	}
	query, err := reportQueryFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	reports, page, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, page, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get a lecture report
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lecture-reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "report service not configured"))
		return
	}
	report, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Transition godoc
// @Summary Change a report's review status
// @Description Legal moves: pending to reviewed, approved or rejected; reviewed to approved or rejected. An optional feedback object is appended in the same transaction.
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body dto.TransitionReportRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lecture-reports/{id} [put]
func (h *ReportHandler) Transition(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "report service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.TransitionReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid status payload"))
		return
	}
	report, err := h.service.Transition(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export lecture reports
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param lecturerName query string false "Lecturer name"
// @Param courseName query string false "Course name"
// @Param status query string false "Comma separated statuses"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /lecture-reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	query, err := reportQueryFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.Reports(c.Request.Context(), query, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}

func reportQueryFromRequest(c *gin.Context) (dto.ReportQuery, error) {
	query := dto.ReportQuery{
		AuthorID:     strings.TrimSpace(c.Query("authorId")),
		ReviewerID:   strings.TrimSpace(c.Query("reviewerId")),
		LecturerName: strings.TrimSpace(c.Query("lecturerName")),
		CourseName:   strings.TrimSpace(c.Query("courseName")),
	}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			query.Status = append(query.Status, models.ReportStatus(part))
		}
	}
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return query, err
	}
	query.From, query.To = from, to
	if query.Limit, err = intQuery(c, "limit"); err != nil {
		return query, err
	}
	if query.Offset, err = intQuery(c, "offset"); err != nil {
		return query, err
	}
	return query, nil
}
