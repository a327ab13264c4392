package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/dto"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/middleware"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/service"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
)

type reportServiceMock struct {
	created    *dto.CreateReportRequest
	createResp *models.Report
	createErr  error
	getResp    *models.Report
	getErr     error
	listQuery  dto.ReportQuery
	listResp   []models.Report
	listErr    error
	transReq   dto.TransitionReportRequest
	transResp  *models.Report
	transErr   error
}

func (m *reportServiceMock) Create(ctx context.Context, req dto.CreateReportRequest, actor *models.JWTClaims) (*models.Report, error) {
	m.created = &req
	return m.createResp, m.createErr
}

func (m *reportServiceMock) Get(ctx context.Context, id string) (*models.Report, error) {
	return m.getResp, m.getErr
}

func (m *reportServiceMock) List(ctx context.Context, query dto.ReportQuery) ([]models.Report, *models.Pagination, error) {
	m.listQuery = query
	if m.listErr != nil {
		return nil, nil, m.listErr
	}
	return m.listResp, &models.Pagination{Limit: query.Limit, Offset: query.Offset, Count: len(m.listResp)}, nil
}

func (m *reportServiceMock) Transition(ctx context.Context, id string, req dto.TransitionReportRequest, actor *models.JWTClaims) (*models.Report, error) {
	m.transReq = req
	return m.transResp, m.transErr
}

type exporterMock struct {
	query  dto.ReportQuery
	format service.ExportFormat
	result *service.ExportResult
	err    error
}

func (m *exporterMock) Reports(ctx context.Context, query dto.ReportQuery, format service.ExportFormat) (*service.ExportResult, error) {
	m.query = query
	m.format = format
	return m.result, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func withClaims(c *gin.Context, userID string, role models.Role) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: userID, Role: role})
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestReportHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &reportServiceMock{createResp: &models.Report{ID: "rep-1", Status: models.ReportStatusPending}}
	h := NewReportHandler(svc, nil)

	payload, _ := json.Marshal(dto.CreateReportRequest{ClassName: "BSCSM Y2", CourseName: "Data Structures", StudentsPresent: 22, StudentsRegistered: 28})
	c, w := newGinContext(http.MethodPost, "/lecture-reports", payload)
	withClaims(c, "lect-1", models.RoleLecturer)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, 22, svc.created.StudentsPresent)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "rep-1", data["id"])
	assert.Equal(t, "pending", data["status"])
}

func TestReportHandlerCreateRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{}, nil)
	c, w := newGinContext(http.MethodPost, "/lecture-reports", []byte(`{}`))

	h.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportHandlerCreateRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &reportServiceMock{}
	h := NewReportHandler(svc, nil)
	c, w := newGinContext(http.MethodPost, "/lecture-reports", []byte(`{"studentsPresent":"many"`))
	withClaims(c, "lect-1", models.RoleLecturer)

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.created)
}

func TestReportHandlerListParsesFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &reportServiceMock{listResp: []models.Report{{ID: "rep-1"}, {ID: "rep-2"}}}
	h := NewReportHandler(svc, nil)
	c, w := newGinContext(http.MethodGet, "/lecture-reports?status=Pending,%20reviewed,&lecturerName=John%20Lecturer&from=2024-03-01&to=2024-03-31&limit=10&offset=20", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	q := svc.listQuery
	assert.Equal(t, []models.ReportStatus{models.ReportStatusPending, models.ReportStatusReviewed}, q.Status)
	assert.Equal(t, "John Lecturer", q.LecturerName)
	require.NotNil(t, q.From)
	require.NotNil(t, q.To)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *q.From)
	assert.Equal(t, 2024, q.To.Year())
	assert.Equal(t, 31, q.To.Day())
	assert.Equal(t, 23, q.To.Hour())
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 20, q.Offset)

	body := decodeEnvelope(t, w)
	assert.Len(t, body["data"], 2)
	assert.Equal(t, float64(2), body["pagination"].(map[string]interface{})["count"])
}

func TestReportHandlerListRejectsBadQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]string{
		"bad date":     "/lecture-reports?from=03/01/2024",
		"bad limit":    "/lecture-reports?limit=ten",
		"neg offset":   "/lecture-reports?offset=-1",
		"bad end date": "/lecture-reports?to=tomorrow",
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			h := NewReportHandler(&reportServiceMock{}, nil)
			c, w := newGinContext(http.MethodGet, path, nil)
			h.List(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestReportHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "report not found")}, nil)
	c, w := newGinContext(http.MethodGet, "/lecture-reports/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errBody["code"])
}

func TestReportHandlerTransition(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &reportServiceMock{transResp: &models.Report{ID: "rep-1", Status: models.ReportStatusApproved}}
	h := NewReportHandler(svc, nil)
	c, w := newGinContext(http.MethodPut, "/lecture-reports/rep-1", []byte(`{"status":"approved","feedback":{"text":"Good coverage","priority":"low"}}`))
	c.Params = gin.Params{{Key: "id", Value: "rep-1"}}
	withClaims(c, "prl-1", models.RolePrincipalLecturer)

	h.Transition(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ReportStatusApproved, svc.transReq.Status)
	require.NotNil(t, svc.transReq.Feedback)
	assert.Equal(t, "Good coverage", svc.transReq.Feedback.Text)
}

func TestReportHandlerTransitionIllegal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &reportServiceMock{transErr: appErrors.Clone(appErrors.ErrIllegalTransition, "cannot move report from approved to reviewed")}
	h := NewReportHandler(svc, nil)
	c, w := newGinContext(http.MethodPut, "/lecture-reports/rep-1", []byte(`{"status":"reviewed"}`))
	c.Params = gin.Params{{Key: "id", Value: "rep-1"}}
	withClaims(c, "prl-1", models.RolePrincipalLecturer)

	h.Transition(c)

	require.Equal(t, http.StatusConflict, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "ILLEGAL_TRANSITION", errBody["code"])
}

func TestReportHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exp := &exporterMock{result: &service.ExportResult{Filename: "lecture-reports.pdf", ContentType: "application/pdf", Payload: []byte("%PDF-1.3")}}
	h := NewReportHandler(&reportServiceMock{}, exp)
	c, w := newGinContext(http.MethodGet, "/lecture-reports/export?format=PDF&courseName=Data%20Structures", nil)

	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatPDF, exp.format)
	assert.Equal(t, "Data Structures", exp.query.CourseName)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "lecture-reports.pdf")
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}

func TestReportHandlerExportRejectsUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exp := &exporterMock{}
	h := NewReportHandler(&reportServiceMock{}, exp)
	c, w := newGinContext(http.MethodGet, "/lecture-reports/export?format=xlsx", nil)

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, exp.format)
}

func TestReportHandlerUnconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(nil, nil)
	c, w := newGinContext(http.MethodGet, "/lecture-reports", nil)

	h.List(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
