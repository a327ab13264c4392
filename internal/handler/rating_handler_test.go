package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/dto"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/middleware"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
)

type ratingServiceMock struct {
	submitted *dto.SubmitRatingRequest
	submitErr error
	query     dto.RatingQuery
	summary   *models.LecturerRatingSummary
	overview  []models.LecturerRatingSummary
	cacheHit  bool
}

func (m *ratingServiceMock) Submit(ctx context.Context, req dto.SubmitRatingRequest, actor *models.JWTClaims) (*models.Rating, error) {
	m.submitted = &req
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return &models.Rating{ID: "rat-1", StudentID: actor.UserID, LecturerName: req.LecturerName, CourseName: req.CourseName, Rating: req.Rating}, nil
}

func (m *ratingServiceMock) List(ctx context.Context, query dto.RatingQuery) ([]models.Rating, error) {
	m.query = query
	return []models.Rating{}, nil
}

func (m *ratingServiceMock) LecturerSummary(ctx context.Context, lecturerName string) (*models.LecturerRatingSummary, bool, error) {
	return m.summary, m.cacheHit, nil
}

func (m *ratingServiceMock) Overview(ctx context.Context) ([]models.LecturerRatingSummary, bool, error) {
	return m.overview, m.cacheHit, nil
}

func TestRatingHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &ratingServiceMock{}
	h := NewRatingHandler(svc)
	c, w := newGinContext(http.MethodPost, "/ratings", []byte(`{"lecturerName":"John Lecturer","courseName":"CS101","rating":4}`))
	withClaims(c, "4", models.RoleStudent)

	h.Submit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.submitted)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "4", data["studentId"])
	assert.Equal(t, float64(4), data["rating"])
}

func TestRatingHandlerSubmitDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewRatingHandler(&ratingServiceMock{submitErr: appErrors.Clone(appErrors.ErrDuplicate, "already rated")})
	c, w := newGinContext(http.MethodPost, "/ratings", []byte(`{"lecturerName":"John Lecturer","courseName":"CS101","rating":5}`))
	withClaims(c, "4", models.RoleStudent)

	h.Submit(c)

	require.Equal(t, http.StatusConflict, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "DUPLICATE", errBody["code"])
}

func TestRatingHandlerListFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &ratingServiceMock{}
	h := NewRatingHandler(svc)
	c, w := newGinContext(http.MethodGet, "/ratings?studentId=4&courseName=%20CS101%20", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", svc.query.StudentID)
	assert.Equal(t, "CS101", svc.query.CourseName)
}

func TestRatingHandlerSummaryReportsCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &ratingServiceMock{
		summary:  &models.LecturerRatingSummary{LecturerName: "John Lecturer", AverageRating: 3.8, TotalRatings: 5},
		cacheHit: true,
	}
	h := NewRatingHandler(svc)
	c, w := newGinContext(http.MethodGet, "/ratings/lecturer/John%20Lecturer", nil)
	c.Params = gin.Params{{Key: "name", Value: "John Lecturer"}}
	middleware.WithResponseMeta()(c)

	h.LecturerSummary(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, true, meta["cache_hit"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 3.8, data["averageRating"])
}

func TestRatingHandlerOverview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &ratingServiceMock{overview: []models.LecturerRatingSummary{{LecturerName: "A"}, {LecturerName: "B"}}}
	h := NewRatingHandler(svc)
	c, w := newGinContext(http.MethodGet, "/ratings/overview", nil)

	h.Overview(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Len(t, body["data"], 2)
	assert.Equal(t, false, body["meta"].(map[string]interface{})["cache_hit"])
}
