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

type ratingService interface {
	Submit(ctx context.Context, req dto.SubmitRatingRequest, actor *models.JWTClaims) (*models.Rating, error)
	List(ctx context.Context, query dto.RatingQuery) ([]models.Rating, error)
	LecturerSummary(ctx context.Context, lecturerName string) (*models.LecturerRatingSummary, bool, error)
	Overview(ctx context.Context) ([]models.LecturerRatingSummary, bool, error)
}

// RatingHandler exposes student ratings and lecturer summaries.
type RatingHandler struct {
	service ratingService
}

// NewRatingHandler constructs the handler.
func NewRatingHandler(service ratingService) *RatingHandler {
	return &RatingHandler{service: service}
}

// Submit godoc
// @Summary Rate a lecturer for a course
// @Description One rating per student, lecturer and course. A repeat is rejected with 409 DUPLICATE.
// @Tags Ratings
// @Accept json
// @Produce json
// @Param payload body dto.SubmitRatingRequest true "Rating"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /ratings [post]
func (h *RatingHandler) Submit(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "rating service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid rating payload"))
		return
	}
	rating, err := h.service.Submit(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rating)
}

// List godoc
// @Summary List ratings
// @Tags Ratings
// @Produce json
// @Param studentId query string false "Student id"
// @Param lecturerName query string false "Lecturer name"
// @Param courseName query string false "Course name"
// @Success 200 {object} response.Envelope
// @Router /ratings [get]
func (h *RatingHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "rating service not configured"))
		return
	}
	query := dto.RatingQuery{
		StudentID:    strings.TrimSpace(c.Query("studentId")),
		LecturerName: strings.TrimSpace(c.Query("lecturerName")),
		CourseName:   strings.TrimSpace(c.Query("courseName")),
	}
	ratings, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ratings, nil)
}

// LecturerSummary godoc
// @Summary Rating summary for a lecturer
// @Tags Ratings
// @Produce json
// @Param name path string true "Lecturer name"
// @Success 200 {object} response.Envelope
// @Router /ratings/lecturer/{name} [get]
func (h *RatingHandler) LecturerSummary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "rating service not configured"))
		return
	}
	summary, cacheHit, err := h.service.LecturerSummary(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// Overview godoc
// @Summary Rating summaries for every rated lecturer
// @Tags Ratings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ratings/overview [get]
func (h *RatingHandler) Overview(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "rating service not configured"))
		return
	}
	summaries, cacheHit, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summaries, nil, middleware.ExtractMeta(c))
}
