package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/dto"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
	"github.com/matlalipitso/reporting-lwks-sub000/pkg/response"
)

type feedbackService interface {
	Add(ctx context.Context, reportID string, req dto.AddFeedbackRequest, actor *models.JWTClaims) (*models.FeedbackAppendResult, error)
	List(ctx context.Context, reportID string) ([]models.Feedback, error)
	Close(ctx context.Context, feedbackID string, actor *models.JWTClaims) (*models.Feedback, error)
	MarkAddressed(ctx context.Context, feedbackID string, actor *models.JWTClaims) (*models.Feedback, error)
}

// FeedbackHandler exposes the reviewer feedback log.
type FeedbackHandler struct {
	service feedbackService
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(service feedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// Add godoc
// @Summary Append reviewer feedback to a report
// @Description A pending report moves to reviewed in the same transaction; the response reports whether that happened.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body dto.AddFeedbackRequest true "Feedback"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id}/feedback [post]
func (h *FeedbackHandler) Add(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "feedback service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.AddFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid feedback payload"))
		return
	}
	result, err := h.service.Add(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List feedback for a report
// @Tags Feedback
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id}/feedback [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "feedback service not configured"))
		return
	}
	entries, err := h.service.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Close godoc
// @Summary Close a feedback entry
// @Tags Feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /feedback/{id}/close [post]
func (h *FeedbackHandler) Close(c *gin.Context) {
	h.updateStatus(c, h.closeFeedback)
}

// Address godoc
// @Summary Mark a feedback entry addressed
// @Tags Feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /feedback/{id}/address [post]
func (h *FeedbackHandler) Address(c *gin.Context) {
	h.updateStatus(c, h.addressFeedback)
}

func (h *FeedbackHandler) closeFeedback(ctx context.Context, id string, actor *models.JWTClaims) (*models.Feedback, error) {
	return h.service.Close(ctx, id, actor)
}

func (h *FeedbackHandler) addressFeedback(ctx context.Context, id string, actor *models.JWTClaims) (*models.Feedback, error) {
	return h.service.MarkAddressed(ctx, id, actor)
}

func (h *FeedbackHandler) updateStatus(c *gin.Context, apply func(context.Context, string, *models.JWTClaims) (*models.Feedback, error)) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "feedback service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	feedback, err := apply(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, nil)
}
