package dto

import "github.com/matlalipitso/reporting-lwks-sub000/internal/models"

// AddFeedbackRequest is a reviewer's comment on a report.
type AddFeedbackRequest struct {
	Text     string                  `json:"text"`
	Priority models.FeedbackPriority `json:"priority"`
}
