package models

import "time"

// FeedbackPriority ranks reviewer comments.
type FeedbackPriority string

const (
	FeedbackPriorityLow      FeedbackPriority = "low"
	FeedbackPriorityMedium   FeedbackPriority = "medium"
	FeedbackPriorityHigh     FeedbackPriority = "high"
	FeedbackPriorityCritical FeedbackPriority = "critical"
)

// Valid reports whether the priority is known.
func (p FeedbackPriority) Valid() bool {
	switch p {
	case FeedbackPriorityLow, FeedbackPriorityMedium, FeedbackPriorityHigh, FeedbackPriorityCritical:
		return true
	}
	return false
}

// FeedbackStatus tracks a comment's own progress; it never affects other reports.
type FeedbackStatus string

const (
	FeedbackStatusSubmitted FeedbackStatus = "submitted"
	FeedbackStatusAddressed FeedbackStatus = "addressed"
	FeedbackStatusClosed    FeedbackStatus = "closed"
)

// Feedback is one reviewer comment attached to a report.
type Feedback struct {
	ID         string           `db:"id" json:"id"`
	ReportID   string           `db:"report_id" json:"reportId"`
	ReviewerID string           `db:"reviewer_id" json:"reviewerId"`
	Text       string           `db:"text" json:"text"`
	Priority   FeedbackPriority `db:"priority" json:"priority"`
	Status     FeedbackStatus   `db:"status" json:"status"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updatedAt"`
}

// FeedbackAppendResult is the postcondition of an append: the stored entry and
// whether the parent report was advanced from pending to reviewed.
type FeedbackAppendResult struct {
	Feedback     Feedback     `json:"feedback"`
	ReportStatus ReportStatus `json:"reportStatus"`
	Reconciled   bool         `json:"reconciled"`
}
