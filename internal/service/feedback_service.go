package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/dto"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
)

type feedbackStore interface {
	AppendAndReconcile(ctx context.Context, feedback *models.Feedback) (*models.FeedbackAppendResult, error)
	GetByID(ctx context.Context, id string) (*models.Feedback, error)
	ListByReport(ctx context.Context, reportID string) ([]models.Feedback, error)
	UpdateStatus(ctx context.Context, id string, from []models.FeedbackStatus, status models.FeedbackStatus, at time.Time) (bool, error)
}

type reportReader interface {
	GetByID(ctx context.Context, id string) (*models.Report, error)
}

// FeedbackService manages the append-only reviewer feedback log.
type FeedbackService struct {
	repo    feedbackStore
	reports reportReader
	audit   auditLogger
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewFeedbackService constructs the service.
func NewFeedbackService(repo feedbackStore, reports reportReader, audit auditLogger, metrics *MetricsService, logger *zap.Logger) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{
		repo:    repo,
		reports: reports,
		audit:   audit,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Add appends reviewer feedback. When the report is still pending it is
// advanced to reviewed in the same transaction; the result reports whether
// that happened.
func (s *FeedbackService) Add(ctx context.Context, reportID string, req dto.AddFeedbackRequest, actor *models.JWTClaims) (*models.FeedbackAppendResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanReview() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role cannot add feedback")
	}
	if !validRowID(reportID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	feedback, err := newFeedbackEntry(reportID, actor.UserID, req.Text, req.Priority, s.now())
	if err != nil {
		return nil, err
	}

	result, err := s.repo.AppendAndReconcile(ctx, feedback)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Store(err, "failed to append feedback")
	}

	s.metrics.FeedbackAppended(result.Reconciled)
	if result.Reconciled {
		s.metrics.ReportTransitioned(models.ReportStatusPending, models.ReportStatusReviewed)
	}
	s.logger.Info("feedback appended",
		zap.String("report_id", reportID),
		zap.String("feedback_id", result.Feedback.ID),
		zap.Bool("reconciled", result.Reconciled),
	)
	emitAudit(ctx, s.audit, s.logger, "feedback-service", &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionFeedbackAdd,
		Resource:   "report",
		ResourceID: &reportID,
		NewValues:  auditPayload(result),
	})
	return result, nil
}

// List returns the feedback log for a report, oldest first.
func (s *FeedbackService) List(ctx context.Context, reportID string) ([]models.Feedback, error) {
	if !validRowID(reportID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	if s.reports != nil {
		if _, err := s.reports.GetByID(ctx, reportID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
			}
			return nil, appErrors.Store(err, "failed to load report")
		}
	}
	entries, err := s.repo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list feedback")
	}
	if entries == nil {
		entries = []models.Feedback{}
	}
	return entries, nil
}

// Close marks a feedback entry closed. Closing a closed entry succeeds without
// changes. The parent report's status is never touched.
func (s *FeedbackService) Close(ctx context.Context, feedbackID string, actor *models.JWTClaims) (*models.Feedback, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanReview() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role cannot close feedback")
	}
	feedback, err := s.load(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if feedback.Status == models.FeedbackStatusClosed {
		return feedback, nil
	}
	return s.move(ctx, feedback, []models.FeedbackStatus{models.FeedbackStatusSubmitted, models.FeedbackStatusAddressed}, models.FeedbackStatusClosed, actor)
}

// MarkAddressed records that the report author acted on a feedback entry.
// Only submitted entries move; addressed entries are returned unchanged and
// closed entries cannot be reopened.
func (s *FeedbackService) MarkAddressed(ctx context.Context, feedbackID string, actor *models.JWTClaims) (*models.Feedback, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	feedback, err := s.load(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanReview() {
		report, err := s.reports.GetByID(ctx, feedback.ReportID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
			}
			return nil, appErrors.Store(err, "failed to load report")
		}
		if report.AuthorID != actor.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only the report author or a reviewer may address feedback")
		}
	}
	switch feedback.Status {
	case models.FeedbackStatusAddressed:
		return feedback, nil
	case models.FeedbackStatusClosed:
		return nil, appErrors.Clone(appErrors.ErrIllegalTransition, "closed feedback cannot be addressed")
	}
	return s.move(ctx, feedback, []models.FeedbackStatus{models.FeedbackStatusSubmitted}, models.FeedbackStatusAddressed, actor)
}

func (s *FeedbackService) load(ctx context.Context, id string) (*models.Feedback, error) {
	if !validRowID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
	}
	feedback, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return nil, appErrors.Store(err, "failed to load feedback")
	}
	return feedback, nil
}

// move applies a conditional status update. When a concurrent writer got
// there first the entry is re-read and the outcome judged against its new state.
func (s *FeedbackService) move(ctx context.Context, feedback *models.Feedback, from []models.FeedbackStatus, to models.FeedbackStatus, actor *models.JWTClaims) (*models.Feedback, error) {
	now := s.now()
	updated, err := s.repo.UpdateStatus(ctx, feedback.ID, from, to, now)
	if err != nil {
		return nil, appErrors.Store(err, "failed to update feedback")
	}
	if !updated {
		current, err := s.load(ctx, feedback.ID)
		if err != nil {
			return nil, err
		}
		if current.Status == to {
			return current, nil
		}
		return nil, appErrors.Clone(appErrors.ErrIllegalTransition, "feedback is "+string(current.Status))
	}

	previous := feedback.Status
	feedback.Status = to
	feedback.UpdatedAt = now
	emitAudit(ctx, s.audit, s.logger, "feedback-service", &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionFeedbackUpdate,
		Resource:   "feedback",
		ResourceID: &feedback.ID,
		OldValues:  auditPayload(map[string]models.FeedbackStatus{"status": previous}),
		NewValues:  auditPayload(map[string]models.FeedbackStatus{"status": to}),
	})
	return feedback, nil
}

// newFeedbackEntry validates reviewer input and builds a submitted entry.
func newFeedbackEntry(reportID, reviewerID, text string, priority models.FeedbackPriority, at time.Time) (*models.Feedback, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "feedback text is required")
	}
	priority = models.FeedbackPriority(strings.ToLower(strings.TrimSpace(string(priority))))
	if priority == "" {
		priority = models.FeedbackPriorityMedium
	}
	if !priority.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "priority must be one of low, medium, high, critical")
	}
	return &models.Feedback{
		ReportID:   reportID,
		ReviewerID: reviewerID,
		Text:       text,
		Priority:   priority,
		Status:     models.FeedbackStatusSubmitted,
		CreatedAt:  at,
	}, nil
}
