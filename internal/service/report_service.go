package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/dto"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/repository"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
)

const lectureDateLayout = "2006-01-02"

type reportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
	Transition(ctx context.Context, params repository.TransitionParams) (*models.Report, error)
}

// ReportService owns the lecture report lifecycle.
type ReportService struct {
	repo      reportStore
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	listMax   int
	now       func() time.Time
}

// ReportServiceOption configures the service.
type ReportServiceOption func(*ReportService)

// WithReportListMax caps the page size returned by List.
func WithReportListMax(max int) ReportServiceOption {
	return func(s *ReportService) {
		if max > 0 {
			s.listMax = max
		}
	}
}

// WithReportMetrics attaches domain counters.
func WithReportMetrics(metrics *MetricsService) ReportServiceOption {
	return func(s *ReportService) {
		s.metrics = metrics
	}
}

// WithReportClock overrides the time source.
func WithReportClock(now func() time.Time) ReportServiceOption {
	return func(s *ReportService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewReportService constructs the service with defaults.
func NewReportService(repo reportStore, audit auditLogger, validate *validator.Validate, logger *zap.Logger, opts ...ReportServiceOption) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	svc := &ReportService{
		repo:      repo,
		audit:     audit,
		validator: validate,
		logger:    logger,
		listMax:   200,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Create stores a new pending report authored by the actor.
func (s *ReportService) Create(ctx context.Context, req dto.CreateReportRequest, actor *models.JWTClaims) (*models.Report, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanSubmitReport() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role cannot submit lecture reports")
	}
	normaliseCreateReport(&req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	if req.StudentsPresent > req.StudentsRegistered {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentsPresent cannot exceed studentsRegistered")
	}
	lectureDate, err := time.Parse(lectureDateLayout, req.LectureDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lectureDate must use YYYY-MM-DD")
	}

	report := &models.Report{
		FacultyName:        req.FacultyName,
		ClassName:          req.ClassName,
		WeekOfReporting:    req.WeekOfReporting,
		LectureDate:        lectureDate,
		CourseID:           req.CourseID,
		CourseName:         req.CourseName,
		CourseCode:         req.CourseCode,
		LecturerName:       req.LecturerName,
		LecturerID:         req.LecturerID,
		StudentsPresent:    req.StudentsPresent,
		StudentsRegistered: req.StudentsRegistered,
		Venue:              req.Venue,
		ScheduledTime:      req.ScheduledTime,
		Topic:              req.Topic,
		LearningOutcomes:   req.LearningOutcomes,
		Recommendations:    req.Recommendations,
		Status:             models.ReportStatusPending,
		AuthorID:           actor.UserID,
		CreatedAt:          s.now(),
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Store(err, "failed to store report")
	}

	s.metrics.ReportCreated()
	s.logger.Info("lecture report submitted",
		zap.String("report_id", report.ID),
		zap.String("author_id", report.AuthorID),
		zap.String("course", report.CourseCode),
	)
	emitAudit(ctx, s.audit, s.logger, "report-service", &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionReportCreate,
		Resource:   "report",
		ResourceID: &report.ID,
		NewValues:  auditPayload(report),
	})
	return report, nil
}

// Get returns a single report.
func (s *ReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	if !validRowID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Store(err, "failed to load report")
	}
	return report, nil
}

// List returns reports matching every supplied predicate, newest first.
func (s *ReportService) List(ctx context.Context, query dto.ReportQuery) ([]models.Report, *models.Pagination, error) {
	for _, status := range query.Status {
		if !status.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", status))
		}
	}
	if query.From != nil && query.To != nil && query.To.Before(*query.From) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	limit := query.Limit
	if limit <= 0 || limit > s.listMax {
		limit = s.listMax
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}
	filter := models.ReportFilter{
		AuthorID:     strings.TrimSpace(query.AuthorID),
		ReviewerID:   strings.TrimSpace(query.ReviewerID),
		Status:       query.Status,
		LecturerName: strings.TrimSpace(query.LecturerName),
		CourseName:   strings.TrimSpace(query.CourseName),
		CreatedFrom:  query.From,
		CreatedTo:    query.To,
		Limit:        limit,
		Offset:       offset,
	}

	start := time.Now()
	reports, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("reports_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Store(err, "failed to list reports")
	}
	return reports, &models.Pagination{Limit: limit, Offset: offset, Count: len(reports)}, nil
}

// Transition moves a report along the review graph. Edge legality is checked
// against the locked row, so concurrent reviewers cannot both leave the same
// state.
func (s *ReportService) Transition(ctx context.Context, id string, req dto.TransitionReportRequest, actor *models.JWTClaims) (*models.Report, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanReview() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role cannot review lecture reports")
	}
	if !validRowID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	target := models.ReportStatus(strings.ToLower(strings.TrimSpace(string(req.Status))))
	if !target.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be one of pending, reviewed, approved, rejected")
	}

	now := s.now()
	params := repository.TransitionParams{
		ID:         id,
		Status:     target,
		ReviewerID: actor.UserID,
		UpdatedAt:  now,
	}
	// A malformed feedback entry is reported only once the report is known to exist.
	var feedbackErr error
	if req.Feedback != nil {
		params.Feedback, feedbackErr = newFeedbackEntry(id, actor.UserID, req.Feedback.Text, req.Feedback.Priority, now)
	}

	var previous models.ReportStatus
	params.Guard = func(current *models.Report) error {
		previous = current.Status
		if feedbackErr != nil {
			return feedbackErr
		}
		if !current.Status.CanTransitionTo(target) {
			return appErrors.Clone(appErrors.ErrIllegalTransition,
				fmt.Sprintf("cannot move report from %s to %s", current.Status, target))
		}
		return nil
	}

	report, err := s.repo.Transition(ctx, params)
	if err != nil {
		var appErr *appErrors.Error
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		case errors.As(err, &appErr):
			return nil, appErr
		default:
			return nil, appErrors.Store(err, "failed to update report status")
		}
	}

	s.metrics.ReportTransitioned(previous, target)
	if params.Feedback != nil {
		s.metrics.FeedbackAppended(false)
	}
	s.logger.Info("lecture report transitioned",
		zap.String("report_id", report.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
		zap.String("reviewer_id", actor.UserID),
	)
	emitAudit(ctx, s.audit, s.logger, "report-service", &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionReportTransition,
		Resource:   "report",
		ResourceID: &report.ID,
		OldValues:  auditPayload(map[string]models.ReportStatus{"status": previous}),
		NewValues:  auditPayload(map[string]models.ReportStatus{"status": target}),
	})
	return report, nil
}

func normaliseCreateReport(req *dto.CreateReportRequest) {
	req.FacultyName = strings.TrimSpace(req.FacultyName)
	req.ClassName = strings.TrimSpace(req.ClassName)
	req.WeekOfReporting = strings.TrimSpace(req.WeekOfReporting)
	req.LectureDate = strings.TrimSpace(req.LectureDate)
	req.CourseName = strings.TrimSpace(req.CourseName)
	req.CourseCode = strings.TrimSpace(req.CourseCode)
	req.LecturerName = strings.TrimSpace(req.LecturerName)
	req.Venue = strings.TrimSpace(req.Venue)
	req.ScheduledTime = strings.TrimSpace(req.ScheduledTime)
	req.Topic = strings.TrimSpace(req.Topic)
	req.LearningOutcomes = strings.TrimSpace(req.LearningOutcomes)
	req.Recommendations = strings.TrimSpace(req.Recommendations)
	if req.CourseID != nil && strings.TrimSpace(*req.CourseID) == "" {
		req.CourseID = nil
	}
}
