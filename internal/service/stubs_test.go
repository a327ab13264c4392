package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/repository"
)

// memoryStore backs the report and feedback stubs with shared state so the
// reconciliation rule can be observed across both.
type memoryStore struct {
	mu       sync.Mutex
	reports  map[string]*models.Report
	feedback map[string]*models.Feedback
	order    []string
	err      error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{reports: make(map[string]*models.Report), feedback: make(map[string]*models.Feedback)}
}

func (m *memoryStore) nextID() string {
	return uuid.NewString()
}

func (m *memoryStore) put(report models.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := report
	m.reports[report.ID] = &copy
}

func (m *memoryStore) status(id string) models.ReportStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reports[id].Status
}

type reportStoreStub struct{ *memoryStore }

func (s reportStoreStub) Create(ctx context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if report.ID == "" {
		report.ID = s.nextID()
	}
	copy := *report
	s.reports[report.ID] = &copy
	return nil
}

func (s reportStoreStub) GetByID(ctx context.Context, id string) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *report
	return &copy, nil
}

func (s reportStoreStub) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	result := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if filter.LecturerName != "" && r.LecturerName != filter.LecturerName {
			continue
		}
		if filter.CourseName != "" && r.CourseName != filter.CourseName {
			continue
		}
		if filter.AuthorID != "" && r.AuthorID != filter.AuthorID {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (s reportStoreStub) Transition(ctx context.Context, params repository.TransitionParams) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.reports[params.ID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if params.Guard != nil {
		snapshot := *current
		if err := params.Guard(&snapshot); err != nil {
			return nil, err
		}
	}
	if params.Feedback != nil {
		s.appendLocked(params.Feedback)
		text := params.Feedback.Text
		current.ReviewerFeedback = &text
	}
	reviewer := params.ReviewerID
	current.Status = params.Status
	current.ReviewerID = &reviewer
	current.UpdatedAt = params.UpdatedAt
	copy := *current
	return &copy, nil
}

type feedbackStoreStub struct{ *memoryStore }

func (s feedbackStoreStub) AppendAndReconcile(ctx context.Context, feedback *models.Feedback) (*models.FeedbackAppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	report, ok := s.reports[feedback.ReportID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	s.appendLocked(feedback)
	reconciled := report.Status == models.ReportStatusPending
	if reconciled {
		reviewer := feedback.ReviewerID
		report.Status = models.ReportStatusReviewed
		report.ReviewerID = &reviewer
	}
	text := feedback.Text
	report.ReviewerFeedback = &text
	return &models.FeedbackAppendResult{Feedback: *feedback, ReportStatus: report.Status, Reconciled: reconciled}, nil
}

func (s feedbackStoreStub) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.feedback[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *entry
	return &copy, nil
}

func (s feedbackStoreStub) ListByReport(ctx context.Context, reportID string) ([]models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []models.Feedback
	for _, id := range s.order {
		if entry := s.feedback[id]; entry.ReportID == reportID {
			entries = append(entries, *entry)
		}
	}
	return entries, nil
}

func (s feedbackStoreStub) UpdateStatus(ctx context.Context, id string, from []models.FeedbackStatus, status models.FeedbackStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.feedback[id]
	if !ok {
		return false, nil
	}
	for _, candidate := range from {
		if entry.Status == candidate {
			entry.Status = status
			entry.UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) appendLocked(feedback *models.Feedback) {
	if feedback.ID == "" {
		feedback.ID = m.nextID()
	}
	feedback.UpdatedAt = feedback.CreatedAt
	copy := *feedback
	m.feedback[feedback.ID] = &copy
	m.order = append(m.order, feedback.ID)
}

type ratingStoreStub struct {
	mu        sync.Mutex
	ratings   []models.Rating
	raceOnce  bool
	createErr error
	listErr   error
	listCalls int
}

func (s *ratingStoreStub) Create(ctx context.Context, rating *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raceOnce {
		s.raceOnce = false
		return fmt.Errorf("create rating: %w", repository.ErrDuplicate)
	}
	if s.createErr != nil {
		return s.createErr
	}
	for _, r := range s.ratings {
		if r.StudentID == rating.StudentID && r.LecturerName == rating.LecturerName && r.CourseName == rating.CourseName {
			return fmt.Errorf("create rating: %w", repository.ErrDuplicate)
		}
	}
	if rating.ID == "" {
		rating.ID = fmt.Sprintf("rating-%d", len(s.ratings)+1)
	}
	s.ratings = append(s.ratings, *rating)
	return nil
}

func (s *ratingStoreStub) FindByKey(ctx context.Context, studentID, lecturerName, courseName string) (*models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.ratings {
		if r.StudentID == studentID && r.LecturerName == lecturerName && r.CourseName == courseName {
			copy := r
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *ratingStoreStub) List(ctx context.Context, filter models.RatingFilter) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var result []models.Rating
	for _, r := range s.ratings {
		if filter.LecturerName != "" && r.LecturerName != filter.LecturerName {
			continue
		}
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseName != "" && r.CourseName != filter.CourseName {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

type auditRecorder struct {
	mu   sync.Mutex
	logs []*models.AuditLog
	err  error
}

func (a *auditRecorder) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.logs = append(a.logs, log)
	return nil
}

func (a *auditRecorder) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.logs))
	for i, log := range a.logs {
		out[i] = log.Action
	}
	return out
}

var errStoreDown = errors.New("connection refused")

const (
	reportOne = "3f0c9a52-7d4e-4b8a-9a51-2c6f0e7b1d44"
	reportTwo = "9b2e61d0-45c3-4f7a-8e1b-6d0a3c5f2e98"

	// absentID is well formed but never stored.
	absentID = "00000000-0000-4000-8000-000000000000"
)

func actorWith(id string, role models.Role) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: role}
}
