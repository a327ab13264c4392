package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/dto"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/repository"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
)

// Summary keys embed the ratings generation, which every accepted rating
// bumps. A summary computed before a submit lands under the old generation and
// is never served afterwards.
const (
	ratingSummaryKeyPrefix = "ratings:summary:"
	ratingSummaryPattern   = ratingSummaryKeyPrefix + "*"
	ratingOverviewName     = "_overview"
	ratingGenerationKey    = "ratings:generation"
)

type ratingStore interface {
	Create(ctx context.Context, rating *models.Rating) error
	FindByKey(ctx context.Context, studentID, lecturerName, courseName string) (*models.Rating, error)
	List(ctx context.Context, filter models.RatingFilter) ([]models.Rating, error)
}

// RatingService accepts student ratings and derives lecturer summaries.
// A student may rate a lecturer once per course; repeats are rejected.
type RatingService struct {
	repo      ratingStore
	cache     *CacheService
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRatingService constructs the service. cache may be nil.
func NewRatingService(repo ratingStore, cache *CacheService, audit auditLogger, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RatingService{repo: repo, cache: cache, audit: audit, metrics: metrics, validator: validate, logger: logger}
}

// Submit records the acting student's rating.
func (s *RatingService) Submit(ctx context.Context, req dto.SubmitRatingRequest, actor *models.JWTClaims) (*models.Rating, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.CanRate() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students may submit ratings")
	}
	req.LecturerName = strings.TrimSpace(req.LecturerName)
	req.CourseName = strings.TrimSpace(req.CourseName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rating payload")
	}
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating))
	}
	if req.ReportID != nil {
		reportID := strings.TrimSpace(*req.ReportID)
		switch {
		case reportID == "":
			req.ReportID = nil
		case !validRowID(reportID):
			return nil, appErrors.Clone(appErrors.ErrValidation, "reportId does not reference a lecture report")
		default:
			req.ReportID = &reportID
		}
	}

	existing, err := s.repo.FindByKey(ctx, actor.UserID, req.LecturerName, req.CourseName)
	switch {
	case err == nil && existing != nil:
		return nil, s.duplicate(actor.UserID, req)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Store(err, "failed to check existing rating")
	}

	rating := &models.Rating{
		StudentID:    actor.UserID,
		LecturerName: req.LecturerName,
		CourseName:   req.CourseName,
		ReportID:     req.ReportID,
		Rating:       req.Rating,
		Review:       optionalString(strings.TrimSpace(req.Review)),
	}
	if err := s.repo.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.duplicate(actor.UserID, req)
		}
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "reportId does not reference a lecture report")
		}
		return nil, appErrors.Store(err, "failed to store rating")
	}

	s.metrics.RatingSubmitted(false)
	_ = s.cache.Bump(ctx, ratingGenerationKey)
	_ = s.cache.Invalidate(ctx, ratingSummaryPattern)
	emitAudit(ctx, s.audit, s.logger, "rating-service", &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionRatingSubmit,
		Resource:   "rating",
		ResourceID: &rating.ID,
		NewValues:  auditPayload(rating),
	})
	return rating, nil
}

func (s *RatingService) duplicate(studentID string, req dto.SubmitRatingRequest) error {
	s.metrics.RatingSubmitted(true)
	s.logger.Info("duplicate rating rejected",
		zap.String("student_id", studentID),
		zap.String("lecturer", req.LecturerName),
		zap.String("course", req.CourseName),
	)
	return appErrors.Clone(appErrors.ErrDuplicate, "rating already submitted for this lecturer and course")
}

// List returns ratings matching the query, newest first.
func (s *RatingService) List(ctx context.Context, query dto.RatingQuery) ([]models.Rating, error) {
	ratings, err := s.repo.List(ctx, models.RatingFilter{
		StudentID:    strings.TrimSpace(query.StudentID),
		LecturerName: strings.TrimSpace(query.LecturerName),
		CourseName:   strings.TrimSpace(query.CourseName),
	})
	if err != nil {
		return nil, appErrors.Store(err, "failed to list ratings")
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	return ratings, nil
}

// LecturerSummary aggregates every rating of a lecturer. The boolean reports
// whether the value came from cache.
func (s *RatingService) LecturerSummary(ctx context.Context, lecturerName string) (*models.LecturerRatingSummary, bool, error) {
	lecturerName = strings.TrimSpace(lecturerName)
	if lecturerName == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "lecturer name is required")
	}

	var summary models.LecturerRatingSummary
	hit, err := s.cache.Remember(ctx, s.summaryKey(ctx, lecturerName), &summary, func() error {
		start := time.Now()
		ratings, err := s.repo.List(ctx, models.RatingFilter{LecturerName: lecturerName})
		s.metrics.ObserveDBQuery("ratings_by_lecturer", time.Since(start))
		if err != nil {
			return appErrors.Store(err, "failed to load ratings")
		}
		summary = ComputeLecturerSummary(lecturerName, ratings)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &summary, hit, nil
}

// Overview summarises every rated lecturer, ordered by name.
func (s *RatingService) Overview(ctx context.Context) ([]models.LecturerRatingSummary, bool, error) {
	var summaries []models.LecturerRatingSummary
	hit, err := s.cache.Remember(ctx, s.summaryKey(ctx, ratingOverviewName), &summaries, func() error {
		start := time.Now()
		ratings, err := s.repo.List(ctx, models.RatingFilter{})
		s.metrics.ObserveDBQuery("ratings_all", time.Since(start))
		if err != nil {
			return appErrors.Store(err, "failed to load ratings")
		}
		summaries = summariseByLecturer(ratings)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return summaries, hit, nil
}

// summaryKey reads the generation before any ratings are loaded.
func (s *RatingService) summaryKey(ctx context.Context, name string) string {
	return fmt.Sprintf("%s%d:%s", ratingSummaryKeyPrefix, s.cache.Generation(ctx, ratingGenerationKey), name)
}

func summariseByLecturer(ratings []models.Rating) []models.LecturerRatingSummary {
	grouped := make(map[string][]models.Rating)
	for _, r := range ratings {
		grouped[r.LecturerName] = append(grouped[r.LecturerName], r)
	}
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]models.LecturerRatingSummary, 0, len(names))
	for _, name := range names {
		result = append(result, ComputeLecturerSummary(name, grouped[name]))
	}
	return result
}
