package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/dto"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
)

type attendanceSource interface {
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
}

// AttendanceService computes attendance statistics over report rows for
// monitoring views. Filtering happens in the query; the arithmetic is in
// ComputeAttendanceRate.
type AttendanceService struct {
	reports attendanceSource
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(reports attendanceSource, metrics *MetricsService, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{reports: reports, metrics: metrics, logger: logger}
}

// Summary returns the mean attendance over the reports selected by query.
func (s *AttendanceService) Summary(ctx context.Context, query dto.AttendanceQuery) (*models.AttendanceSummary, error) {
	reports, err := s.load(ctx, query)
	if err != nil {
		return nil, err
	}
	rate, sampled, excluded := attendanceStats(reports)
	return &models.AttendanceSummary{
		Scope:             attendanceScope(query),
		AveragePercentage: rate,
		SampleCount:       sampled,
		ExcludedCount:     excluded,
	}, nil
}

// ByCourse breaks attendance down per course, ordered by course name.
func (s *AttendanceService) ByCourse(ctx context.Context, query dto.AttendanceQuery) ([]models.CourseAttendance, error) {
	reports, err := s.load(ctx, query)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]models.Report)
	codes := make(map[string]string)
	for _, r := range reports {
		grouped[r.CourseName] = append(grouped[r.CourseName], r)
		if codes[r.CourseName] == "" {
			codes[r.CourseName] = r.CourseCode
		}
	}
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]models.CourseAttendance, 0, len(names))
	for _, name := range names {
		rate, sampled, _ := attendanceStats(grouped[name])
		rows = append(rows, models.CourseAttendance{
			CourseName:        name,
			CourseCode:        codes[name],
			AveragePercentage: rate,
			SampleCount:       sampled,
		})
	}
	return rows, nil
}

func (s *AttendanceService) load(ctx context.Context, query dto.AttendanceQuery) ([]models.Report, error) {
	if query.From != nil && query.To != nil && query.To.Before(*query.From) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	start := time.Now()
	reports, err := s.reports.List(ctx, models.ReportFilter{
		LecturerName: strings.TrimSpace(query.LecturerName),
		CourseName:   strings.TrimSpace(query.CourseName),
		CreatedFrom:  query.From,
		CreatedTo:    query.To,
	})
	s.metrics.ObserveDBQuery("attendance_reports", time.Since(start))
	if err != nil {
		return nil, appErrors.Store(err, "failed to load reports for attendance")
	}
	return reports, nil
}

func attendanceScope(query dto.AttendanceQuery) string {
	parts := make([]string, 0, 2)
	if name := strings.TrimSpace(query.LecturerName); name != "" {
		parts = append(parts, "lecturer:"+name)
	}
	if name := strings.TrimSpace(query.CourseName); name != "" {
		parts = append(parts, "course:"+name)
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, ",")
}
