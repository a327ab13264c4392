package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/dto"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
	"github.com/matlalipitso/reporting-lwks-sub000/pkg/export"
)

// ExportFormat enumerates rendered export types.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var reportExportHeaders = []string{
	"Date", "Week", "Faculty", "Class", "Course Code", "Course", "Lecturer",
	"Present", "Registered", "Attendance %", "Venue", "Topic", "Status",
}

type reportLister interface {
	List(ctx context.Context, query dto.ReportQuery) ([]models.Report, *models.Pagination, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered export ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders filtered report listings as CSV or PDF.
type ExportService struct {
	reports reportLister
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// package defaults.
func NewExportService(reports reportLister, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		reports: reports,
		csv:     csv,
		pdf:     pdf,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ParseExportFormat normalises a user supplied format, defaulting to CSV.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
}

// Reports renders the reports selected by query.
func (s *ExportService) Reports(ctx context.Context, query dto.ReportQuery, format ExportFormat) (*ExportResult, error) {
	reports, _, err := s.reports.List(ctx, query)
	if err != nil {
		return nil, err
	}
	now := s.now()
	dataset := buildReportDataset(reports)
	dataset.GeneratedAt = now
	stamp := now.Format("20060102-150405")

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Lecture Reports")
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("report export rendered", zap.String("format", string(format)), zap.Int("rows", len(reports)))
	return &ExportResult{
		Filename:    fmt.Sprintf("lecture-reports-%s.%s", stamp, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

func buildReportDataset(reports []models.Report) export.Dataset {
	rows := make([]map[string]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, map[string]string{
			"Date":         r.LectureDate.Format(lectureDateLayout),
			"Week":         r.WeekOfReporting,
			"Faculty":      r.FacultyName,
			"Class":        r.ClassName,
			"Course Code":  r.CourseCode,
			"Course":       r.CourseName,
			"Lecturer":     r.LecturerName,
			"Present":      strconv.Itoa(r.StudentsPresent),
			"Registered":   strconv.Itoa(r.StudentsRegistered),
			"Attendance %": strconv.Itoa(ComputeAttendanceRate([]models.Report{r})),
			"Venue":        r.Venue,
			"Topic":        r.Topic,
			"Status":       string(r.Status),
		})
	}
	return export.Dataset{Headers: reportExportHeaders, Rows: rows}
}
