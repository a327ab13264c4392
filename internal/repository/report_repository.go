package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
)

const reportColumns = `id, faculty_name, class_name, week_of_reporting, lecture_date, course_id, course_name, course_code,
       lecturer_name, lecturer_id, students_present, students_registered, venue, scheduled_time, topic,
       learning_outcomes, recommendations, status, author_id, reviewer_id, reviewer_feedback, created_at, updated_at`

// ReportRepository persists lecture reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report row.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	now := time.Now().UTC()
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.Status == "" {
		report.Status = models.ReportStatusPending
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = report.CreatedAt
	const query = `INSERT INTO reports
	(id, faculty_name, class_name, week_of_reporting, lecture_date, course_id, course_name, course_code,
	 lecturer_name, lecturer_id, students_present, students_registered, venue, scheduled_time, topic,
	 learning_outcomes, recommendations, status, author_id, reviewer_id, reviewer_feedback, created_at, updated_at)
	VALUES (:id, :faculty_name, :class_name, :week_of_reporting, :lecture_date, :course_id, :course_name, :course_code,
	 :lecturer_name, :lecturer_id, :students_present, :students_registered, :venue, :scheduled_time, :topic,
	 :learning_outcomes, :recommendations, :status, :author_id, :reviewer_id, :reviewer_feedback, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// GetByID fetches a report by identifier. It returns sql.ErrNoRows when absent.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	var report models.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &report, nil
}

// List returns reports matching the filter, newest first.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 8)
	builder.WriteString(`SELECT ` + reportColumns + ` FROM reports`)

	conditions := make([]string, 0, 6)
	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if filter.ReviewerID != "" {
		args = append(args, filter.ReviewerID)
		conditions = append(conditions, fmt.Sprintf("reviewer_id = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.LecturerName != "" {
		args = append(args, filter.LecturerName)
		conditions = append(conditions, fmt.Sprintf("lecturer_name = $%d", len(args)))
	}
	if filter.CourseName != "" {
		args = append(args, filter.CourseName)
		conditions = append(conditions, fmt.Sprintf("course_name = $%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC, id ASC")

	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset))
	}

	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// TransitionParams describes a status change applied under the report row lock.
type TransitionParams struct {
	ID         string
	Status     models.ReportStatus
	ReviewerID string
	UpdatedAt  time.Time
	// Guard runs against the locked row; a non-nil error aborts the transaction
	// and is returned unchanged.
	Guard func(current *models.Report) error
	// Feedback, when set, is appended in the same transaction.
	Feedback *models.Feedback
}

// Transition locks the report row, validates through Guard and applies the new status.
// It returns sql.ErrNoRows when the report does not exist.
func (r *ReportRepository) Transition(ctx context.Context, params TransitionParams) (report *models.Report, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin report transition: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	report, err = lockReport(ctx, tx, params.ID)
	if err != nil {
		return nil, err
	}
	if params.Guard != nil {
		if err = params.Guard(report); err != nil {
			return nil, err
		}
	}

	reviewerFeedback := report.ReviewerFeedback
	if params.Feedback != nil {
		if err = insertFeedback(ctx, tx, params.Feedback); err != nil {
			return nil, err
		}
		text := params.Feedback.Text
		reviewerFeedback = &text
	}

	const updateQuery = `UPDATE reports SET status = $1, reviewer_id = $2, reviewer_feedback = $3, updated_at = $4 WHERE id = $5`
	if _, err = tx.ExecContext(ctx, updateQuery, params.Status, params.ReviewerID, reviewerFeedback, params.UpdatedAt, params.ID); err != nil {
		return nil, fmt.Errorf("update report status: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit report transition: %w", err)
	}

	reviewerID := params.ReviewerID
	report.Status = params.Status
	report.ReviewerID = &reviewerID
	report.ReviewerFeedback = reviewerFeedback
	report.UpdatedAt = params.UpdatedAt
	return report, nil
}

// lockReport selects the report row FOR UPDATE so concurrent writers on the
// same report serialize.
func lockReport(ctx context.Context, tx *sqlx.Tx, id string) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1 FOR UPDATE`
	var report models.Report
	if err := tx.GetContext(ctx, &report, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock report: %w", err)
	}
	return &report, nil
}
