package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
)

const feedbackColumns = `id, report_id, reviewer_id, text, priority, status, created_at, updated_at`

// FeedbackRepository persists the append-only reviewer feedback log.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs the repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// AppendAndReconcile appends feedback and, when the parent report is still
// pending, advances it to reviewed. Both steps run under the report row lock in
// one transaction. It returns sql.ErrNoRows when the report does not exist.
func (r *FeedbackRepository) AppendAndReconcile(ctx context.Context, feedback *models.Feedback) (result *models.FeedbackAppendResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin feedback append: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	report, err := lockReport(ctx, tx, feedback.ReportID)
	if err != nil {
		return nil, err
	}
	if err = insertFeedback(ctx, tx, feedback); err != nil {
		return nil, err
	}

	status := report.Status
	reconciled := status == models.ReportStatusPending
	if reconciled {
		status = models.ReportStatusReviewed
		const query = `UPDATE reports SET status = $1, reviewer_id = $2, reviewer_feedback = $3, updated_at = $4 WHERE id = $5`
		if _, err = tx.ExecContext(ctx, query, status, feedback.ReviewerID, feedback.Text, feedback.CreatedAt, report.ID); err != nil {
			return nil, fmt.Errorf("reconcile report status: %w", err)
		}
	} else {
		const query = `UPDATE reports SET reviewer_feedback = $1, updated_at = $2 WHERE id = $3`
		if _, err = tx.ExecContext(ctx, query, feedback.Text, feedback.CreatedAt, report.ID); err != nil {
			return nil, fmt.Errorf("update reviewer feedback: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit feedback append: %w", err)
	}
	return &models.FeedbackAppendResult{Feedback: *feedback, ReportStatus: status, Reconciled: reconciled}, nil
}

// GetByID fetches a feedback entry. It returns sql.ErrNoRows when absent.
func (r *FeedbackRepository) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1`
	var feedback models.Feedback
	if err := r.db.GetContext(ctx, &feedback, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	return &feedback, nil
}

// ListByReport returns a report's feedback oldest first.
func (r *FeedbackRepository) ListByReport(ctx context.Context, reportID string) ([]models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE report_id = $1 ORDER BY created_at ASC, id ASC`
	var entries []models.Feedback
	if err := r.db.SelectContext(ctx, &entries, query, reportID); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return entries, nil
}

// UpdateStatus moves a feedback entry to status when its current status is one
// of from. It returns false when no row matched.
func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id string, from []models.FeedbackStatus, status models.FeedbackStatus, at time.Time) (bool, error) {
	query, args, err := sqlx.In(`UPDATE feedback SET status = ?, updated_at = ? WHERE id = ? AND status IN (?)`, status, at, id, from)
	if err != nil {
		return false, fmt.Errorf("build feedback status update: %w", err)
	}
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return false, fmt.Errorf("update feedback status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check feedback update rows: %w", err)
	}
	return rows > 0, nil
}

func insertFeedback(ctx context.Context, tx *sqlx.Tx, feedback *models.Feedback) error {
	now := time.Now().UTC()
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.Status == "" {
		feedback.Status = models.FeedbackStatusSubmitted
	}
	if feedback.Priority == "" {
		feedback.Priority = models.FeedbackPriorityMedium
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = now
	}
	feedback.UpdatedAt = feedback.CreatedAt
	const query = `INSERT INTO feedback (id, report_id, reviewer_id, text, priority, status, created_at, updated_at)
	VALUES (:id, :report_id, :reviewer_id, :text, :priority, :status, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}
