package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
)

var (
	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("duplicate row")

	// ErrMissingReference is returned when an insert names a parent row that does not exist.
	ErrMissingReference = errors.New("referenced row does not exist")
)

const (
	uniqueViolation     = pq.ErrorCode("23505")
	foreignKeyViolation = pq.ErrorCode("23503")
)

const ratingColumns = `id, student_id, lecturer_name, course_name, report_id, rating, review, created_at`

// RatingRepository persists student ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository constructs the repository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserts a rating. The (student_id, lecturer_name, course_name) unique
// index turns a concurrent duplicate into ErrDuplicate, and a report_id with no
// matching report becomes ErrMissingReference.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO ratings (id, student_id, lecturer_name, course_name, report_id, rating, review, created_at)
	VALUES (:id, :student_id, :lecturer_name, :course_name, :report_id, :rating, :review, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rating); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create rating: %w", ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create rating: %w", ErrMissingReference)
		}
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

// FindByKey returns the rating for a (student, lecturer, course) tuple or sql.ErrNoRows.
func (r *RatingRepository) FindByKey(ctx context.Context, studentID, lecturerName, courseName string) (*models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE student_id = $1 AND lecturer_name = $2 AND course_name = $3 LIMIT 1`
	var rating models.Rating
	if err := r.db.GetContext(ctx, &rating, query, studentID, lecturerName, courseName); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find rating: %w", err)
	}
	return &rating, nil
}

// List returns ratings matching the filter, newest first.
func (r *RatingRepository) List(ctx context.Context, filter models.RatingFilter) ([]models.Rating, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 3)
	builder.WriteString(`SELECT ` + ratingColumns + ` FROM ratings`)

	conditions := make([]string, 0, 3)
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filter.LecturerName != "" {
		args = append(args, filter.LecturerName)
		conditions = append(conditions, fmt.Sprintf("lecturer_name = $%d", len(args)))
	}
	if filter.CourseName != "" {
		args = append(args, filter.CourseName)
		conditions = append(conditions, fmt.Sprintf("course_name = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC, id ASC")

	var ratings []models.Rating
	if err := r.db.SelectContext(ctx, &ratings, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
