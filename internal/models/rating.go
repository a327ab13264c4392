package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is one student's evaluation of a lecturer for a course.
type Rating struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"studentId"`
	LecturerName string    `db:"lecturer_name" json:"lecturerName"`
	CourseName   string    `db:"course_name" json:"courseName"`
	ReportID     *string   `db:"report_id" json:"reportId,omitempty"`
	Rating       int       `db:"rating" json:"rating"`
	Review       *string   `db:"review" json:"review,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// RatingFilter constrains rating listings.
type RatingFilter struct {
	StudentID    string
	LecturerName string
	CourseName   string
}

// CourseRatingSummary is the per-course slice of a lecturer summary.
type CourseRatingSummary struct {
	CourseName    string  `json:"courseName"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}

// LecturerRatingSummary is derived at read time and never persisted.
type LecturerRatingSummary struct {
	LecturerName       string                `json:"lecturerName"`
	AverageRating      float64               `json:"averageRating"`
	TotalRatings       int                   `json:"totalRatings"`
	Distribution       map[int]int           `json:"distribution"`
	PerCourseBreakdown []CourseRatingSummary `json:"perCourseBreakdown"`
}
