package dto

import (
	"time"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
)

// CreateReportRequest is the lecturer's submission payload.
type CreateReportRequest struct {
	FacultyName        string  `json:"facultyName"`
	ClassName          string  `json:"className" validate:"required"`
	WeekOfReporting    string  `json:"weekOfReporting" validate:"required"`
	LectureDate        string  `json:"lectureDate" validate:"required"`
	CourseID           *string `json:"courseId"`
	CourseName         string  `json:"courseName" validate:"required"`
	CourseCode         string  `json:"courseCode" validate:"required"`
	LecturerName       string  `json:"lecturerName" validate:"required"`
	LecturerID         int64   `json:"lecturerId" validate:"required,gt=0"`
	StudentsPresent    int     `json:"studentsPresent" validate:"gte=0"`
	StudentsRegistered int     `json:"studentsRegistered" validate:"gt=0"`
	Venue              string  `json:"venue" validate:"required"`
	ScheduledTime      string  `json:"scheduledTime" validate:"required"`
	Topic              string  `json:"topic" validate:"required"`
	LearningOutcomes   string  `json:"learningOutcomes" validate:"required"`
	Recommendations    string  `json:"recommendations"`
}

// FeedbackStub is the optional explicit comment attached to a quick decision.
type FeedbackStub struct {
	Text     string                  `json:"text"`
	Priority models.FeedbackPriority `json:"priority"`
}

// TransitionReportRequest moves a report along the review graph.
type TransitionReportRequest struct {
	Status   models.ReportStatus `json:"status"`
	Feedback *FeedbackStub       `json:"feedback,omitempty"`
}

// ReportQuery mirrors supported listing filters.
type ReportQuery struct {
	AuthorID     string
	ReviewerID   string
	Status       []models.ReportStatus
	LecturerName string
	CourseName   string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}
