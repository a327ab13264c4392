package models

import "time"

// ReportStatus captures the review state of a lecture report.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusReviewed ReportStatus = "reviewed"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusPending:  {ReportStatusReviewed, ReportStatusApproved, ReportStatusRejected},
	ReportStatusReviewed: {ReportStatusApproved, ReportStatusRejected},
}

// Valid reports whether the status is known.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewed, ReportStatusApproved, ReportStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave this status.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusApproved || s == ReportStatusRejected
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s ReportStatus) CanTransitionTo(target ReportStatus) bool {
	for _, next := range reportTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Report is a single submitted lecture record.
type Report struct {
	ID                 string       `db:"id" json:"id"`
	FacultyName        string       `db:"faculty_name" json:"facultyName"`
	ClassName          string       `db:"class_name" json:"className"`
	WeekOfReporting    string       `db:"week_of_reporting" json:"weekOfReporting"`
	LectureDate        time.Time    `db:"lecture_date" json:"lectureDate"`
	CourseID           *string      `db:"course_id" json:"courseId,omitempty"`
	CourseName         string       `db:"course_name" json:"courseName"`
	CourseCode         string       `db:"course_code" json:"courseCode"`
	LecturerName       string       `db:"lecturer_name" json:"lecturerName"`
	LecturerID         int64        `db:"lecturer_id" json:"lecturerId"`
	StudentsPresent    int          `db:"students_present" json:"studentsPresent"`
	StudentsRegistered int          `db:"students_registered" json:"studentsRegistered"`
	Venue              string       `db:"venue" json:"venue"`
	ScheduledTime      string       `db:"scheduled_time" json:"scheduledTime"`
	Topic              string       `db:"topic" json:"topic"`
	LearningOutcomes   string       `db:"learning_outcomes" json:"learningOutcomes"`
	Recommendations    string       `db:"recommendations" json:"recommendations"`
	Status             ReportStatus `db:"status" json:"status"`
	AuthorID           string       `db:"author_id" json:"authorId"`
	ReviewerID         *string      `db:"reviewer_id" json:"reviewerId,omitempty"`
	ReviewerFeedback   *string      `db:"reviewer_feedback" json:"reviewerFeedback,omitempty"`
	CreatedAt          time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updatedAt"`
}

// ReportFilter constrains listing queries; all set predicates are ANDed.
type ReportFilter struct {
	AuthorID     string
	ReviewerID   string
	Status       []ReportStatus
	LecturerName string
	CourseName   string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}
