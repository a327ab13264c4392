package dto

// SubmitRatingRequest is a student's rating of a lecturer for a course.
type SubmitRatingRequest struct {
	LecturerName string  `json:"lecturerName" validate:"required"`
	CourseName   string  `json:"courseName" validate:"required"`
	ReportID     *string `json:"reportId"`
	Rating       int     `json:"rating"`
	Review       string  `json:"review"`
}

// RatingQuery mirrors supported rating listing filters.
type RatingQuery struct {
	StudentID    string
	LecturerName string
	CourseName   string
}
