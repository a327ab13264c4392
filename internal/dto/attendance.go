package dto

import "time"

// AttendanceQuery selects the report window fed to the attendance aggregator.
type AttendanceQuery struct {
	LecturerName string
	CourseName   string
	From         *time.Time
	To           *time.Time
}
