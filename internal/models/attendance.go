package models

// AttendanceSummary is the mean attendance rate over a report set.
type AttendanceSummary struct {
	Scope             string `json:"scope"`
	AveragePercentage int    `json:"averagePercentage"`
	SampleCount       int    `json:"sampleCount"`
	// ExcludedCount counts rows with zero registered students.
	ExcludedCount int `json:"excludedCount"`
}

// CourseAttendance is one row of the per-course monitoring view.
type CourseAttendance struct {
	CourseName        string `json:"courseName"`
	CourseCode        string `json:"courseCode"`
	AveragePercentage int    `json:"averagePercentage"`
	SampleCount       int    `json:"sampleCount"`
}
