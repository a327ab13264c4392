package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
)

func TestComputeAttendanceRate(t *testing.T) {
	cases := []struct {
		name    string
		reports []models.Report
		want    int
	}{
		{
			name: "zero registered row excluded",
			reports: []models.Report{
				{StudentsPresent: 25, StudentsRegistered: 30},
				{StudentsPresent: 0, StudentsRegistered: 0},
			},
			want: 83,
		},
		{
			name:    "single report rounds up",
			reports: []models.Report{{StudentsPresent: 22, StudentsRegistered: 28}},
			want:    79,
		},
		{
			name:    "empty set",
			reports: nil,
			want:    0,
		},
		{
			name:    "only unregistered rows",
			reports: []models.Report{{StudentsPresent: 0, StudentsRegistered: 0}},
			want:    0,
		},
		{
			name: "mean of per report rates",
			reports: []models.Report{
				{StudentsPresent: 10, StudentsRegistered: 10},
				{StudentsPresent: 1, StudentsRegistered: 2},
			},
			want: 75,
		},
		{
			name: "half rounds away from zero",
			reports: []models.Report{
				{StudentsPresent: 1, StudentsRegistered: 4},
				{StudentsPresent: 1, StudentsRegistered: 1},
			},
			want: 63,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeAttendanceRate(tc.reports))
		})
	}
}

func TestComputeLecturerSummaryEmpty(t *testing.T) {
	summary := ComputeLecturerSummary("John Lecturer", nil)

	assert.Equal(t, "John Lecturer", summary.LecturerName)
	assert.Equal(t, 0.0, summary.AverageRating)
	assert.False(t, math.IsNaN(summary.AverageRating))
	assert.Zero(t, summary.TotalRatings)
	require.NotNil(t, summary.PerCourseBreakdown)
	assert.Empty(t, summary.PerCourseBreakdown)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, summary.Distribution)
}

func TestComputeLecturerSummary(t *testing.T) {
	ratings := []models.Rating{
		{LecturerName: "John Lecturer", CourseName: "CS101", Rating: 5},
		{LecturerName: "John Lecturer", CourseName: "CS101", Rating: 4},
		{LecturerName: "John Lecturer", CourseName: "CS101", Rating: 4},
		{LecturerName: "John Lecturer", CourseName: "AI201", Rating: 2},
	}

	summary := ComputeLecturerSummary("John Lecturer", ratings)

	assert.Equal(t, 4, summary.TotalRatings)
	assert.Equal(t, 3.8, summary.AverageRating)
	assert.Equal(t, map[int]int{1: 0, 2: 1, 3: 0, 4: 2, 5: 1}, summary.Distribution)
	require.Len(t, summary.PerCourseBreakdown, 2)
	assert.Equal(t, models.CourseRatingSummary{CourseName: "AI201", AverageRating: 2, TotalRatings: 1}, summary.PerCourseBreakdown[0])
	assert.Equal(t, models.CourseRatingSummary{CourseName: "CS101", AverageRating: 4.3, TotalRatings: 3}, summary.PerCourseBreakdown[1])
}
