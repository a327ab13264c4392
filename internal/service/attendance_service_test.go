package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/dto"
	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
)

func seedAttendance(store *memoryStore) {
	store.put(models.Report{ID: "a", LecturerName: "John Lecturer", CourseName: "Data Structures", CourseCode: "CS101", StudentsPresent: 25, StudentsRegistered: 30})
	store.put(models.Report{ID: "b", LecturerName: "John Lecturer", CourseName: "Data Structures", CourseCode: "CS101", StudentsPresent: 0, StudentsRegistered: 0})
	store.put(models.Report{ID: "c", LecturerName: "Jane Lecturer", CourseName: "Algorithms", CourseCode: "CS201", StudentsPresent: 22, StudentsRegistered: 28})
}

func TestAttendanceServiceSummary(t *testing.T) {
	store := newMemoryStore()
	seedAttendance(store)
	svc := NewAttendanceService(reportStoreStub{store}, nil, nil)

	summary, err := svc.Summary(context.Background(), dto.AttendanceQuery{LecturerName: "John Lecturer"})
	require.NoError(t, err)
	assert.Equal(t, &models.AttendanceSummary{Scope: "lecturer:John Lecturer", AveragePercentage: 83, SampleCount: 1, ExcludedCount: 1}, summary)

	all, err := svc.Summary(context.Background(), dto.AttendanceQuery{})
	require.NoError(t, err)
	assert.Equal(t, "all", all.Scope)
	assert.Equal(t, 2, all.SampleCount)
	assert.Equal(t, 81, all.AveragePercentage)

	none, err := svc.Summary(context.Background(), dto.AttendanceQuery{CourseName: "Unknown"})
	require.NoError(t, err)
	assert.Zero(t, none.AveragePercentage)
	assert.Zero(t, none.SampleCount)
}

func TestAttendanceServiceByCourse(t *testing.T) {
	store := newMemoryStore()
	seedAttendance(store)
	svc := NewAttendanceService(reportStoreStub{store}, nil, nil)

	rows, err := svc.ByCourse(context.Background(), dto.AttendanceQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.CourseAttendance{CourseName: "Algorithms", CourseCode: "CS201", AveragePercentage: 79, SampleCount: 1}, rows[0])
	assert.Equal(t, models.CourseAttendance{CourseName: "Data Structures", CourseCode: "CS101", AveragePercentage: 83, SampleCount: 1}, rows[1])
}

func TestAttendanceServiceErrors(t *testing.T) {
	store := newMemoryStore()
	svc := NewAttendanceService(reportStoreStub{store}, nil, nil)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, err := svc.Summary(context.Background(), dto.AttendanceQuery{From: &from, To: &to})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	store.err = errStoreDown
	_, err = svc.ByCourse(context.Background(), dto.AttendanceQuery{})
	assert.True(t, appErrors.Is(err, appErrors.ErrStore))
}
