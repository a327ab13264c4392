package service

import (
	"math"
	"sort"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
)

// ComputeLecturerSummary derives rating statistics for one lecturer from raw
// rows. It never fails: zero ratings yield zero averages and an empty breakdown.
func ComputeLecturerSummary(lecturerName string, ratings []models.Rating) models.LecturerRatingSummary {
	summary := models.LecturerRatingSummary{
		LecturerName:       lecturerName,
		Distribution:       emptyDistribution(),
		PerCourseBreakdown: []models.CourseRatingSummary{},
	}
	if len(ratings) == 0 {
		return summary
	}

	type courseAcc struct {
		sum   int
		count int
	}
	courses := make(map[string]*courseAcc)
	total := 0
	for _, r := range ratings {
		total += r.Rating
		if r.Rating >= models.MinRating && r.Rating <= models.MaxRating {
			summary.Distribution[r.Rating]++
		}
		acc, ok := courses[r.CourseName]
		if !ok {
			acc = &courseAcc{}
			courses[r.CourseName] = acc
		}
		acc.sum += r.Rating
		acc.count++
	}

	summary.TotalRatings = len(ratings)
	summary.AverageRating = roundOneDecimal(float64(total) / float64(len(ratings)))

	names := make([]string, 0, len(courses))
	for name := range courses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		acc := courses[name]
		summary.PerCourseBreakdown = append(summary.PerCourseBreakdown, models.CourseRatingSummary{
			CourseName:    name,
			AverageRating: roundOneDecimal(float64(acc.sum) / float64(acc.count)),
			TotalRatings:  acc.count,
		})
	}
	return summary
}

// ComputeAttendanceRate returns the mean per-report attendance percentage,
// rounded to the nearest integer. Reports with no registered students are
// skipped; an empty input yields 0.
func ComputeAttendanceRate(reports []models.Report) int {
	rate, _, _ := attendanceStats(reports)
	return rate
}

func attendanceStats(reports []models.Report) (rate, sampled, excluded int) {
	var sum float64
	for _, r := range reports {
		if r.StudentsRegistered <= 0 {
			excluded++
			continue
		}
		sum += float64(r.StudentsPresent) / float64(r.StudentsRegistered) * 100
		sampled++
	}
	if sampled == 0 {
		return 0, 0, excluded
	}
	return int(math.Round(sum / float64(sampled))), sampled, excluded
}

func emptyDistribution() map[int]int {
	dist := make(map[int]int, models.MaxRating)
	for score := models.MinRating; score <= models.MaxRating; score++ {
		dist[score] = 0
	}
	return dist
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
