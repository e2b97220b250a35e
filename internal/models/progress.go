package models

import (
	"math"
	"slices"
	"strings"
	"time"
)

// Progress is a user's watch position in a course.
type Progress struct {
	ID          int       `db:"id" json:"id"`
	CourseID    int       `db:"course_id" json:"course_id"`
	UserID      int       `db:"user_id" json:"user_id"`
	Progress    int       `db:"progress" json:"progress"`
	CurrentTime int       `db:"current_seconds" json:"current_time"`
	Duration    int       `db:"duration" json:"duration"`
	IsCompleted bool      `db:"is_completed" json:"is_completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type SaveProgressRequest struct {
	CourseID    int  `json:"course_id" binding:"required,gt=0"`
	Progress    int  `json:"progress" binding:"gte=0,lte=100"`
	CurrentTime int  `json:"current_time" binding:"gte=0"`
	Duration    int  `json:"duration" binding:"gte=0"`
	IsCompleted bool `json:"is_completed"`
}

type ProgressOverview struct {
	TotalCourses     int     `json:"total_courses"`
	TotalLearners    int     `json:"total_learners"`
	TotalHours       float64 `json:"total_hours"`
	CompletedCourses int     `json:"completed_courses"`
}

type CourseStats struct {
	LearnerCount   int     `json:"learner_count"`
	CompletedCount int     `json:"completed_count"`
	CompletionRate float64 `json:"completion_rate"`
	AvgProgress    float64 `json:"avg_progress"`
	AvgWatchTime   float64 `json:"avg_watch_time"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type LearningTrend struct {
	DailyLearners    []DailyCount `json:"daily_learners"`
	DailyCompletions []DailyCount `json:"daily_completions"`
}

type RecentCourse struct {
	ID           int    `db:"id" json:"id"`
	Title        string `db:"title" json:"title"`
	LastProgress int    `db:"progress" json:"last_progress"`
}

type UserLearningStats struct {
	CourseCount    int            `json:"course_count"`
	CompletedCount int            `json:"completed_count"`
	CompletionRate float64        `json:"completion_rate"`
	TotalTime      float64        `json:"total_time"`
	RecentCourses  []RecentCourse `json:"recent_courses"`
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// BuildTrend buckets progress records by UTC day: distinct learners by the day a
// record was created, completions by the day it was last updated.
func BuildTrend(records []Progress, since time.Time) LearningTrend {
	learners := map[string]map[int]struct{}{}
	completions := map[string]int{}
	for _, p := range records {
		if !p.CreatedAt.Before(since) {
			day := p.CreatedAt.UTC().Format(time.DateOnly)
			if learners[day] == nil {
				learners[day] = map[int]struct{}{}
			}
			learners[day][p.UserID] = struct{}{}
		}
		if p.IsCompleted && !p.UpdatedAt.Before(since) {
			completions[p.UpdatedAt.UTC().Format(time.DateOnly)]++
		}
	}

	trend := LearningTrend{DailyLearners: []DailyCount{}, DailyCompletions: []DailyCount{}}
	for day, users := range learners {
		trend.DailyLearners = append(trend.DailyLearners, DailyCount{Date: day, Count: len(users)})
	}
	for day, n := range completions {
		trend.DailyCompletions = append(trend.DailyCompletions, DailyCount{Date: day, Count: n})
	}
	byDate := func(a, b DailyCount) int { return strings.Compare(a.Date, b.Date) }
	slices.SortFunc(trend.DailyLearners, byDate)
	slices.SortFunc(trend.DailyCompletions, byDate)
	return trend
}
