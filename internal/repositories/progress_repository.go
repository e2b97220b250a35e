package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"course-service/internal/models"
)

var ErrProgressNotFound = errors.New("progress not found")

const progressColumns = `id, course_id, user_id, progress, current_seconds, duration, is_completed, created_at, updated_at`

// ProgressRepository abstracts watch progress and the learning statistics derived from it.
type ProgressRepository interface {
	GetProgress(ctx context.Context, courseID int, userID int) (models.Progress, error)
	SaveProgress(ctx context.Context, userID int, req models.SaveProgressRequest) (models.Progress, error)
	Overview(ctx context.Context) (models.ProgressOverview, error)
	CourseStats(ctx context.Context, courseID int) (models.CourseStats, error)
	UserStats(ctx context.Context, userID int) (models.UserLearningStats, error)
	ListSince(ctx context.Context, since time.Time) ([]models.Progress, error)
}

type ProgressRepo struct {
	db *sqlx.DB
}

func NewProgressRepo(db *sqlx.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

func (r *ProgressRepo) GetProgress(ctx context.Context, courseID int, userID int) (models.Progress, error) {
	var p models.Progress
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT `+progressColumns+` FROM watch_progress WHERE course_id = ? AND user_id = ?`), courseID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Progress{}, ErrProgressNotFound
	}
	return p, errors.Wrap(err, "get progress")
}

// SaveProgress upserts the (course, user) record. Completion never reverts.
func (r *ProgressRepo) SaveProgress(ctx context.Context, userID int, req models.SaveProgressRequest) (models.Progress, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO watch_progress
            (course_id, user_id, progress, current_seconds, duration, is_completed, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (course_id, user_id) DO UPDATE
        SET progress = excluded.progress,
            current_seconds = excluded.current_seconds,
            duration = excluded.duration,
            is_completed = (watch_progress.is_completed OR excluded.is_completed),
            updated_at = excluded.updated_at`),
		req.CourseID, userID, req.Progress, req.CurrentTime, req.Duration, req.IsCompleted, now, now)
	if err != nil {
		return models.Progress{}, errors.Wrap(err, "upsert progress")
	}
	return r.GetProgress(ctx, req.CourseID, userID)
}

type progressTotals struct {
	Learners  int64   `db:"learners"`
	Completed int64   `db:"completed"`
	Seconds   float64 `db:"seconds"`
}

// Overview summarises learning activity across the platform.
func (r *ProgressRepo) Overview(ctx context.Context) (models.ProgressOverview, error) {
	var courses int
	if err := r.db.GetContext(ctx, &courses, `SELECT COUNT(*) FROM courses`); err != nil {
		return models.ProgressOverview{}, errors.Wrap(err, "count courses")
	}
	var totals progressTotals
	err := r.db.GetContext(ctx, &totals, `SELECT COUNT(DISTINCT user_id) AS learners,
            COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0) AS completed,
            COALESCE(SUM(current_seconds), 0) AS seconds
        FROM watch_progress`)
	if err != nil {
		return models.ProgressOverview{}, errors.Wrap(err, "progress overview")
	}
	return models.ProgressOverview{
		TotalCourses:     courses,
		TotalLearners:    int(totals.Learners),
		TotalHours:       models.Round1(totals.Seconds / 3600),
		CompletedCourses: int(totals.Completed),
	}, nil
}

// CourseStats reports learners, completion and averages for one course.
// Average watch time is in minutes.
func (r *ProgressRepo) CourseStats(ctx context.Context, courseID int) (models.CourseStats, error) {
	var row struct {
		Learners    int64   `db:"learners"`
		Completed   int64   `db:"completed"`
		AvgProgress float64 `db:"avg_progress"`
		AvgSeconds  float64 `db:"avg_seconds"`
	}
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT COUNT(DISTINCT user_id) AS learners,
            COUNT(DISTINCT CASE WHEN is_completed THEN user_id END) AS completed,
            COALESCE(AVG(progress), 0) AS avg_progress,
            COALESCE(AVG(current_seconds), 0) AS avg_seconds
        FROM watch_progress WHERE course_id = ?`), courseID)
	if err != nil {
		return models.CourseStats{}, errors.Wrap(err, "course stats")
	}
	return models.CourseStats{
		LearnerCount:   int(row.Learners),
		CompletedCount: int(row.Completed),
		CompletionRate: rate(row.Completed, row.Learners),
		AvgProgress:    models.Round1(row.AvgProgress),
		AvgWatchTime:   models.Round1(row.AvgSeconds / 60),
	}, nil
}

// UserStats reports a user's courses, completion, hours watched and the five
// most recently watched courses.
func (r *ProgressRepo) UserStats(ctx context.Context, userID int) (models.UserLearningStats, error) {
	var totals struct {
		Courses   int64   `db:"courses"`
		Completed int64   `db:"completed"`
		Seconds   float64 `db:"seconds"`
	}
	err := r.db.GetContext(ctx, &totals, r.db.Rebind(`SELECT COUNT(DISTINCT course_id) AS courses,
            COUNT(DISTINCT CASE WHEN is_completed THEN course_id END) AS completed,
            COALESCE(SUM(current_seconds), 0) AS seconds
        FROM watch_progress WHERE user_id = ?`), userID)
	if err != nil {
		return models.UserLearningStats{}, errors.Wrap(err, "user stats")
	}

	recent := []models.RecentCourse{}
	err = r.db.SelectContext(ctx, &recent, r.db.Rebind(`SELECT c.id, c.title, w.progress
        FROM watch_progress w
        JOIN courses c ON c.id = w.course_id
        WHERE w.user_id = ?
        ORDER BY w.updated_at DESC, w.id DESC
        LIMIT 5`), userID)
	if err != nil {
		return models.UserLearningStats{}, errors.Wrap(err, "recent courses")
	}

	return models.UserLearningStats{
		CourseCount:    int(totals.Courses),
		CompletedCount: int(totals.Completed),
		CompletionRate: rate(totals.Completed, totals.Courses),
		TotalTime:      models.Round1(totals.Seconds / 3600),
		RecentCourses:  recent,
	}, nil
}

// ListSince returns records created or updated at or after since.
func (r *ProgressRepo) ListSince(ctx context.Context, since time.Time) ([]models.Progress, error) {
	list := []models.Progress{}
	since = since.UTC()
	err := r.db.SelectContext(ctx, &list, r.db.Rebind(`SELECT `+progressColumns+` FROM watch_progress
        WHERE created_at >= ? OR updated_at >= ? ORDER BY id`), since, since)
	return list, errors.Wrap(err, "list progress")
}

func rate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return models.Round1(float64(part) / float64(total) * 100)
}
