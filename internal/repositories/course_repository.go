package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"course-service/internal/models"
)

var ErrCourseNotFound = errors.New("course not found")

const courseColumns = `id, title, description, category, file_path, creator_id, created_at, updated_at`

// CourseRepository abstracts course persistence.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course models.Course) (models.Course, error)
	GetCourse(ctx context.Context, courseID int) (models.Course, error)
	ListCourses(ctx context.Context, category string) ([]models.Course, error)
	ListCategories(ctx context.Context) ([]string, error)
	DeleteCourse(ctx context.Context, courseID int) error
}

// CourseRepo is a sqlx implementation of CourseRepository.
type CourseRepo struct {
	db *sqlx.DB
}

// NewCourseRepo constructs a CourseRepo.
func NewCourseRepo(db *sqlx.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

// CreateCourse stores the course metadata of an uploaded file.
func (r *CourseRepo) CreateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	now := time.Now().UTC()
	var id int
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`INSERT INTO courses (title, description, category, file_path, creator_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`), course.Title, course.Description, course.Category, course.FilePath, course.CreatorID, now, now).Scan(&id)
	if err != nil {
		return models.Course{}, errors.Wrap(err, "insert course")
	}
	return r.GetCourse(ctx, id)
}

// GetCourse fetches a course by id.
func (r *CourseRepo) GetCourse(ctx context.Context, courseID int) (models.Course, error) {
	var course models.Course
	err := r.db.GetContext(ctx, &course, r.db.Rebind(`SELECT `+courseColumns+` FROM courses WHERE id = ?`), courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Course{}, ErrCourseNotFound
	}
	return course, errors.Wrap(err, "get course")
}

// ListCourses returns all courses, or those of one category when category is set.
func (r *CourseRepo) ListCourses(ctx context.Context, category string) ([]models.Course, error) {
	courses := []models.Course{}
	var err error
	if category == "" {
		err = r.db.SelectContext(ctx, &courses, `SELECT `+courseColumns+` FROM courses ORDER BY id`)
	} else {
		err = r.db.SelectContext(ctx, &courses, r.db.Rebind(`SELECT `+courseColumns+` FROM courses WHERE category = ? ORDER BY id`), category)
	}
	return courses, errors.Wrap(err, "list courses")
}

// ListCategories returns the distinct categories, sorted.
func (r *CourseRepo) ListCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := r.db.SelectContext(ctx, &categories, `SELECT DISTINCT category FROM courses ORDER BY category`)
	return categories, errors.Wrap(err, "list categories")
}

// DeleteCourse removes a course; ErrCourseNotFound when nothing was deleted.
func (r *CourseRepo) DeleteCourse(ctx context.Context, courseID int) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM courses WHERE id = ?`), courseID)
	if err != nil {
		return errors.Wrap(err, "delete course")
	}
	n, err := res.RowsAffected()
	return checkAffected(n, err, ErrCourseNotFound)
}
