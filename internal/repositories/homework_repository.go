package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"course-service/internal/models"
)

var (
	ErrHomeworkNotFound = errors.New("homework not found")
	ErrAnswerNotFound   = errors.New("answer not found")
)

const (
	homeworkColumns = `id, title, description, deadline, created_at, updated_at`
	answerColumns   = `id, homework_id, user_id, file_path, score, comment, created_at, updated_at`
)

// HomeworkRepository abstracts homework and answer persistence.
type HomeworkRepository interface {
	CreateHomework(ctx context.Context, hw models.NewHomework) (models.Homework, error)
	GetHomework(ctx context.Context, homeworkID int) (models.Homework, error)
	ListHomework(ctx context.Context) ([]models.HomeworkSummary, error)
	ListForStudent(ctx context.Context, userID int) ([]models.HomeworkStudentView, error)
	SubmitAnswer(ctx context.Context, userID int, answer models.NewHomeworkAnswer) (models.HomeworkAnswer, error)
	ListAnswers(ctx context.Context, homeworkID int) ([]models.HomeworkAnswer, error)
	GetAnswer(ctx context.Context, answerID int) (models.HomeworkAnswer, error)
	ScoreAnswer(ctx context.Context, answerID int, score int, comment *string) (models.HomeworkAnswer, error)
}

// HomeworkRepo is a sqlx implementation of HomeworkRepository.
type HomeworkRepo struct {
	db *sqlx.DB
}

// NewHomeworkRepo constructs a HomeworkRepo.
func NewHomeworkRepo(db *sqlx.DB) *HomeworkRepo {
	return &HomeworkRepo{db: db}
}

func (r *HomeworkRepo) CreateHomework(ctx context.Context, hw models.NewHomework) (models.Homework, error) {
	now := time.Now().UTC()
	var id int
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`INSERT INTO homework (title, description, deadline, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?) RETURNING id`), hw.Title, hw.Description, hw.Deadline.UTC(), now, now).Scan(&id)
	if err != nil {
		return models.Homework{}, errors.Wrap(err, "insert homework")
	}
	return r.GetHomework(ctx, id)
}

func (r *HomeworkRepo) GetHomework(ctx context.Context, homeworkID int) (models.Homework, error) {
	var hw models.Homework
	err := r.db.GetContext(ctx, &hw, r.db.Rebind(`SELECT `+homeworkColumns+` FROM homework WHERE id = ?`), homeworkID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Homework{}, ErrHomeworkNotFound
	}
	return hw, errors.Wrap(err, "get homework")
}

// ListHomework returns every homework with its answer and graded counters.
func (r *HomeworkRepo) ListHomework(ctx context.Context) ([]models.HomeworkSummary, error) {
	list := []models.HomeworkSummary{}
	err := r.db.SelectContext(ctx, &list, `SELECT h.id, h.title, h.description, h.deadline, h.created_at, h.updated_at,
            (SELECT COUNT(*) FROM homework_answers a WHERE a.homework_id = h.id) AS answer_count,
            (SELECT COUNT(*) FROM homework_answers a WHERE a.homework_id = h.id AND a.score IS NOT NULL) AS score_count
        FROM homework h
        ORDER BY h.id`)
	return list, errors.Wrap(err, "list homework")
}

// ListForStudent pairs every homework with the given user's answer, if any.
func (r *HomeworkRepo) ListForStudent(ctx context.Context, userID int) ([]models.HomeworkStudentView, error) {
	homework := []models.Homework{}
	if err := r.db.SelectContext(ctx, &homework, `SELECT `+homeworkColumns+` FROM homework ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "list homework")
	}
	answers := []models.HomeworkAnswer{}
	if err := r.db.SelectContext(ctx, &answers, r.db.Rebind(`SELECT `+answerColumns+` FROM homework_answers WHERE user_id = ?`), userID); err != nil {
		return nil, errors.Wrap(err, "list student answers")
	}

	byHomework := lo.KeyBy(answers, func(a models.HomeworkAnswer) int { return a.HomeworkID })
	return lo.Map(homework, func(hw models.Homework, _ int) models.HomeworkStudentView {
		if answer, ok := byHomework[hw.ID]; ok {
			return models.StudentView(hw, &answer)
		}
		return models.StudentView(hw, nil)
	}), nil
}

// SubmitAnswer stores the user's answer. A resubmission replaces the file and
// clears any previous grade.
func (r *HomeworkRepo) SubmitAnswer(ctx context.Context, userID int, answer models.NewHomeworkAnswer) (models.HomeworkAnswer, error) {
	if _, err := r.GetHomework(ctx, answer.HomeworkID); err != nil {
		return models.HomeworkAnswer{}, err
	}
	now := time.Now().UTC()
	var id int
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`INSERT INTO homework_answers (homework_id, user_id, file_path, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (homework_id, user_id) DO UPDATE
        SET file_path = excluded.file_path, score = NULL, comment = NULL, updated_at = excluded.updated_at
        RETURNING id`), answer.HomeworkID, userID, answer.FilePath, now, now).Scan(&id)
	if err != nil {
		return models.HomeworkAnswer{}, errors.Wrap(err, "upsert homework answer")
	}
	return r.GetAnswer(ctx, id)
}

func (r *HomeworkRepo) ListAnswers(ctx context.Context, homeworkID int) ([]models.HomeworkAnswer, error) {
	answers := []models.HomeworkAnswer{}
	err := r.db.SelectContext(ctx, &answers, r.db.Rebind(`SELECT `+answerColumns+` FROM homework_answers WHERE homework_id = ? ORDER BY id`), homeworkID)
	return answers, errors.Wrap(err, "list homework answers")
}

func (r *HomeworkRepo) GetAnswer(ctx context.Context, answerID int) (models.HomeworkAnswer, error) {
	var answer models.HomeworkAnswer
	err := r.db.GetContext(ctx, &answer, r.db.Rebind(`SELECT `+answerColumns+` FROM homework_answers WHERE id = ?`), answerID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HomeworkAnswer{}, ErrAnswerNotFound
	}
	return answer, errors.Wrap(err, "get homework answer")
}

// ScoreAnswer grades an answer.
func (r *HomeworkRepo) ScoreAnswer(ctx context.Context, answerID int, score int, comment *string) (models.HomeworkAnswer, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE homework_answers SET score = ?, comment = ?, updated_at = ? WHERE id = ?`),
		score, comment, time.Now().UTC(), answerID)
	if err != nil {
		return models.HomeworkAnswer{}, errors.Wrap(err, "score homework answer")
	}
	n, err := res.RowsAffected()
	if err := checkAffected(n, err, ErrAnswerNotFound); err != nil {
		return models.HomeworkAnswer{}, err
	}
	return r.GetAnswer(ctx, answerID)
}
