package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"course-service/internal/models"
)

var ErrPracticeNotFound = errors.New("practice not found")

const (
	practiceColumns       = `id, title, description, created_at, updated_at`
	practiceAnswerColumns = `id, practice_id, user_id, file_path, score, comment, created_at, updated_at`
)

// PracticeRepository abstracts practice exercises and their answers.
type PracticeRepository interface {
	CreatePractice(ctx context.Context, p models.NewPractice) (models.Practice, error)
	GetPractice(ctx context.Context, practiceID int) (models.Practice, error)
	ListPractices(ctx context.Context) ([]models.Practice, error)
	SubmitAnswer(ctx context.Context, userID int, answer models.NewPracticeAnswer) (models.PracticeAnswer, error)
	ListAnswers(ctx context.Context, practiceID int) ([]models.PracticeAnswer, error)
	ScoreAnswer(ctx context.Context, practiceID int, answerID int, score float64, comment *string) (models.PracticeAnswer, error)
}

type PracticeRepo struct {
	db *sqlx.DB
}

func NewPracticeRepo(db *sqlx.DB) *PracticeRepo {
	return &PracticeRepo{db: db}
}

func (r *PracticeRepo) CreatePractice(ctx context.Context, p models.NewPractice) (models.Practice, error) {
	now := time.Now().UTC()
	var id int
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`INSERT INTO practices (title, description, created_at, updated_at)
        VALUES (?, ?, ?, ?) RETURNING id`), p.Title, p.Description, now, now).Scan(&id)
	if err != nil {
		return models.Practice{}, errors.Wrap(err, "insert practice")
	}
	return r.GetPractice(ctx, id)
}

func (r *PracticeRepo) GetPractice(ctx context.Context, practiceID int) (models.Practice, error) {
	var p models.Practice
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT `+practiceColumns+` FROM practices WHERE id = ?`), practiceID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Practice{}, ErrPracticeNotFound
	}
	return p, errors.Wrap(err, "get practice")
}

func (r *PracticeRepo) ListPractices(ctx context.Context) ([]models.Practice, error) {
	list := []models.Practice{}
	err := r.db.SelectContext(ctx, &list, `SELECT `+practiceColumns+` FROM practices ORDER BY id`)
	return list, errors.Wrap(err, "list practices")
}

// SubmitAnswer records a new answer; practice allows several attempts.
func (r *PracticeRepo) SubmitAnswer(ctx context.Context, userID int, answer models.NewPracticeAnswer) (models.PracticeAnswer, error) {
	if _, err := r.GetPractice(ctx, answer.PracticeID); err != nil {
		return models.PracticeAnswer{}, err
	}
	now := time.Now().UTC()
	var id int
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`INSERT INTO practice_answers (practice_id, user_id, file_path, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?) RETURNING id`), answer.PracticeID, userID, answer.FilePath, now, now).Scan(&id)
	if err != nil {
		return models.PracticeAnswer{}, errors.Wrap(err, "insert practice answer")
	}
	return r.getAnswer(ctx, answer.PracticeID, id)
}

func (r *PracticeRepo) ListAnswers(ctx context.Context, practiceID int) ([]models.PracticeAnswer, error) {
	answers := []models.PracticeAnswer{}
	err := r.db.SelectContext(ctx, &answers, r.db.Rebind(`SELECT `+practiceAnswerColumns+` FROM practice_answers WHERE practice_id = ? ORDER BY id`), practiceID)
	return answers, errors.Wrap(err, "list practice answers")
}

// ScoreAnswer grades an answer that belongs to the given practice.
func (r *PracticeRepo) ScoreAnswer(ctx context.Context, practiceID int, answerID int, score float64, comment *string) (models.PracticeAnswer, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE practice_answers SET score = ?, comment = ?, updated_at = ? WHERE id = ? AND practice_id = ?`),
		score, comment, time.Now().UTC(), answerID, practiceID)
	if err != nil {
		return models.PracticeAnswer{}, errors.Wrap(err, "score practice answer")
	}
	n, err := res.RowsAffected()
	if err := checkAffected(n, err, ErrAnswerNotFound); err != nil {
		return models.PracticeAnswer{}, err
	}
	return r.getAnswer(ctx, practiceID, answerID)
}

func (r *PracticeRepo) getAnswer(ctx context.Context, practiceID, answerID int) (models.PracticeAnswer, error) {
	var answer models.PracticeAnswer
	err := r.db.GetContext(ctx, &answer, r.db.Rebind(`SELECT `+practiceAnswerColumns+` FROM practice_answers WHERE id = ? AND practice_id = ?`), answerID, practiceID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PracticeAnswer{}, ErrAnswerNotFound
	}
	return answer, errors.Wrap(err, "get practice answer")
}
