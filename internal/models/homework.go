package models

import "time"

// Homework statuses from a student's point of view.
const (
	HomeworkPending   = "pending"
	HomeworkSubmitted = "submitted"
	HomeworkGraded    = "graded"
)

type Homework struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Deadline    time.Time `db:"deadline" json:"deadline"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HomeworkSummary adds submission counters to a homework.
type HomeworkSummary struct {
	Homework
	AnswerCount int `db:"answer_count" json:"answer_count"`
	ScoreCount  int `db:"score_count" json:"score_count"`
	UserCount   int `db:"-" json:"user_count"`
}

type HomeworkAnswer struct {
	ID         int       `db:"id" json:"id"`
	HomeworkID int       `db:"homework_id" json:"homework_id"`
	UserID     int       `db:"user_id" json:"user_id"`
	FilePath   *string   `db:"file_path" json:"file_path"`
	Score      *int      `db:"score" json:"score"`
	Comment    *string   `db:"comment" json:"comment"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// HomeworkAnswerView is an answer with the submitting user.
type HomeworkAnswerView struct {
	HomeworkAnswer
	User *UserView `json:"user,omitempty"`
}

// HomeworkStudentView is a homework with the caller's answer.
type HomeworkStudentView struct {
	Homework
	Status string          `json:"status"`
	Answer *HomeworkAnswer `json:"answer"`
}

func StudentView(hw Homework, answer *HomeworkAnswer) HomeworkStudentView {
	status := HomeworkPending
	if answer != nil {
		status = HomeworkSubmitted
		if answer.Score != nil {
			status = HomeworkGraded
		}
	}
	return HomeworkStudentView{Homework: hw, Status: status, Answer: answer}
}

type NewHomework struct {
	Title       string    `json:"title" binding:"required,notblank"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline" binding:"required"`
}

type NewHomeworkAnswer struct {
	HomeworkID int    `json:"homework_id" binding:"required,gt=0"`
	FilePath   string `json:"file_path" binding:"required"`
}

type ScoreRequest struct {
	Score   *int    `json:"score" binding:"required,gte=0,lte=100"`
	Comment *string `json:"comment"`
}
