package models

import "time"

type Practice struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type PracticeAnswer struct {
	ID         int       `db:"id" json:"id"`
	PracticeID int       `db:"practice_id" json:"practice_id"`
	UserID     int       `db:"user_id" json:"user_id"`
	FilePath   string    `db:"file_path" json:"file_path"`
	Score      *float64  `db:"score" json:"score"`
	Comment    *string   `db:"comment" json:"comment"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type NewPractice struct {
	Title       string `json:"title" binding:"required,notblank"`
	Description string `json:"description"`
}

type NewPracticeAnswer struct {
	PracticeID int    `json:"practice_id" binding:"required,gt=0"`
	FilePath   string `json:"file_path" binding:"required"`
}

type PracticeScoreRequest struct {
	Score   *float64 `json:"score" binding:"required,gte=0,lte=100"`
	Comment *string  `json:"comment"`
}
