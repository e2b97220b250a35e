package models

import "time"

// Course is an uploaded video or document.
type Course struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	FilePath    string    `db:"file_path" json:"file_path"`
	CreatorID   int       `db:"creator_id" json:"creator_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseView is a course with its creator.
type CourseView struct {
	Course
	Creator *UserView `json:"creator,omitempty"`
}
