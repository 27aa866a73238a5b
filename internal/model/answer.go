package model

import "time"

// Answer belongs to a question. At most one answer per question carries
// IsBestAnswer; the mark-best handler enforces that transactionally.
type Answer struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID   int64     `gorm:"not null;index:idx_answers_question_created,priority:1" json:"question_id"`
	Question     Question  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	Body         string    `gorm:"type:text;not null" json:"body"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	IsBestAnswer bool      `gorm:"default:false;index" json:"is_best_answer"`
	CreatedAt    time.Time `gorm:"index:idx_answers_question_created,priority:2" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Answer) TableName() string {
	return "answers"
}
