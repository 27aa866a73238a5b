package model

import "time"

type Question struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null;size:255" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Tags      []Tag     `gorm:"many2many:question_tags" json:"tags"`
	Views     int64     `gorm:"not null;default:0" json:"views"`
	IsClosed  bool      `gorm:"default:false" json:"is_closed"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}
