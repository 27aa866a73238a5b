package model

import "time"

type Notification struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64        `gorm:"not null;index" json:"user_id"`
	User        User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Type        string       `gorm:"not null;size:20" json:"notification_type"`
	Message     string       `gorm:"not null;size:255" json:"message"`
	IsRead      bool         `gorm:"default:false;index" json:"is_read"`
	ActorID     *int64       `gorm:"index" json:"actor_id,omitempty"`
	Actor       *User        `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	ContentType *ContentKind `gorm:"size:20" json:"content_type,omitempty"`
	ContentID   *int64       `json:"object_id,omitempty"`
	Link        string       `gorm:"size:255" json:"link"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationType constants
const (
	NotificationTypeQuestion   = "question"
	NotificationTypeAnswer     = "answer"
	NotificationTypeBestAnswer = "best_answer"
)
