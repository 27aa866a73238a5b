package model

import "time"

// Comment attaches to a question or answer. ParentID enables threaded
// replies; a reply always targets the same content as its parent.
type Comment struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	User        User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	ContentType ContentKind `gorm:"not null;size:20;index:idx_comments_target,priority:1" json:"content_type"`
	ContentID   int64       `gorm:"not null;index:idx_comments_target,priority:2" json:"object_id"`
	ParentID    *int64      `gorm:"index" json:"parent_comment"`
	IsEdited    bool        `gorm:"default:false" json:"is_edited"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}
