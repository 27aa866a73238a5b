package model

import "time"

// Vote records a user's directional opinion on a question or answer. The
// composite unique index guarantees at most one row per (user, target) pair
// and backstops concurrent toggle requests.
type Vote struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64       `gorm:"not null;uniqueIndex:idx_votes_user_target,priority:1" json:"user_id"`
	User        User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	VoteType    string      `gorm:"not null;size:10" json:"vote_type"`
	ContentType ContentKind `gorm:"not null;size:20;uniqueIndex:idx_votes_user_target,priority:2;index:idx_votes_target,priority:1" json:"content_type"`
	ContentID   int64       `gorm:"not null;uniqueIndex:idx_votes_user_target,priority:3;index:idx_votes_target,priority:2" json:"object_id"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (Vote) TableName() string {
	return "votes"
}

// VoteType constants
const (
	VoteTypeUp   = "up"
	VoteTypeDown = "down"
)
