package model

// Tag is a label attached to questions many-to-many. UsageCount tracks the
// number of questions currently carrying the tag: incremented on attach,
// decremented on detach, never below zero.
type Tag struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null;uniqueIndex;size:50" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	UsageCount  int64  `gorm:"not null;default:0" json:"usage_count"`
}

func (Tag) TableName() string {
	return "tags"
}
