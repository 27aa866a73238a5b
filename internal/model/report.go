package model

import (
	"time"

	"gorm.io/datatypes"
)

// Report flags a question, answer or comment for moderation. Snapshot
// captures the reported text at report time so moderators can review it
// even after the target is edited or deleted.
type Report struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ReporterID  int64          `gorm:"not null;index" json:"reporter_id"`
	Reporter    User           `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE" json:"reporter"`
	ReportType  string         `gorm:"not null;size:30" json:"report_type"`
	Description string         `gorm:"type:text;not null" json:"description"`
	ContentType ContentKind    `gorm:"not null;size:20;index:idx_reports_target,priority:1" json:"content_type"`
	ContentID   int64          `gorm:"not null;index:idx_reports_target,priority:2" json:"object_id"`
	Snapshot    datatypes.JSON `json:"snapshot"`
	Status      string         `gorm:"not null;default:'pending';size:20;index" json:"status"`
	ResolvedBy  *int64         `json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time     `json:"resolved_at,omitempty"`
	AdminNotes  string         `gorm:"type:text" json:"admin_notes"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (Report) TableName() string {
	return "reports"
}

// ReportType constants
const (
	ReportTypeSpam           = "spam"
	ReportTypeHarassment     = "harassment"
	ReportTypeInappropriate  = "inappropriate"
	ReportTypeMisinformation = "misinformation"
	ReportTypeOther          = "other"
)

// Report status constants
const (
	ReportStatusPending     = "pending"
	ReportStatusUnderReview = "under_review"
	ReportStatusResolved    = "resolved"
	ReportStatusRemoved     = "removed"
	ReportStatusDismissed   = "dismissed"
)

// Resolved reports whether the report has reached a terminal status and is
// therefore immutable.
func (r *Report) Resolved() bool {
	switch r.Status {
	case ReportStatusResolved, ReportStatusRemoved, ReportStatusDismissed:
		return true
	}
	return false
}
