package models

import "time"

// Report statuses.
const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

// Report subjects.
const (
	ReportSubjectProject = "project"
	ReportSubjectComment = "comment"
)

// Report flags a project or a comment for admin review.
type Report struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReporterID  uint      `gorm:"not null;index" json:"reporter_id"`
	Reporter    User      `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	SubjectType string    `gorm:"not null;index" json:"subject_type"`
	SubjectID   uint      `gorm:"not null;index" json:"subject_id"`
	Reason      string    `json:"reason"`
	Status      string    `gorm:"default:pending;index" json:"status"`
	AdminNotes  string    `json:"admin_notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
