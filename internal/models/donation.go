package models

import "time"

// Donation records a single contribution to a project. UserID is nullable so
// donations survive donor account deletion.
type Donation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	Project   Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount    int64     `gorm:"not null" json:"amount"`
	DonatedAt time.Time `gorm:"autoCreateTime" json:"donated_at"`
}
