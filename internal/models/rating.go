package models

import "time"

// Rating is a 1-5 score a user gives a project. One rating per (project, user);
// rating again overwrites the previous value.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_ratings_project_user" json:"project_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ratings_project_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
