// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Project statuses.
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusCanceled  = "canceled"
)

// Project represents a fundraising campaign.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Details     string    `gorm:"type:text;not null" json:"details"`
	TotalTarget int64     `gorm:"not null" json:"total_target"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"owner"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags        []Tag     `gorm:"many2many:project_tags" json:"tags,omitempty"`
	Pictures    []Picture `gorm:"foreignKey:ProjectID" json:"pictures,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `gorm:"default:active;index" json:"status"`
	IsFeatured  bool      `gorm:"default:false" json:"is_featured"`
	// TotalDonations is not persisted; computed at query time
	TotalDonations int64 `gorm:"->" json:"total_donations"`
	// DonationsCount is not persisted; computed at query time
	DonationsCount int `gorm:"->" json:"donations_count"`
	// AverageRating is not persisted; null when the project has no ratings
	AverageRating *float64 `gorm:"->" json:"average_rating"`
	// RatingCount is not persisted; computed at query time
	RatingCount int `gorm:"->" json:"rating_count"`
	// PercentFunded is derived from TotalDonations and TotalTarget after load
	PercentFunded int `gorm:"-" json:"percent_funded"`
	// UserRating is the requesting user's own score, filled on detail reads
	// for authenticated callers only
	UserRating *int           `gorm:"-" json:"user_rating,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Category groups projects by theme.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"unique;not null" json:"name"`
	Description string `json:"description"`
}

// Tag is a free-form label attached to projects.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}
