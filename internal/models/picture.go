package models

import "time"

// PlaceholderPictureURL is served when a project has no pictures.
const PlaceholderPictureURL = "https://placehold.co/600x400?text=No+Image"

// Picture is an image attached to a project. Only the URL is stored; image
// bytes live in external storage.
type Picture struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProjectID  uint      `gorm:"not null;index" json:"project_id"`
	ImageURL   string    `gorm:"not null" json:"image_url"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
