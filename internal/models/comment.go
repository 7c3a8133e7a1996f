package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is user feedback on a project. Comments are stored flat; a reply
// references its parent by ID, never by pointer cycle. IsActive gates
// moderated comments out of public listings.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProjectID uint           `gorm:"not null;index" json:"project_id"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	ParentID  *uint          `gorm:"index" json:"parent_id,omitempty"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	Replies   []*Comment     `gorm:"-" json:"replies,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// ThreadComments arranges a flat, id-ordered comment list into top-level
// comments with nested replies. Parents are resolved through an index map so
// the result holds no cyclic pointers. Replies whose parent is missing from
// the input (e.g. moderated away) are promoted to top level rather than lost.
func ThreadComments(comments []*Comment) []*Comment {
	byID := make(map[uint]*Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	var topLevel []*Comment
	for _, c := range comments {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		topLevel = append(topLevel, c)
	}
	return topLevel
}
