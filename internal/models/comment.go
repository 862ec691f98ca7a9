// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a polymorphic comment on any commentable resource. Threading is
// one level deep: a reply's ParentCommentID points at a top-level comment and
// must share the parent's resource.
type Comment struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	ResourceType ResourceType `gorm:"type:varchar(16);not null;index:idx_comment_resource" json:"resource_type"`
	ResourceID   uint         `gorm:"not null;index:idx_comment_resource" json:"resource_id"`
	UserID       uint         `gorm:"not null;index" json:"user_id"`
	User         User         `gorm:"foreignKey:UserID" json:"user"`
	Content      string       `gorm:"type:text;not null" json:"content"`

	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id,omitempty"`
	Replies         []Comment `gorm:"foreignKey:ParentCommentID" json:"replies,omitempty"`

	LikesCount   int  `gorm:"default:0" json:"likes_count"`
	RepliesCount int  `gorm:"default:0" json:"replies_count"`
	IsEdited     bool `gorm:"default:false" json:"is_edited"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
