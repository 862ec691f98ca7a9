// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Collection is a user-curated set of posts. PostsCount is maintained
// exclusively through atomic increments inside the same transaction that
// mutates the join table, so it cannot drift from the join cardinality.
type Collection struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsPublic    bool   `gorm:"default:true" json:"is_public"`
	CoverImage  string `json:"cover_image"`
	PostsCount  int    `gorm:"default:0" json:"posts_count"`

	Posts []Post `gorm:"many2many:collection_posts" json:"posts,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
