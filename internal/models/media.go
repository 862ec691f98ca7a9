// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Photo is a standalone photo resource that can be commented on, liked, and
// shared like any other resource.
type Photo struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	URL      string `gorm:"not null" json:"url"`
	Caption  string `gorm:"type:text" json:"caption"`
	IsPublic bool   `gorm:"default:true" json:"is_public"`

	LikesCount     int `gorm:"default:0" json:"likes_count"`
	CommentsCount  int `gorm:"default:0" json:"comments_count"`
	SharesCount    int `gorm:"default:0" json:"shares_count"`
	ViewsCount     int `gorm:"default:0" json:"views_count"`
	BookmarksCount int `gorm:"default:0" json:"bookmarks_count"`
	ReportsCount   int `gorm:"default:0" json:"reports_count"`
	ReactionsCount int `gorm:"default:0" json:"reactions_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Video is a library entry derived from a post whose media includes a video
// file. Entries are cleaned up best-effort when the source post is deleted.
type Video struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	PostID    *uint  `gorm:"index" json:"post_id,omitempty"`
	SourceURL string `gorm:"not null;index" json:"source_url"`
	Title     string `json:"title"`

	LikesCount     int `gorm:"default:0" json:"likes_count"`
	CommentsCount  int `gorm:"default:0" json:"comments_count"`
	SharesCount    int `gorm:"default:0" json:"shares_count"`
	ViewsCount     int `gorm:"default:0" json:"views_count"`
	BookmarksCount int `gorm:"default:0" json:"bookmarks_count"`
	ReportsCount   int `gorm:"default:0" json:"reports_count"`
	ReactionsCount int `gorm:"default:0" json:"reactions_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
