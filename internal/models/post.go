// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PostType categorizes a post by its media composition. It is derived from
// the media URL extensions, never set by clients.
type PostType string

const (
	PostTypeText     PostType = "text"
	PostTypeImage    PostType = "image"
	PostTypeVideo    PostType = "video"
	PostTypeDocument PostType = "document"
	// PostTypeMixed is used when media spans two or more categories.
	PostTypeMixed PostType = "mixed"
)

// Post is the central content entity. A post must carry either non-empty
// content or at least one media URL.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Content   string         `gorm:"type:text" json:"content"`
	MediaURLs pq.StringArray `gorm:"type:text[]" json:"media_urls"`
	PostType  PostType       `gorm:"type:varchar(16);default:'text';index" json:"post_type"`

	// Link preview, populated best-effort from og: tags.
	LinkURL         string `json:"link_url,omitempty"`
	LinkTitle       string `json:"link_title,omitempty"`
	LinkDescription string `gorm:"type:text" json:"link_description,omitempty"`
	LinkImage       string `json:"link_image,omitempty"`

	Hashtags pq.StringArray `gorm:"type:text[]" json:"hashtags"`
	Mentions pq.StringArray `gorm:"type:text[]" json:"mentions"`

	IsPublic      bool `gorm:"default:true;index" json:"is_public"`
	AllowComments bool `gorm:"default:true" json:"allow_comments"`
	IsPinned      bool `gorm:"default:false" json:"is_pinned"`
	IsEdited      bool `gorm:"default:false" json:"is_edited"`
	IsDraft       bool `gorm:"default:false;index" json:"is_draft"`
	IsArchived    bool `gorm:"default:false;index" json:"is_archived"`

	LikesCount     int `gorm:"default:0" json:"likes_count"`
	CommentsCount  int `gorm:"default:0" json:"comments_count"`
	SharesCount    int `gorm:"default:0" json:"shares_count"`
	ViewsCount     int `gorm:"default:0" json:"views_count"`
	BookmarksCount int `gorm:"default:0" json:"bookmarks_count"`
	ReportsCount   int `gorm:"default:0" json:"reports_count"`
	ReactionsCount int `gorm:"default:0" json:"reactions_count"`

	ScheduledAt  *time.Time `gorm:"index" json:"scheduled_at,omitempty"`
	ParentPostID *uint      `gorm:"index" json:"parent_post_id,omitempty"`
	ParentPost   *Post      `gorm:"foreignKey:ParentPostID" json:"parent_post,omitempty"`

	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"-" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasContent reports whether the post satisfies the content-or-media invariant.
func (p *Post) HasContent() bool {
	return p.Content != "" || len(p.MediaURLs) > 0
}

// PostView records a single user's view of a post. The unique pair makes
// view tracking idempotent per user.
type PostView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_view" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_view" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (PostView) TableName() string {
	return "post_views"
}
