// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Like is a user's like on a resource. The (user, resource) triple is unique;
// creation is idempotent at the SQL level via ON CONFLICT DO NOTHING.
type Like struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_like_user_resource" json:"user_id"`
	ResourceType ResourceType `gorm:"type:varchar(16);not null;uniqueIndex:idx_like_user_resource" json:"resource_type"`
	ResourceID   uint         `gorm:"not null;uniqueIndex:idx_like_user_resource;index" json:"resource_id"`
	CreatedAt    time.Time    `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ReactionType is the emotional flavor of a reaction.
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionLaugh ReactionType = "laugh"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// ValidReactionType reports whether rt is a known reaction.
func ValidReactionType(rt ReactionType) bool {
	switch rt {
	case ReactionLike, ReactionLove, ReactionLaugh, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// Reaction is at most one per (user, resource); reacting again replaces the
// type in place rather than erroring.
type Reaction struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_reaction_user_resource" json:"user_id"`
	ResourceType ResourceType `gorm:"type:varchar(16);not null;uniqueIndex:idx_reaction_user_resource" json:"resource_type"`
	ResourceID   uint         `gorm:"not null;uniqueIndex:idx_reaction_user_resource;index" json:"resource_id"`
	ReactionType ReactionType `gorm:"type:varchar(16);not null" json:"reaction_type"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Share records a user sharing a resource, optionally with a message. A user
// can share a given resource once.
type Share struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_share_user_resource" json:"user_id"`
	ResourceType ResourceType `gorm:"type:varchar(16);not null;uniqueIndex:idx_share_user_resource" json:"resource_type"`
	ResourceID   uint         `gorm:"not null;uniqueIndex:idx_share_user_resource;index" json:"resource_id"`
	Message      string       `gorm:"type:text" json:"message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Bookmark saves a resource to the user's private list; unique per pair.
type Bookmark struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_bookmark_user_resource;index" json:"user_id"`
	ResourceType ResourceType `gorm:"type:varchar(16);not null;uniqueIndex:idx_bookmark_user_resource" json:"resource_type"`
	ResourceID   uint         `gorm:"not null;uniqueIndex:idx_bookmark_user_resource" json:"resource_id"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Report flags a resource for moderation. Unique per (user, resource);
// self-reports are rejected in the service layer.
type Report struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_report_user_resource" json:"user_id"`
	ResourceType ResourceType `gorm:"type:varchar(16);not null;uniqueIndex:idx_report_user_resource" json:"resource_type"`
	ResourceID   uint         `gorm:"not null;uniqueIndex:idx_report_user_resource;index" json:"resource_id"`
	Reason       string       `gorm:"type:text;not null" json:"reason"`
	CreatedAt    time.Time    `json:"created_at"`
}
