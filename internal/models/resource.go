// Package models contains data structures for the application's domain models.
package models

// ResourceType identifies the kind of content an engagement targets.
type ResourceType string

const (
	// ResourcePost targets a post.
	ResourcePost ResourceType = "post"
	// ResourcePhoto targets a standalone photo.
	ResourcePhoto ResourceType = "photo"
	// ResourceVideo targets a video-library entry.
	ResourceVideo ResourceType = "video"
)

// ValidResourceType reports whether rt is one of the registered resource kinds.
func ValidResourceType(rt ResourceType) bool {
	switch rt {
	case ResourcePost, ResourcePhoto, ResourceVideo:
		return true
	}
	return false
}

// CounterField identifies a counter column on a resource row. Counter
// mutations always go through atomic SQL increments, never read-modify-write.
type CounterField string

const (
	CounterLikes     CounterField = "likes_count"
	CounterComments  CounterField = "comments_count"
	CounterShares    CounterField = "shares_count"
	CounterViews     CounterField = "views_count"
	CounterBookmarks CounterField = "bookmarks_count"
	CounterReports   CounterField = "reports_count"
	CounterReactions CounterField = "reactions_count"
)
