// Package models contains data structures for the application's domain models.
package models

// PostAnalytics summarizes a single post's engagement. EngagementRate is the
// percentage of active interactions per view, zero when the post has no views.
type PostAnalytics struct {
	PostID            uint                   `json:"post_id"`
	Likes             int                    `json:"likes"`
	Comments          int                    `json:"comments"`
	Shares            int                    `json:"shares"`
	Views             int                    `json:"views"`
	Reactions         int                    `json:"reactions"`
	Bookmarks         int                    `json:"bookmarks"`
	ReactionBreakdown map[ReactionType]int64 `json:"reaction_breakdown"`
	EngagementRate    float64                `json:"engagement_rate"`
}

// UserPostStats aggregates engagement across all of a user's published posts.
type UserPostStats struct {
	Posts     int64 `json:"posts"`
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
	Shares    int64 `json:"shares"`
	Views     int64 `json:"views"`
	Reactions int64 `json:"reactions"`
	Bookmarks int64 `json:"bookmarks"`
}
