// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// postSortColumns is the allow-list for user-supplied sort fields on post lists.
var postSortColumns = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"likes_count":    true,
	"comments_count": true,
	"views_count":    true,
	"shares_count":   true,
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint, includeDrafts bool, req models.PageRequest) ([]*models.Post, int64, error)
	ListPublic(ctx context.Context, req models.PageRequest) ([]*models.Post, int64, error)
	Feed(ctx context.Context, userID uint, req models.PageRequest) ([]*models.Post, int64, error)
	Search(ctx context.Context, query string, req models.PageRequest) ([]*models.Post, int64, error)
	ListScheduledDue(ctx context.Context, now time.Time, limit int) ([]*models.Post, error)
	ListByIDs(ctx context.Context, ids []uint) ([]*models.Post, error)
	GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error)
	TrackView(ctx context.Context, userID, postID uint) (bool, error)
	UserStats(ctx context.Context, userID uint) (*models.UserPostStats, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	cache.InvalidateByTags(ctx, cache.TagPosts, cache.UserPostsTag(post.UserID))
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).Preload("User").First(&post, id).Error
	}, cache.PostTag(id))
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidateByTags(ctx, cache.PostTag(post.ID), cache.UserPostsTag(post.UserID))
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateByTags(ctx, cache.PostTag(id), cache.TagPosts)
	return nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, includeDrafts bool, req models.PageRequest) ([]*models.Post, int64, error) {
	defer observability.TrackQuery("list_by_user", "posts")()
	var posts []*models.Post
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("User").
		Where("user_id = ?", userID)
	if !includeDrafts {
		q = q.Where("is_draft = ?", false)
	}
	total, err := paginate(q, req, postSortColumns, &posts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) ListPublic(ctx context.Context, req models.PageRequest) ([]*models.Post, int64, error) {
	defer observability.TrackQuery("list_public", "posts")()
	var posts []*models.Post
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("User").
		Where("is_public = ? AND is_draft = ? AND is_archived = ?", true, false, false)
	total, err := paginate(q, req, postSortColumns, &posts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Feed returns the user's own posts, public posts from accounts they follow,
// and public posts they have shared, newest first. Drafts and archived posts
// never surface.
func (r *postRepository) Feed(ctx context.Context, userID uint, req models.PageRequest) ([]*models.Post, int64, error) {
	defer observability.TrackQuery("feed", "posts")()
	var posts []*models.Post
	followees := r.db.Model(&models.Follow{}).
		Select("followee_id").
		Where("follower_id = ?", userID)
	shared := r.db.Model(&models.Share{}).
		Select("resource_id").
		Where("user_id = ? AND resource_type = ?", userID, models.ResourcePost)
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("User").
		Where("is_draft = ? AND is_archived = ?", false, false).
		Where("user_id = ? OR (user_id IN (?) AND is_public = ?) OR (id IN (?) AND is_public = ?)",
			userID, followees, true, shared, true)
	total, err := paginate(q, req, postSortColumns, &posts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) Search(ctx context.Context, query string, req models.PageRequest) ([]*models.Post, int64, error) {
	defer observability.TrackQuery("search", "posts")()
	var posts []*models.Post
	pattern := "%" + query + "%"
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("User").
		Where("is_public = ? AND is_draft = ? AND is_archived = ?", true, false, false).
		Where("content ILIKE ? OR array_to_string(hashtags, ',') ILIKE ? OR array_to_string(mentions, ',') ILIKE ?",
			pattern, pattern, pattern)
	total, err := paginate(q, req, postSortColumns, &posts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListScheduledDue returns draft posts whose scheduled time has passed,
// oldest first, so the scheduler publishes in submission order.
func (r *postRepository) ListScheduledDue(ctx context.Context, now time.Time, limit int) ([]*models.Post, error) {
	defer observability.TrackQuery("list_scheduled_due", "posts")()
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("is_draft = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", true, now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByIDs(ctx context.Context, ids []uint) ([]*models.Post, error) {
	defer observability.TrackQuery("list_by_ids", "posts")()
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []*models.Post
	err := r.db.WithContext(ctx).Preload("User").Where("id IN ?", ids).Find(&posts).Error
	return posts, err
}

// GetLikedPostIDs returns which of the given posts the user has liked, in a
// single query so list endpoints avoid N+1 lookups.
func (r *postRepository) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	defer observability.TrackQuery("liked_ids", "likes")()
	if len(postIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND resource_type = ? AND resource_id IN ?", userID, models.ResourcePost, postIDs).
		Pluck("resource_id", &ids).Error
	return ids, err
}

// TrackView records a unique (user, post) view and bumps views_count only
// when the pair is new. Returns whether this view counted.
func (r *postRepository) TrackView(ctx context.Context, userID, postID uint) (bool, error) {
	defer observability.TrackQuery("track_view", "post_views")()
	counted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostView{UserID: userID, PostID: postID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		counted = true
		return adjustCounter(tx, models.ResourcePost, postID, models.CounterViews, 1)
	})
	if err != nil {
		return false, err
	}
	if counted {
		cache.Invalidate(ctx, cache.PostKey(postID))
	}
	return counted, nil
}

func (r *postRepository) UserStats(ctx context.Context, userID uint) (*models.UserPostStats, error) {
	defer observability.TrackQuery("user_stats", "posts")()
	var stats models.UserPostStats
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select(`COUNT(*) AS posts,
			COALESCE(SUM(likes_count), 0) AS likes,
			COALESCE(SUM(comments_count), 0) AS comments,
			COALESCE(SUM(shares_count), 0) AS shares,
			COALESCE(SUM(views_count), 0) AS views,
			COALESCE(SUM(reactions_count), 0) AS reactions,
			COALESCE(SUM(bookmarks_count), 0) AS bookmarks`).
		Where("user_id = ? AND is_draft = ?", userID, false).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
