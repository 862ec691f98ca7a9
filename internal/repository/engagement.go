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

// invalidateResource drops the cached copy of a resource after a counter
// change so readers do not see stale counts for a full TTL.
func invalidateResource(ctx context.Context, rt models.ResourceType, id uint) {
	switch rt {
	case models.ResourcePost:
		cache.Invalidate(ctx, cache.PostKey(id))
	case models.ResourcePhoto:
		cache.Invalidate(ctx, cache.PhotoKey(id))
	case models.ResourceVideo:
		cache.Invalidate(ctx, cache.VideoKey(id))
	}
}

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Like(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error)
	Unlike(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error)
	IsLiked(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error)
	ListUsers(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) ([]*models.Like, int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Like inserts the (user, resource) pair and bumps likes_count only when the
// pair is new. Duplicate likes are swallowed at the SQL level, so the counter
// cannot double-increment. Returns whether the like was newly created.
func (r *likeRepository) Like(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	defer observability.TrackQuery("like", "likes")()
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{UserID: userID, ResourceType: rt, ResourceID: resourceID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return adjustCounter(tx, rt, resourceID, models.CounterLikes, 1)
	})
	if err != nil {
		return false, err
	}
	if created {
		invalidateResource(ctx, rt, resourceID)
	}
	return created, nil
}

func (r *likeRepository) Unlike(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	defer observability.TrackQuery("unlike", "likes")()
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND resource_type = ? AND resource_id = ?", userID, rt, resourceID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return adjustCounter(tx, rt, resourceID, models.CounterLikes, -1)
	})
	if err != nil {
		return false, err
	}
	if removed {
		invalidateResource(ctx, rt, resourceID)
	}
	return removed, nil
}

func (r *likeRepository) IsLiked(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	defer observability.TrackQuery("is_liked", "likes")()
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND resource_type = ? AND resource_id = ?", userID, rt, resourceID).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) ListUsers(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) ([]*models.Like, int64, error) {
	defer observability.TrackQuery("list_users", "likes")()
	var likes []*models.Like
	q := r.db.WithContext(ctx).Model(&models.Like{}).
		Preload("User").
		Where("resource_type = ? AND resource_id = ?", rt, resourceID)
	total, err := paginate(q, req, map[string]bool{"created_at": true}, &likes)
	if err != nil {
		return nil, 0, err
	}
	return likes, total, nil
}

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	React(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint, reaction models.ReactionType) (bool, error)
	Remove(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error)
	Summary(ctx context.Context, rt models.ResourceType, resourceID uint) (map[models.ReactionType]int64, error)
	Get(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (*models.Reaction, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// React inserts the user's reaction, or replaces its type in place when one
// already exists. reactions_count moves only on a genuinely new reaction.
// Returns whether the reaction was newly created.
func (r *reactionRepository) React(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint, reaction models.ReactionType) (bool, error) {
	defer observability.TrackQuery("react", "reactions")()
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Reaction{UserID: userID, ResourceType: rt, ResourceID: resourceID, ReactionType: reaction})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Model(&models.Reaction{}).
				Where("user_id = ? AND resource_type = ? AND resource_id = ?", userID, rt, resourceID).
				Updates(map[string]any{"reaction_type": reaction, "updated_at": time.Now()}).Error
		}
		created = true
		return adjustCounter(tx, rt, resourceID, models.CounterReactions, 1)
	})
	if err != nil {
		return false, err
	}
	invalidateResource(ctx, rt, resourceID)
	return created, nil
}

func (r *reactionRepository) Remove(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	defer observability.TrackQuery("remove", "reactions")()
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND resource_type = ? AND resource_id = ?", userID, rt, resourceID).
			Delete(&models.Reaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return adjustCounter(tx, rt, resourceID, models.CounterReactions, -1)
	})
	if err != nil {
		return false, err
	}
	if removed {
		invalidateResource(ctx, rt, resourceID)
	}
	return removed, nil
}

// Summary groups reaction counts by type for a resource.
func (r *reactionRepository) Summary(ctx context.Context, rt models.ResourceType, resourceID uint) (map[models.ReactionType]int64, error) {
	defer observability.TrackQuery("summary", "reactions")()
	var rows []struct {
		ReactionType models.ReactionType
		Count        int64
	}
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("reaction_type, COUNT(*) AS count").
		Where("resource_type = ? AND resource_id = ?", rt, resourceID).
		Group("reaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	summary := make(map[models.ReactionType]int64, len(rows))
	for _, row := range rows {
		summary[row.ReactionType] = row.Count
	}
	return summary, nil
}

func (r *reactionRepository) Get(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (*models.Reaction, error) {
	defer observability.TrackQuery("get", "reactions")()
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND resource_type = ? AND resource_id = ?", userID, rt, resourceID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// ShareRepository defines the interface for share data operations
type ShareRepository interface {
	Share(ctx context.Context, share *models.Share) (bool, error)
	ListByUser(ctx context.Context, userID uint, req models.PageRequest) ([]*models.Share, int64, error)
}

type shareRepository struct {
	db *gorm.DB
}

// NewShareRepository creates a new share repository
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepository{db: db}
}

// Share records the share once per (user, resource); repeats are no-ops and
// leave shares_count untouched. Returns whether the share was newly created.
func (r *shareRepository) Share(ctx context.Context, share *models.Share) (bool, error) {
	defer observability.TrackQuery("share", "shares")()
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(share)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return adjustCounter(tx, share.ResourceType, share.ResourceID, models.CounterShares, 1)
	})
	if err != nil {
		return false, err
	}
	if created {
		invalidateResource(ctx, share.ResourceType, share.ResourceID)
	}
	return created, nil
}

func (r *shareRepository) ListByUser(ctx context.Context, userID uint, req models.PageRequest) ([]*models.Share, int64, error) {
	defer observability.TrackQuery("list_by_user", "shares")()
	var shares []*models.Share
	q := r.db.WithContext(ctx).Model(&models.Share{}).
		Where("user_id = ?", userID)
	total, err := paginate(q, req, map[string]bool{"created_at": true}, &shares)
	if err != nil {
		return nil, 0, err
	}
	return shares, total, nil
}

// BookmarkRepository defines the interface for bookmark data operations
type BookmarkRepository interface {
	Add(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error)
	Remove(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint, req models.PageRequest) ([]*models.Bookmark, int64, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Add(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	defer observability.TrackQuery("add", "bookmarks")()
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Bookmark{UserID: userID, ResourceType: rt, ResourceID: resourceID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return adjustCounter(tx, rt, resourceID, models.CounterBookmarks, 1)
	})
	if err != nil {
		return false, err
	}
	if created {
		invalidateResource(ctx, rt, resourceID)
	}
	return created, nil
}

func (r *bookmarkRepository) Remove(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	defer observability.TrackQuery("remove", "bookmarks")()
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND resource_type = ? AND resource_id = ?", userID, rt, resourceID).
			Delete(&models.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return adjustCounter(tx, rt, resourceID, models.CounterBookmarks, -1)
	})
	if err != nil {
		return false, err
	}
	if removed {
		invalidateResource(ctx, rt, resourceID)
	}
	return removed, nil
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uint, req models.PageRequest) ([]*models.Bookmark, int64, error) {
	defer observability.TrackQuery("list_by_user", "bookmarks")()
	var bookmarks []*models.Bookmark
	q := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ?", userID)
	total, err := paginate(q, req, map[string]bool{"created_at": true}, &bookmarks)
	if err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}

// ReportRepository defines the interface for report data operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) (bool, error)
	ListByResource(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) ([]*models.Report, int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create files the report once per (user, resource). A repeat report is a
// no-op rather than an error. Returns whether the report was newly filed.
func (r *reportRepository) Create(ctx context.Context, report *models.Report) (bool, error) {
	defer observability.TrackQuery("create", "reports")()
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(report)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return adjustCounter(tx, report.ResourceType, report.ResourceID, models.CounterReports, 1)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *reportRepository) ListByResource(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) ([]*models.Report, int64, error) {
	defer observability.TrackQuery("list_by_resource", "reports")()
	var reports []*models.Report
	q := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("resource_type = ? AND resource_id = ?", rt, resourceID)
	total, err := paginate(q, req, map[string]bool{"created_at": true}, &reports)
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
