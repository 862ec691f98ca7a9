// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
)

var commentSortColumns = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"likes_count": true,
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByResource(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) ([]*models.Comment, int64, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, comment *models.Comment) error
	CountByResource(ctx context.Context, rt models.ResourceType, resourceID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the resource's comments_count in one
// transaction. Replies additionally bump the parent's replies_count; the
// resource counter covers top-level comments and replies alike.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("create", "comments")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if comment.ParentCommentID != nil {
			err := tx.Model(&models.Comment{}).
				Where("id = ?", *comment.ParentCommentID).
				UpdateColumn("replies_count", gorm.Expr("replies_count + ?", 1)).Error
			if err != nil {
				return err
			}
		}
		return adjustCounter(tx, comment.ResourceType, comment.ResourceID, models.CounterComments, 1)
	})
	if err != nil {
		return err
	}
	if comment.ResourceType == models.ResourcePost {
		cache.Invalidate(ctx, cache.PostKey(comment.ResourceID))
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	defer observability.TrackQuery("get", "comments")()
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// maxRepliesPerComment bounds how many replies a listed comment carries
// inline; the rest stay reachable through the comment's own reply listing.
const maxRepliesPerComment = 10

// ListByResource pages top-level comments and batch-loads their replies for
// the page in a single grouped query, capped per comment.
func (r *commentRepository) ListByResource(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) ([]*models.Comment, int64, error) {
	defer observability.TrackQuery("list_by_resource", "comments")()
	var comments []*models.Comment
	q := r.db.WithContext(ctx).Model(&models.Comment{}).
		Preload("User").
		Where("resource_type = ? AND resource_id = ? AND parent_comment_id IS NULL", rt, resourceID)
	total, err := paginate(q, req, commentSortColumns, &comments)
	if err != nil {
		return nil, 0, err
	}
	if len(comments) == 0 {
		return comments, total, nil
	}

	parentIDs := make([]uint, 0, len(comments))
	byID := make(map[uint]*models.Comment, len(comments))
	for _, c := range comments {
		parentIDs = append(parentIDs, c.ID)
		byID[c.ID] = c
	}
	var replies []models.Comment
	err = r.db.WithContext(ctx).
		Preload("User").
		Where("parent_comment_id IN ?", parentIDs).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, 0, err
	}
	for _, reply := range replies {
		parent := byID[*reply.ParentCommentID]
		if len(parent.Replies) >= maxRepliesPerComment {
			continue
		}
		parent.Replies = append(parent.Replies, reply)
	}
	return comments, total, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("update", "comments")()
	return r.db.WithContext(ctx).Save(comment).Error
}

// Delete soft-deletes the comment and decrements the counters its creation
// incremented. Replies of a deleted top-level comment stay queryable through
// GetByID but no longer surface in resource listings.
func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("delete", "comments")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(comment).Error; err != nil {
			return err
		}
		if comment.ParentCommentID != nil {
			err := tx.Model(&models.Comment{}).
				Where("id = ? AND replies_count > 0", *comment.ParentCommentID).
				UpdateColumn("replies_count", gorm.Expr("replies_count - ?", 1)).Error
			if err != nil {
				return err
			}
		}
		return adjustCounter(tx, comment.ResourceType, comment.ResourceID, models.CounterComments, -1)
	})
	if err != nil {
		return err
	}
	if comment.ResourceType == models.ResourcePost {
		cache.Invalidate(ctx, cache.PostKey(comment.ResourceID))
	}
	return nil
}

func (r *commentRepository) CountByResource(ctx context.Context, rt models.ResourceType, resourceID uint) (int64, error) {
	defer observability.TrackQuery("count_by_resource", "comments")()
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("resource_type = ? AND resource_id = ?", rt, resourceID).
		Count(&total).Error
	return total, err
}
