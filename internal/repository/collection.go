// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
)

var collectionSortColumns = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"posts_count": true,
}

// CollectionRepository defines the interface for collection data operations
type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id uint) (*models.Collection, error)
	ListByUser(ctx context.Context, userID uint, publicOnly bool, req models.PageRequest) ([]*models.Collection, int64, error)
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id uint) error
	AddPost(ctx context.Context, collectionID, postID uint) (bool, error)
	RemovePost(ctx context.Context, collectionID, postID uint) (bool, error)
	ListPosts(ctx context.Context, collectionID uint, req models.PageRequest) ([]*models.Post, int64, error)
	ContainsPost(ctx context.Context, collectionID, postID uint) (bool, error)
}

type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	defer observability.TrackQuery("create", "collections")()
	return r.db.WithContext(ctx).Create(collection).Error
}

func (r *collectionRepository) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	defer observability.TrackQuery("get", "collections")()
	var collection models.Collection
	err := r.db.WithContext(ctx).Preload("User").First(&collection, id).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) ListByUser(ctx context.Context, userID uint, publicOnly bool, req models.PageRequest) ([]*models.Collection, int64, error) {
	defer observability.TrackQuery("list_by_user", "collections")()
	var collections []*models.Collection
	q := r.db.WithContext(ctx).Model(&models.Collection{}).
		Where("user_id = ?", userID)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	total, err := paginate(q, req, collectionSortColumns, &collections)
	if err != nil {
		return nil, 0, err
	}
	return collections, total, nil
}

func (r *collectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	defer observability.TrackQuery("update", "collections")()
	return r.db.WithContext(ctx).Omit("Posts").Save(collection).Error
}

func (r *collectionRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "collections")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM collection_posts WHERE collection_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Collection{}, id).Error
	})
}

// AddPost links the post into the collection and bumps posts_count in the
// same transaction, so the counter always matches the join cardinality.
// Returns whether the link was newly created.
func (r *collectionRepository) AddPost(ctx context.Context, collectionID, postID uint) (bool, error) {
	defer observability.TrackQuery("add_post", "collection_posts")()
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			"INSERT INTO collection_posts (collection_id, post_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			collectionID, postID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		added = true
		return tx.Model(&models.Collection{}).
			Where("id = ?", collectionID).
			UpdateColumn("posts_count", gorm.Expr("posts_count + ?", 1)).Error
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (r *collectionRepository) RemovePost(ctx context.Context, collectionID, postID uint) (bool, error) {
	defer observability.TrackQuery("remove_post", "collection_posts")()
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			"DELETE FROM collection_posts WHERE collection_id = ? AND post_id = ?",
			collectionID, postID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Collection{}).
			Where("id = ? AND posts_count > 0", collectionID).
			UpdateColumn("posts_count", gorm.Expr("posts_count - ?", 1)).Error
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (r *collectionRepository) ListPosts(ctx context.Context, collectionID uint, req models.PageRequest) ([]*models.Post, int64, error) {
	defer observability.TrackQuery("list_posts", "collection_posts")()
	var posts []*models.Post
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("User").
		Joins("JOIN collection_posts cp ON cp.post_id = posts.id").
		Where("cp.collection_id = ?", collectionID)
	total, err := paginate(q, req, postSortColumns, &posts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *collectionRepository) ContainsPost(ctx context.Context, collectionID, postID uint) (bool, error) {
	defer observability.TrackQuery("contains_post", "collection_posts")()
	var count int64
	err := r.db.WithContext(ctx).Table("collection_posts").
		Where("collection_id = ? AND post_id = ?", collectionID, postID).
		Count(&count).Error
	return count > 0, err
}
