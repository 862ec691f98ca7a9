// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
)

// PhotoRepository defines the interface for photo data operations
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id uint) (*models.Photo, error)
	Delete(ctx context.Context, id uint) error
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *models.Photo) error {
	defer observability.TrackQuery("create", "photos")()
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *photoRepository) GetByID(ctx context.Context, id uint) (*models.Photo, error) {
	defer observability.TrackQuery("get", "photos")()
	var photo models.Photo
	err := cache.Aside(ctx, cache.PhotoKey(id), &photo, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).First(&photo, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "photos")()
	if err := r.db.WithContext(ctx).Delete(&models.Photo{}, id).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PhotoKey(id))
	return nil
}

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	DeleteByPostID(ctx context.Context, postID uint) error
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	defer observability.TrackQuery("create", "videos")()
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	defer observability.TrackQuery("get", "videos")()
	var video models.Video
	err := cache.Aside(ctx, cache.VideoKey(id), &video, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).First(&video, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// DeleteByPostID removes library entries created from a post's video
// uploads when that post is deleted.
func (r *videoRepository) DeleteByPostID(ctx context.Context, postID uint) error {
	defer observability.TrackQuery("delete_by_post", "videos")()
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Video{}).Error
}
