// Package service contains the business logic for the engagement subsystem.
package service

import (
	"context"
	"errors"

	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

// ResourceMeta is what the engagement services need to know about a target
// before acting on it: who owns it and whether comments are allowed.
type ResourceMeta struct {
	OwnerID       uint
	AllowComments bool
}

// resourceResolver loads a resource's metadata by ID.
type resourceResolver func(ctx context.Context, id uint) (*ResourceMeta, error)

// ResourceRegistry maps resource types to their resolvers. Adding a new
// engageable resource means registering one resolver here; the engagement
// services stay untouched.
type ResourceRegistry struct {
	resolvers map[models.ResourceType]resourceResolver
}

// NewResourceRegistry wires the built-in resource kinds.
func NewResourceRegistry(
	postRepo repository.PostRepository,
	photoRepo repository.PhotoRepository,
	videoRepo repository.VideoRepository,
) *ResourceRegistry {
	r := &ResourceRegistry{resolvers: make(map[models.ResourceType]resourceResolver)}

	r.Register(models.ResourcePost, func(ctx context.Context, id uint) (*ResourceMeta, error) {
		post, err := postRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &ResourceMeta{OwnerID: post.UserID, AllowComments: post.AllowComments}, nil
	})
	r.Register(models.ResourcePhoto, func(ctx context.Context, id uint) (*ResourceMeta, error) {
		photo, err := photoRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &ResourceMeta{OwnerID: photo.UserID, AllowComments: true}, nil
	})
	r.Register(models.ResourceVideo, func(ctx context.Context, id uint) (*ResourceMeta, error) {
		video, err := videoRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &ResourceMeta{OwnerID: video.UserID, AllowComments: true}, nil
	})

	return r
}

// Register adds or replaces the resolver for a resource type.
func (r *ResourceRegistry) Register(rt models.ResourceType, resolve resourceResolver) {
	r.resolvers[rt] = resolve
}

// Resolve validates the resource type and loads the target's metadata.
// Unknown types yield a validation error; missing targets a not-found error.
func (r *ResourceRegistry) Resolve(ctx context.Context, rt models.ResourceType, id uint) (*ResourceMeta, error) {
	resolve, ok := r.resolvers[rt]
	if !ok {
		return nil, models.NewValidationError("Unsupported resource type")
	}
	meta, err := resolve(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(string(rt), id)
		}
		return nil, err
	}
	return meta, nil
}
