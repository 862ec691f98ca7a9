package service

import (
	"context"
	"errors"

	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/sanitize"

	"gorm.io/gorm"
)

const maxCollectionNameLen = 100

type CollectionService struct {
	collectionRepo repository.CollectionRepository
	postRepo       repository.PostRepository
}

type CollectionInput struct {
	Name        string
	Description string
	IsPublic    *bool
	CoverImage  string
}

func NewCollectionService(collectionRepo repository.CollectionRepository, postRepo repository.PostRepository) *CollectionService {
	return &CollectionService{collectionRepo: collectionRepo, postRepo: postRepo}
}

func (s *CollectionService) CreateCollection(ctx context.Context, userID uint, in CollectionInput) (*models.Collection, error) {
	name := sanitize.Text(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Collection name is required")
	}
	if len(name) > maxCollectionNameLen {
		return nil, models.NewValidationError("Collection name too long (max 100 characters)")
	}

	collection := &models.Collection{
		UserID:      userID,
		Name:        name,
		Description: sanitize.Text(in.Description),
		CoverImage:  sanitize.URL(in.CoverImage),
		IsPublic:    true,
	}
	if in.IsPublic != nil {
		collection.IsPublic = *in.IsPublic
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// GetCollection returns the collection if the requester may see it; private
// collections are owner-only.
func (s *CollectionService) GetCollection(ctx context.Context, collectionID, currentUserID uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("collection", collectionID)
		}
		return nil, err
	}
	if !collection.IsPublic && collection.UserID != currentUserID {
		return nil, models.NewNotFoundError("collection", collectionID)
	}
	return collection, nil
}

func (s *CollectionService) ListUserCollections(ctx context.Context, ownerID, currentUserID uint, req models.PageRequest) (models.Paginated[*models.Collection], error) {
	publicOnly := ownerID != currentUserID
	collections, total, err := s.collectionRepo.ListByUser(ctx, ownerID, publicOnly, req)
	if err != nil {
		return models.Paginated[*models.Collection]{}, err
	}
	return models.NewPaginated(collections, req, total), nil
}

func (s *CollectionService) UpdateCollection(ctx context.Context, collectionID, userID uint, in CollectionInput) (*models.Collection, error) {
	collection, err := s.ownedCollection(ctx, collectionID, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		name := sanitize.Text(in.Name)
		if len(name) > maxCollectionNameLen {
			return nil, models.NewValidationError("Collection name too long (max 100 characters)")
		}
		collection.Name = name
	}
	if in.Description != "" {
		collection.Description = sanitize.Text(in.Description)
	}
	if in.CoverImage != "" {
		collection.CoverImage = sanitize.URL(in.CoverImage)
	}
	if in.IsPublic != nil {
		collection.IsPublic = *in.IsPublic
	}

	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *CollectionService) DeleteCollection(ctx context.Context, collectionID, userID uint) error {
	if _, err := s.ownedCollection(ctx, collectionID, userID); err != nil {
		return err
	}
	return s.collectionRepo.Delete(ctx, collectionID)
}

// AddPost links a post into the user's collection. Adding an already-present
// post is a no-op; the posts counter only moves on a new link.
func (s *CollectionService) AddPost(ctx context.Context, collectionID, postID, userID uint) (bool, error) {
	if _, err := s.ownedCollection(ctx, collectionID, userID); err != nil {
		return false, err
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.NewNotFoundError("post", postID)
		}
		return false, err
	}
	if !post.IsPublic && post.UserID != userID {
		return false, models.NewForbiddenError("Cannot collect a private post")
	}
	return s.collectionRepo.AddPost(ctx, collectionID, postID)
}

func (s *CollectionService) RemovePost(ctx context.Context, collectionID, postID, userID uint) (bool, error) {
	if _, err := s.ownedCollection(ctx, collectionID, userID); err != nil {
		return false, err
	}
	return s.collectionRepo.RemovePost(ctx, collectionID, postID)
}

func (s *CollectionService) ListPosts(ctx context.Context, collectionID, currentUserID uint, req models.PageRequest) (models.Paginated[*models.Post], error) {
	if _, err := s.GetCollection(ctx, collectionID, currentUserID); err != nil {
		return models.Paginated[*models.Post]{}, err
	}
	posts, total, err := s.collectionRepo.ListPosts(ctx, collectionID, req)
	if err != nil {
		return models.Paginated[*models.Post]{}, err
	}
	return models.NewPaginated(posts, req, total), nil
}

func (s *CollectionService) ownedCollection(ctx context.Context, collectionID, userID uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("collection", collectionID)
		}
		return nil, err
	}
	if collection.UserID != userID {
		return nil, models.NewForbiddenError("You can only modify your own collections")
	}
	return collection, nil
}
