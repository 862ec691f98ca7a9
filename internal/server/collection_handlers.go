package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

type collectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public,omitempty"`
	CoverImage  string `json:"cover_image,omitempty"`
}

func (r collectionRequest) toInput() service.CollectionInput {
	return service.CollectionInput{
		Name:        r.Name,
		Description: r.Description,
		IsPublic:    r.IsPublic,
		CoverImage:  r.CoverImage,
	}
}

// CreateCollection handles POST /api/collections
func (s *Server) CreateCollection(c *fiber.Ctx) error {
	ctx := c.Context()

	var req collectionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	collection, err := s.collectionService.CreateCollection(ctx, currentUserID(c), req.toInput())
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(collection)
}

// GetCollection handles GET /api/collections/:id
func (s *Server) GetCollection(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	collection, err := s.collectionService.GetCollection(ctx, id, optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(collection)
}

// ListUserCollections handles GET /api/users/:id/collections
func (s *Server) ListUserCollections(c *fiber.Ctx) error {
	ctx := c.Context()
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageLimit)

	collections, err := s.collectionService.ListUserCollections(ctx, ownerID, optionalUserID(c), page)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(collections)
}

// UpdateCollection handles PUT /api/collections/:id
func (s *Server) UpdateCollection(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req collectionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	collection, err := s.collectionService.UpdateCollection(ctx, id, currentUserID(c), req.toInput())
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(collection)
}

// DeleteCollection handles DELETE /api/collections/:id
func (s *Server) DeleteCollection(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.collectionService.DeleteCollection(ctx, id, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AddPostToCollection handles POST /api/collections/:id/posts/:postId
func (s *Server) AddPostToCollection(c *fiber.Ctx) error {
	ctx := c.Context()
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	added, err := s.collectionService.AddPost(ctx, collectionID, postID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	status := fiber.StatusOK
	if added {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"added": added})
}

// RemovePostFromCollection handles DELETE /api/collections/:id/posts/:postId
func (s *Server) RemovePostFromCollection(c *fiber.Ctx) error {
	ctx := c.Context()
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	removed, err := s.collectionService.RemovePost(ctx, collectionID, postID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"removed": removed})
}

// ListCollectionPosts handles GET /api/collections/:id/posts
func (s *Server) ListCollectionPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageLimit)

	posts, err := s.collectionService.ListPosts(ctx, id, optionalUserID(c), page)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(posts)
}
