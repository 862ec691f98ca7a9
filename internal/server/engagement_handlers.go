package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Like handles POST /api/:resourceType/:resourceId/like
func (s *Server) Like(c *fiber.Ctx) error {
	ctx := c.Context()
	rt, resourceID, err := s.parseResource(c)
	if err != nil {
		return nil
	}

	created, err := s.engagementService.Like(ctx, currentUserID(c), rt, resourceID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"liked": true, "created": created})
}

// Unlike handles DELETE /api/:resourceType/:resourceId/like
func (s *Server) Unlike(c *fiber.Ctx) error {
	ctx := c.Context()
	rt, resourceID, err := s.parseResource(c)
	if err != nil {
		return nil
	}

	removed, err := s.engagementService.Unlike(ctx, currentUserID(c), rt, resourceID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"liked": false, "removed": removed})
}

// ListLikers handles GET /api/:resourceType/:resourceId/likes
func (s *Server) ListLikers(c *fiber.Ctx) error {
	ctx := c.Context()
	rt, resourceID, err := s.parseResource(c)
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageLimit)

	likes, err := s.engagementService.ListLikers(ctx, rt, resourceID, page)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(likes)
}

// React handles PUT /api/:resourceType/:resourceId/reaction
func (s *Server) React(c *fiber.Ctx) error {
	ctx := c.Context()
	rt, resourceID, err := s.parseResource(c)
	if err != nil {
		return nil
	}

	var req struct {
		ReactionType models.ReactionType `json:"reaction_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	created, err := s.engagementService.React(ctx, currentUserID(c), rt, resourceID, req.ReactionType)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"reaction_type": req.ReactionType, "created": created})
}

// RemoveReaction handles DELETE /api/:resourceType/:resourceId/reaction
func (s *Server) RemoveReaction(c *fiber.Ctx) error {
	ctx := c.Context()
	rt, resourceID, err := s.parseResource(c)
	if err != nil {
		return nil
	}

	removed, err := s.engagementService.RemoveReaction(ctx, currentUserID(c), rt, resourceID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"removed": removed})
}

// ReactionSummary handles GET /api/:resourceType/:resourceId/reactions
func (s *Server) ReactionSummary(c *fiber.Ctx) error {
	ctx := c.Context()
	rt, resourceID, err := s.parseResource(c)
	if err != nil {
		return nil
	}

	summary, err := s.engagementService.ReactionSummary(ctx, rt, resourceID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(summary)
}

// Share handles POST /api/:resourceType/:resourceId/share
func (s *Server) Share(c *fiber.Ctx) error {
	ctx := c.Context()
	rt, resourceID, err := s.parseResource(c)
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	// An empty body is a bare reshare.
	_ = c.BodyParser(&req)

	created, err := s.engagementService.Share(ctx, currentUserID(c), rt, resourceID, req.Message)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"shared": true, "created": created})
}

// Bookmark handles POST /api/:resourceType/:resourceId/bookmark
func (s *Server) Bookmark(c *fiber.Ctx) error {
	ctx := c.Context()
	rt, resourceID, err := s.parseResource(c)
	if err != nil {
		return nil
	}

	if err := s.engagementService.Bookmark(ctx, currentUserID(c), rt, resourceID); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"bookmarked": true})
}

// Unbookmark handles DELETE /api/:resourceType/:resourceId/bookmark
func (s *Server) Unbookmark(c *fiber.Ctx) error {
	ctx := c.Context()
	rt, resourceID, err := s.parseResource(c)
	if err != nil {
		return nil
	}

	removed, err := s.engagementService.Unbookmark(ctx, currentUserID(c), rt, resourceID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"bookmarked": false, "removed": removed})
}

// ListBookmarks handles GET /api/bookmarks
func (s *Server) ListBookmarks(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, defaultPageLimit)

	bookmarks, err := s.engagementService.ListBookmarks(ctx, currentUserID(c), page)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(bookmarks)
}

// Report handles POST /api/:resourceType/:resourceId/report
func (s *Server) Report(c *fiber.Ctx) error {
	ctx := c.Context()
	rt, resourceID, err := s.parseResource(c)
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if err := s.engagementService.Report(ctx, currentUserID(c), rt, resourceID, req.Reason); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reported": true})
}
