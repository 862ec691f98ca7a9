package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(ctx, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(user)
}

// UserStats handles GET /api/users/:id/stats
func (s *Server) UserStats(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.analyticsService.UserStats(ctx, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(stats)
}

// Follow handles POST /api/users/:id/follow
func (s *Server) Follow(c *fiber.Ctx) error {
	ctx := c.Context()
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	created, err := s.userService.Follow(ctx, currentUserID(c), followeeID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"following": true, "created": created})
}

// Unfollow handles DELETE /api/users/:id/follow
func (s *Server) Unfollow(c *fiber.Ctx) error {
	ctx := c.Context()
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	removed, err := s.userService.Unfollow(ctx, currentUserID(c), followeeID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"following": false, "removed": removed})
}
