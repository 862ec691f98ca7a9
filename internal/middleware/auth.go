// Package middleware provides authentication, logging, and rate limiting
// middleware for the application.
package middleware

import (
	"strconv"
	"strings"

	"ripple/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

// parseUserID validates a bearer token and returns the user ID from its
// subject claim.
func parseUserID(tokenString string) (uint, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, false
	}
	return uint(userID), true
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired enforces authentication for protected routes and stores the
// authenticated user ID in c.Locals("userID").
func AuthRequired(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return unauthorized(c, "Authorization header required")
	}
	userID, ok := parseUserID(token)
	if !ok {
		return unauthorized(c, "Invalid or expired token")
	}
	c.Locals("userID", userID)
	return c.Next()
}

// AuthOptional resolves the user ID when a valid token is present but never
// rejects the request. Read endpoints use it to compute per-user fields
// (liked status) for anonymous and authenticated callers alike.
func AuthOptional(c *fiber.Ctx) error {
	if token, ok := bearerToken(c); ok {
		if userID, ok := parseUserID(token); ok {
			c.Locals("userID", userID)
		}
	}
	return c.Next()
}
