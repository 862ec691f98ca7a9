// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"io"
	"time"

	"ripple/internal/models"
	"ripple/internal/service"
	"ripple/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Content       string     `json:"content"`
	MediaURLs     []string   `json:"media_urls,omitempty"`
	LinkURL       string     `json:"link_url,omitempty"`
	IsPublic      *bool      `json:"is_public,omitempty"`
	AllowComments *bool      `json:"allow_comments,omitempty"`
	IsDraft       bool       `json:"is_draft,omitempty"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	ParentPostID  *uint      `json:"parent_post_id,omitempty"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:        userID,
		Content:       req.Content,
		MediaURLs:     req.MediaURLs,
		LinkURL:       req.LinkURL,
		IsPublic:      req.IsPublic,
		AllowComments: req.AllowComments,
		IsDraft:       req.IsDraft,
		ScheduledAt:   req.ScheduledAt,
		ParentPostID:  req.ParentPostID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// CreatePostWithFiles handles POST /api/posts/upload (multipart form).
// Form fields mirror the JSON body of CreatePost; attachments arrive as
// "files" parts and are uploaded to object storage before the post is saved.
func (s *Server) CreatePostWithFiles(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid multipart form"))
	}

	in := service.CreatePostInput{
		UserID:  userID,
		Content: formValue(form.Value, "content"),
		LinkURL: formValue(form.Value, "link_url"),
	}
	if v := formValue(form.Value, "is_public"); v != "" {
		b := v == "true"
		in.IsPublic = &b
	}
	if v := formValue(form.Value, "allow_comments"); v != "" {
		b := v == "true"
		in.AllowComments = &b
	}
	in.IsDraft = formValue(form.Value, "is_draft") == "true"

	var files []storage.File
	for _, header := range form.File["files"] {
		f, err := header.Open()
		if err != nil {
			return models.RespondWithError(c, models.NewValidationError("Unreadable file: "+header.Filename))
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return models.RespondWithError(c, models.NewValidationError("Unreadable file: "+header.Filename))
		}
		files = append(files, storage.File{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	post, err := s.postService.CreatePostWithFiles(ctx, in, files)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, id, optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content       *string  `json:"content"`
		MediaURLs     []string `json:"media_urls"`
		IsPublic      *bool    `json:"is_public"`
		AllowComments *bool    `json:"allow_comments"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		UserID:        userID,
		PostID:        postID,
		Content:       req.Content,
		MediaURLs:     req.MediaURLs,
		IsPublic:      req.IsPublic,
		AllowComments: req.AllowComments,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, postID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// TogglePin handles POST /api/posts/:id/pin
func (s *Server) TogglePin(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.TogglePin(ctx, postID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(post)
}

// SchedulePost handles POST /api/posts/:id/schedule
func (s *Server) SchedulePost(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		ScheduledAt *time.Time `json:"scheduled_at"`
	}
	if err := c.BodyParser(&req); err != nil || req.ScheduledAt == nil {
		return models.RespondWithError(c, models.NewValidationError("scheduled_at is required"))
	}

	post, err := s.postService.SchedulePost(ctx, postID, currentUserID(c), *req.ScheduledAt)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(post)
}

// ToggleArchive handles POST /api/posts/:id/archive
func (s *Server) ToggleArchive(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleArchive(ctx, postID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(post)
}

// TrackView handles POST /api/posts/:id/view
func (s *Server) TrackView(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	counted, err := s.postService.TrackView(ctx, postID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"counted": counted})
}

// Explore handles GET /api/posts
func (s *Server) Explore(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, defaultPageLimit)

	posts, err := s.postService.Explore(ctx, optionalUserID(c), page)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(posts)
}

// Feed handles GET /api/feed
func (s *Server) Feed(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, defaultPageLimit)

	posts, err := s.postService.Feed(ctx, currentUserID(c), page)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(posts)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 10)

	posts, err := s.postService.SearchPosts(ctx, c.Query("q"), optionalUserID(c), page)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(posts)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPageLimit)

	posts, err := s.postService.ListUserPosts(ctx, ownerID, optionalUserID(c), page)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(posts)
}

// PostAnalytics handles GET /api/posts/:id/analytics
func (s *Server) PostAnalytics(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	analytics, err := s.analyticsService.PostAnalytics(ctx, postID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(analytics)
}

// formValue returns the first value for a multipart form field.
func formValue(values map[string][]string, key string) string {
	if v, ok := values[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}
