package server

import (
	"net/http/httptest"
	"testing"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  models.PageRequest
	}{
		{
			name:  "Defaults",
			query: "",
			want:  models.PageRequest{Page: 1, Limit: 20, SortOrder: models.SortDesc},
		},
		{
			name:  "Explicit Values",
			query: "?page=3&limit=5&sortBy=likes_count&sortOrder=asc",
			want:  models.PageRequest{Page: 3, Limit: 5, SortBy: "likes_count", SortOrder: models.SortAsc},
		},
		{
			name:  "Limit Capped",
			query: "?limit=5000",
			want:  models.PageRequest{Page: 1, Limit: 100, SortOrder: models.SortDesc},
		},
		{
			name:  "Negative Values Normalized",
			query: "?page=-2&limit=-1&sortOrder=bogus",
			want:  models.PageRequest{Page: 1, Limit: 20, SortOrder: models.SortDesc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got models.PageRequest
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c, 20)
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			assert.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "post ID", humanizeParam("postId"))
	assert.Equal(t, "resource ID", humanizeParam("resourceId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestParseResource(t *testing.T) {
	ts := newTestServer()
	app := fiber.New()

	var gotType models.ResourceType
	var gotID uint
	app.Get("/:resourceType/:resourceId", func(c *fiber.Ctx) error {
		rt, id, err := ts.srv.parseResource(c)
		if err != nil {
			return nil
		}
		gotType, gotID = rt, id
		return c.SendStatus(fiber.StatusOK)
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/photo/12", nil))
	_ = resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, models.ResourcePhoto, gotType)
	assert.Equal(t, uint(12), gotID)

	resp, _ = app.Test(httptest.NewRequest("GET", "/recipe/12", nil))
	_ = resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest("GET", "/video/zero", nil))
	_ = resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
