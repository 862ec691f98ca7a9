package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateComment(t *testing.T) {
	ts := newTestServer()
	app := newTestApp(2)
	app.Post("/:resourceType/:resourceId/comments", ts.srv.CreateComment)

	t.Run("Success", func(t *testing.T) {
		ts.posts.On("GetByID", mock.Anything, uint(4)).
			Return(&models.Post{ID: 4, UserID: 9, IsPublic: true, AllowComments: true}, nil).Once()
		ts.comments.On("Create", mock.Anything, mock.MatchedBy(func(cm *models.Comment) bool {
			return cm.ResourceType == models.ResourcePost && cm.ResourceID == 4 && cm.UserID == 2
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Comment).ID = 11
		}).Return(nil).Once()
		ts.comments.On("GetByID", mock.Anything, uint(11)).
			Return(&models.Comment{ID: 11, UserID: 2, Content: "nice"}, nil).Once()

		body, _ := json.Marshal(map[string]string{"content": "nice"})
		req := httptest.NewRequest(http.MethodPost, "/post/4/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Unknown Resource Type", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"content": "hi"})
		req := httptest.NewRequest(http.MethodPost, "/recipe/4/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Comments Disabled", func(t *testing.T) {
		ts.posts.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Post{ID: 5, UserID: 9, IsPublic: true, AllowComments: false}, nil).Once()

		body, _ := json.Marshal(map[string]string{"content": "hi"})
		req := httptest.NewRequest(http.MethodPost, "/post/5/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	ts.posts.AssertExpectations(t)
	ts.comments.AssertExpectations(t)
}

func TestListComments(t *testing.T) {
	ts := newTestServer()
	app := newTestApp(0)
	app.Get("/:resourceType/:resourceId/comments", ts.srv.ListComments)

	ts.posts.On("GetByID", mock.Anything, uint(4)).
		Return(&models.Post{ID: 4, UserID: 9, IsPublic: true, AllowComments: true}, nil).Once()
	ts.comments.On("ListByResource", mock.Anything, models.ResourcePost, uint(4), mock.Anything).
		Return([]*models.Comment{{ID: 1, Content: "first"}}, int64(1), nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/post/4/comments", nil))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.Paginated[*models.Comment]
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page.Data, 1)
	ts.comments.AssertExpectations(t)
}

func TestDeleteComment(t *testing.T) {
	ts := newTestServer()
	app := newTestApp(3)
	app.Delete("/comments/:id", ts.srv.DeleteComment)

	t.Run("Author Deletes Own", func(t *testing.T) {
		comment := &models.Comment{ID: 6, UserID: 3, ResourceType: models.ResourcePost, ResourceID: 4}
		ts.comments.On("GetByID", mock.Anything, uint(6)).Return(comment, nil).Once()
		ts.comments.On("Delete", mock.Anything, comment).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/comments/6", nil))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("Stranger Forbidden", func(t *testing.T) {
		comment := &models.Comment{ID: 7, UserID: 8, ResourceType: models.ResourcePost, ResourceID: 4}
		ts.comments.On("GetByID", mock.Anything, uint(7)).Return(comment, nil).Once()
		ts.posts.On("GetByID", mock.Anything, uint(4)).
			Return(&models.Post{ID: 4, UserID: 9, IsPublic: true, AllowComments: true}, nil).Once()
		ts.users.On("GetByID", mock.Anything, uint(3)).
			Return(&models.User{ID: 3}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/comments/7", nil))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	ts.comments.AssertExpectations(t)
}
