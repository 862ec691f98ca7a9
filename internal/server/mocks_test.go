package server

import (
	"context"
	"time"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ListByUser(ctx context.Context, userID uint, includeDrafts bool, req models.PageRequest) ([]*models.Post, int64, error) {
	args := m.Called(ctx, userID, includeDrafts, req)
	return args.Get(0).([]*models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) ListPublic(ctx context.Context, req models.PageRequest) ([]*models.Post, int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]*models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) Feed(ctx context.Context, userID uint, req models.PageRequest) ([]*models.Post, int64, error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).([]*models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) Search(ctx context.Context, query string, req models.PageRequest) ([]*models.Post, int64, error) {
	args := m.Called(ctx, query, req)
	return args.Get(0).([]*models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) ListScheduledDue(ctx context.Context, now time.Time, limit int) ([]*models.Post, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByIDs(ctx context.Context, ids []uint) ([]*models.Post, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	args := m.Called(ctx, userID, postIDs)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockPostRepository) TrackView(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) UserStats(ctx context.Context, userID uint) (*models.UserPostStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPostStats), args.Error(1)
}

// MockLikeRepository is a mock of the LikeRepository interface
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Like(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	args := m.Called(ctx, userID, rt, resourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) Unlike(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	args := m.Called(ctx, userID, rt, resourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) IsLiked(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	args := m.Called(ctx, userID, rt, resourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) ListUsers(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) ([]*models.Like, int64, error) {
	args := m.Called(ctx, rt, resourceID, req)
	return args.Get(0).([]*models.Like), args.Get(1).(int64), args.Error(2)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByResource(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) ([]*models.Comment, int64, error) {
	args := m.Called(ctx, rt, resourceID, req)
	return args.Get(0).([]*models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) CountByResource(ctx context.Context, rt models.ResourceType, resourceID uint) (int64, error) {
	args := m.Called(ctx, rt, resourceID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Follow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]uint), args.Error(1)
}

// MockPhotoRepository is a mock of the PhotoRepository interface
type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *MockPhotoRepository) GetByID(ctx context.Context, id uint) (*models.Photo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVideoRepository is a mock of the VideoRepository interface
type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Create(ctx context.Context, video *models.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockVideoRepository) DeleteByPostID(ctx context.Context, postID uint) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// MockReactionRepository is a testify mock for repository.ReactionRepository.
type MockReactionRepository struct {
	mock.Mock
}

func (m *MockReactionRepository) React(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint, reaction models.ReactionType) (bool, error) {
	args := m.Called(ctx, userID, rt, resourceID, reaction)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionRepository) Remove(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	args := m.Called(ctx, userID, rt, resourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionRepository) Summary(ctx context.Context, rt models.ResourceType, resourceID uint) (map[models.ReactionType]int64, error) {
	args := m.Called(ctx, rt, resourceID)
	summary, _ := args.Get(0).(map[models.ReactionType]int64)
	return summary, args.Error(1)
}

func (m *MockReactionRepository) Get(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (*models.Reaction, error) {
	args := m.Called(ctx, userID, rt, resourceID)
	reaction, _ := args.Get(0).(*models.Reaction)
	return reaction, args.Error(1)
}

// testServer bundles a Server wired over mocks with the mocks themselves.
type testServer struct {
	srv       *Server
	posts     *MockPostRepository
	likes     *MockLikeRepository
	reactions *MockReactionRepository
	comments  *MockCommentRepository
	users     *MockUserRepository
	photos    *MockPhotoRepository
	videos    *MockVideoRepository
}

func newTestServer() *testServer {
	ts := &testServer{
		posts:     new(MockPostRepository),
		likes:     new(MockLikeRepository),
		reactions: new(MockReactionRepository),
		comments:  new(MockCommentRepository),
		users:     new(MockUserRepository),
		photos:    new(MockPhotoRepository),
		videos:    new(MockVideoRepository),
	}

	srv := &Server{
		postRepo:     ts.posts,
		likeRepo:     ts.likes,
		reactionRepo: ts.reactions,
		commentRepo:  ts.comments,
		userRepo:     ts.users,
		photoRepo:    ts.photos,
		videoRepo:    ts.videos,
	}
	srv.registry = service.NewResourceRegistry(ts.posts, ts.photos, ts.videos)
	srv.userService = service.NewUserService(ts.users)
	srv.postService = service.NewPostService(
		ts.posts, ts.videos, ts.users, nil, nil, nil, srv.userService.IsAdmin)
	srv.commentService = service.NewCommentService(
		ts.comments, srv.registry, nil, srv.userService.IsAdmin)
	srv.engagementService = service.NewEngagementService(
		ts.likes, ts.reactions, nil, nil, nil, srv.registry, nil)
	srv.analyticsService = service.NewAnalyticsService(ts.posts, ts.reactions)
	ts.srv = srv

	return ts
}

// newTestApp builds a Fiber app with the domain error handler and, when
// userID is non-zero, middleware that injects the authenticated user.
func newTestApp(userID uint) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err)
		},
	})
	if userID != 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", userID)
			return c.Next()
		})
	}
	return app
}
