package service

import (
	"context"
	"time"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, uint) (*models.Post, error)
	updateFn           func(context.Context, *models.Post) error
	deleteFn           func(context.Context, uint) error
	listByUserFn       func(context.Context, uint, bool, models.PageRequest) ([]*models.Post, int64, error)
	listPublicFn       func(context.Context, models.PageRequest) ([]*models.Post, int64, error)
	feedFn             func(context.Context, uint, models.PageRequest) ([]*models.Post, int64, error)
	searchFn           func(context.Context, string, models.PageRequest) ([]*models.Post, int64, error)
	listScheduledDueFn func(context.Context, time.Time, int) ([]*models.Post, error)
	listByIDsFn        func(context.Context, []uint) ([]*models.Post, error)
	getLikedPostIDsFn  func(context.Context, uint, []uint) ([]uint, error)
	trackViewFn        func(context.Context, uint, uint) (bool, error)
	userStatsFn        func(context.Context, uint) (*models.UserPostStats, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, includeDrafts bool, req models.PageRequest) ([]*models.Post, int64, error) {
	return s.listByUserFn(ctx, userID, includeDrafts, req)
}
func (s *postRepoStub) ListPublic(ctx context.Context, req models.PageRequest) ([]*models.Post, int64, error) {
	return s.listPublicFn(ctx, req)
}
func (s *postRepoStub) Feed(ctx context.Context, userID uint, req models.PageRequest) ([]*models.Post, int64, error) {
	return s.feedFn(ctx, userID, req)
}
func (s *postRepoStub) Search(ctx context.Context, query string, req models.PageRequest) ([]*models.Post, int64, error) {
	return s.searchFn(ctx, query, req)
}
func (s *postRepoStub) ListScheduledDue(ctx context.Context, now time.Time, limit int) ([]*models.Post, error) {
	return s.listScheduledDueFn(ctx, now, limit)
}
func (s *postRepoStub) ListByIDs(ctx context.Context, ids []uint) ([]*models.Post, error) {
	return s.listByIDsFn(ctx, ids)
}
func (s *postRepoStub) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	return s.getLikedPostIDsFn(ctx, userID, postIDs)
}
func (s *postRepoStub) TrackView(ctx context.Context, userID, postID uint) (bool, error) {
	return s.trackViewFn(ctx, userID, postID)
}
func (s *postRepoStub) UserStats(ctx context.Context, userID uint) (*models.UserPostStats, error) {
	return s.userStatsFn(ctx, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, post *models.Post) error {
			post.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 10, IsPublic: true, AllowComments: true}, nil
		},
		updateFn: func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listByUserFn: func(_ context.Context, _ uint, _ bool, _ models.PageRequest) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listPublicFn: func(_ context.Context, _ models.PageRequest) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		feedFn: func(_ context.Context, _ uint, _ models.PageRequest) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		searchFn: func(_ context.Context, _ string, _ models.PageRequest) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listScheduledDueFn: func(_ context.Context, _ time.Time, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		listByIDsFn:       func(_ context.Context, _ []uint) ([]*models.Post, error) { return nil, nil },
		getLikedPostIDsFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
		trackViewFn:       func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		userStatsFn:       func(_ context.Context, _ uint) (*models.UserPostStats, error) { return &models.UserPostStats{}, nil },
	}
}

// photoRepoStub is a stub for repository.PhotoRepository.
type photoRepoStub struct {
	createFn  func(context.Context, *models.Photo) error
	getByIDFn func(context.Context, uint) (*models.Photo, error)
	deleteFn  func(context.Context, uint) error
}

func (s *photoRepoStub) Create(ctx context.Context, photo *models.Photo) error {
	return s.createFn(ctx, photo)
}
func (s *photoRepoStub) GetByID(ctx context.Context, id uint) (*models.Photo, error) {
	return s.getByIDFn(ctx, id)
}
func (s *photoRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPhotoRepo() *photoRepoStub {
	return &photoRepoStub{
		createFn: func(_ context.Context, _ *models.Photo) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Photo, error) {
			return &models.Photo{ID: id, UserID: 10}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// videoRepoStub is a stub for repository.VideoRepository.
type videoRepoStub struct {
	createFn         func(context.Context, *models.Video) error
	getByIDFn        func(context.Context, uint) (*models.Video, error)
	deleteByPostIDFn func(context.Context, uint) error
}

func (s *videoRepoStub) Create(ctx context.Context, video *models.Video) error {
	return s.createFn(ctx, video)
}
func (s *videoRepoStub) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	return s.getByIDFn(ctx, id)
}
func (s *videoRepoStub) DeleteByPostID(ctx context.Context, postID uint) error {
	return s.deleteByPostIDFn(ctx, postID)
}

func noopVideoRepo() *videoRepoStub {
	return &videoRepoStub{
		createFn: func(_ context.Context, _ *models.Video) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Video, error) {
			return &models.Video{ID: id, UserID: 10}, nil
		},
		deleteByPostIDFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn     func(context.Context, uint) (*models.User, error)
	existsFn      func(context.Context, uint) (bool, error)
	followFn      func(context.Context, uint, uint) (bool, error)
	unfollowFn    func(context.Context, uint, uint) (bool, error)
	isFollowingFn func(context.Context, uint, uint) (bool, error)
	followeeIDsFn func(context.Context, uint) ([]uint, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) Follow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.unfollowFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.followeeIDsFn(ctx, followerID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user"}, nil
		},
		existsFn:      func(_ context.Context, _ uint) (bool, error) { return true, nil },
		followFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unfollowFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isFollowingFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followeeIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn          func(context.Context, *models.Comment) error
	getByIDFn         func(context.Context, uint) (*models.Comment, error)
	listByResourceFn  func(context.Context, models.ResourceType, uint, models.PageRequest) ([]*models.Comment, int64, error)
	updateFn          func(context.Context, *models.Comment) error
	deleteFn          func(context.Context, *models.Comment) error
	countByResourceFn func(context.Context, models.ResourceType, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByResource(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) ([]*models.Comment, int64, error) {
	return s.listByResourceFn(ctx, rt, resourceID, req)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, comment *models.Comment) error {
	return s.deleteFn(ctx, comment)
}
func (s *commentRepoStub) CountByResource(ctx context.Context, rt models.ResourceType, resourceID uint) (int64, error) {
	return s.countByResourceFn(ctx, rt, resourceID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, comment *models.Comment) error {
			comment.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 3, ResourceType: models.ResourcePost, ResourceID: 7}, nil
		},
		listByResourceFn: func(_ context.Context, _ models.ResourceType, _ uint, _ models.PageRequest) ([]*models.Comment, int64, error) {
			return nil, 0, nil
		},
		updateFn:          func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:          func(_ context.Context, _ *models.Comment) error { return nil },
		countByResourceFn: func(_ context.Context, _ models.ResourceType, _ uint) (int64, error) { return 0, nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	likeFn      func(context.Context, uint, models.ResourceType, uint) (bool, error)
	unlikeFn    func(context.Context, uint, models.ResourceType, uint) (bool, error)
	isLikedFn   func(context.Context, uint, models.ResourceType, uint) (bool, error)
	listUsersFn func(context.Context, models.ResourceType, uint, models.PageRequest) ([]*models.Like, int64, error)
}

func (s *likeRepoStub) Like(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	return s.likeFn(ctx, userID, rt, resourceID)
}
func (s *likeRepoStub) Unlike(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, rt, resourceID)
}
func (s *likeRepoStub) IsLiked(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, rt, resourceID)
}
func (s *likeRepoStub) ListUsers(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) ([]*models.Like, int64, error) {
	return s.listUsersFn(ctx, rt, resourceID, req)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		likeFn:    func(_ context.Context, _ uint, _ models.ResourceType, _ uint) (bool, error) { return true, nil },
		unlikeFn:  func(_ context.Context, _ uint, _ models.ResourceType, _ uint) (bool, error) { return true, nil },
		isLikedFn: func(_ context.Context, _ uint, _ models.ResourceType, _ uint) (bool, error) { return false, nil },
		listUsersFn: func(_ context.Context, _ models.ResourceType, _ uint, _ models.PageRequest) ([]*models.Like, int64, error) {
			return nil, 0, nil
		},
	}
}

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	reactFn   func(context.Context, uint, models.ResourceType, uint, models.ReactionType) (bool, error)
	removeFn  func(context.Context, uint, models.ResourceType, uint) (bool, error)
	summaryFn func(context.Context, models.ResourceType, uint) (map[models.ReactionType]int64, error)
	getFn     func(context.Context, uint, models.ResourceType, uint) (*models.Reaction, error)
}

func (s *reactionRepoStub) React(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint, reaction models.ReactionType) (bool, error) {
	return s.reactFn(ctx, userID, rt, resourceID, reaction)
}
func (s *reactionRepoStub) Remove(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	return s.removeFn(ctx, userID, rt, resourceID)
}
func (s *reactionRepoStub) Summary(ctx context.Context, rt models.ResourceType, resourceID uint) (map[models.ReactionType]int64, error) {
	return s.summaryFn(ctx, rt, resourceID)
}
func (s *reactionRepoStub) Get(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (*models.Reaction, error) {
	return s.getFn(ctx, userID, rt, resourceID)
}

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		reactFn: func(_ context.Context, _ uint, _ models.ResourceType, _ uint, _ models.ReactionType) (bool, error) {
			return true, nil
		},
		removeFn: func(_ context.Context, _ uint, _ models.ResourceType, _ uint) (bool, error) { return true, nil },
		summaryFn: func(_ context.Context, _ models.ResourceType, _ uint) (map[models.ReactionType]int64, error) {
			return nil, nil
		},
		getFn: func(_ context.Context, _ uint, _ models.ResourceType, _ uint) (*models.Reaction, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
}

// shareRepoStub is a stub for repository.ShareRepository.
type shareRepoStub struct {
	shareFn      func(context.Context, *models.Share) (bool, error)
	listByUserFn func(context.Context, uint, models.PageRequest) ([]*models.Share, int64, error)
}

func (s *shareRepoStub) Share(ctx context.Context, share *models.Share) (bool, error) {
	return s.shareFn(ctx, share)
}
func (s *shareRepoStub) ListByUser(ctx context.Context, userID uint, req models.PageRequest) ([]*models.Share, int64, error) {
	return s.listByUserFn(ctx, userID, req)
}

func noopShareRepo() *shareRepoStub {
	return &shareRepoStub{
		shareFn: func(_ context.Context, _ *models.Share) (bool, error) { return true, nil },
		listByUserFn: func(_ context.Context, _ uint, _ models.PageRequest) ([]*models.Share, int64, error) {
			return nil, 0, nil
		},
	}
}

// bookmarkRepoStub is a stub for repository.BookmarkRepository.
type bookmarkRepoStub struct {
	addFn        func(context.Context, uint, models.ResourceType, uint) (bool, error)
	removeFn     func(context.Context, uint, models.ResourceType, uint) (bool, error)
	listByUserFn func(context.Context, uint, models.PageRequest) ([]*models.Bookmark, int64, error)
}

func (s *bookmarkRepoStub) Add(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	return s.addFn(ctx, userID, rt, resourceID)
}
func (s *bookmarkRepoStub) Remove(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	return s.removeFn(ctx, userID, rt, resourceID)
}
func (s *bookmarkRepoStub) ListByUser(ctx context.Context, userID uint, req models.PageRequest) ([]*models.Bookmark, int64, error) {
	return s.listByUserFn(ctx, userID, req)
}

func noopBookmarkRepo() *bookmarkRepoStub {
	return &bookmarkRepoStub{
		addFn:    func(_ context.Context, _ uint, _ models.ResourceType, _ uint) (bool, error) { return true, nil },
		removeFn: func(_ context.Context, _ uint, _ models.ResourceType, _ uint) (bool, error) { return true, nil },
		listByUserFn: func(_ context.Context, _ uint, _ models.PageRequest) ([]*models.Bookmark, int64, error) {
			return nil, 0, nil
		},
	}
}

// reportRepoStub is a stub for repository.ReportRepository.
type reportRepoStub struct {
	createFn         func(context.Context, *models.Report) (bool, error)
	listByResourceFn func(context.Context, models.ResourceType, uint, models.PageRequest) ([]*models.Report, int64, error)
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) (bool, error) {
	return s.createFn(ctx, report)
}
func (s *reportRepoStub) ListByResource(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) ([]*models.Report, int64, error) {
	return s.listByResourceFn(ctx, rt, resourceID, req)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn: func(_ context.Context, _ *models.Report) (bool, error) { return true, nil },
		listByResourceFn: func(_ context.Context, _ models.ResourceType, _ uint, _ models.PageRequest) ([]*models.Report, int64, error) {
			return nil, 0, nil
		},
	}
}

// collectionRepoStub is a stub for repository.CollectionRepository.
type collectionRepoStub struct {
	createFn       func(context.Context, *models.Collection) error
	getByIDFn      func(context.Context, uint) (*models.Collection, error)
	listByUserFn   func(context.Context, uint, bool, models.PageRequest) ([]*models.Collection, int64, error)
	updateFn       func(context.Context, *models.Collection) error
	deleteFn       func(context.Context, uint) error
	addPostFn      func(context.Context, uint, uint) (bool, error)
	removePostFn   func(context.Context, uint, uint) (bool, error)
	listPostsFn    func(context.Context, uint, models.PageRequest) ([]*models.Post, int64, error)
	containsPostFn func(context.Context, uint, uint) (bool, error)
}

func (s *collectionRepoStub) Create(ctx context.Context, collection *models.Collection) error {
	return s.createFn(ctx, collection)
}
func (s *collectionRepoStub) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	return s.getByIDFn(ctx, id)
}
func (s *collectionRepoStub) ListByUser(ctx context.Context, userID uint, publicOnly bool, req models.PageRequest) ([]*models.Collection, int64, error) {
	return s.listByUserFn(ctx, userID, publicOnly, req)
}
func (s *collectionRepoStub) Update(ctx context.Context, collection *models.Collection) error {
	return s.updateFn(ctx, collection)
}
func (s *collectionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *collectionRepoStub) AddPost(ctx context.Context, collectionID, postID uint) (bool, error) {
	return s.addPostFn(ctx, collectionID, postID)
}
func (s *collectionRepoStub) RemovePost(ctx context.Context, collectionID, postID uint) (bool, error) {
	return s.removePostFn(ctx, collectionID, postID)
}
func (s *collectionRepoStub) ListPosts(ctx context.Context, collectionID uint, req models.PageRequest) ([]*models.Post, int64, error) {
	return s.listPostsFn(ctx, collectionID, req)
}
func (s *collectionRepoStub) ContainsPost(ctx context.Context, collectionID, postID uint) (bool, error) {
	return s.containsPostFn(ctx, collectionID, postID)
}

func noopCollectionRepo() *collectionRepoStub {
	return &collectionRepoStub{
		createFn: func(_ context.Context, collection *models.Collection) error {
			collection.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Collection, error) {
			return &models.Collection{ID: id, UserID: 3, IsPublic: true}, nil
		},
		listByUserFn: func(_ context.Context, _ uint, _ bool, _ models.PageRequest) ([]*models.Collection, int64, error) {
			return nil, 0, nil
		},
		updateFn:     func(_ context.Context, _ *models.Collection) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		addPostFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		removePostFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		listPostsFn: func(_ context.Context, _ uint, _ models.PageRequest) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		containsPostFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
}

func testRegistry(postRepo *postRepoStub) *ResourceRegistry {
	return NewResourceRegistry(postRepo, noopPhotoRepo(), noopVideoRepo())
}

func alwaysAdmin(_ context.Context, _ uint) (bool, error) { return true, nil }
func neverAdmin(_ context.Context, _ uint) (bool, error)  { return false, nil }
