package service

import (
	"context"
	"errors"
	"math"

	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

// AnalyticsService reads engagement counters back out as analytics views.
type AnalyticsService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
}

func NewAnalyticsService(postRepo repository.PostRepository, reactionRepo repository.ReactionRepository) *AnalyticsService {
	return &AnalyticsService{postRepo: postRepo, reactionRepo: reactionRepo}
}

// PostAnalytics returns a single post's engagement summary, including the
// per-type reaction breakdown. Only the owner may read it.
func (s *AnalyticsService) PostAnalytics(ctx context.Context, postID, userID uint) (*models.PostAnalytics, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", postID)
		}
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewForbiddenError("You can only view analytics for your own posts")
	}
	breakdown, err := s.reactionRepo.Summary(ctx, models.ResourcePost, post.ID)
	if err != nil {
		return nil, err
	}
	return &models.PostAnalytics{
		PostID:            post.ID,
		Likes:             post.LikesCount,
		Comments:          post.CommentsCount,
		Shares:            post.SharesCount,
		Views:             post.ViewsCount,
		Reactions:         post.ReactionsCount,
		Bookmarks:         post.BookmarksCount,
		ReactionBreakdown: breakdown,
		EngagementRate:    engagementRate(post),
	}, nil
}

// UserStats aggregates engagement over all of the user's published posts.
func (s *AnalyticsService) UserStats(ctx context.Context, userID uint) (*models.UserPostStats, error) {
	return s.postRepo.UserStats(ctx, userID)
}

// engagementRate is the percentage of active interactions (likes, comments,
// shares, reactions) per view, rounded to two decimals. A post nobody has
// viewed has a rate of zero, not a division error.
func engagementRate(post *models.Post) float64 {
	if post.ViewsCount == 0 {
		return 0
	}
	interactions := post.LikesCount + post.CommentsCount + post.SharesCount + post.ReactionsCount
	rate := float64(interactions) / float64(post.ViewsCount) * 100
	return math.Round(rate*100) / 100
}
