package service

import (
	"context"

	"ripple/internal/events"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/sanitize"
)

const maxShareMessageLen = 1000

// EngagementService handles likes, reactions, shares, bookmarks, and reports
// against any registered resource.
type EngagementService struct {
	likeRepo     repository.LikeRepository
	reactionRepo repository.ReactionRepository
	shareRepo    repository.ShareRepository
	bookmarkRepo repository.BookmarkRepository
	reportRepo   repository.ReportRepository
	registry     *ResourceRegistry
	bus          *events.Bus
}

func NewEngagementService(
	likeRepo repository.LikeRepository,
	reactionRepo repository.ReactionRepository,
	shareRepo repository.ShareRepository,
	bookmarkRepo repository.BookmarkRepository,
	reportRepo repository.ReportRepository,
	registry *ResourceRegistry,
	bus *events.Bus,
) *EngagementService {
	return &EngagementService{
		likeRepo:     likeRepo,
		reactionRepo: reactionRepo,
		shareRepo:    shareRepo,
		bookmarkRepo: bookmarkRepo,
		reportRepo:   reportRepo,
		registry:     registry,
		bus:          bus,
	}
}

// publish emits an engagement event unless the actor is engaging with their
// own content; nobody needs a notification about themselves.
func (s *EngagementService) publish(ctx context.Context, rt models.ResourceType, id uint, verb events.Verb, actorID, ownerID uint) {
	if s.bus == nil || actorID == ownerID {
		return
	}
	s.bus.Publish(ctx, events.Engagement{
		Resource:   rt,
		ResourceID: id,
		Verb:       verb,
		ActorID:    actorID,
		OwnerID:    ownerID,
	})
}

// Like likes a resource for the user. Liking twice is a no-op and emits no
// second event. Returns whether the like was newly created.
func (s *EngagementService) Like(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	meta, err := s.registry.Resolve(ctx, rt, resourceID)
	if err != nil {
		return false, err
	}
	created, err := s.likeRepo.Like(ctx, userID, rt, resourceID)
	if err != nil {
		return false, err
	}
	if created {
		s.publish(ctx, rt, resourceID, events.VerbLiked, userID, meta.OwnerID)
	}
	return created, nil
}

func (s *EngagementService) Unlike(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	if _, err := s.registry.Resolve(ctx, rt, resourceID); err != nil {
		return false, err
	}
	return s.likeRepo.Unlike(ctx, userID, rt, resourceID)
}

func (s *EngagementService) ListLikers(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) (models.Paginated[*models.Like], error) {
	if _, err := s.registry.Resolve(ctx, rt, resourceID); err != nil {
		return models.Paginated[*models.Like]{}, err
	}
	likes, total, err := s.likeRepo.ListUsers(ctx, rt, resourceID, req)
	if err != nil {
		return models.Paginated[*models.Like]{}, err
	}
	return models.NewPaginated(likes, req, total), nil
}

// React sets the user's reaction on a resource, replacing any previous
// reaction type in place.
func (s *EngagementService) React(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint, reaction models.ReactionType) (bool, error) {
	if !models.ValidReactionType(reaction) {
		return false, models.NewValidationError("Invalid reaction type")
	}
	meta, err := s.registry.Resolve(ctx, rt, resourceID)
	if err != nil {
		return false, err
	}
	created, err := s.reactionRepo.React(ctx, userID, rt, resourceID, reaction)
	if err != nil {
		return false, err
	}
	if created {
		s.publish(ctx, rt, resourceID, events.VerbReacted, userID, meta.OwnerID)
	}
	return created, nil
}

func (s *EngagementService) RemoveReaction(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	if _, err := s.registry.Resolve(ctx, rt, resourceID); err != nil {
		return false, err
	}
	return s.reactionRepo.Remove(ctx, userID, rt, resourceID)
}

func (s *EngagementService) ReactionSummary(ctx context.Context, rt models.ResourceType, resourceID uint) (map[models.ReactionType]int64, error) {
	if _, err := s.registry.Resolve(ctx, rt, resourceID); err != nil {
		return nil, err
	}
	return s.reactionRepo.Summary(ctx, rt, resourceID)
}

// Share records a share with an optional message. Sharing the same resource
// twice is a no-op.
func (s *EngagementService) Share(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint, message string) (bool, error) {
	meta, err := s.registry.Resolve(ctx, rt, resourceID)
	if err != nil {
		return false, err
	}
	message = sanitize.Text(message)
	if len(message) > maxShareMessageLen {
		return false, models.NewValidationError("Share message too long (max 1000 characters)")
	}
	created, err := s.shareRepo.Share(ctx, &models.Share{
		UserID:       userID,
		ResourceType: rt,
		ResourceID:   resourceID,
		Message:      message,
	})
	if err != nil {
		return false, err
	}
	if created {
		s.publish(ctx, rt, resourceID, events.VerbShared, userID, meta.OwnerID)
	}
	return created, nil
}

// Bookmark saves a resource for the user. Bookmarking the same resource
// twice is a validation error; the counter never moves past one per user.
func (s *EngagementService) Bookmark(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) error {
	if _, err := s.registry.Resolve(ctx, rt, resourceID); err != nil {
		return err
	}
	created, err := s.bookmarkRepo.Add(ctx, userID, rt, resourceID)
	if err != nil {
		return err
	}
	if !created {
		return models.NewValidationError("You have already bookmarked this resource")
	}
	return nil
}

func (s *EngagementService) Unbookmark(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint) (bool, error) {
	if _, err := s.registry.Resolve(ctx, rt, resourceID); err != nil {
		return false, err
	}
	return s.bookmarkRepo.Remove(ctx, userID, rt, resourceID)
}

// ListBookmarks returns the user's own bookmarks; bookmarks are private.
func (s *EngagementService) ListBookmarks(ctx context.Context, userID uint, req models.PageRequest) (models.Paginated[*models.Bookmark], error) {
	bookmarks, total, err := s.bookmarkRepo.ListByUser(ctx, userID, req)
	if err != nil {
		return models.Paginated[*models.Bookmark]{}, err
	}
	return models.NewPaginated(bookmarks, req, total), nil
}

// Report files a moderation report. Users cannot report their own content,
// and repeating a report of the same resource is a validation error.
func (s *EngagementService) Report(ctx context.Context, userID uint, rt models.ResourceType, resourceID uint, reason string) error {
	reason = sanitize.Text(reason)
	if reason == "" {
		return models.NewValidationError("Report reason is required")
	}
	meta, err := s.registry.Resolve(ctx, rt, resourceID)
	if err != nil {
		return err
	}
	if meta.OwnerID == userID {
		return models.NewValidationError("You cannot report your own content")
	}
	created, err := s.reportRepo.Create(ctx, &models.Report{
		UserID:       userID,
		ResourceType: rt,
		ResourceID:   resourceID,
		Reason:       reason,
	})
	if err != nil {
		return err
	}
	if !created {
		return models.NewValidationError("You have already reported this resource")
	}
	s.publish(ctx, rt, resourceID, events.VerbReported, userID, meta.OwnerID)
	return nil
}
