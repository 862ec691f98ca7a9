package service

import (
	"context"
	"errors"

	"ripple/internal/events"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/sanitize"

	"gorm.io/gorm"
)

const maxCommentLen = 5000

type CommentService struct {
	commentRepo repository.CommentRepository
	registry    *ResourceRegistry
	bus         *events.Bus
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID          uint
	ResourceType    models.ResourceType
	ResourceID      uint
	Content         string
	ParentCommentID *uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	registry *ResourceRegistry,
	bus *events.Bus,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		registry:    registry,
		bus:         bus,
		isAdmin:     isAdmin,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := sanitize.Text(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 5000 characters)")
	}

	meta, err := s.registry.Resolve(ctx, in.ResourceType, in.ResourceID)
	if err != nil {
		return nil, err
	}
	if !meta.AllowComments {
		return nil, models.NewForbiddenError("Comments are disabled on this resource")
	}

	if in.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("comment", *in.ParentCommentID)
			}
			return nil, err
		}
		if parent.ResourceType != in.ResourceType || parent.ResourceID != in.ResourceID {
			return nil, models.NewValidationError("Parent comment belongs to a different resource")
		}
		// Threading is one level deep.
		if parent.ParentCommentID != nil {
			return nil, models.NewValidationError("Replies to replies are not supported")
		}
	}

	comment := &models.Comment{
		ResourceType:    in.ResourceType,
		ResourceID:      in.ResourceID,
		UserID:          in.UserID,
		Content:         content,
		ParentCommentID: in.ParentCommentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.bus != nil && in.UserID != meta.OwnerID {
		s.bus.Publish(ctx, events.Engagement{
			Resource:   in.ResourceType,
			ResourceID: in.ResourceID,
			Verb:       events.VerbCommented,
			ActorID:    in.UserID,
			OwnerID:    meta.OwnerID,
		})
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", id)
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, rt models.ResourceType, resourceID uint, req models.PageRequest) (models.Paginated[*models.Comment], error) {
	if _, err := s.registry.Resolve(ctx, rt, resourceID); err != nil {
		return models.Paginated[*models.Comment]{}, err
	}
	comments, total, err := s.commentRepo.ListByResource(ctx, rt, resourceID, req)
	if err != nil {
		return models.Paginated[*models.Comment]{}, err
	}
	return models.NewPaginated(comments, req, total), nil
}

func (s *CommentService) UpdateComment(ctx context.Context, commentID, userID uint, content string) (*models.Comment, error) {
	comment, err := s.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	content = sanitize.Text(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 5000 characters)")
	}

	comment.Content = content
	comment.IsEdited = true
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment allows the comment author, the resource owner, and admins to
// remove a comment.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		meta, err := s.registry.Resolve(ctx, comment.ResourceType, comment.ResourceID)
		if err != nil {
			return err
		}
		if meta.OwnerID != userID {
			admin, adminErr := s.isAdmin(ctx, userID)
			if adminErr != nil {
				return adminErr
			}
			if !admin {
				return models.NewForbiddenError("You cannot delete this comment")
			}
		}
	}
	return s.commentRepo.Delete(ctx, comment)
}
