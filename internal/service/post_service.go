package service

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"ripple/internal/cache"
	"ripple/internal/events"
	"ripple/internal/linkmeta"
	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/sanitize"
	"ripple/internal/storage"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	maxContentLen  = 50000
	maxMediaURLs   = 10
	scheduledBatch = 100
)

var (
	hashtagRe = regexp.MustCompile(`#(\w+)`)
	mentionRe = regexp.MustCompile(`@(\w+)`)

	imageExts    = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
	videoExts    = map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".webm": true, ".mkv": true}
	documentExts = map[string]bool{".pdf": true, ".doc": true, ".docx": true, ".txt": true}
)

type PostService struct {
	postRepo  repository.PostRepository
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
	storage   storage.Service
	links     linkmeta.Fetcher
	bus       *events.Bus
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID        uint
	Content       string
	MediaURLs     []string
	LinkURL       string
	IsPublic      *bool
	AllowComments *bool
	IsDraft       bool
	ScheduledAt   *time.Time
	ParentPostID  *uint
}

type UpdatePostInput struct {
	UserID        uint
	PostID        uint
	Content       *string
	MediaURLs     []string
	IsPublic      *bool
	AllowComments *bool
}

func NewPostService(
	postRepo repository.PostRepository,
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
	store storage.Service,
	links linkmeta.Fetcher,
	bus *events.Bus,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		videoRepo: videoRepo,
		userRepo:  userRepo,
		storage:   store,
		links:     links,
		bus:       bus,
		isAdmin:   isAdmin,
	}
}

// DeterminePostType derives the post type from media URL extensions. Media
// spanning more than one category yields the mixed type; no media means text.
func DeterminePostType(mediaURLs []string) models.PostType {
	if len(mediaURLs) == 0 {
		return models.PostTypeText
	}
	categories := make(map[models.PostType]bool, 2)
	for _, u := range mediaURLs {
		ext := strings.ToLower(path.Ext(u))
		switch {
		case imageExts[ext]:
			categories[models.PostTypeImage] = true
		case videoExts[ext]:
			categories[models.PostTypeVideo] = true
		default:
			categories[models.PostTypeDocument] = true
		}
	}
	if len(categories) > 1 {
		return models.PostTypeMixed
	}
	for t := range categories {
		return t
	}
	return models.PostTypeText
}

// ExtractHashtags pulls #tags out of content, lowercased, without the marker.
func ExtractHashtags(content string) []string {
	return extractTokens(hashtagRe, content)
}

// ExtractMentions pulls @handles out of content, lowercased, without the marker.
func ExtractMentions(content string) []string {
	return extractTokens(mentionRe, content)
}

func extractTokens(re *regexp.Regexp, content string) []string {
	matches := re.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		token := strings.ToLower(m[1])
		if seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	return tokens
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := sanitize.Text(in.Content)
	mediaURLs := sanitize.URLs(in.MediaURLs)

	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if len(mediaURLs) > maxMediaURLs {
		return nil, models.NewValidationError("Too many media attachments (max 10)")
	}

	post := &models.Post{
		UserID:        in.UserID,
		Content:       content,
		MediaURLs:     pq.StringArray(mediaURLs),
		PostType:      DeterminePostType(mediaURLs),
		Hashtags:      pq.StringArray(ExtractHashtags(content)),
		Mentions:      pq.StringArray(ExtractMentions(content)),
		IsPublic:      true,
		AllowComments: true,
		IsDraft:       in.IsDraft,
		ParentPostID:  in.ParentPostID,
	}
	if !post.HasContent() {
		return nil, models.NewValidationError("Post requires content or media")
	}
	if in.IsPublic != nil {
		post.IsPublic = *in.IsPublic
	}
	if in.AllowComments != nil {
		post.AllowComments = *in.AllowComments
	}

	if in.ScheduledAt != nil {
		if !in.ScheduledAt.After(time.Now()) {
			return nil, models.NewValidationError("scheduled_at must be in the future")
		}
		post.ScheduledAt = in.ScheduledAt
		// Scheduled posts are drafts until the scheduler promotes them.
		post.IsDraft = true
	}

	if in.ParentPostID != nil {
		parent, err := s.postRepo.GetByID(ctx, *in.ParentPostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("post", *in.ParentPostID)
			}
			return nil, err
		}
		if !parent.IsPublic && parent.UserID != in.UserID {
			return nil, models.NewForbiddenError("Cannot quote a private post")
		}
	}

	s.attachLinkPreview(ctx, post, in.LinkURL)

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.indexVideos(ctx, post)

	return s.postRepo.GetByID(ctx, post.ID)
}

// CreatePostWithFiles uploads the attachments first, then creates the post
// with the stored URLs. If the post cannot be created, the uploads are
// removed again so no orphaned objects accumulate.
func (s *PostService) CreatePostWithFiles(ctx context.Context, in CreatePostInput, files []storage.File) (*models.Post, error) {
	if s.storage == nil {
		return nil, models.NewValidationError("File uploads are not configured")
	}

	stored := make([]*storage.Stored, 0, len(files))
	cleanup := func() {
		for _, obj := range stored {
			_ = s.storage.DeleteFile(context.WithoutCancel(ctx), obj.Key)
		}
	}

	for _, f := range files {
		obj, err := s.storage.UploadFile(ctx, in.UserID, f, "posts")
		if err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, obj)
		in.MediaURLs = append(in.MediaURLs, obj.URL)
	}

	post, err := s.CreatePost(ctx, in)
	if err != nil {
		cleanup()
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", postID)
		}
		return nil, err
	}
	if err := s.checkReadable(post, currentUserID); err != nil {
		return nil, err
	}
	if err := s.attachLiked(ctx, currentUserID, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.ownedPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Content != nil {
		content := sanitize.Text(*in.Content)
		if len(content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = content
		post.Hashtags = pq.StringArray(ExtractHashtags(content))
		post.Mentions = pq.StringArray(ExtractMentions(content))
	}
	if in.MediaURLs != nil {
		mediaURLs := sanitize.URLs(in.MediaURLs)
		if len(mediaURLs) > maxMediaURLs {
			return nil, models.NewValidationError("Too many media attachments (max 10)")
		}
		post.MediaURLs = pq.StringArray(mediaURLs)
		post.PostType = DeterminePostType(mediaURLs)
	}
	if !post.HasContent() {
		return nil, models.NewValidationError("Post requires content or media")
	}
	if in.IsPublic != nil {
		post.IsPublic = *in.IsPublic
	}
	if in.AllowComments != nil {
		post.AllowComments = *in.AllowComments
	}
	post.IsEdited = true

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("post", postID)
		}
		return err
	}
	if post.UserID != userID {
		admin, adminErr := s.isAdmin(ctx, userID)
		if adminErr != nil {
			return adminErr
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	// Library entries derived from this post's uploads go with it.
	return s.videoRepo.DeleteByPostID(ctx, postID)
}

func (s *PostService) TogglePin(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.ownedPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	post.IsPinned = !post.IsPinned
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ToggleArchive(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.ownedPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	post.IsArchived = !post.IsArchived
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// SchedulePost moves an existing post into the scheduled state: it becomes a
// draft again and stays one until the publish sweep reaches the given time.
func (s *PostService) SchedulePost(ctx context.Context, postID, userID uint, at time.Time) (*models.Post, error) {
	post, err := s.ownedPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !at.After(time.Now()) {
		return nil, models.NewValidationError("scheduled_at must be in the future")
	}
	post.ScheduledAt = &at
	post.IsDraft = true
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListUserPosts(ctx context.Context, ownerID, currentUserID uint, req models.PageRequest) (models.Paginated[*models.Post], error) {
	includeDrafts := ownerID == currentUserID
	posts, total, err := s.postRepo.ListByUser(ctx, ownerID, includeDrafts, req)
	if err != nil {
		return models.Paginated[*models.Post]{}, err
	}
	if err := s.attachLiked(ctx, currentUserID, posts...); err != nil {
		return models.Paginated[*models.Post]{}, err
	}
	return models.NewPaginated(posts, req, total), nil
}

func (s *PostService) Explore(ctx context.Context, currentUserID uint, req models.PageRequest) (models.Paginated[*models.Post], error) {
	posts, total, err := s.postRepo.ListPublic(ctx, req)
	if err != nil {
		return models.Paginated[*models.Post]{}, err
	}
	if err := s.attachLiked(ctx, currentUserID, posts...); err != nil {
		return models.Paginated[*models.Post]{}, err
	}
	return models.NewPaginated(posts, req, total), nil
}

// Feed assembles the follow-graph feed. The first default-sorted page is
// served cache-aside and tagged so any post write invalidates it.
func (s *PostService) Feed(ctx context.Context, userID uint, req models.PageRequest) (models.Paginated[*models.Post], error) {
	var page models.Paginated[*models.Post]

	cacheable := req.SortBy == "" && req.SortOrder.Normalize() == models.SortDesc
	if cacheable {
		err := cache.Aside(ctx, cache.FeedKey(userID, req.Page), &page, cache.FeedTTL, func() error {
			posts, total, err := s.postRepo.Feed(ctx, userID, req)
			if err != nil {
				return err
			}
			page = models.NewPaginated(posts, req, total)
			return nil
		}, cache.TagPosts)
		if err != nil {
			return models.Paginated[*models.Post]{}, err
		}
	} else {
		posts, total, err := s.postRepo.Feed(ctx, userID, req)
		if err != nil {
			return models.Paginated[*models.Post]{}, err
		}
		page = models.NewPaginated(posts, req, total)
	}

	if err := s.attachLiked(ctx, userID, page.Data...); err != nil {
		return models.Paginated[*models.Post]{}, err
	}
	return page, nil
}

func (s *PostService) SearchPosts(ctx context.Context, query string, currentUserID uint, req models.PageRequest) (models.Paginated[*models.Post], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Paginated[*models.Post]{}, models.NewValidationError("Search query is required")
	}
	posts, total, err := s.postRepo.Search(ctx, query, req)
	if err != nil {
		return models.Paginated[*models.Post]{}, err
	}
	if err := s.attachLiked(ctx, currentUserID, posts...); err != nil {
		return models.Paginated[*models.Post]{}, err
	}
	return models.NewPaginated(posts, req, total), nil
}

// TrackView records a view for the user; repeat views of the same post do
// not move the counter. Owners viewing their own post are not counted.
func (s *PostService) TrackView(ctx context.Context, postID, userID uint) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.NewNotFoundError("post", postID)
		}
		return false, err
	}
	if post.UserID == userID {
		return false, nil
	}
	if err := s.checkReadable(post, userID); err != nil {
		return false, err
	}
	return s.postRepo.TrackView(ctx, userID, postID)
}

func (s *PostService) ownedPost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", postID)
		}
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewForbiddenError("You can only modify your own posts")
	}
	return post, nil
}

// checkReadable enforces visibility: drafts are owner-only, private posts are
// visible to the owner and their followers.
func (s *PostService) checkReadable(post *models.Post, currentUserID uint) error {
	if post.UserID == currentUserID {
		return nil
	}
	if post.IsDraft {
		return models.NewNotFoundError("post", post.ID)
	}
	if !post.IsPublic {
		return models.NewForbiddenError("This post is private")
	}
	return nil
}

// attachLiked fills the computed Liked flag for the current user in one
// batched lookup.
func (s *PostService) attachLiked(ctx context.Context, currentUserID uint, posts ...*models.Post) error {
	if currentUserID == 0 || len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	likedIDs, err := s.postRepo.GetLikedPostIDs(ctx, currentUserID, ids)
	if err != nil {
		return err
	}
	liked := make(map[uint]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}
	for _, p := range posts {
		p.Liked = liked[p.ID]
	}
	return nil
}

// attachLinkPreview populates the link preview fields best-effort; a preview
// that cannot be fetched never fails post creation.
func (s *PostService) attachLinkPreview(ctx context.Context, post *models.Post, rawURL string) {
	if s.links == nil {
		return
	}
	link := sanitize.URL(rawURL)
	if link == "" {
		return
	}
	preview, err := s.links.Fetch(ctx, link)
	if err != nil || preview == nil {
		post.LinkURL = link
		return
	}
	post.LinkURL = link
	post.LinkTitle = preview.Title
	post.LinkDescription = preview.Description
	post.LinkImage = preview.Image
}

// PublishDue promotes draft posts whose scheduled time has passed. Each post
// is handled independently so one bad row cannot stall the rest of the batch.
// Returns how many posts were published.
func (s *PostService) PublishDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.postRepo.ListScheduledDue(ctx, now, scheduledBatch)
	if err != nil {
		return 0, err
	}
	published := 0
	for _, post := range due {
		post.IsDraft = false
		post.ScheduledAt = nil
		if err := s.postRepo.Update(ctx, post); err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to publish scheduled post",
				slog.Uint64("post_id", uint64(post.ID)),
				slog.Any("error", err),
			)
			continue
		}
		published++
		if s.bus != nil {
			s.bus.Publish(ctx, events.Engagement{
				Resource:   models.ResourcePost,
				ResourceID: post.ID,
				Verb:       events.VerbPublished,
				ActorID:    post.UserID,
				OwnerID:    post.UserID,
			})
		}
	}
	return published, nil
}

// indexVideos adds a video-library entry for each video attachment.
// Indexing is best-effort and never fails the post.
func (s *PostService) indexVideos(ctx context.Context, post *models.Post) {
	if s.videoRepo == nil {
		return
	}
	for _, u := range post.MediaURLs {
		if !videoExts[strings.ToLower(path.Ext(u))] {
			continue
		}
		postID := post.ID
		_ = s.videoRepo.Create(ctx, &models.Video{
			UserID:    post.UserID,
			PostID:    &postID,
			SourceURL: u,
		})
	}
}
