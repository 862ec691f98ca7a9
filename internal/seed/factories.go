// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ripple/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and integration tests.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post with realistic content but does not persist it.
// Useful for batching.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	tags := []string{
		strings.ReplaceAll(strings.ToLower(gofakeit.BuzzWord()), " ", ""),
		strings.ReplaceAll(strings.ToLower(gofakeit.Hobby()), " ", ""),
	}
	content := fmt.Sprintf("%s #%s #%s",
		gofakeit.Paragraph(1, 3, 8, " "), tags[0], tags[1])

	post := &models.Post{
		UserID:   user.ID,
		Content:  content,
		Hashtags: pq.StringArray(tags),
		PostType: models.PostTypeText,
		IsPublic: f.rng.Intn(10) > 1, // roughly one in five posts is private
	}

	if f.rng.Intn(3) == 0 {
		post.MediaURLs = pq.StringArray{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/800.jpg", gofakeit.UUID()),
		}
		post.PostType = models.PostTypeImage
	}

	// realistic created_at spread over the past 90 days
	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.CreateInBatches(&posts, 100).Error
}

// CreateComment persists a sample comment on the given resource.
func (f *Factory) CreateComment(user *models.User, rt models.ResourceType, resourceID uint) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:       user.ID,
		ResourceType: rt,
		ResourceID:   resourceID,
		Content:      gofakeit.Sentence(f.rng.Intn(12) + 3),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateCollection persists a sample collection for the user.
func (f *Factory) CreateCollection(user *models.User) (*models.Collection, error) {
	collection := &models.Collection{
		UserID:      user.ID,
		Name:        gofakeit.HipsterWord() + " " + gofakeit.NounAbstract(),
		Description: gofakeit.Sentence(8),
		IsPublic:    f.rng.Intn(4) > 0,
	}
	if err := f.db.Create(collection).Error; err != nil {
		return nil, err
	}
	return collection, nil
}

// randomReaction picks a reaction type with a bias toward like/love.
func (f *Factory) randomReaction() models.ReactionType {
	reactions := []models.ReactionType{
		models.ReactionLike, models.ReactionLike, models.ReactionLove,
		models.ReactionLove, models.ReactionLaugh, models.ReactionWow,
		models.ReactionSad, models.ReactionAngry,
	}
	return reactions[f.rng.Intn(len(reactions))]
}
