package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeder populates the database with a realistic engagement graph: users who
// follow each other, posts with uneven popularity, and likes, reactions,
// comments, shares, and bookmarks distributed across them.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rng     *rand.Rand
}

// NewSeeder creates a Seeder bound to the given DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Join and engagement tables go first so
// foreign keys never block the deletes.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	if err := s.db.Exec("DELETE FROM collection_posts").Error; err != nil {
		log.Printf("warning: could not clear collection_posts: %v", err)
	}
	tables := []interface{}{
		&models.Report{}, &models.Bookmark{}, &models.Share{},
		&models.Reaction{}, &models.Like{}, &models.Comment{},
		&models.PostView{}, &models.Collection{}, &models.Video{},
		&models.Photo{}, &models.Post{}, &models.Follow{}, &models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	return nil
}

// SeedSocialMesh creates users and a follow graph among them. Each user
// follows roughly a quarter of the others, so feeds have content without
// being identical.
func (s *Seeder) SeedSocialMesh(numUsers int) ([]*models.User, error) {
	log.Printf("Seeding %d users...", numUsers)

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	var follows []models.Follow
	for _, follower := range users {
		for _, followee := range users {
			if follower.ID == followee.ID || s.rng.Intn(4) != 0 {
				continue
			}
			follows = append(follows, models.Follow{
				FollowerID: follower.ID,
				FolloweeID: followee.ID,
			})
		}
	}
	if len(follows) > 0 {
		if err := s.db.CreateInBatches(&follows, 200).Error; err != nil {
			return nil, fmt.Errorf("create follows: %w", err)
		}
	}
	log.Printf("Created %d follow edges", len(follows))

	return users, nil
}

// SeedEngagement creates posts for the given users and layers engagement on
// top of them. Counters are recomputed from the engagement rows afterwards so
// seeded data obeys the same bookkeeping the application maintains.
func (s *Seeder) SeedEngagement(users []*models.User, numPosts int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attribute posts to")
	}
	log.Printf("Seeding %d posts...", numPosts)

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.rng.Intn(len(users))]
		posts = append(posts, s.factory.BuildPost(author))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}

	var likes []models.Like
	var reactions []models.Reaction
	var shares []models.Share
	var bookmarks []models.Bookmark

	for _, post := range posts {
		// popularity is deliberately skewed; most posts get little attention
		popularity := s.rng.Intn(len(users)) / 3
		for _, user := range users {
			if user.ID == post.UserID || s.rng.Intn(len(users)) > popularity {
				continue
			}
			likes = append(likes, models.Like{
				UserID: user.ID, ResourceType: models.ResourcePost, ResourceID: post.ID,
			})
			if s.rng.Intn(3) == 0 {
				reactions = append(reactions, models.Reaction{
					UserID: user.ID, ResourceType: models.ResourcePost, ResourceID: post.ID,
					ReactionType: s.factory.randomReaction(),
				})
			}
			if s.rng.Intn(8) == 0 {
				shares = append(shares, models.Share{
					UserID: user.ID, ResourceType: models.ResourcePost, ResourceID: post.ID,
				})
			}
			if s.rng.Intn(6) == 0 {
				bookmarks = append(bookmarks, models.Bookmark{
					UserID: user.ID, ResourceType: models.ResourcePost, ResourceID: post.ID,
				})
			}
			if s.rng.Intn(5) == 0 {
				if _, err := s.factory.CreateComment(user, models.ResourcePost, post.ID); err != nil {
					return nil, fmt.Errorf("create comment: %w", err)
				}
			}
		}
	}

	onConflictNothing := clause.OnConflict{DoNothing: true}
	if len(likes) > 0 {
		if err := s.db.Clauses(onConflictNothing).CreateInBatches(&likes, 200).Error; err != nil {
			return nil, fmt.Errorf("create likes: %w", err)
		}
	}
	if len(reactions) > 0 {
		if err := s.db.Clauses(onConflictNothing).CreateInBatches(&reactions, 200).Error; err != nil {
			return nil, fmt.Errorf("create reactions: %w", err)
		}
	}
	if len(shares) > 0 {
		if err := s.db.Clauses(onConflictNothing).CreateInBatches(&shares, 200).Error; err != nil {
			return nil, fmt.Errorf("create shares: %w", err)
		}
	}
	if len(bookmarks) > 0 {
		if err := s.db.Clauses(onConflictNothing).CreateInBatches(&bookmarks, 200).Error; err != nil {
			return nil, fmt.Errorf("create bookmarks: %w", err)
		}
	}

	if err := s.recountPostCounters(); err != nil {
		return nil, err
	}

	log.Printf("Created %d likes, %d reactions, %d shares, %d bookmarks",
		len(likes), len(reactions), len(shares), len(bookmarks))
	return posts, nil
}

// SeedCollections gives a subset of users a collection holding a few of the
// seeded posts.
func (s *Seeder) SeedCollections(users []*models.User, posts []*models.Post) error {
	for _, user := range users {
		if s.rng.Intn(3) != 0 || len(posts) == 0 {
			continue
		}
		collection, err := s.factory.CreateCollection(user)
		if err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
		count := 0
		for _, post := range posts {
			if s.rng.Intn(10) != 0 || !post.IsPublic {
				continue
			}
			err := s.db.Exec(
				"INSERT INTO collection_posts (collection_id, post_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
				collection.ID, post.ID).Error
			if err != nil {
				return fmt.Errorf("add post to collection: %w", err)
			}
			count++
		}
		if count > 0 {
			if err := s.db.Model(collection).UpdateColumn("posts_count", count).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// recountPostCounters derives every post counter from the engagement rows.
func (s *Seeder) recountPostCounters() error {
	counters := map[string]string{
		"likes_count":     "likes",
		"reactions_count": "reactions",
		"shares_count":    "shares",
		"bookmarks_count": "bookmarks",
		"comments_count":  "comments",
	}
	for column, table := range counters {
		query := fmt.Sprintf(
			`UPDATE posts SET %s = (
				SELECT COUNT(*) FROM %s
				WHERE %s.resource_type = 'post' AND %s.resource_id = posts.id
			)`, column, table, table, table)
		if err := s.db.Exec(query).Error; err != nil {
			return fmt.Errorf("recount %s: %w", column, err)
		}
	}
	return nil
}
