package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys and tags. Tags are logical labels; invalidating a tag removes
// every key registered under it.
const (
	TagPosts       = "post"
	tagSetPrefix   = "tag:%s"
	userKeyPrefix  = "user:%d"
	postKeyPrefix  = "post:%d"
	photoKeyPrefix = "photo:%d"
	videoKeyPrefix = "video:%d"
	feedKeyPrefix  = "user:%d:feed:%d"
)

const (
	UserTTL = 5 * time.Minute
	PostTTL = 30 * time.Minute
	FeedTTL = 1 * time.Minute
)

func UserKey(userID uint) string  { return fmt.Sprintf(userKeyPrefix, userID) }
func PostKey(postID uint) string  { return fmt.Sprintf(postKeyPrefix, postID) }
func PhotoKey(id uint) string     { return fmt.Sprintf(photoKeyPrefix, id) }
func VideoKey(id uint) string     { return fmt.Sprintf(videoKeyPrefix, id) }
func PostTag(postID uint) string  { return fmt.Sprintf(postKeyPrefix, postID) }
func UserPostsTag(id uint) string { return fmt.Sprintf("user:%d:posts", id) }

// FeedKey caches the first feed page per user.
func FeedKey(userID uint, page int) string {
	return fmt.Sprintf(feedKeyPrefix, userID, page)
}

func tagSetKey(tag string) string { return fmt.Sprintf(tagSetPrefix, tag) }

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL, registering it under each tag
// so later tag invalidation can find it.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration, tags ...string) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	pipe := client.TxPipeline()
	pipe.Set(ctx, key, b, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagSetKey(tag), key)
		// Tag sets outlive their members slightly; expired members DEL as no-ops.
		pipe.Expire(ctx, tagSetKey(tag), ttl+time.Minute)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Aside tries Redis first; on miss it calls fetch (which must populate dest),
// then stores the result best-effort under the given tags.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error, tags ...string) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl, tags...)
	return nil
}

// Invalidate removes a single key.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateByTags removes every key registered under each tag, then the tag
// sets themselves. Called synchronously after every mutation.
func InvalidateByTags(ctx context.Context, tags ...string) {
	if client == nil {
		return
	}
	for _, tag := range tags {
		set := tagSetKey(tag)
		keys, err := client.SMembers(ctx, set).Result()
		if err != nil {
			continue
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Del(ctx, set)
	}
}

// InvalidateUser drops the cached user row.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
