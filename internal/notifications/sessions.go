package notifications

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// sessionTTL is how long an issued websocket token stays claimable. Clients
// are expected to open the socket right after requesting the token.
const sessionTTL = 5 * time.Minute

const sessionKeyPrefix = "ws:session:"

// ErrInvalidSession is returned when a websocket token is unknown, expired,
// or already claimed.
var ErrInvalidSession = errors.New("invalid or expired websocket session")

// SessionStore issues one-time websocket tokens. Browsers cannot set an
// Authorization header on a websocket upgrade, so the client first trades its
// JWT for a short-lived token over HTTP and passes that token as a query
// parameter. Tokens live in Redis so any instance can honor them; without
// Redis an in-process fallback covers single-instance deployments.
type SessionStore struct {
	rdb *redis.Client

	mu    sync.Mutex
	local map[string]localSession
}

type localSession struct {
	userID    uint
	expiresAt time.Time
}

// NewSessionStore creates a session store backed by rdb, which may be nil.
func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{
		rdb:   rdb,
		local: make(map[string]localSession),
	}
}

// Issue creates a token for the user and returns it.
func (s *SessionStore) Issue(ctx context.Context, userID uint) (string, error) {
	token := uuid.NewString()

	if s.rdb != nil {
		key := sessionKeyPrefix + token
		if err := s.rdb.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), sessionTTL).Err(); err != nil {
			return "", err
		}
		return token, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(time.Now())
	s.local[token] = localSession{userID: userID, expiresAt: time.Now().Add(sessionTTL)}
	return token, nil
}

// Claim redeems a token exactly once and returns the user it was issued to.
func (s *SessionStore) Claim(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, ErrInvalidSession
	}

	if s.rdb != nil {
		key := sessionKeyPrefix + token
		val, err := s.rdb.GetDel(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return 0, ErrInvalidSession
		}
		if err != nil {
			return 0, err
		}
		userID, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return 0, ErrInvalidSession
		}
		return uint(userID), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.local[token]
	delete(s.local, token)
	if !ok || time.Now().After(sess.expiresAt) {
		return 0, ErrInvalidSession
	}
	return sess.userID, nil
}

func (s *SessionStore) pruneLocked(now time.Time) {
	for token, sess := range s.local {
		if now.After(sess.expiresAt) {
			delete(s.local, token)
		}
	}
}
