package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MrEthical07/merchantauth/internal"
	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable is returned by [Store.Create] when the record cannot be
// written. Read paths never return it.
var ErrStoreUnavailable = errors.New("session store unavailable")

// DefaultPrefix is the Redis key namespace used when none is configured.
const DefaultPrefix = "ms"

// Store is a Redis-backed session store with create-once, read-many,
// delete-once records.
//
// A Store is safe for concurrent use when the underlying client is.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
	logger *slog.Logger

	onDegraded func(op string, err error)
}

// Option configures a [Store].
type Option func(*Store)

// WithClock overrides the time source used for LoginTime and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for degraded reads and deletes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDegradedHook registers a callback invoked whenever a read or delete
// absorbs a store fault. op is one of "get", "decode" or "delete".
func WithDegradedHook(fn func(op string, err error)) Option {
	return func(s *Store) {
		s.onDegraded = fn
	}
}

// NewStore creates a session [Store] backed by the given Redis client.
// prefix sets the key namespace; an empty prefix selects [DefaultPrefix].
func NewStore(rdb redis.UniversalClient, prefix string, opts ...Option) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	s := &Store{
		redis:  rdb,
		prefix: prefix,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

// Create persists a fresh session for the user and returns its identifier.
// The record expires after [TTL] both in Redis and by timestamp.
//
// Any write failure is returned wrapped in [ErrStoreUnavailable]; there is no
// fallback and no retry.
//
//	Performance: 1 Redis SET.
func (s *Store) Create(ctx context.Context, userID, email string) (string, error) {
	sessionID, err := internal.NewSessionID()
	if err != nil {
		return "", fmt.Errorf("%w: generate session id: %v", ErrStoreUnavailable, err)
	}

	login := s.now()
	sess := &Session{
		SessionID: sessionID,
		UserID:    userID,
		Email:     email,
		LoginTime: login,
		ExpiresAt: login.Add(TTL),
	}

	blob, err := Encode(sess)
	if err != nil {
		return "", fmt.Errorf("%w: encode: %v", ErrStoreUnavailable, err)
	}

	if err := s.redis.Set(ctx, s.key(sessionID), blob, TTL).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return sessionID, nil
}

// Get returns the stored record for sessionID. A missing key, an unreachable
// store and an undecodable blob all report absent; outages are logged.
//
// Get does not compare ExpiresAt; use [Store.Verify] for that.
//
//	Performance: 1 Redis GET.
func (s *Store) Get(ctx context.Context, sessionID string) (*Session, bool) {
	if sessionID == "" {
		return nil, false
	}

	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.degraded(ctx, "get", sessionID, err)
		}
		return nil, false
	}

	sess, err := Decode(data)
	if err != nil {
		s.degraded(ctx, "decode", sessionID, err)
		return nil, false
	}
	sess.SessionID = sessionID
	return sess, true
}

// Delete removes the record for sessionID. It is idempotent and never fails
// the caller: an absent record or unreachable store is a no-op.
//
//	Performance: 1 Redis DEL.
func (s *Store) Delete(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.redis.Del(ctx, s.key(sessionID)).Err(); err != nil {
		s.degraded(ctx, "delete", sessionID, err)
	}
}

// Verify returns the record only while it is unexpired. A record whose
// ExpiresAt has passed is deleted and reported absent.
//
//	Performance: 1 Redis GET, plus 1 DEL on lazy expiry.
func (s *Store) Verify(ctx context.Context, sessionID string) (*Session, bool) {
	sess, ok := s.Get(ctx, sessionID)
	if !ok {
		return nil, false
	}
	if sess.Expired(s.now()) {
		s.Delete(ctx, sessionID)
		return nil, false
	}
	return sess, true
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return time.Since(start), nil
}

func (s *Store) degraded(ctx context.Context, op, sessionID string, err error) {
	s.logger.WarnContext(ctx, "session: store degraded",
		slog.String("op", op),
		slog.String("session", internal.Truncate(sessionID)),
		slog.Any("error", err),
	)
	if s.onDegraded != nil {
		s.onDegraded(op, err)
	}
}
