package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pudimaria/storefront-backend/pkg/logger"
	redislib "github.com/redis/go-redis/v9"
)

type persistence interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// SessionStore loads and saves per-session carts in Redis. The in-memory cart
// stays the source of truth for the request; a failed write is logged and
// otherwise ignored, a failed or missing read yields an empty cart.
type SessionStore struct {
	store persistence
	ttl   time.Duration
	logg  *logger.Logger
}

// NewSessionStore builds a session store. A nil persistence backend degrades
// to per-request in-memory carts.
func NewSessionStore(store persistence, ttl time.Duration, logg *logger.Logger) *SessionStore {
	return &SessionStore{store: store, ttl: ttl, logg: logg}
}

// Load restores the cart saved for the session. The serialized items are
// taken verbatim; they are not re-validated against inventory here, stock
// reconciliation recomputes availability at the next decision point.
func (s *SessionStore) Load(ctx context.Context, sessionID string) *Cart {
	if s == nil || s.store == nil || sessionID == "" {
		return New()
	}

	raw, err := s.store.Get(ctx, s.store.CartKey(sessionID))
	if err != nil {
		if !errors.Is(err, redislib.Nil) && s.logg != nil {
			s.logg.Warn(s.logg.WithCartSession(ctx, sessionID), "cart load failed, starting empty")
		}
		return New()
	}

	restored := New()
	if err := json.Unmarshal([]byte(raw), restored); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithCartSession(ctx, sessionID), "cart payload corrupt, starting empty")
		}
		return New()
	}
	return restored
}

// Save persists the cart for the session. Persistence failure is non-fatal.
func (s *SessionStore) Save(ctx context.Context, sessionID string, c *Cart) {
	if s == nil || s.store == nil || sessionID == "" || c == nil {
		return
	}

	payload, err := json.Marshal(c)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithCartSession(ctx, sessionID), "cart serialization failed", err)
		}
		return
	}

	if err := s.store.Set(ctx, s.store.CartKey(sessionID), string(payload), s.ttl); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithCartSession(ctx, sessionID), "cart save failed, keeping in-memory state")
		}
	}
}

// Drop removes the persisted cart for the session.
func (s *SessionStore) Drop(ctx context.Context, sessionID string) {
	if s == nil || s.store == nil || sessionID == "" {
		return
	}
	if err := s.store.Del(ctx, s.store.CartKey(sessionID)); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithCartSession(ctx, sessionID), "cart drop failed")
	}
}
