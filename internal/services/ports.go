package services

import (
	"context"
	"restaurant_ordering/internal/models"
	"time"
)

// Cache stores JSON-serialisable values under a key for a bounded time.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Session struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionStore interface {
	SetSession(ctx context.Context, token string, session *Session, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// EventPublisher delivers order lifecycle events to downstream consumers.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type StaffAlerter interface {
	Alert(ctx context.Context, text string) error
}

type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, *models.OrderEvent) error { return nil }

type NopAlerter struct{}

func (NopAlerter) Alert(context.Context, string) error { return nil }
