package pushtokens

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoTokens          = errors.New("no push tokens registered")
	QueryTimeoutDuration = time.Second * 5
)

// DeviceToken is one Expo push token registered by a vendor's device.
type DeviceToken struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store interface {
	Save(ctx context.Context, userID uuid.UUID, token, platform string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	Remove(ctx context.Context, userID uuid.UUID, token string) error
	RemoveByTokens(ctx context.Context, tokens []string) error
}
