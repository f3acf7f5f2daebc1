// Package verification keeps short-lived onboarding verification codes in
// Redis. Codes are single use: a successful confirm consumes the key.
package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ChannelEmail = "email"
	ChannelPhone = "phone"

	DefaultTTL = 10 * time.Minute
)

var ErrCodeMismatch = errors.New("verification code invalid or expired")

type CodeStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCodeStore(rdb *redis.Client, ttl time.Duration) *CodeStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CodeStore{rdb: rdb, ttl: ttl}
}

// Issue stores a fresh 6-digit code for the user and channel, replacing any
// previous one, and returns it for dispatch.
func (s *CodeStore) Issue(ctx context.Context, channel string, userID uuid.UUID) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", err
	}

	if err := s.rdb.Set(ctx, key(channel, userID), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store verification code: %w", err)
	}

	return code, nil
}

// Confirm checks the submitted code and deletes it on match. A wrong code
// leaves the stored one in place so the user can retry until the TTL runs out.
func (s *CodeStore) Confirm(ctx context.Context, channel string, userID uuid.UUID, code string) error {
	stored, err := s.rdb.Get(ctx, key(channel, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeMismatch
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrCodeMismatch
	}

	return s.rdb.Del(ctx, key(channel, userID)).Err()
}

func key(channel string, userID uuid.UUID) string {
	return fmt.Sprintf("verify:%s:%s", channel, userID)
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
