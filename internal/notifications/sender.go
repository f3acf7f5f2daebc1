package notifications

import (
	"context"

	"github.com/9ssi7/exponent"
)

// PushSender is the seam between review notifications and the Expo delivery
// client; tests substitute it the same way they substitute a Store.
type PushSender interface {
	Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error)
	PublishSingle(ctx context.Context, msg *exponent.Message) ([]*exponent.MessageResponse, error)
}

// ExpoSender delivers through the Expo push service.
type ExpoSender struct {
	client *exponent.Client
}

func NewExpoSender(client *exponent.Client) *ExpoSender {
	return &ExpoSender{client: client}
}

func (s *ExpoSender) Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	return s.client.Publish(ctx, msgs)
}

func (s *ExpoSender) PublishSingle(ctx context.Context, msg *exponent.Message) ([]*exponent.MessageResponse, error) {
	return s.client.PublishSingle(ctx, msg)
}
