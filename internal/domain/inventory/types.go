package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("inventory item not found")
	QueryTimeoutDuration = time.Second * 5
)

// Item is one service offering on a vendor card.
type Item struct {
	ID          uuid.UUID `json:"id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Quantity    int       `json:"quantity"`
	Tags        []string  `json:"tags,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Store interface {
	Create(ctx context.Context, item *Item) error
	BulkCreate(ctx context.Context, items []*Item) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]Item, int, error)
	Update(ctx context.Context, vendorID, itemID uuid.UUID, fields map[string]any) (*Item, error)
	Delete(ctx context.Context, vendorID, itemID uuid.UUID) error
}
