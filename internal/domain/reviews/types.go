package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("review not found")
	QueryTimeoutDuration = time.Second * 5
)

type Review struct {
	ID         uuid.UUID `json:"id"`
	VendorID   uuid.UUID `json:"vendor_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Stats summarizes a vendor's review standing for its card.
type Stats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

type Store interface {
	Create(ctx context.Context, review *Review) error
	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]Review, int, error)
	GetStats(ctx context.Context, vendorID uuid.UUID) (*Stats, error)
	Delete(ctx context.Context, vendorID, reviewID uuid.UUID) error
}
