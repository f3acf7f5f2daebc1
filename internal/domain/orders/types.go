package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	QueryTimeoutDuration = time.Second * 5
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	ItemID      uuid.UUID `json:"item_id"`
	Quantity    int       `json:"quantity"`
	TotalCents  int64     `json:"total_cents"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	Note        *string   `json:"note,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Filter struct {
	Status *Status
	Limit  int
	Offset int
}

type Store interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, filter Filter) ([]Order, int, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, filter Filter) ([]Order, int, error)
	ListAll(ctx context.Context, filter Filter) ([]Order, int, error)
	UpdateStatus(ctx context.Context, orderID, vendorID uuid.UUID, status Status) (*Order, error)
}
