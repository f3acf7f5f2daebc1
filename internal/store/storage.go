package store

import (
	"eventra/internal/domain/inventory"
	"eventra/internal/domain/onboarding"
	"eventra/internal/domain/orders"
	"eventra/internal/domain/pushtokens"
	"eventra/internal/domain/reviews"
	"eventra/internal/domain/users"
	"eventra/internal/domain/vendors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage bundles the per-entity stores so handlers take one dependency and
// tests can swap any store for a fake.
type Storage struct {
	Users      users.Store
	Vendors    vendors.Store
	Onboarding onboarding.Store
	Orders     orders.Store
	Inventory  inventory.Store
	Reviews    reviews.Store
	PushTokens pushtokens.Store
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:      users.NewRepository(db),
		Vendors:    vendors.NewRepository(db),
		Onboarding: onboarding.NewRepository(db),
		Orders:     orders.NewRepository(db),
		Inventory:  inventory.NewRepository(db),
		Reviews:    reviews.NewRepository(db),
		PushTokens: pushtokens.NewRepository(db),
	}
}
