package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		INSERT INTO users (first_name, last_name, email, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, q,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.Password.hash,
		user.Role,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		SELECT id, first_name, last_name, email, phone, password_hash, role,
		       is_active, email_verified_at, phone_verified_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		SELECT id, first_name, last_name, email, phone, password_hash, role,
		       is_active, email_verified_at, phone_verified_at, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	return r.scanUser(r.db.QueryRow(ctx, q, email))
}

// MarkVerified stamps email_verified_at or phone_verified_at depending on the
// channel. The stamp is set once; re-verification keeps the original time.
func (r *Repository) MarkVerified(ctx context.Context, id uuid.UUID, channel string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var column string
	switch channel {
	case "email":
		column = "email_verified_at"
	case "phone":
		column = "phone_verified_at"
	default:
		return fmt.Errorf("unknown verification channel %q", channel)
	}

	q := fmt.Sprintf(`UPDATE users SET %s = COALESCE(%s, NOW()), updated_at = NOW() WHERE id = $1`, column, column)

	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.Password.hash,
		&u.Role,
		&u.IsActive,
		&u.EmailVerifiedAt,
		&u.PhoneVerifiedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
