package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

var (
	ErrNotFound    = errors.New("user repository: user not found")
	ErrQueryFailed = errors.New("user repository: query failed")
)

type Repository struct {
	db *sql.DB
}

var _ UserRepository = &Repository{}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: conn}
}

const QueryUserFindByEmail = `
SELECT id, version, email, password_hash, created_at, updated_at FROM users
WHERE email = $1
LIMIT 1
`

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryUserFindByEmail, email)
	var u User
	if err := row.Scan(&u.ID, &u.Version, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find user with email %s: %v", ErrQueryFailed, email, err)
	}
	return &u, nil
}

const QueryUserFind = `
SELECT id, version, email, password_hash, created_at, updated_at FROM users
WHERE id = $1
LIMIT 1
`

func (r *Repository) Find(ctx context.Context, userID string) (*User, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryUserFind, userID)
	var u User
	if err := row.Scan(&u.ID, &u.Version, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find user with id %s: %v", ErrQueryFailed, userID, err)
	}
	return &u, nil
}
