package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_user_store.go -package=mocks holidays-app/internal/storage UserStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// UserStore defines the interface for user storage operations.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*UserRecord, error)
	// FindByOAuth returns nil and ErrNotFound if no user is linked to the provider account.
	FindByOAuth(ctx context.Context, oauthID, provider string) (*UserRecord, error)
	Create(ctx context.Context, u *UserRecord) error
}

// UserRepo provides methods for user operations.
// It implements the UserStore interface.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = "id, name, email, password, oauth_id, provider, created_at"

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*UserRecord, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (r *UserRepo) FindByOAuth(ctx context.Context, oauthID, provider string) (*UserRecord, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE oauth_id = ? AND provider = ?", oauthID, provider)
}

func (r *UserRepo) get(ctx context.Context, query string, args ...any) (*UserRecord, error) {
	var u UserRecord
	var createdAt any
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), args...).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.OAuthID, &u.Provider, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	u.CreatedAt = parseTimestamp(createdAt)
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *UserRecord) error {
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind("INSERT INTO users (name, email, password, oauth_id, provider) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		u.Name, u.Email, u.Password, u.OAuthID, u.Provider,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return nil
}

// parseTimestamp accepts the representations the two drivers return for timestamp columns.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	case []byte:
		return parseTimestamp(string(t))
	}
	return time.Time{}
}
