package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"animeapi/internal/domain"
	"animeapi/internal/pkg/logger"
)

// UserRepository resolves credential records for the authentication
// provider.
type UserRepository struct {
	db        *sql.DB
	dbTimeout time.Duration
	log       logger.Logger
}

// NewUserRepository wires the repository to the database.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *UserRepository {
	return &UserRepository{
		db:        db,
		dbTimeout: dbTimeout,
		log:       log,
	}
}

// Save inserts a new user, assigning its id. A username collision returns
// domain.ErrAlreadyExists.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	user.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctxTimeout,
		`INSERT INTO users (id, username, password_hash, roles) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Username, user.PasswordHash, pq.Array(user.Roles))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return domain.User{}, fmt.Errorf("user %q: %w", user.Username, domain.ErrAlreadyExists)
		}
		r.log.Error("user insert failed", err)
		return domain.User{}, fmt.Errorf("insert user %q: %w", user.Username, err)
	}

	return user, nil
}

// FindByUsername returns the user with the given username, or
// domain.ErrNotFound when no such user exists.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	var user domain.User
	err := r.db.QueryRowContext(ctxTimeout,
		`SELECT id, username, password_hash, roles FROM users WHERE username = $1`, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, pq.Array(&user.Roles))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
	}
	if err != nil {
		r.log.Error("user lookup failed", err)
		return domain.User{}, fmt.Errorf("query user %q: %w", username, err)
	}

	return user, nil
}
