package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/kurenai-11/socket-chat-app/internal/app/db"
)

// bcryptCost matches the work factor the accounts were originally hashed with.
const bcryptCost = 12

// Store persistence errors.
var (
	// ErrAlreadyExists indicates a create attempt for a taken login name.
	ErrAlreadyExists = errors.New("user already exists")

	// ErrNotFound indicates the requested account does not exist.
	ErrNotFound = errors.New("user not found")
)

// Store is the account persistence boundary consumed by the auth handlers.
type Store interface {
	// Create inserts a new account and returns it, or ErrAlreadyExists on a
	// login name conflict.
	Create(ctx context.Context, username, passwordHash, displayName string) (User, error)

	// GetByUsername returns the account with the given login name, or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (User, error)

	// GetByID returns the account with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (User, error)

	// RevokeRefreshToken appends the token to the account's revocation list.
	RevokeRefreshToken(ctx context.Context, id int64, token string) error

	// IsRefreshTokenRevoked reports whether the token was invalidated by a logout.
	IsRefreshTokenRevoked(ctx context.Context, id int64, token string) (bool, error)
}

// HashPassword produces a bcrypt hash for a new account password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps the given pool in a Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, username, passwordHash, displayName string) (User, error) {
	var u User

	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, display_name)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, display_name, password_hash`,
		username, passwordHash, displayName,
	).Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrAlreadyExists
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User

	err := s.pool.QueryRow(ctx,
		`SELECT id, username, display_name, password_hash FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to fetch user by username: %w", err)
	}

	return u, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64) (User, error) {
	var u User

	err := s.pool.QueryRow(ctx,
		`SELECT id, username, display_name, password_hash FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to fetch user by id: %w", err)
	}

	return u, nil
}

func (s *PostgresStore) RevokeRefreshToken(ctx context.Context, id int64, token string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET invalid_refresh_tokens = array_append(invalid_refresh_tokens, $2)
		 WHERE id = $1`,
		id, token,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) IsRefreshTokenRevoked(ctx context.Context, id int64, token string) (bool, error) {
	var revoked bool

	err := s.pool.QueryRow(ctx,
		`SELECT $2 = ANY(invalid_refresh_tokens) FROM users WHERE id = $1`,
		id, token,
	).Scan(&revoked)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to check refresh token revocation: %w", err)
	}

	return revoked, nil
}
