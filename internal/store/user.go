package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is returned when a username is already taken.
	ErrUserExists = errors.New("username already taken")

	// ErrUserNotFound is returned when no account has the given username.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when a login does not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// MinPasswordLength is the shortest password Create accepts.
const MinPasswordLength = 4

// User is a local player account.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepo manages player accounts.
type UserRepo struct {
	db *sql.DB
}

var userColumns = []string{
	primaryKeyColumn, "username", "password_hash", "avatar", "created_at", "updated_at",
}

// Create registers a new account with a bcrypt-hashed password.
func (r *UserRepo) Create(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("create user: empty username")
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("create user: password must be at least %d characters", MinPasswordLength)
	}

	if _, err := r.Get(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	query, args := builder.Insert(usersTable).
		Columns("username", "password_hash", "avatar", "created_at", "updated_at").
		Values(username, string(hash), "", now, now).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return r.Get(ctx, username)
}

// Authenticate returns the account if password matches.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := r.Get(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns the account with the given username.
func (r *UserRepo) Get(ctx context.Context, username string) (*User, error) {
	query, args := builder.Select(userColumns...).
		From(builder.Table(usersTable)).
		Where(entsql.EQ("username", username)).
		Query()

	var u User
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// List returns all accounts ordered by username.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	query, args := builder.Select(userColumns...).
		From(builder.Table(usersTable)).
		OrderBy("username").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Avatar, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SetAvatar updates the account's avatar.
func (r *UserRepo) SetAvatar(ctx context.Context, username, avatar string) error {
	query, args := builder.Update(usersTable).
		Set("avatar", avatar).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.EQ("username", username)).
		Query()
	return execOne(ctx, r.db, query, args, "set avatar")
}

// Rename changes a username and moves its score history and events with it.
func (r *UserRepo) Rename(ctx context.Context, from, to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("rename user: empty username")
	}
	if from == to {
		return nil
	}
	if _, err := r.Get(ctx, to); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		query, args := builder.Update(usersTable).
			Set("username", to).
			Set("updated_at", time.Now().UTC()).
			Where(entsql.EQ("username", from)).
			Query()
		if err := execOne(ctx, tx, query, args, "rename user"); err != nil {
			return err
		}
		for _, table := range []string{scoresTable, quizEventsTable} {
			query, args := builder.Update(table).
				Set("user_id", to).
				Where(entsql.EQ("user_id", from)).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("rename user in %s: %w", table, err)
			}
		}
		return nil
	})
}

// Delete removes an account together with its score history.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		query, args := builder.Delete(scoresTable).
			Where(entsql.EQ("user_id", username)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete scores: %w", err)
		}
		query, args = builder.Delete(usersTable).
			Where(entsql.EQ("username", username)).
			Query()
		return execOne(ctx, tx, query, args, "delete user")
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execOne runs a statement that must touch exactly one user row.
func execOne(ctx context.Context, db execer, query string, args []any, op string) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
