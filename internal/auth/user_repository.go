package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the interface for account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	GrantAuthorisation(ctx context.Context, id, name string) error
	RevokeAuthorisation(ctx context.Context, id, name string) error
	Count(ctx context.Context) (int, error)
}

// SQLiteUserRepository implements UserRepository using SQLite.
//
// Authorisations live in a child table keyed on (user_id, name), so a
// grant or revocation is a single statement and concurrent calls cannot
// lose each other's writes.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed user repository.
func NewUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Create inserts a new account. The ID is generated if empty. Returns
// ErrEmailExists when the email is already registered.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = "usr-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Format(time.RFC3339)
	user.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, is_admin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, boolToInt(user.IsAdmin), now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("creating user: %w", err)
	}

	if user.Authorisations == nil {
		user.Authorisations = []string{}
	}
	return nil
}

// GetByID retrieves an account by its unique ID, authorisations included.
func (r *SQLiteUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, "SELECT id, name, email, password_hash, is_admin, created_at FROM users WHERE id = ?", id)
}

// GetByEmail retrieves an account by email, authorisations included.
func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, "SELECT id, name, email, password_hash, is_admin, created_at FROM users WHERE email = ?", email)
}

// List returns all accounts ordered by creation date, authorisations
// included.
func (r *SQLiteUserRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, email, password_hash, is_admin, created_at FROM users ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	for i := range users {
		auths, err := r.authorisations(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Authorisations = auths
	}

	if users == nil {
		users = []User{}
	}
	return users, nil
}

// GrantAuthorisation adds a named authorisation to an account. Returns
// ErrAlreadyAuthorised if the account already holds it and
// ErrUserNotFound if the account does not exist.
func (r *SQLiteUserRepository) GrantAuthorisation(ctx context.Context, id, name string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_authorisations (user_id, authorisation, created_at) VALUES (?, ?, ?)",
		id, name, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyAuthorised
		}
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("granting authorisation: %w", err)
	}
	return nil
}

// RevokeAuthorisation removes a named authorisation from an account.
// Returns ErrNotAuthorised if the account does not hold it.
func (r *SQLiteUserRepository) RevokeAuthorisation(ctx context.Context, id, name string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM user_authorisations WHERE user_id = ? AND authorisation = ?",
		id, name,
	)
	if err != nil {
		return fmt.Errorf("revoking authorisation: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrNotAuthorised
	}
	return nil
}

// Count returns the total number of accounts.
func (r *SQLiteUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// getUser executes a query, scans a single account, and attaches its
// authorisations.
func (r *SQLiteUserRepository) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	u, err := scanUserRow(row)
	if err != nil {
		return nil, err
	}

	auths, err := r.authorisations(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Authorisations = auths
	return u, nil
}

// authorisations returns the account's granted names in a stable order.
func (r *SQLiteUserRepository) authorisations(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT authorisation FROM user_authorisations WHERE user_id = ? ORDER BY authorisation ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("loading authorisations: %w", err)
	}
	defer rows.Close()

	auths := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning authorisation: %w", err)
		}
		auths = append(auths, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating authorisations: %w", err)
	}
	return auths, nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanUser scans an account from sql.Rows.
func scanUser(rows *sql.Rows) (*User, error) {
	return scanUserFrom(rows)
}

// scanUserRow scans an account from sql.Row.
func scanUserRow(row *sql.Row) (*User, error) {
	return scanUserFrom(row)
}

// scanUserFrom scans an account from any scanner (Row or Rows).
func scanUserFrom(s scanner) (*User, error) {
	var u User
	var isAdmin int
	var createdAt string

	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &isAdmin, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.IsAdmin = isAdmin != 0
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled

	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation checks if a SQLite error is a FOREIGN KEY constraint violation.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
