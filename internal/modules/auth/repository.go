package auth

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// Repository persists users in the wealth database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new user repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "users").Logger(),
	}
}

// Create inserts a new user row.
func (r *Repository) Create(user *User) error {
	_, err := r.db.Exec(
		`INSERT INTO users (id, email, password_hash, full_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByEmail returns the user with the given email, or ErrUserNotFound.
func (r *Repository) GetByEmail(email string) (*User, error) {
	return r.scanUser(r.db.QueryRow(
		`SELECT id, email, password_hash, full_name, created_at FROM users WHERE email = ?`, email))
}

// GetByID returns the user with the given id, or ErrUserNotFound.
func (r *Repository) GetByID(id string) (*User, error) {
	return r.scanUser(r.db.QueryRow(
		`SELECT id, email, password_hash, full_name, created_at FROM users WHERE id = ?`, id))
}

// EmailExists reports whether an account already uses the email.
func (r *Repository) EmailExists(email string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// Count returns the total number of registered users.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *Repository) scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}
