package models

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// User is a tracked lifter. The server provisions a single local user at
// startup, but the schema supports more than one.
type User struct {
	ID                int64
	Email             string
	SmallestIncrement float64
	CreatedAt         time.Time
}

// CreateUser inserts a new user. Returns ErrDuplicateEmail if the email is
// already taken.
func CreateUser(db *sql.DB, email string, smallestIncrement float64) (*User, error) {
	result, err := db.Exec(
		`INSERT INTO users (email, smallest_increment) VALUES (?, ?)`,
		email, smallestIncrement,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("models: create user %q: %w", email, err)
	}

	id, _ := result.LastInsertId()
	return GetUserByID(db, id)
}

// GetUserByID retrieves a user by primary key.
func GetUserByID(db *sql.DB, id int64) (*User, error) {
	u := &User{}
	err := db.QueryRow(
		`SELECT id, email, smallest_increment, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.SmallestIncrement, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("models: get user %d: %w", id, err)
	}
	return u, nil
}

// GetUserSmallestIncrement returns the smallest weight increment the user's
// equipment can express. Progression math rounds every load to it.
func GetUserSmallestIncrement(db *sql.DB, id int64) (float64, error) {
	var increment float64
	err := db.QueryRow(
		`SELECT smallest_increment FROM users WHERE id = ?`, id,
	).Scan(&increment)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("models: get increment for user %d: %w", id, err)
	}
	return increment, nil
}
