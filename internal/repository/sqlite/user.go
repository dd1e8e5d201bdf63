package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sakif/microfeed/internal/apperror"
	"github.com/sakif/microfeed/internal/model"
	"github.com/sakif/microfeed/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` verifies at compile time that *Y implements X.
// Without it, a missing method would only surface where *DB is passed to
// something expecting the interface — which could be much later.
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user row and fills in the generated ID.
//
// The UNIQUE constraint on username is the source of truth for duplicates:
// even if two registrations race past the service-level existence check, the
// database rejects the second insert and we translate that into a Conflict.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		user.Username,
		user.PasswordHash,
	)
	if err != nil {
		// modernc.org/sqlite reports constraint violations as
		// "constraint failed: UNIQUE constraint failed: users.username".
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
			return apperror.Conflict("username", user.Username)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	// LastInsertId returns the AUTOINCREMENT id SQLite assigned to the row.
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUserByID retrieves a single user by id.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE id = ?`,
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash)

	if err != nil {
		// sql.ErrNoRows is a sentinel, not a real failure — translate it to
		// our domain's NotFound so callers can map it properly.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &user, nil
}

// GetUserByUsername retrieves a single user by username. Used by login and by the
// duplicate check at registration.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("user not found with username %s", username),
			}
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}

	return &user, nil
}
