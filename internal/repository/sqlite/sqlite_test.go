package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/microfeed/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" creates a fresh database that exists only for this test —
// fast (no disk I/O), isolated, destroyed when the connection closes.
//
// t.Helper() makes failures report at the CALLER's line, and t.Cleanup is a
// test-scoped defer that also works inside subtests.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user and fails the test on error. The hash value
// is arbitrary — repository tests don't care about bcrypt.
func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %q: %v", username, err)
	}
	return user
}

// createTestPost inserts a post authored by the given user.
func createTestPost(t *testing.T, db *DB, authorID int64, content string) *model.Post {
	t.Helper()
	post := &model.Post{Content: content, AuthorID: authorID}
	if err := db.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}
