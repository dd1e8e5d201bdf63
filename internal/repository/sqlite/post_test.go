package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/microfeed/internal/apperror"
	"github.com/sakif/microfeed/internal/model"
)

func TestCreatePost(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice")

	before := time.Now().UTC()
	post := &model.Post{Content: "hello world", AuthorID: author.ID}
	if err := db.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	if post.ID == 0 {
		t.Error("CreatePost() did not set post.ID")
	}
	if post.CreatedAt.Before(before) {
		t.Errorf("CreatedAt %v is before the call at %v", post.CreatedAt, before)
	}
}

func TestGetPostByID(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice")
	created := createTestPost(t, db, author.ID, "persisted")

	got, err := db.GetPostByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPostByID() error = %v", err)
	}
	if got.Content != "persisted" {
		t.Errorf("Content = %q, want %q", got.Content, "persisted")
	}
	if got.AuthorID != author.ID {
		t.Errorf("AuthorID = %d, want %d", got.AuthorID, author.ID)
	}
}

func TestGetPostByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetPostByID(context.Background(), 12345)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetPostByID() error = %v, want ErrNotFound", err)
	}
}

func TestListPosts_InsertionOrder(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice")

	p1 := createTestPost(t, db, author.ID, "first")
	p2 := createTestPost(t, db, author.ID, "second")
	p3 := createTestPost(t, db, author.ID, "third")

	posts, err := db.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}

	if len(posts) != 3 {
		t.Fatalf("ListPosts() returned %d posts, want 3", len(posts))
	}
	for i, want := range []*model.Post{p1, p2, p3} {
		if posts[i].ID != want.ID {
			t.Errorf("posts[%d].ID = %d, want %d (insertion order broken)", i, posts[i].ID, want.ID)
		}
	}
}

func TestListPosts_Empty(t *testing.T) {
	db := newTestDB(t)

	posts, err := db.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	// Empty slice, not nil — serializes as [] rather than null.
	if posts == nil {
		t.Error("ListPosts() returned nil, want empty slice")
	}
	if len(posts) != 0 {
		t.Errorf("ListPosts() returned %d posts, want 0", len(posts))
	}
}
