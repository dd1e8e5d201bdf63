package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/microfeed/internal/apperror"
	"github.com/sakif/microfeed/internal/model"
)

// mockStore is a hand-written in-memory implementation of all four
// repository interfaces — the same shape as *sqlite.DB, minus the SQL.
//
// WHY MOCK?
// Service tests only test the business logic, not the database. The mock
// also lets us inject failures (listReactionsErr etc.) that are hard to
// trigger against real SQLite.
type mockStore struct {
	users     map[int64]*model.User
	posts     []*model.Post
	comments  []*model.Comment
	reactions []*model.Reaction
	nextID    int64

	// Injectable failures, nil means "behave normally".
	listPostsErr     error
	listReactionsErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		users: make(map[int64]*model.User),
	}
}

func (m *mockStore) genID() int64 {
	m.nextID++
	return m.nextID
}

// --- UserRepository ---

func (m *mockStore) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperror.Conflict("username", user.Username)
		}
	}
	user.ID = m.genID()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, &apperror.AppError{
		Err:     apperror.ErrNotFound,
		Message: fmt.Sprintf("user not found with username %s", username),
	}
}

// --- PostRepository ---

func (m *mockStore) CreatePost(_ context.Context, post *model.Post) error {
	post.ID = m.genID()
	post.CreatedAt = time.Now().UTC()
	stored := *post
	m.posts = append(m.posts, &stored)
	return nil
}

func (m *mockStore) GetPostByID(_ context.Context, id int64) (*model.Post, error) {
	for _, p := range m.posts {
		if p.ID == id {
			result := *p
			return &result, nil
		}
	}
	return nil, apperror.NotFound("post", id)
}

func (m *mockStore) ListPosts(_ context.Context) ([]model.Post, error) {
	if m.listPostsErr != nil {
		return nil, m.listPostsErr
	}
	result := make([]model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		result = append(result, *p)
	}
	return result, nil
}

// --- CommentRepository ---

func (m *mockStore) CreateComment(_ context.Context, comment *model.Comment) error {
	comment.ID = m.genID()
	comment.CreatedAt = time.Now().UTC()
	stored := *comment
	m.comments = append(m.comments, &stored)
	return nil
}

func (m *mockStore) ListCommentsByPost(_ context.Context, postID int64) ([]model.Comment, error) {
	result := []model.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			result = append(result, *c)
		}
	}
	return result, nil
}

// --- ReactionRepository ---

func (m *mockStore) CreateReaction(_ context.Context, reaction *model.Reaction) error {
	reaction.ID = m.genID()
	stored := *reaction
	m.reactions = append(m.reactions, &stored)
	return nil
}

func (m *mockStore) ListReactionsByPost(_ context.Context, postID int64) ([]model.Reaction, error) {
	if m.listReactionsErr != nil {
		return nil, m.listReactionsErr
	}
	result := []model.Reaction{}
	for _, r := range m.reactions {
		if r.PostID == postID {
			result = append(result, *r)
		}
	}
	return result, nil
}

// testLogger keeps test output quiet unless something is at error level.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

// newTestFeedService wires a FeedService to a fresh mock store.
func newTestFeedService(t *testing.T) (*FeedService, *mockStore) {
	t.Helper()
	store := newMockStore()
	svc := NewFeedService(store, store, store, store, testLogger())
	return svc, store
}

// addUser seeds a user directly into the mock store.
func addUser(t *testing.T, store *mockStore, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "irrelevant"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user %q: %v", username, err)
	}
	return user
}
