package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/microfeed/internal/apperror"
	"github.com/sakif/microfeed/internal/model"
	"github.com/sakif/microfeed/internal/repository"
)

var _ repository.PostRepository = (*DB)(nil)

// CreatePost inserts a new post and fills in the generated ID and timestamp.
//
// POINTER RECEIVER ARGUMENT:
// We take *model.Post so the caller's struct gets the generated ID and
// CreatedAt after the call — same pattern as the user repository.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	post.CreatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (content, author_id, created_at) VALUES (?, ?, ?)`,
		post.Content,
		post.AuthorID,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading post id: %w", err)
	}
	post.ID = id

	return nil
}

// GetPostByID retrieves a single post by id. Returns apperror.ErrNotFound if no
// such post exists — the service uses this to 404 comment/reaction creation
// against unknown posts.
func (db *DB) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, content, author_id, created_at FROM posts WHERE id = ?`,
		id,
	).Scan(&post.ID, &post.Content, &post.AuthorID, &post.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}

	return &post, nil
}

// ListPosts returns every post in insertion order.
//
// ORDER BY id ASC *is* insertion order here: ids come from AUTOINCREMENT,
// which is monotonic and never reuses values. We order explicitly rather
// than relying on SQLite's unspecified default scan order.
func (db *DB) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, content, author_id, created_at FROM posts ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	// sql.Rows holds a pool connection — always close it.
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Content, &p.AuthorID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}

	// rows.Err() catches failures that happened during iteration.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}
