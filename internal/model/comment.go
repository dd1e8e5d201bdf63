package model

import "time"

// Comment is a reply attached to exactly one post. Append-only, like Post.
type Comment struct {
	ID        int64     `json:"id"        db:"id"`
	PostID    int64     `json:"postId"    db:"post_id"`
	AuthorID  int64     `json:"authorId"  db:"author_id"`
	Content   string    `json:"content"   db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
