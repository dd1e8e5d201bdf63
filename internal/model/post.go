package model

import "time"

// Post is a text post in the feed. Posts are append-only: there is no update
// or delete operation anywhere in the API.
//
// The `json:"..."` tags tell encoding/json how to serialize this struct.
// Field names are camelCase on the wire to match what the frontend expects.
type Post struct {
	ID        int64     `json:"id"        db:"id"`
	Content   string    `json:"content"   db:"content"`
	AuthorID  int64     `json:"authorId"  db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CommentWithAuthor is a Comment with its author row resolved.
type CommentWithAuthor struct {
	Comment
	Author *User `json:"author"`
}

// PostWithMeta is the read model returned by the feed endpoint: a Post with
// its author, all reactions, and all comments (each with its own author)
// resolved. It is assembled on every read and never persisted or cached.
//
// STRUCT EMBEDDING:
// Post is embedded (no field name), so PostWithMeta "inherits" its fields and
// they serialize flat: {"id":1,"content":"...","author":{...},...} — the same
// shape the original API produced by object spreading.
type PostWithMeta struct {
	Post
	Author    *User               `json:"author"`
	Reactions []Reaction          `json:"reactions"`
	Comments  []CommentWithAuthor `json:"comments"`
}
