package model

// Reaction is a single like/dislike row on a post.
//
// There is deliberately NO uniqueness constraint on (user_id, post_id): every
// reaction action appends a new row, and like/dislike counts are computed by
// summing all rows for the post. A user can therefore react to the same post
// more than once. That matches the upstream behaviour — do not add dedup or
// upsert semantics here without treating it as an API change.
type Reaction struct {
	ID     int64 `json:"id"     db:"id"`
	PostID int64 `json:"postId" db:"post_id"`
	UserID int64 `json:"userId" db:"user_id"`
	IsLike bool  `json:"isLike" db:"is_like"`
}
