package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/microfeed/internal/model"
	"github.com/sakif/microfeed/internal/repository"
)

var _ repository.ReactionRepository = (*DB)(nil)

// CreateReaction appends a new reaction row and fills in the generated ID.
//
// Deliberately no dedup: a second like from the same user on the same post
// inserts a second row. Counts are sums over all rows (see model.Reaction).
func (db *DB) CreateReaction(ctx context.Context, reaction *model.Reaction) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO reactions (post_id, user_id, is_like) VALUES (?, ?, ?)`,
		reaction.PostID,
		reaction.UserID,
		reaction.IsLike,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating reaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading reaction id: %w", err)
	}
	reaction.ID = id

	return nil
}

// ListReactionsByPost returns the post's reactions in insertion order.
func (db *DB) ListReactionsByPost(ctx context.Context, postID int64) ([]model.Reaction, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, post_id, user_id, is_like
		 FROM reactions
		 WHERE post_id = ?
		 ORDER BY id ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reactions for post %d: %w", postID, err)
	}
	defer rows.Close()

	reactions := []model.Reaction{}
	for rows.Next() {
		var rx model.Reaction
		if err := rows.Scan(&rx.ID, &rx.PostID, &rx.UserID, &rx.IsLike); err != nil {
			return nil, fmt.Errorf("sqlite: scanning reaction row: %w", err)
		}
		reactions = append(reactions, rx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reactions: %w", err)
	}

	return reactions, nil
}
