package repository

import (
	"context"

	"github.com/sakif/microfeed/internal/model"
)

// Method names are qualified (CreatePost, not Create) because a single
// storage type implements all four interfaces against one schema.

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id int64) (*model.Post, error)
	// ListPosts returns all posts in insertion order (ascending id).
	ListPosts(ctx context.Context) ([]model.Post, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	// ListCommentsByPost returns the post's comments in insertion order.
	ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
}

type ReactionRepository interface {
	CreateReaction(ctx context.Context, reaction *model.Reaction) error
	// ListReactionsByPost returns the post's reactions in insertion order.
	ListReactionsByPost(ctx context.Context, postID int64) ([]model.Reaction, error)
}
