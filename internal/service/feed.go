package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/microfeed/internal/apperror"
	"github.com/sakif/microfeed/internal/model"
	"github.com/sakif/microfeed/internal/repository"
)

const (
	MaxPostLength    = 10000
	MaxCommentLength = 2000

	// maxConcurrentPosts bounds the fan-out in ListPosts so a large feed
	// can't exhaust the SQLite connection pool with goroutines.
	maxConcurrentPosts = 8
)

// FeedService assembles the feed read model and handles post, comment, and
// reaction creation.
//
// All methods assume the caller has already been authenticated — the acting
// user id comes in as a plain argument, resolved by the auth middleware. The
// service never sees a request or a cookie.
type FeedService struct {
	posts     repository.PostRepository
	comments  repository.CommentRepository
	reactions repository.ReactionRepository
	users     repository.UserRepository
	logger    *slog.Logger
}

// NewFeedService creates a FeedService. The four repositories are usually the
// same *sqlite.DB, but taking them as separate interfaces keeps each method's
// real dependencies visible and lets tests mock exactly what they need.
func NewFeedService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	reactions repository.ReactionRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *FeedService {
	return &FeedService{
		posts:     posts,
		comments:  comments,
		reactions: reactions,
		users:     users,
		logger:    logger,
	}
}

// ListPosts returns every post with its author, reactions, and comments
// (each comment with its resolved author). Read-only: repeated calls with an
// unchanged store return identical results.
//
// FAN-OUT / FAN-IN:
// The per-post lookups are independent of each other, so each post is
// resolved in its own goroutine. Writing into feed[i] (a distinct index per
// goroutine, no shared element) keeps the assembled slice in the store's post
// order regardless of which goroutine finishes first — no mutex needed.
// errgroup propagates the first error and cancels the remaining lookups via
// the derived context.
func (s *FeedService) ListPosts(ctx context.Context) ([]model.PostWithMeta, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	feed := make([]model.PostWithMeta, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPosts)
	for i, post := range posts {
		g.Go(func() error {
			meta, err := s.resolvePost(gctx, post)
			if err != nil {
				return err
			}
			feed[i] = *meta
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return feed, nil
}

// resolvePost builds the PostWithMeta for one post: author, reactions, and
// comments are fetched concurrently, then each comment's author is resolved.
func (s *FeedService) resolvePost(ctx context.Context, post model.Post) (*model.PostWithMeta, error) {
	meta := &model.PostWithMeta{Post: post}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		author, err := s.resolveUser(gctx, post.AuthorID, "post", post.ID)
		if err != nil {
			return err
		}
		meta.Author = author
		return nil
	})

	g.Go(func() error {
		reactions, err := s.reactions.ListReactionsByPost(gctx, post.ID)
		if err != nil {
			return fmt.Errorf("listing reactions for post %d: %w", post.ID, err)
		}
		meta.Reactions = reactions
		return nil
	})

	g.Go(func() error {
		comments, err := s.comments.ListCommentsByPost(gctx, post.ID)
		if err != nil {
			return fmt.Errorf("listing comments for post %d: %w", post.ID, err)
		}

		// Comment authors are independent of each other too; indexed writes
		// preserve the comments' store order, same trick as the outer loop.
		withAuthors := make([]model.CommentWithAuthor, len(comments))
		cg, cctx := errgroup.WithContext(gctx)
		for i, comment := range comments {
			cg.Go(func() error {
				author, err := s.resolveUser(cctx, comment.AuthorID, "comment", comment.ID)
				if err != nil {
					return err
				}
				withAuthors[i] = model.CommentWithAuthor{Comment: comment, Author: author}
				return nil
			})
		}
		if err := cg.Wait(); err != nil {
			return err
		}
		meta.Comments = withAuthors
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return meta, nil
}

// resolveUser fetches an author row. A missing author means a foreign key the
// store should have enforced is broken — that's Inconsistent, not NotFound:
// the client asked for the feed, not for a user, and can't fix this with a
// different request.
func (s *FeedService) resolveUser(ctx context.Context, userID int64, kind string, refID int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("author row missing",
				slog.String("kind", kind),
				slog.Int64("refID", refID),
				slog.Int64("authorID", userID),
			)
			return nil, apperror.Inconsistent(
				fmt.Sprintf("author %d missing for %s %d", userID, kind, refID))
		}
		return nil, fmt.Errorf("resolving author %d: %w", userID, err)
	}
	return user, nil
}

// CreatePost validates and inserts a new post for the acting user.
//
// The handler already rejects structurally invalid bodies; the trim/empty
// check is repeated here because every caller needs the rule, not just HTTP.
func (s *FeedService) CreatePost(ctx context.Context, authorID int64, content string) (*model.Post, error) {
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, apperror.ValidationFailed("content", "content is required")
	}
	if len(content) > MaxPostLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("content must be %d characters or less", MaxPostLength))
	}

	post := &model.Post{
		Content:  content,
		AuthorID: authorID,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.Int64("authorID", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.Int64("postID", post.ID),
		slog.Int64("authorID", authorID),
	)

	return post, nil
}

// CreateComment validates and inserts a comment on an existing post.
// Returns apperror.ErrNotFound if the post does not exist; nothing is
// inserted in that case.
func (s *FeedService) CreateComment(ctx context.Context, authorID, postID int64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, apperror.ValidationFailed("content", "content is required")
	}
	if len(content) > MaxCommentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("content must be %d characters or less", MaxCommentLength))
	}

	// Confirm the post exists so the caller gets a 404 instead of a foreign
	// key failure dressed up as a 500.
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.Int64("postID", postID),
			slog.Int64("authorID", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.Int64("commentID", comment.ID),
		slog.Int64("postID", postID),
		slog.Int64("authorID", authorID),
	)

	return comment, nil
}

// CreateReaction appends a like/dislike row to an existing post.
// Append-only: no check for a prior reaction by the same user on the same
// post. Counts are computed by summing rows, so repeat reactions accumulate.
func (s *FeedService) CreateReaction(ctx context.Context, userID, postID int64, isLike bool) (*model.Reaction, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	reaction := &model.Reaction{
		PostID: postID,
		UserID: userID,
		IsLike: isLike,
	}
	if err := s.reactions.CreateReaction(ctx, reaction); err != nil {
		s.logger.Error("failed to create reaction",
			slog.Int64("postID", postID),
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating reaction: %w", err)
	}

	s.logger.Info("reaction created",
		slog.Int64("reactionID", reaction.ID),
		slog.Int64("postID", postID),
		slog.Int64("userID", userID),
		slog.Bool("isLike", isLike),
	)

	return reaction, nil
}
