package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/microfeed/internal/auth"
	"github.com/sakif/microfeed/internal/service"
)

// FeedHandler serves the four core endpoints: feed read, post creation,
// comment creation, and reaction creation. All of them sit behind the
// RequireAuth middleware, so the acting user id is always in the context.
type FeedHandler struct {
	feed   *service.FeedService
	logger *slog.Logger
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(feed *service.FeedService, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{
		feed:   feed,
		logger: logger,
	}
}

// HandleListPosts returns the assembled feed.
//
// HTTP: GET /api/posts
// 200 with an array of posts, each carrying author, reactions, and comments
// (comments with their own authors), in insertion order.
func (h *FeedHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.feed.ListPosts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleCreatePost creates a post authored by the acting user.
//
// HTTP: POST /api/posts
// BODY: {"content": "hello world"}
// 201 with the bare created post — the client re-fetches the feed for meta.
func (h *FeedHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid session required",
		})
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid post JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	post, err := h.feed.CreatePost(r.Context(), userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleCreateComment creates a comment on a post.
//
// HTTP: POST /api/posts/{postID}/comments
// BODY: {"content": "nice post"}
// 201 with the created comment; 404 if the post doesn't exist.
func (h *FeedHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid session required",
		})
		return
	}

	postID, err := postIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "postID must be a positive integer",
		})
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid comment JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	comment, err := h.feed.CreateComment(r.Context(), userID, postID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// HandleCreateReaction appends a like/dislike to a post.
//
// HTTP: POST /api/posts/{postID}/reactions
// BODY: {"isLike": true}
// 201 with the created reaction; 404 if the post doesn't exist.
//
// WHY *bool IN THE REQUEST STRUCT?
// With a plain bool, {"isLike":false} and {} decode identically — the zero
// value. A pointer distinguishes "field absent" (nil → 400) from "explicitly
// false" (a dislike), which are very different requests.
func (h *FeedHandler) HandleCreateReaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid session required",
		})
		return
	}

	postID, err := postIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "postID must be a positive integer",
		})
		return
	}

	var req struct {
		IsLike *bool `json:"isLike"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid reaction JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}
	if req.IsLike == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "isLike is required",
		})
		return
	}

	reaction, err := h.feed.CreateReaction(r.Context(), userID, postID, *req.IsLike)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reaction)
}

// postIDParam parses the {postID} URL segment. Rejecting non-numeric and
// non-positive values here keeps garbage out of the store layer entirely.
func postIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("postID"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}
