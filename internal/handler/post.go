package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkwell/inkwell/internal/handler/dto"
	"github.com/inkwell/inkwell/internal/service"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	svc    *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.UserID == nil {
		h.handleServiceError(w, service.ErrUserIDRequired)
		return
	}

	post, err := h.svc.CreatePost(r.Context(), service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		UserID:  *req.UserID,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("post_created",
		"post_id", post.ID,
		"user_id", post.UserID,
	)

	writeJSON(w, http.StatusOK, dto.ToPostResponse(post))
}

// List handles GET /posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPosts(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPostListResponse(posts))
}

// Get handles GET /posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	post, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPostResponse(post))
}

// UpdateContent handles PUT /posts/{id}?content=...
// The new content travels as a query parameter, not in the body.
func (h *PostHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	content := r.URL.Query().Get("content")

	post, err := h.svc.UpdatePostContent(r.Context(), id, content)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("post_updated", "post_id", id)

	writeJSON(w, http.StatusOK, dto.ToPostResponse(post))
}

// Delete handles DELETE /posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeletePost(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("post_deleted", "post_id", id)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Post deleted"})
}

// handleServiceError maps service errors to HTTP responses.
func (h *PostHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "POST_NOT_FOUND", "Post not found")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrTitleRequired):
		writeError(w, http.StatusUnprocessableEntity, "TITLE_REQUIRED", "Title is required")
	case errors.Is(err, service.ErrContentRequired):
		writeError(w, http.StatusUnprocessableEntity, "CONTENT_REQUIRED", "Content is required")
	case errors.Is(err, service.ErrUserIDRequired):
		writeError(w, http.StatusUnprocessableEntity, "USER_ID_REQUIRED", "user_id is required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
