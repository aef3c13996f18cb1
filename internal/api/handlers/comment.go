package handlers

import (
	"net/http"

	"github.com/devhire/backend/internal/api/middleware"
	"github.com/devhire/backend/internal/service"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	postID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.comments.Create(r.Context(), user, postID, req.Comment)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"comment": comment})
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	commentID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.comments.Update(r.Context(), user, commentID, req.Comment)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"comment": comment})
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	commentID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.comments.Delete(r.Context(), user, commentID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Comment deleted successfully",
	})
}

func (h *CommentHandler) GetByPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.comments.GetByPostID(r.Context(), postID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"comments": comments})
}
