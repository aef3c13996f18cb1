package handlers

import (
	"net/http"

	"github.com/devhire/backend/internal/api/middleware"
	"github.com/devhire/backend/internal/service"
)

type PostHandler struct {
	posts *service.PostService
}

func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

type postRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
}

func (req *postRequest) toInput() service.PostInput {
	return service.PostInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Tags:        req.Tags,
	}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	var req postRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.posts.Create(r.Context(), user, req.toInput())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"post": post})
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	postID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req postRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.posts.Update(r.Context(), user, postID, req.toInput())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	postID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), user, postID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Post deleted successfully",
	})
}

func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.GetAll(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *PostHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	postID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	post, err := h.posts.GetByID(r.Context(), postID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (h *PostHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	posts, err := h.posts.GetByUserID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *PostHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	posts, err := h.posts.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}
