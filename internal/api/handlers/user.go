package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/devhire/backend/internal/api/middleware"
	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	me, err := h.users.GetMe(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": me})
}

func (h *UserHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.users.GetPublicProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": profile})
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Bio       string `json:"bio"`
		Website   string `json:"website"`
		LinkedIn  string `json:"linkedin"`
		GitHub    string `json:"github"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, service.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Bio:       req.Bio,
		Website:   req.Website,
		LinkedIn:  req.LinkedIn,
		GitHub:    req.GitHub,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "Please enter current and new password")
		return
	}

	updated, err := h.users.UpdatePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	var req struct {
		Avatar string `json:"avatar"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Avatar == "" {
		respondError(w, http.StatusBadRequest, "Please provide an avatar image")
		return
	}

	updated, err := h.users.UpdateAvatar(r.Context(), user.ID, req.Avatar)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (h *UserHandler) UpdateAdditionalInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	var req struct {
		Education  *domain.Education  `json:"education"`
		Experience *domain.Experience `json:"experience"`
		Skill      string             `json:"skill"`
		CV         string             `json:"cv"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := h.users.UpdateAdditionalInfo(r.Context(), user.ID, service.AdditionalInfoInput{
		Education:  req.Education,
		Experience: req.Experience,
		Skill:      req.Skill,
		CVData:     req.CV,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": updated})
}

// DeleteSection removes one profile element: an education or
// experience row by id, a skill by value, the CV, or the social links.
func (h *UserHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	section := chi.URLParam(r, "id")
	elementID := r.URL.Query().Get("element")

	updated, err := h.users.DeleteSection(r.Context(), user.ID, section, elementID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsers(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	userID, err := uuid.Parse(req.ID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	role := domain.Role(req.Role)
	if !role.IsValid() {
		respondError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	updated, err := h.users.UpdateRole(r.Context(), userID, role)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "User deleted successfully",
	})
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
