package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/devhire/backend/internal/api/middleware"
	"github.com/devhire/backend/internal/config"
	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
	cfg  *config.Config
}

func NewAuthHandler(auth *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

// Register issues an activation token; the account is not created
// until the mailed code comes back through Activate.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Please fill all the required fields")
		return
	}

	activationToken, err := h.auth.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":         "Please check your email " + req.Email + " to activate your account",
		"activationToken": activationToken,
	})
}

func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActivationToken string `json:"activation_token"`
		ActivationCode  string `json:"activation_code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ActivationToken == "" || req.ActivationCode == "" {
		respondError(w, http.StatusBadRequest, "Please fill all the required fields")
		return
	}

	user, err := h.auth.Activate(r.Context(), req.ActivationToken, req.ActivationCode)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Please enter email and password")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.setAuthCookies(w, result)
	respondJSON(w, http.StatusOK, map[string]any{
		"user":        result.User,
		"accessToken": result.AccessToken,
	})
}

func (h *AuthHandler) SocialAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Avatar    string `json:"avatar"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "Please fill all the required fields")
		return
	}

	result, err := h.auth.SocialAuth(r.Context(), service.SocialAuthInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		AvatarURL: req.Avatar,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.setAuthCookies(w, result)
	respondJSON(w, http.StatusOK, map[string]any{
		"user":        result.User,
		"accessToken": result.AccessToken,
	})
}

// Logout clears the cookies and drops the cached session, which is
// what actually revokes the still-valid tokens.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	if err := h.auth.Logout(r.Context(), user.ID); err != nil {
		respondServiceError(w, err)
		return
	}

	h.clearAuthCookies(w)
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Logged out successfully",
	})
}

// Refresh rotates both tokens off the refresh cookie. It requires a
// live session, so a logged-out refresh token is useless.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refreshToken")
	if err != nil || cookie.Value == "" {
		respondServiceError(w, domain.ErrMissingToken)
		return
	}

	result, err := h.auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		// A token that fails verification is a bad request, unlike a
		// revoked session which means the login itself is gone.
		if errors.Is(err, domain.ErrInvalidToken) {
			respondError(w, http.StatusBadRequest, "Could not refresh token")
			return
		}
		respondServiceError(w, err)
		return
	}

	h.setAuthCookies(w, result)
	respondJSON(w, http.StatusOK, map[string]any{
		"accessToken": result.AccessToken,
	})
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, result *service.AuthResult) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    result.AccessToken,
		Path:     "/",
		MaxAge:   int(h.cfg.AccessTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    result.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.cfg.RefreshTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cfg.IsProduction(),
			SameSite: http.SameSiteLaxMode,
		})
	}
}
