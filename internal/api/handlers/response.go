package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/devhire/backend/internal/domain"
)

// respondJSON writes the standard success envelope. Extra fields are
// merged in beside the success flag.
func respondJSON(w http.ResponseWriter, status int, fields map[string]any) {
	payload := map[string]any{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR [handlers.respondJSON] failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

// respondServiceError maps domain sentinel errors onto HTTP statuses.
// Unknown errors become a generic 500 so internals never leak.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(w, http.StatusBadRequest, "Invalid email or password")
	case errors.Is(err, domain.ErrEmailExists):
		respondError(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, domain.ErrMissingToken):
		respondError(w, http.StatusBadRequest, "Please login to continue")
	case errors.Is(err, domain.ErrInvalidActivation):
		respondError(w, http.StatusBadRequest, "Invalid activation code")
	case errors.Is(err, domain.ErrMailDelivery):
		respondError(w, http.StatusBadRequest, "Could not send activation email, please try again")
	case errors.Is(err, domain.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "Invalid token, please login again")
	case errors.Is(err, domain.ErrSessionExpired):
		respondError(w, http.StatusUnauthorized, "Please login to access this resource")
	case errors.Is(err, domain.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrJobOfferNotFound):
		respondError(w, http.StatusNotFound, "Job offer not found")
	case errors.Is(err, domain.ErrPostNotFound):
		respondError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, domain.ErrCommentNotFound):
		respondError(w, http.StatusNotFound, "Comment not found")
	case errors.Is(err, domain.ErrAlreadyApplied):
		respondError(w, http.StatusBadRequest, "You have already applied for this job offer")
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, "You are not allowed to access this resource")
	case errors.Is(err, domain.ErrMissingFields):
		respondError(w, http.StatusBadRequest, "Please fill all the required fields")
	default:
		log.Printf("ERROR [handlers] unexpected error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
