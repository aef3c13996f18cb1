package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/devhire/backend/internal/api/middleware"
	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/service"
)

type JobOfferHandler struct {
	offers *service.JobOfferService
}

func NewJobOfferHandler(offers *service.JobOfferService) *JobOfferHandler {
	return &JobOfferHandler{offers: offers}
}

type jobOfferRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	SalaryRange  string   `json:"salaryRange"`
	Remote       string   `json:"remote"`
	ContractType string   `json:"contractType"`
	Skills       []string `json:"skills"`
	Company      struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Website     string  `json:"website"`
		Logo        string  `json:"logo"`
		Location    string  `json:"location"`
		Lat         float64 `json:"lat"`
		Lng         float64 `json:"lng"`
	} `json:"company"`
}

func (req *jobOfferRequest) toInput() service.JobOfferInput {
	return service.JobOfferInput{
		Title:        req.Title,
		Description:  req.Description,
		SalaryRange:  req.SalaryRange,
		Remote:       req.Remote,
		ContractType: req.ContractType,
		Skills:       req.Skills,
		Company: service.CompanyInput{
			Name:        req.Company.Name,
			Description: req.Company.Description,
			Website:     req.Company.Website,
			Logo:        req.Company.Logo,
			Location:    req.Company.Location,
			Lat:         req.Company.Lat,
			Lng:         req.Company.Lng,
		},
	}
}

func (h *JobOfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}

	var req jobOfferRequest
	if !decodeBody(w, r, &req) {
		return
	}

	offer, err := h.offers.Create(r.Context(), user, req.toInput())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"jobOffer": offer})
}

func (h *JobOfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	offerID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req jobOfferRequest
	if !decodeBody(w, r, &req) {
		return
	}

	offer, err := h.offers.Update(r.Context(), user, offerID, req.toInput())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"jobOffer": offer})
}

func (h *JobOfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	offerID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.offers.Delete(r.Context(), user, offerID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Job offer deleted successfully",
	})
}

// GetAll serves the cached listing. Skill and title query params reuse
// the filter endpoints' store queries and bypass the cache.
func (h *JobOfferHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if skill := r.URL.Query().Get("skill"); skill != "" {
		offers, err := h.offers.FilterBySkill(r.Context(), skill)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"jobOffers": offers})
		return
	}
	if title := r.URL.Query().Get("title"); title != "" {
		offers, err := h.offers.FilterByTitle(r.Context(), title)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"jobOffers": offers})
		return
	}

	offers, err := h.offers.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"jobOffers": offers})
}

func (h *JobOfferHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	offerID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	offer, err := h.offers.GetOne(r.Context(), offerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"jobOffer": offer})
}

func (h *JobOfferHandler) Apply(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	offerID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.offers.Apply(r.Context(), user, offerID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Applied successfully",
	})
}

func (h *JobOfferHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	offerID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	favorited, err := h.offers.ToggleFavorite(r.Context(), user, offerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"favourited": favorited})
}

func (h *JobOfferHandler) GetApplicants(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	offerID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	applicants, err := h.offers.GetApplicants(r.Context(), user, offerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"applicants": applicants})
}

func (h *JobOfferHandler) UpdateApplicantStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	offerID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		ApplicantID string `json:"applicantId"`
		Status      string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	applicantID, err := uuid.Parse(req.ApplicantID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid applicant id")
		return
	}
	status := domain.ApplicantStatus(req.Status)
	if !status.IsValid() {
		respondError(w, http.StatusBadRequest, "Invalid applicant status")
		return
	}

	if err := h.offers.UpdateApplicantStatus(r.Context(), user, offerID, applicantID, status); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Applicant status updated",
	})
}
