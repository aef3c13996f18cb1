package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/devhire/backend/internal/cache"
	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/realtime"
	"github.com/devhire/backend/internal/repository"
	"github.com/devhire/backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobOfferService struct {
	offerRepo  repository.JobOfferRepository
	cache      cache.Cache
	imageStore storage.ImageStore
	hub        *realtime.Hub
	entityTTL  time.Duration
}

func NewJobOfferService(offerRepo repository.JobOfferRepository, c cache.Cache, imageStore storage.ImageStore, hub *realtime.Hub, entityTTL time.Duration) *JobOfferService {
	return &JobOfferService{
		offerRepo:  offerRepo,
		cache:      c,
		imageStore: imageStore,
		hub:        hub,
		entityTTL:  entityTTL,
	}
}

type CompanyInput struct {
	Name        string
	Description string
	Website     string
	Logo        string // data URI, or empty to keep the current logo
	Location    string
	Lat         float64
	Lng         float64
}

type JobOfferInput struct {
	Title        string
	Description  string
	SalaryRange  string
	Remote       string
	ContractType string
	Company      CompanyInput
	Skills       []string
}

func (in *JobOfferInput) validate() error {
	if in.Title == "" || in.Description == "" || in.SalaryRange == "" ||
		in.Remote == "" || in.ContractType == "" || len(in.Skills) == 0 ||
		in.Company.Name == "" {
		return domain.ErrMissingFields
	}
	return nil
}

func (s *JobOfferService) Create(ctx context.Context, actor *domain.User, input JobOfferInput) (*domain.JobOffer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	skills, err := marshalJSONStrings(input.Skills)
	if err != nil {
		return nil, err
	}

	offer := &domain.JobOffer{
		Title:        input.Title,
		Description:  input.Description,
		SalaryRange:  input.SalaryRange,
		Remote:       input.Remote,
		ContractType: input.ContractType,
		RecruiterID:  actor.ID,
		Skills:       skills,
		Company: domain.Company{
			Name:        input.Company.Name,
			Description: input.Company.Description,
			Website:     input.Company.Website,
			Location:    input.Company.Location,
			Lat:         input.Company.Lat,
			Lng:         input.Company.Lng,
		},
	}

	if input.Company.Logo != "" {
		upload, err := s.uploadLogo(ctx, input.Company.Logo)
		if err != nil {
			return nil, err
		}
		offer.Company.LogoURL = upload.URL
		offer.Company.LogoKey = upload.Key
	}

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}

	cache.Invalidate(ctx, s.cache, cache.AllJobOffersKey())
	s.hub.PublishOfferCreated(offer)
	return offer, nil
}

func (s *JobOfferService) Update(ctx context.Context, actor *domain.User, offerID uuid.UUID, input JobOfferInput) (*domain.JobOffer, error) {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if !canManage(actor, offer.RecruiterID) {
		return nil, domain.ErrForbidden
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	skills, err := marshalJSONStrings(input.Skills)
	if err != nil {
		return nil, err
	}

	offer.Title = input.Title
	offer.Description = input.Description
	offer.SalaryRange = input.SalaryRange
	offer.Remote = input.Remote
	offer.ContractType = input.ContractType
	offer.Skills = skills
	offer.Company.Name = input.Company.Name
	offer.Company.Description = input.Company.Description
	offer.Company.Website = input.Company.Website
	offer.Company.Location = input.Company.Location
	offer.Company.Lat = input.Company.Lat
	offer.Company.Lng = input.Company.Lng

	if input.Company.Logo != "" {
		if offer.Company.LogoKey != "" {
			if err := s.imageStore.Delete(ctx, offer.Company.LogoKey); err != nil {
				log.Printf("ERROR [joboffer.Update] failed to delete previous logo %s: %v", offer.Company.LogoKey, err)
			}
		}
		upload, err := s.uploadLogo(ctx, input.Company.Logo)
		if err != nil {
			return nil, err
		}
		offer.Company.LogoURL = upload.URL
		offer.Company.LogoKey = upload.Key
	}

	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, err
	}

	s.invalidate(ctx, offerID)
	s.hub.PublishOfferUpdated(offer)
	return offer, nil
}

func (s *JobOfferService) Delete(ctx context.Context, actor *domain.User, offerID uuid.UUID) error {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return err
	}

	if !canManage(actor, offer.RecruiterID) {
		return domain.ErrForbidden
	}

	if offer.Company.LogoKey != "" {
		if err := s.imageStore.Delete(ctx, offer.Company.LogoKey); err != nil {
			log.Printf("ERROR [joboffer.Delete] failed to delete logo %s: %v", offer.Company.LogoKey, err)
		}
	}

	if err := s.offerRepo.Delete(ctx, offerID); err != nil {
		return err
	}

	s.invalidate(ctx, offerID)
	s.hub.PublishOfferDeleted(offerID)
	return nil
}

// GetAll serves the collection cache-aside. The collection entry never
// expires; mutations delete it explicitly.
func (s *JobOfferService) GetAll(ctx context.Context) ([]*domain.JobOffer, error) {
	return cache.ReadThrough(ctx, s.cache, cache.AllJobOffersKey(), 0, func(ctx context.Context) ([]*domain.JobOffer, error) {
		offers, err := s.offerRepo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		listings := make([]*domain.JobOffer, 0, len(offers))
		for _, offer := range offers {
			listings = append(listings, offer.Listing())
		}
		return listings, nil
	})
}

// GetOne serves a single offer cache-aside with the entity TTL.
func (s *JobOfferService) GetOne(ctx context.Context, offerID uuid.UUID) (*domain.JobOffer, error) {
	return cache.ReadThrough(ctx, s.cache, cache.JobOfferKey(offerID), s.entityTTL, func(ctx context.Context) (*domain.JobOffer, error) {
		offer, err := s.getOffer(ctx, offerID)
		if err != nil {
			return nil, err
		}
		return offer.Listing(), nil
	})
}

// Apply records an application. Uniqueness lives in the store, so two
// racing applications still collapse into one row.
func (s *JobOfferService) Apply(ctx context.Context, actor *domain.User, offerID uuid.UUID) error {
	if _, err := s.getOffer(ctx, offerID); err != nil {
		return err
	}

	inserted, err := s.offerRepo.AddApplicant(ctx, offerID, actor.ID)
	if err != nil {
		return err
	}
	if !inserted {
		return domain.ErrAlreadyApplied
	}

	s.invalidate(ctx, offerID)
	return nil
}

// ToggleFavorite flips membership and reports the resulting state.
func (s *JobOfferService) ToggleFavorite(ctx context.Context, actor *domain.User, offerID uuid.UUID) (bool, error) {
	if _, err := s.getOffer(ctx, offerID); err != nil {
		return false, err
	}

	favorited, err := s.offerRepo.ToggleFavorite(ctx, offerID, actor.ID)
	if err != nil {
		return false, err
	}

	s.invalidate(ctx, offerID)
	return favorited, nil
}

func (s *JobOfferService) GetApplicants(ctx context.Context, actor *domain.User, offerID uuid.UUID) ([]*domain.Applicant, error) {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if !canManage(actor, offer.RecruiterID) {
		return nil, domain.ErrForbidden
	}

	return s.offerRepo.GetApplicants(ctx, offerID)
}

func (s *JobOfferService) UpdateApplicantStatus(ctx context.Context, actor *domain.User, offerID, applicantID uuid.UUID, status domain.ApplicantStatus) error {
	offer, err := s.getOffer(ctx, offerID)
	if err != nil {
		return err
	}

	if !canManage(actor, offer.RecruiterID) {
		return domain.ErrForbidden
	}

	if !status.IsValid() {
		return domain.ErrMissingFields
	}

	if err := s.offerRepo.UpdateApplicantStatus(ctx, offerID, applicantID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	s.invalidate(ctx, offerID)
	return nil
}

func (s *JobOfferService) FilterBySkill(ctx context.Context, skill string) ([]*domain.JobOffer, error) {
	if skill == "" {
		return nil, domain.ErrMissingFields
	}
	return s.offerRepo.FilterBySkill(ctx, skill)
}

func (s *JobOfferService) FilterByTitle(ctx context.Context, title string) ([]*domain.JobOffer, error) {
	if title == "" {
		return nil, domain.ErrMissingFields
	}
	return s.offerRepo.FilterByTitle(ctx, title)
}

func (s *JobOfferService) getOffer(ctx context.Context, offerID uuid.UUID) (*domain.JobOffer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrJobOfferNotFound
		}
		return nil, err
	}
	return offer, nil
}

// invalidate applies the uniform mutation discipline: collection key
// first, then the entity key. Entity entries repopulate lazily.
func (s *JobOfferService) invalidate(ctx context.Context, offerID uuid.UUID) {
	cache.Invalidate(ctx, s.cache, cache.AllJobOffersKey(), cache.JobOfferKey(offerID))
}

func (s *JobOfferService) uploadLogo(ctx context.Context, dataURI string) (domain.Upload, error) {
	data, contentType, err := storage.DecodeDataURI(dataURI)
	if err != nil {
		return domain.Upload{}, domain.ErrMissingFields
	}
	return s.imageStore.Upload(ctx, "company-logos", data, contentType)
}

func canManage(actor *domain.User, ownerID uuid.UUID) bool {
	return actor.ID == ownerID || actor.Role == domain.RoleAdmin
}

func marshalJSONStrings(items []string) (datatypes.JSON, error) {
	out, err := json.Marshal(items)
	return datatypes.JSON(out), err
}
