package postgres

import (
	"context"
	"encoding/json"

	"github.com/devhire/backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type jobOfferRepository struct {
	db *gorm.DB
}

func NewJobOfferRepository(db *gorm.DB) *jobOfferRepository {
	return &jobOfferRepository{db: db}
}

func (r *jobOfferRepository) Create(ctx context.Context, offer *domain.JobOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *jobOfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobOffer, error) {
	var offer domain.JobOffer
	err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *jobOfferRepository) GetAll(ctx context.Context) ([]*domain.JobOffer, error) {
	var offers []*domain.JobOffer
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&offers).Error
	return offers, err
}

func (r *jobOfferRepository) Update(ctx context.Context, offer *domain.JobOffer) error {
	return r.db.WithContext(ctx).Save(offer).Error
}

func (r *jobOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Applicant{}, "job_offer_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Favorite{}, "job_offer_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.JobOffer{}, "id = ?", id).Error
	})
}

// AddApplicant relies on the (job_offer_id, applicant_id) unique index:
// concurrent duplicate applications collapse into a single row instead
// of racing an application-level existence check.
func (r *jobOfferRepository) AddApplicant(ctx context.Context, offerID, applicantID uuid.UUID) (bool, error) {
	applicant := &domain.Applicant{
		ID:          uuid.New(),
		JobOfferID:  offerID,
		ApplicantID: applicantID,
		Status:      domain.ApplicantPending,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_offer_id"}, {Name: "applicant_id"}},
			DoNothing: true,
		}).
		Create(applicant)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *jobOfferRepository) GetApplicants(ctx context.Context, offerID uuid.UUID) ([]*domain.Applicant, error) {
	var applicants []*domain.Applicant
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&applicants, "job_offer_id = ?", offerID).Error
	return applicants, err
}

func (r *jobOfferRepository) UpdateApplicantStatus(ctx context.Context, offerID, applicantID uuid.UUID, status domain.ApplicantStatus) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Applicant{}).
		Where("job_offer_id = ? AND applicant_id = ?", offerID, applicantID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *jobOfferRepository) ToggleFavorite(ctx context.Context, offerID, userID uuid.UUID) (bool, error) {
	var favorited bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.Favorite{}, "job_offer_id = ? AND user_id = ?", offerID, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			favorited = false
			return nil
		}
		favorited = true
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_offer_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&domain.Favorite{
			ID:         uuid.New(),
			JobOfferID: offerID,
			UserID:     userID,
		}).Error
	})
	return favorited, err
}

func (r *jobOfferRepository) FilterBySkill(ctx context.Context, skill string) ([]*domain.JobOffer, error) {
	needle, err := json.Marshal([]string{skill})
	if err != nil {
		return nil, err
	}
	var offers []*domain.JobOffer
	err = r.db.WithContext(ctx).
		Where("skills @> ?", string(needle)).
		Find(&offers).Error
	return offers, err
}

func (r *jobOfferRepository) FilterByTitle(ctx context.Context, title string) ([]*domain.JobOffer, error) {
	var offers []*domain.JobOffer
	err := r.db.WithContext(ctx).
		Where("title ILIKE ?", "%"+title+"%").
		Find(&offers).Error
	return offers, err
}
