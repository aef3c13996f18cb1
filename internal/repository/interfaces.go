package repository

import (
	"context"

	"github.com/devhire/backend/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddEducation(ctx context.Context, edu *domain.Education) error
	AddExperience(ctx context.Context, exp *domain.Experience) error
	DeleteEducation(ctx context.Context, userID, eduID uuid.UUID) error
	DeleteExperience(ctx context.Context, userID, expID uuid.UUID) error
}

type JobOfferRepository interface {
	Create(ctx context.Context, offer *domain.JobOffer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.JobOffer, error)
	GetAll(ctx context.Context) ([]*domain.JobOffer, error)
	Update(ctx context.Context, offer *domain.JobOffer) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AddApplicant inserts only when no row exists for (offer, applicant)
	// and reports whether a row was inserted.
	AddApplicant(ctx context.Context, offerID, applicantID uuid.UUID) (bool, error)
	GetApplicants(ctx context.Context, offerID uuid.UUID) ([]*domain.Applicant, error)
	UpdateApplicantStatus(ctx context.Context, offerID, applicantID uuid.UUID, status domain.ApplicantStatus) error

	// ToggleFavorite adds the membership when absent, removes it when
	// present, and reports the resulting membership.
	ToggleFavorite(ctx context.Context, offerID, userID uuid.UUID) (bool, error)

	FilterBySkill(ctx context.Context, skill string) ([]*domain.JobOffer, error)
	FilterByTitle(ctx context.Context, title string) ([]*domain.JobOffer, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	GetAll(ctx context.Context, titleFilter string) ([]*domain.Post, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	GetByPostID(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPostID(ctx context.Context, postID uuid.UUID) error
}

type Repositories struct {
	User     UserRepository
	JobOffer JobOfferRepository
	Post     PostRepository
	Comment  CommentRepository
}
