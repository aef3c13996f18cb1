package postgres

import (
	"context"

	"github.com/devhire/backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Preload("Education").
		Preload("Experience").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Preload("Education").
		Preload("Experience").
		First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	user.Role = role
	if err := r.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id).Error
}

func (r *userRepository) AddEducation(ctx context.Context, edu *domain.Education) error {
	return r.db.WithContext(ctx).Create(edu).Error
}

func (r *userRepository) AddExperience(ctx context.Context, exp *domain.Experience) error {
	return r.db.WithContext(ctx).Create(exp).Error
}

func (r *userRepository) DeleteEducation(ctx context.Context, userID, eduID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Education{}, "id = ? AND user_id = ?", eduID, userID).Error
}

func (r *userRepository) DeleteExperience(ctx context.Context, userID, expID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Experience{}, "id = ? AND user_id = ?", expID, userID).Error
}
