package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/devhire/backend/internal/cache"
	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/repository"
	"github.com/devhire/backend/internal/session"
	"github.com/devhire/backend/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo   repository.UserRepository
	cache      cache.Cache
	sessions   *session.Store
	imageStore storage.ImageStore
	profileTTL time.Duration
}

func NewUserService(userRepo repository.UserRepository, c cache.Cache, sessions *session.Store, imageStore storage.ImageStore, profileTTL time.Duration) *UserService {
	return &UserService{
		userRepo:   userRepo,
		cache:      c,
		sessions:   sessions,
		imageStore: imageStore,
		profileTTL: profileTTL,
	}
}

// GetMe serves the profile cache-aside: profile cache first, store on
// a miss.
func (s *UserService) GetMe(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return cache.ReadThrough(ctx, s.cache, cache.UserKey(userID), s.profileTTL, func(ctx context.Context) (*domain.User, error) {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrUserNotFound
			}
			return nil, err
		}
		return user, nil
	})
}

func (s *UserService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*domain.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.PublicProfile(), nil
}

type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	Bio       string
	Website   string
	LinkedIn  string
	GitHub    string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Website != "" {
		user.Website = input.Website
	}
	if input.LinkedIn != "" {
		user.LinkedIn = input.LinkedIn
	}
	if input.GitHub != "" {
		user.GitHub = input.GitHub
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.refreshCaches(ctx, user)
	return user, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hashed)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.refreshCaches(ctx, user)
	return user, nil
}

// UpdateAvatar replaces the stored avatar object and its reference.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarData string) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, contentType, err := storage.DecodeDataURI(avatarData)
	if err != nil {
		return nil, domain.ErrMissingFields
	}

	if user.AvatarKey != "" {
		if err := s.imageStore.Delete(ctx, user.AvatarKey); err != nil {
			log.Printf("ERROR [user.UpdateAvatar] failed to delete previous avatar %s: %v", user.AvatarKey, err)
		}
	}

	upload, err := s.imageStore.Upload(ctx, "user-avatars", data, contentType)
	if err != nil {
		return nil, err
	}
	user.AvatarURL = upload.URL
	user.AvatarKey = upload.Key

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.refreshCaches(ctx, user)
	return user, nil
}

type AdditionalInfoInput struct {
	Education  *domain.Education
	Experience *domain.Experience
	Skill      string
	CVData     string
}

// UpdateAdditionalInfo appends education/experience/skill entries and
// replaces the CV object when one is supplied.
func (s *UserService) UpdateAdditionalInfo(ctx context.Context, userID uuid.UUID, input AdditionalInfoInput) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Education != nil {
		input.Education.ID = uuid.New()
		input.Education.UserID = userID
		if err := s.userRepo.AddEducation(ctx, input.Education); err != nil {
			return nil, err
		}
	}

	if input.Experience != nil {
		input.Experience.ID = uuid.New()
		input.Experience.UserID = userID
		if err := s.userRepo.AddExperience(ctx, input.Experience); err != nil {
			return nil, err
		}
	}

	if input.Skill != "" {
		skills, err := appendJSONString(user.Skills, input.Skill)
		if err != nil {
			return nil, err
		}
		user.Skills = skills
	}

	if input.CVData != "" {
		data, contentType, err := storage.DecodeDataURI(input.CVData)
		if err != nil {
			return nil, domain.ErrMissingFields
		}
		if user.CVKey != "" {
			if err := s.imageStore.Delete(ctx, user.CVKey); err != nil {
				log.Printf("ERROR [user.UpdateAdditionalInfo] failed to delete previous CV %s: %v", user.CVKey, err)
			}
		}
		upload, err := s.imageStore.Upload(ctx, "user-cvs", data, contentType)
		if err != nil {
			return nil, err
		}
		user.CVURL = upload.URL
		user.CVKey = upload.Key
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Reload so appended education/experience rows appear in the result.
	user, err = s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.refreshCaches(ctx, user)
	return user, nil
}

// DeleteSection removes one element of the profile's additional info:
// an education or experience row by id, a skill by value, the CV
// object, or all social links at once.
func (s *UserService) DeleteSection(ctx context.Context, userID uuid.UUID, section string, elementID string) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch section {
	case "education":
		id, err := uuid.Parse(elementID)
		if err != nil {
			return nil, domain.ErrMissingFields
		}
		if err := s.userRepo.DeleteEducation(ctx, userID, id); err != nil {
			return nil, err
		}

	case "experience":
		id, err := uuid.Parse(elementID)
		if err != nil {
			return nil, domain.ErrMissingFields
		}
		if err := s.userRepo.DeleteExperience(ctx, userID, id); err != nil {
			return nil, err
		}

	case "skills":
		skills, err := removeJSONString(user.Skills, elementID)
		if err != nil {
			return nil, err
		}
		user.Skills = skills
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}

	case "cv":
		if user.CVKey != "" {
			if err := s.imageStore.Delete(ctx, user.CVKey); err != nil {
				log.Printf("ERROR [user.DeleteSection] failed to delete CV %s: %v", user.CVKey, err)
			}
		}
		user.CVURL = ""
		user.CVKey = ""
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}

	case "social":
		user.Website = ""
		user.LinkedIn = ""
		user.GitHub = ""
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}

	default:
		return nil, domain.ErrMissingFields
	}

	user, err = s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.refreshCaches(ctx, user)
	return user, nil
}

// Admin operations.

func (s *UserService) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *UserService) UpdateRole(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.User, error) {
	if !role.IsValid() {
		return nil, domain.ErrMissingFields
	}

	user, err := s.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	s.refreshCaches(ctx, user)
	return user, nil
}

// DeleteUser removes the account, its session and its cached profile,
// which also revokes any outstanding refresh tokens.
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	cache.Invalidate(ctx, s.cache, cache.SessionKey(userID), cache.UserKey(userID))
	return nil
}

func (s *UserService) getUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// refreshCaches rewrites the cached profile and, when a session is
// live, its snapshot after a profile mutation. A logged-out user stays
// logged out even when an admin edits their account.
func (s *UserService) refreshCaches(ctx context.Context, user *domain.User) {
	cache.Refresh(ctx, s.cache, cache.UserKey(user.ID), user, s.profileTTL)
	if err := s.sessions.Refresh(ctx, user); err != nil {
		log.Printf("ERROR [user.refreshCaches] failed to rewrite session for %s: %v", user.ID, err)
	}
}

func appendJSONString(raw datatypes.JSON, value string) (datatypes.JSON, error) {
	var items []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
	}
	items = append(items, value)
	out, err := json.Marshal(items)
	return datatypes.JSON(out), err
}

func removeJSONString(raw datatypes.JSON, value string) (datatypes.JSON, error) {
	var items []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
	}
	kept := items[:0]
	for _, item := range items {
		if item != value {
			kept = append(kept, item)
		}
	}
	out, err := json.Marshal(kept)
	return datatypes.JSON(out), err
}
