package service

import (
	"context"
	"errors"
	"log"

	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/mail"
	"github.com/devhire/backend/internal/repository"
	"github.com/devhire/backend/internal/session"
	"github.com/devhire/backend/internal/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo repository.UserRepository
	sessions *session.Store
	tokens   *token.Service
	mailer   mail.Mailer
}

func NewAuthService(userRepo repository.UserRepository, sessions *session.Store, tokens *token.Service, mailer mail.Mailer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		tokens:   tokens,
		mailer:   mailer,
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// Register issues an activation token and mails its code. No user row
// is created until Activate confirms the code.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if existing != nil {
		return "", domain.ErrEmailExists
	}

	// Hash up front so the plaintext password never rides in the token.
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	candidate := token.Candidate{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  string(hashed),
	}

	activationToken, code, err := s.tokens.SignActivationToken(candidate)
	if err != nil {
		return "", err
	}

	mailData := struct {
		FirstName      string
		LastName       string
		ActivationCode string
	}{input.FirstName, input.LastName, code}

	if err := s.mailer.Send(ctx, input.Email, "Activate your account", "activation-mail", mailData); err != nil {
		log.Printf("ERROR [auth.Register] failed to send activation mail to %s: %v", input.Email, err)
		return "", domain.ErrMailDelivery
	}

	return activationToken, nil
}

// Activate verifies the token + code pair and creates the user.
func (s *AuthService) Activate(ctx context.Context, activationToken, activationCode string) (*domain.User, error) {
	candidate, code, err := s.tokens.VerifyActivationToken(activationToken)
	if err != nil {
		return nil, err
	}

	if code != activationCode {
		return nil, domain.ErrInvalidActivation
	}

	existing, err := s.userRepo.GetByEmail(ctx, candidate.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	user := &domain.User{
		FirstName:    candidate.FirstName,
		LastName:     candidate.LastName,
		Email:        candidate.Email,
		PasswordHash: candidate.Password,
		Role:         domain.RoleUser,
		IsVerified:   true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

type SocialAuthInput struct {
	FirstName string
	LastName  string
	Email     string
	AvatarURL string
}

// SocialAuth finds or creates the account for a federated identity and
// starts a session. The provider already verified the email.
func (s *AuthService) SocialAuth(ctx context.Context, input SocialAuthInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = &domain.User{
			FirstName:  input.FirstName,
			LastName:   input.LastName,
			Email:      input.Email,
			AvatarURL:  input.AvatarURL,
			Role:       domain.RoleUser,
			IsVerified: true,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.startSession(ctx, user)
}

// Refresh honors a refresh token only while the session entry exists,
// so logout and admin deletion revoke refreshes immediately.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.Delete(ctx, userID)
}

// startSession mints both tokens and (re)writes the session entry with
// its canonical TTL.
func (s *AuthService) startSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.tokens.SignAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.SignRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, user); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
