package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/devhire/backend/internal/config"
	"github.com/devhire/backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Candidate holds the registration fields embedded in an activation
// token. No user row exists until the token and its code are confirmed.
type Candidate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type Service struct {
	accessSecret     []byte
	refreshSecret    []byte
	activationSecret []byte
	accessTTL        time.Duration
	refreshTTL       time.Duration
	activationTTL    time.Duration
}

func NewService(cfg *config.Config) (*Service, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" || cfg.ActivationSecret == "" {
		return nil, fmt.Errorf("token secrets are not configured")
	}
	return &Service{
		accessSecret:     []byte(cfg.AccessTokenSecret),
		refreshSecret:    []byte(cfg.RefreshTokenSecret),
		activationSecret: []byte(cfg.ActivationSecret),
		accessTTL:        cfg.AccessTokenTTL,
		refreshTTL:       cfg.RefreshTokenTTL,
		activationTTL:    cfg.ActivationTokenTTL,
	}, nil
}

// SignAccessToken issues a short-lived token carrying only the user id.
func (s *Service) SignAccessToken(userID uuid.UUID) (string, error) {
	return s.sign(userID, s.accessSecret, s.accessTTL)
}

// SignRefreshToken issues the longer-lived counterpart. Its validity is
// additionally gated by the session entry still existing in cache.
func (s *Service) SignRefreshToken(userID uuid.UUID) (string, error) {
	return s.sign(userID, s.refreshSecret, s.refreshTTL)
}

func (s *Service) sign(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccessToken returns the user id bound to a valid access token.
func (s *Service) VerifyAccessToken(tokenString string) (uuid.UUID, error) {
	return s.verify(tokenString, s.accessSecret)
}

// VerifyRefreshToken returns the user id bound to a valid refresh token.
func (s *Service) VerifyRefreshToken(tokenString string) (uuid.UUID, error) {
	return s.verify(tokenString, s.refreshSecret)
}

func (s *Service) verify(tokenString string, secret []byte) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrInvalidToken
	}
	idStr, ok := claims["id"].(string)
	if !ok {
		return uuid.Nil, domain.ErrInvalidToken
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidToken
	}
	return id, nil
}

// SignActivationToken embeds the candidate and a fresh 4-digit code in
// a signed token. Neither is persisted server-side; the signature is
// the sole integrity guarantee, and confirmation needs token + code.
func (s *Service) SignActivationToken(candidate Candidate) (string, string, error) {
	code, err := activationCode()
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user":           candidate,
		"activationCode": code,
		"iat":            now.Unix(),
		"exp":            now.Add(s.activationTTL).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.activationSecret)
	if err != nil {
		return "", "", err
	}
	return tok, code, nil
}

// VerifyActivationToken recovers the candidate and the embedded code.
func (s *Service) VerifyActivationToken(tokenString string) (Candidate, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.activationSecret, nil
	})
	if err != nil || !token.Valid {
		return Candidate{}, "", domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Candidate{}, "", domain.ErrInvalidToken
	}
	code, ok := claims["activationCode"].(string)
	if !ok {
		return Candidate{}, "", domain.ErrInvalidToken
	}
	raw, ok := claims["user"].(map[string]interface{})
	if !ok {
		return Candidate{}, "", domain.ErrInvalidToken
	}

	candidate := Candidate{
		FirstName: stringClaim(raw, "firstName"),
		LastName:  stringClaim(raw, "lastName"),
		Email:     stringClaim(raw, "email"),
		Password:  stringClaim(raw, "password"),
	}
	return candidate, code, nil
}

func stringClaim(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// activationCode draws a random 4-digit numeric code.
func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
