package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/repository"
	"github.com/devhire/backend/internal/service"
	"github.com/devhire/backend/internal/testutil"
	"github.com/devhire/backend/internal/token"
)

func TestAuthService_RegisterAndActivate(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	input := service.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "password123",
	}

	activationToken, err := ts.Services.Auth.Register(ctx, input)
	require.NoError(t, err)
	assert.NotEmpty(t, activationToken)

	// Registration only mails a code; the account does not exist yet.
	_, err = ts.Repos.User.GetByEmail(ctx, input.Email)
	assert.Error(t, err)

	code := ts.Mailer.LastActivationCode()
	require.Len(t, code, 4)

	wrongCode := "0000"
	if code == wrongCode {
		wrongCode = "0001"
	}
	_, err = ts.Services.Auth.Activate(ctx, activationToken, wrongCode)
	assert.ErrorIs(t, err, domain.ErrInvalidActivation)

	user, err := ts.Services.Auth.Activate(ctx, activationToken, code)
	require.NoError(t, err)
	assert.Equal(t, input.Email, user.Email)
	assert.True(t, user.IsVerified)
	assert.Equal(t, domain.RoleUser, user.Role)

	// The stored hash verifies through login, never the raw password.
	stored, err := ts.Repos.User.GetByEmail(ctx, input.Email)
	require.NoError(t, err)
	assert.NotEqual(t, input.Password, stored.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	existing, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	_, err := ts.Services.Auth.Register(ctx, service.RegisterInput{
		FirstName: "Other",
		LastName:  "Person",
		Email:     existing.Email,
		Password:  "password123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

// unavailableUserRepo fails every email lookup, standing in for a
// store outage.
type unavailableUserRepo struct {
	repository.UserRepository
	err error
}

func (r *unavailableUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, r.err
}

func TestAuthService_StoreFailureBlocksEmailCheck(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	storeErr := errors.New("connection refused")
	auth := service.NewAuthService(&unavailableUserRepo{err: storeErr}, ts.Sessions, ts.Tokens, ts.Mailer)

	// A lookup failure must not read as "email available".
	activationToken, err := auth.Register(ctx, service.RegisterInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Password:  "password123",
	})
	require.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, domain.ErrEmailExists)
	assert.Empty(t, activationToken)

	signed, code, err := ts.Tokens.SignActivationToken(token.Candidate{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Password:  "hashed",
	})
	require.NoError(t, err)

	user, err := auth.Activate(ctx, signed, code)
	require.ErrorIs(t, err, storeErr)
	assert.Nil(t, user)
}

func TestAuthService_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: user.Email, password: password},
		{name: "wrong password", email: user.Email, password: "wrongpassword", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown email", email: "nobody@example.com", password: password, wantErr: domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ts.Services.Auth.Login(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)

			// Both tokens must verify and the session must be live.
			id, err := ts.Tokens.VerifyAccessToken(result.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, user.ID, id)

			id, err = ts.Tokens.VerifyRefreshToken(result.RefreshToken)
			require.NoError(t, err)
			assert.Equal(t, user.ID, id)

			cached, err := ts.Sessions.Get(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, user.ID, cached.ID)
		})
	}
}

func TestAuthService_RefreshRotatesTokens(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	login, err := ts.Services.Auth.Login(ctx, user.Email, password)
	require.NoError(t, err)

	refreshed, err := ts.Services.Auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)

	id, err := ts.Tokens.VerifyAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

// A refresh token outlives its session only on paper: without the
// cache entry it cannot mint anything.
func TestAuthService_RefreshAfterLogout(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	login, err := ts.Services.Auth.Login(ctx, user.Email, password)
	require.NoError(t, err)

	require.NoError(t, ts.Services.Auth.Logout(ctx, user.ID))

	_, err = ts.Services.Auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestAuthService_SocialAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	input := service.SocialAuthInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		AvatarURL: "https://provider.example.com/avatar.png",
	}

	first, err := ts.Services.Auth.SocialAuth(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, input.Email, first.User.Email)
	assert.True(t, first.User.IsVerified)

	// Second sign-in reuses the account instead of creating another.
	second, err := ts.Services.Auth.SocialAuth(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	users, err := ts.Repos.User.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
