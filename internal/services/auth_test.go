package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafehub/internal/auth"
	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/storage"
)

// fakeTokenStore is an in-memory stand-in for the redis allow-list.
type fakeTokenStore struct {
	tokens map[string]string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]string)}
}

func (f *fakeTokenStore) Store(ctx context.Context, token, userID string, ttl time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenStore) IsValid(ctx context.Context, token string) (bool, error) {
	_, ok := f.tokens[token]
	return ok, nil
}

func (f *fakeTokenStore) Revoke(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func newAuthServiceForTest(t *testing.T) (*AuthService, *storage.InMemoryStore, *fakeTokenStore, *auth.TokenIssuer) {
	t.Helper()
	store := storage.NewInMemoryStore()
	tokens := newFakeTokenStore()
	issuer := auth.NewTokenIssuer("test-secret", "cafehub", "cafehub-api", 15*time.Minute, 24*time.Hour)
	log := logger.NewLogger()
	t.Cleanup(log.Close)
	return NewAuthService(store, issuer, tokens, log), store, tokens, issuer
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, tokens, issuer := newAuthServiceForTest(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &models.RegisterRequest{
		Email:    "owner@example.com",
		Password: "supersecret",
		FullName: "Owner One",
		Role:     models.RoleOperator,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOperator, resp.User.Role)
	assert.NotEqual(t, "supersecret", resp.User.PasswordHash, "password must be hashed")
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	claims, err := issuer.ParseAccessToken(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	valid, err := tokens.IsValid(ctx, resp.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.True(t, valid, "refresh token should be on the allow-list")

	_, err = svc.Register(ctx, &models.RegisterRequest{
		Email:    "owner@example.com",
		Password: "anotherpass",
		FullName: "Duplicate",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := svc.Login(ctx, &models.LoginRequest{Email: "owner@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotNil(t, login.User.LastLogin)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "owner@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterNeverGrantsSuperadmin(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)

	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "sneaky@example.com",
		Password: "supersecret",
		FullName: "Sneaky",
		Role:     models.RoleSuperAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, resp.User.Role)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _, tokens, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &models.RegisterRequest{
		Email:    "user@example.com",
		Password: "supersecret",
		FullName: "User",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, reg.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Tokens.AccessToken)

	// The presented refresh token is single use.
	valid, err := tokens.IsValid(ctx, reg.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = svc.Refresh(ctx, reg.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	// An access token is never accepted as a refresh token.
	_, err = svc.Refresh(ctx, refreshed.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, tokens, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &models.RegisterRequest{
		Email:    "user@example.com",
		Password: "supersecret",
		FullName: "User",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.Tokens.RefreshToken))

	valid, err := tokens.IsValid(ctx, reg.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestChangePasswordAndDeactivate(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &models.RegisterRequest{
		Email:    "user@example.com",
		Password: "supersecret",
		FullName: "User",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, reg.User.ID, &models.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword1",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, svc.ChangePassword(ctx, reg.User.ID, &models.ChangePasswordRequest{
		CurrentPassword: "supersecret",
		NewPassword:     "newpassword1",
	}))

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "newpassword1"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, reg.User.ID))
	_, err = svc.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "newpassword1"})
	assert.ErrorIs(t, err, ErrUserInactive)
}
