package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorloop/mentorloop-api/internal/models"
	appErrors "github.com/mentorloop/mentorloop-api/pkg/errors"
)

type userRepoStub struct {
	users   map[string]*models.User
	byEmail map[string]*models.User
	tokens  map[string]*models.RefreshToken
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
		tokens:  make(map[string]*models.RefreshToken),
	}
}

func (s *userRepoStub) add(user *models.User) {
	s.users[user.ID] = user
	s.byEmail[user.Email] = user
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	s.add(user)
	return nil
}

func (s *userRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := s.byEmail[email]
	return ok, nil
}

func (s *userRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (s *userRepoStub) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if user, ok := s.users[id]; ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (s *userRepoStub) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for _, token := range s.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (s *userRepoStub) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	s.tokens[token.Token] = token
	return nil
}

func (s *userRepoStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := s.tokens[token]; ok {
		return stored, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, token := range s.tokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &revokedAt
		}
	}
	return nil
}

func authFixture(t *testing.T) (*AuthService, *userRepoStub) {
	t.Helper()
	repo := newUserRepoStub()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.add(&models.User{
		ID:           "u1",
		Email:        "ann@example.com",
		PasswordHash: string(hash),
		FullName:     "Ann",
		Role:         models.RoleMentor,
		Active:       true,
	})
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "mentorloop-test",
	})
	return svc, repo
}

func TestSignupIssuesTokens(t *testing.T) {
	svc, repo := authFixture(t)

	resp, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:    "bo@example.com",
		Password: "secret123",
		FullName: "Bo",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleStudent, resp.User.Role)

	stored, ok := repo.byEmail["bo@example.com"]
	require.True(t, ok)
	assert.True(t, stored.Active)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:    "ann@example.com",
		Password: "secret123",
		FullName: "Ann Again",
		Role:     models.RoleStudent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSignupRejectsAdminRole(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:    "root@example.com",
		Password: "secret123",
		FullName: "Root",
		Role:     models.RoleAdmin,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLoginAndValidateToken(t *testing.T) {
	svc, _ := authFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ann@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleMentor, claims.Role)
	assert.Equal(t, "mentorloop-test", claims.Issuer)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ann@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, repo := authFixture(t)
	repo.byEmail["ann@example.com"].Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ann@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, repo := authFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ann@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	// The rotated-out token cannot be used again.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	svc, repo := authFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ann@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "secret123",
		NewPassword: "changed456",
	})
	require.NoError(t, err)
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "ann@example.com",
		Password: "changed456",
	})
	require.NoError(t, err)
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	svc, _ := authFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ann@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, "someone-else")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, "u1"))
}
