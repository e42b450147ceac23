package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/studio-booking-api/internal/models"
	appErrors "github.com/noah-isme/studio-booking-api/pkg/errors"
)

type mockUserRepo struct {
	user          *models.User
	findErr       error
	lastLoginID   string
	lastLoginErr  error
	lastLoginTime time.Time
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user, m.findErr
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginID = id
	m.lastLoginTime = ts
	return m.lastLoginErr
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "studio-booking-api",
	}
}

func adminUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "user-1",
		Email:        "admin@example.com",
		FullName:     "Studio Admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := &mockUserRepo{user: adminUser(t, "sup3rsecret")}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.Equal(t, "user-1", repo.lastLoginID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &mockUserRepo{user: adminUser(t, "sup3rsecret")}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	repo := &mockUserRepo{findErr: sql.ErrNoRows}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	// Unknown email and bad password look the same to the caller.
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	user := adminUser(t, "sup3rsecret")
	user.Active = false
	repo := &mockUserRepo{user: user}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "sup3rsecret",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsForeignSecret(t *testing.T) {
	repo := &mockUserRepo{user: adminUser(t, "sup3rsecret")}
	issuer := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	resp, err := issuer.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.AccessTokenSecret = "different-secret"
	verifier := NewAuthService(repo, validator.New(), zap.NewNop(), otherCfg)

	_, err = verifier.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
