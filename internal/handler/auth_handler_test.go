package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/studio-booking-api/internal/models"
	"github.com/noah-isme/studio-booking-api/internal/service"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("sup3rsecret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &stubUserRepo{user: &models.User{
		ID:           "user-1",
		Email:        "admin@example.com",
		FullName:     "Studio Admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}}
	svc := service.NewAuthService(repo, validator.New(), zap.NewNop(), service.AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "studio-booking-api",
	})
	h := NewAuthHandler(svc)
	router := newTestRouter()
	router.POST("/auth/login", h.Login)
	return router
}

func TestAuthHandlerLoginIssuesToken(t *testing.T) {
	router := newAuthRouter(t)

	rec := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "sup3rsecret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, "admin@example.com", envelope.Data.User.Email)
	// Password hashes never leak through the login payload.
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestAuthHandlerLoginBadPassword(t *testing.T) {
	router := newAuthRouter(t)

	rec := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerLoginMissingFields(t *testing.T) {
	router := newAuthRouter(t)

	rec := postJSON(t, router, "/auth/login", map[string]string{"email": "admin@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
