package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"outletdesk/internal/shared/config"
	"outletdesk/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return m.Called(ctx, id, hashedPassword).Error(0)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone string) (*users.User, error) {
	args := m.Called(ctx, id, fullName, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		AppVersion: "1.2.3",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func seededUser(t *testing.T, password string) *users.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &users.User{
		ID:       uuid.New(),
		FullName: "Admin User",
		Email:    "admin@example.com",
		Password: string(hashed),
		Role:     users.RoleAdmin,
		Modules:  []users.Module{users.ModuleHotel, users.ModuleRestaurant},
	}
}

func TestLogin(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testConfig())
	ctx := context.Background()
	user := seededUser(t, "password")

	repo.On("FindByEmail", ctx, "admin@example.com").Return(user, nil)
	repo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, ErrUserNotFound)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "admin@example.com", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", resp.AppVersion)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, "ADMIN", resp.User.Role)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, tokenTypeAccess, claims.Type)

	_, err = svc.Login(ctx, &LoginRequest{Email: "  Admin@Example.COM ", Password: "password"})
	assert.NoError(t, err, "e-mail is matched case-insensitively")

	_, err = svc.Login(ctx, &LoginRequest{Email: "admin@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown emails look like bad passwords")
}

func TestRefreshTokenRequiresRefreshType(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testConfig())
	ctx := context.Background()
	user := seededUser(t, "password")

	repo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)

	login, err := svc.Login(ctx, &LoginRequest{Email: user.Email, Password: "password"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, login.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pair, err := svc.RefreshToken(ctx, login.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = svc.RefreshToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := NewService(new(MockRepository), testConfig()).(*service)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := svc.generateTokenPair(uuid.NewString(), "a@example.com", "STAFF")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testConfig())
	ctx := context.Background()
	user := seededUser(t, "password")
	id := user.ID.String()

	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	repo.On("UpdatePassword", ctx, user.ID, mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-secret")) == nil
	})).Return(nil).Once()

	err := svc.ChangePassword(ctx, id, &ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "new-secret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, id, &ChangePasswordRequest{CurrentPassword: "password", NewPassword: "new-secret"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateProfile(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testConfig())
	ctx := context.Background()
	user := seededUser(t, "password")
	updated := *user
	updated.FullName = "Asha Rao"
	updated.Phone = "9876543210"

	repo.On("UpdateProfile", ctx, user.ID, "Asha Rao", "9876543210").Return(&updated, nil).Once()

	me, err := svc.UpdateProfile(ctx, user.ID.String(), &UpdateProfileRequest{FullName: "  Asha Rao ", Phone: " 9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", me.FullName)
	assert.Equal(t, "9876543210", me.Phone)
	assert.Equal(t, "1.2.3", me.AppVersion)

	_, err = svc.UpdateProfile(ctx, "not-a-uuid", &UpdateProfileRequest{FullName: "Asha Rao"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	repo.AssertExpectations(t)
}

func TestUpdateMeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(MockRepository)
	user := seededUser(t, "password")
	updated := *user
	updated.FullName = "Asha Rao"
	repo.On("UpdateProfile", mock.Anything, user.ID, "Asha Rao", "").Return(&updated, nil)

	controller := NewController(NewService(repo, testConfig()))
	r := gin.New()
	r.PUT("/auth/me", func(c *gin.Context) {
		c.Set("user_id", user.ID.String())
		c.Next()
	}, controller.UpdateMe)

	put := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/auth/me", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := put(`{"fullname":"Asha Rao"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fullname":"Asha Rao"`)

	w = put(`{"fullname":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
