package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/utils"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, email, name, role, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, email, name, role, passwordHash)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.String(1), args.Error(2)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) ListDevs(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	us, _ := args.Get(0).([]models.User)
	return us, args.Error(1)
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func TestRegister_AlwaysCreatesDev(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewAuthService(users, "secret")

	users.On("Create", mock.Anything, "eve@example.com", "Eve", models.RoleDev, mock.Anything).
		Return(&models.User{ID: "u1", Role: models.RoleDev}, nil)

	// A caller-supplied ADMIN role must not stick.
	u, err := svc.Register(context.Background(), " Eve@Example.com ", "Eve", "longenough", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDev, u.Role)
	users.AssertExpectations(t)
}

func TestRegister_ShortPassword(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewAuthService(users, "secret")

	_, err := svc.Register(context.Background(), "eve@example.com", "Eve", "short", "")
	assert.True(t, IsValidation(err))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewAuthService(users, "secret")

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	users.On("GetByEmail", mock.Anything, "eve@example.com").
		Return(&models.User{ID: "u1"}, hash, nil)

	_, _, err = svc.Login(context.Background(), "eve@example.com", "wrong-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailMapsToInvalidCredentials(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewAuthService(users, "secret")

	users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, "", repository.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_IssuesParseableToken(t *testing.T) {
	users := &mockUserRepo{}
	svc := NewAuthService(users, "secret")

	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	users.On("GetByEmail", mock.Anything, "eve@example.com").
		Return(&models.User{ID: "u1", Role: models.RoleDev}, hash, nil)

	tok, u, err := svc.Login(context.Background(), "eve@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	claims, err := utils.ParseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleDev, claims.Role)
}
