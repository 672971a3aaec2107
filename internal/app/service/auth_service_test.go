package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/internal/db"
	"github.com/tuffwear/tuff-backend/pkg/util"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-key"

func setupAuthServiceTest(t *testing.T) (AuthService, repository.UserRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	service := NewAuthService(userRepo, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	return service, userRepo, testDB
}

func TestAuthService_Register(t *testing.T) {
	service, _, _ := setupAuthServiceTest(t)

	user, tokens, err := service.Register("new@example.com", "password123", "New User", "+2348000000000")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "password123"))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(model.RoleCustomer), claims.Role)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service, _, _ := setupAuthServiceTest(t)

	_, _, err := service.Register("dup@example.com", "password123", "First", "")
	require.NoError(t, err)

	_, _, err = service.Register("dup@example.com", "different456", "Second", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	service, _, _ := setupAuthServiceTest(t)

	registered, _, err := service.Register("login@example.com", "password123", "Login User", "")
	require.NoError(t, err)

	user, tokens, err := service.Login("login@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)

	_, _, err = service.Login("login@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = service.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_BlockedAccount(t *testing.T) {
	service, userRepo, _ := setupAuthServiceTest(t)

	user, _, err := service.Register("blocked@example.com", "password123", "Blocked User", "")
	require.NoError(t, err)
	require.NoError(t, userRepo.SetBlocked(user.ID, true))

	_, _, err = service.Login("blocked@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestAuthService_Login_AdminRoleClaim(t *testing.T) {
	service, userRepo, _ := setupAuthServiceTest(t)

	user, _, err := service.Register("admin@example.com", "password123", "Admin User", "")
	require.NoError(t, err)
	require.NoError(t, userRepo.AssignRole(user.ID, model.RoleManager))

	_, tokens, err := service.Login("admin@example.com", "password123")
	require.NoError(t, err)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, string(model.RoleManager), claims.Role)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	service, _, _ := setupAuthServiceTest(t)

	user, _, err := service.Register("profile@example.com", "password123", "Old Name", "")
	require.NoError(t, err)

	updated, err := service.UpdateProfile(user.ID, "New Name", "+2348111111111")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
	assert.Equal(t, "+2348111111111", updated.Phone)

	_, err = service.UpdateProfile(9999, "Ghost", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPrimaryRole(t *testing.T) {
	user := &model.User{}
	assert.Equal(t, model.RoleCustomer, primaryRole(user))

	user.Roles = []model.UserRole{{Role: model.RoleStaff}}
	assert.Equal(t, model.RoleStaff, primaryRole(user))

	user.Roles = append(user.Roles, model.UserRole{Role: model.RoleManager})
	assert.Equal(t, model.RoleManager, primaryRole(user))

	user.Roles = append(user.Roles, model.UserRole{Role: model.RoleSuperAdmin})
	assert.Equal(t, model.RoleSuperAdmin, primaryRole(user))
}
