package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/config"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/jwt"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/token"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/repository/memory"

	emailpkg "github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/email"
)

const testSecret = "test-secret-key-for-jwt"

func newAuthTestService(t *testing.T) (auth.Service, user.Repository) {
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	jwtService := jwt.NewJWTService(testSecret, "1h")

	// Empty SMTP host means email sends are skipped, not attempted.
	emailService, err := emailpkg.NewService(config.SMTPConfig{})
	require.NoError(t, err)

	app := config.AppConfig{FrontendURL: "http://localhost:3000"}
	return NewAuthService(userRepo, jwtService, emailService, app), userRepo
}

func createAuthTestUser(t *testing.T, ctx context.Context, repo user.Repository, email, password string, active bool) user.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	hash := string(hashed)

	created, err := repo.Create(ctx, user.User{
		EmployeeID:    "EMP-" + email,
		Email:         email,
		PasswordHash:  &hash,
		FirstName:     "Test",
		LastName:      "User",
		Role:          user.RoleEmployee,
		DateOfJoining: time.Now().UTC(),
		IsActive:      active,
	})
	require.NoError(t, err)
	return created
}

func TestAuthService_Register_Success(t *testing.T) {
	ctx := context.Background()
	service, repo := newAuthTestService(t)

	resp, err := service.Register(ctx, auth.RegisterRequest{
		EmployeeID: "EMP-1001",
		Email:      "new.hire@example.com",
		Password:   "password123",
		FirstName:  "New",
		LastName:   "Hire",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.AccessTokenExpiresAt, time.Now().Unix())
	assert.Equal(t, "new.hire@example.com", resp.User.Email)
	assert.Equal(t, "employee", resp.User.Role)
	assert.False(t, resp.User.EmailVerified)

	// Stored user carries a hashed password, never the plaintext.
	stored, err := repo.GetByEmail(ctx, "new.hire@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "password123", *stored.PasswordHash)
	assert.NotNil(t, stored.EmailVerificationToken)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	service, repo := newAuthTestService(t)
	createAuthTestUser(t, ctx, repo, "taken@example.com", "password123", true)

	_, err := service.Register(ctx, auth.RegisterRequest{
		EmployeeID: "EMP-1002",
		Email:      "taken@example.com",
		Password:   "password123",
		FirstName:  "Dup",
		LastName:   "User",
	})

	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	service, repo := newAuthTestService(t)
	createAuthTestUser(t, ctx, repo, "login@example.com", "password123", true)

	resp, err := service.Login(ctx, auth.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "login@example.com", resp.User.Email)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	service, repo := newAuthTestService(t)
	createAuthTestUser(t, ctx, repo, "login@example.com", "password123", true)

	_, err := service.Login(ctx, auth.LoginRequest{
		Email:    "login@example.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	service, _ := newAuthTestService(t)

	_, err := service.Login(ctx, auth.LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})

	// Unknown email and bad password are indistinguishable to the caller.
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	ctx := context.Background()
	service, repo := newAuthTestService(t)
	createAuthTestUser(t, ctx, repo, "gone@example.com", "password123", false)

	_, err := service.Login(ctx, auth.LoginRequest{
		Email:    "gone@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	service, repo := newAuthTestService(t)
	created := createAuthTestUser(t, ctx, repo, "me@example.com", "password123", true)

	view, err := service.Me(ctx, auth.Identity{UserID: created.ID, Email: created.Email, Role: created.Role})

	assert.NoError(t, err)
	assert.Equal(t, created.ID, view.ID)
	assert.Equal(t, "me@example.com", view.Email)
}

func TestAuthService_ResetPassword_Flow(t *testing.T) {
	ctx := context.Background()
	service, repo := newAuthTestService(t)
	created := createAuthTestUser(t, ctx, repo, "reset@example.com", "old-password", true)

	// Plant a reset token the way ForgotPassword would.
	rawToken, err := token.New()
	require.NoError(t, err)
	digest := token.Hash(rawToken)
	expire := time.Now().Add(10 * time.Minute)
	created.ResetPasswordToken = &digest
	created.ResetPasswordExpire = &expire
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	resp, err := service.ResetPassword(ctx, auth.ResetPasswordRequest{
		Token:    rawToken,
		Password: "new-password",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	// Token is single use.
	_, err = service.ResetPassword(ctx, auth.ResetPasswordRequest{
		Token:    rawToken,
		Password: "another-password",
	})
	assert.ErrorIs(t, err, auth.ErrTokenInvalidOrExpired)

	// Old password no longer works, new one does.
	_, err = service.Login(ctx, auth.LoginRequest{Email: "reset@example.com", Password: "old-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = service.Login(ctx, auth.LoginRequest{Email: "reset@example.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	service, repo := newAuthTestService(t)
	created := createAuthTestUser(t, ctx, repo, "expired@example.com", "password123", true)

	rawToken, err := token.New()
	require.NoError(t, err)
	digest := token.Hash(rawToken)
	expire := time.Now().Add(-time.Minute)
	created.ResetPasswordToken = &digest
	created.ResetPasswordExpire = &expire
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	_, err = service.ResetPassword(ctx, auth.ResetPasswordRequest{
		Token:    rawToken,
		Password: "new-password",
	})
	assert.ErrorIs(t, err, auth.ErrTokenInvalidOrExpired)
}

func TestAuthService_VerifyEmail_Success(t *testing.T) {
	ctx := context.Background()
	service, repo := newAuthTestService(t)

	_, err := service.Register(ctx, auth.RegisterRequest{
		EmployeeID: "EMP-2001",
		Email:      "verify@example.com",
		Password:   "password123",
		FirstName:  "Ver",
		LastName:   "Ify",
	})
	require.NoError(t, err)

	// The raw token normally travels by email; rebuild the digest lookup by
	// planting a known token instead.
	stored, err := repo.GetByEmail(ctx, "verify@example.com")
	require.NoError(t, err)
	rawToken, err := token.New()
	require.NoError(t, err)
	digest := token.Hash(rawToken)
	stored.EmailVerificationToken = &digest
	_, err = repo.Update(ctx, stored)
	require.NoError(t, err)

	err = service.VerifyEmail(ctx, rawToken)
	assert.NoError(t, err)

	verified, err := repo.GetByEmail(ctx, "verify@example.com")
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)
	assert.Nil(t, verified.EmailVerificationToken)
}

func TestAuthService_VerifyEmail_BadToken(t *testing.T) {
	ctx := context.Background()
	service, _ := newAuthTestService(t)

	err := service.VerifyEmail(ctx, "not-a-real-token")
	assert.ErrorIs(t, err, auth.ErrTokenInvalidOrExpired)
}
