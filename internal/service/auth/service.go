package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/config"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/email"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/jwt"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/token"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = 10 * time.Minute
)

type AuthServiceImpl struct {
	user.Repository
	jwt.Service
	email email.Service
	app   config.AppConfig
}

func NewAuthService(userRepository user.Repository, jwtService jwt.Service, emailService email.Service, app config.AppConfig) auth.Service {
	return &AuthServiceImpl{
		Repository: userRepository,
		Service:    jwtService,
		email:      emailService,
		app:        app,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *AuthServiceImpl) tokenResponse(u user.User) (auth.TokenResponse, error) {
	accessToken, expiresAt, err := a.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: expiresAt,
		User:                 auth.NewUserView(u),
	}, nil
}

// Register implements auth.Service.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role := user.RoleEmployee
	if req.Role != "" {
		role = user.Role(req.Role)
	}

	rawToken, err := token.New()
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create verification token: %w", err)
	}
	tokenHash := token.Hash(rawToken)
	tokenExpire := time.Now().Add(verificationTokenTTL)

	newUser := user.User{
		EmployeeID:              req.EmployeeID,
		Email:                   req.Email,
		PasswordHash:            &hash,
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		Role:                    role,
		DateOfJoining:           time.Now().UTC(),
		EmailVerificationToken:  &tokenHash,
		EmailVerificationExpire: &tokenExpire,
		IsActive:                true,
	}

	created, err := a.Repository.Create(ctx, newUser)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	// Verification email is best effort; registration stands either way.
	verifyLink := fmt.Sprintf("%s/verify-email/%s", a.app.FrontendURL, rawToken)
	if err := a.email.SendVerification(created.Email, created.FullName(), verifyLink, tokenExpire.Format(time.RFC1123)); err != nil {
		slog.Warn("Failed to send verification email", "user_id", created.ID, "error", err)
	}

	return a.tokenResponse(created)
}

// Login implements auth.Service.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	userData, err := a.Repository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountDisabled
	}

	return a.tokenResponse(userData)
}

// Me implements auth.Service.
func (a *AuthServiceImpl) Me(ctx context.Context, identity auth.Identity) (auth.UserView, error) {
	userData, err := a.Repository.GetByID(ctx, identity.UserID)
	if err != nil {
		return auth.UserView{}, err
	}
	return auth.NewUserView(userData), nil
}

// ForgotPassword implements auth.Service. Unknown emails return nil so the
// endpoint cannot be used to discover which addresses exist.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) error {
	userData, err := a.Repository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			slog.Info("Password reset requested for unknown email", "email", req.Email)
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	rawToken, err := token.New()
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	tokenHash := token.Hash(rawToken)
	tokenExpire := time.Now().Add(resetTokenTTL)

	userData.ResetPasswordToken = &tokenHash
	userData.ResetPasswordExpire = &tokenExpire
	if _, err := a.Repository.Update(ctx, userData); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", a.app.FrontendURL, rawToken)
	if err := a.email.SendPasswordReset(userData.Email, resetLink, tokenExpire.Format(time.RFC1123)); err != nil {
		// Undo the token so a failed send does not strand a live reset link.
		userData.ResetPasswordToken = nil
		userData.ResetPasswordExpire = nil
		if _, clearErr := a.Repository.Update(ctx, userData); clearErr != nil {
			slog.Error("Failed to clear reset token after send failure", "user_id", userData.ID, "error", clearErr)
		}
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

// ResetPassword implements auth.Service. The raw token from the email link is
// hashed and matched against the stored digest; a hit consumes the token.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) (auth.TokenResponse, error) {
	userData, err := a.Repository.GetByResetToken(ctx, token.Hash(req.Token))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrTokenInvalidOrExpired
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	userData.PasswordHash = &hash
	userData.ResetPasswordToken = nil
	userData.ResetPasswordExpire = nil

	updated, err := a.Repository.Update(ctx, userData)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to update password: %w", err)
	}

	return a.tokenResponse(updated)
}

// VerifyEmail implements auth.Service.
func (a *AuthServiceImpl) VerifyEmail(ctx context.Context, rawToken string) error {
	userData, err := a.Repository.GetByVerificationToken(ctx, token.Hash(rawToken))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ErrTokenInvalidOrExpired
		}
		return fmt.Errorf("failed to get user by verification token: %w", err)
	}

	userData.EmailVerified = true
	userData.EmailVerificationToken = nil
	userData.EmailVerificationExpire = nil

	if _, err := a.Repository.Update(ctx, userData); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	return nil
}
