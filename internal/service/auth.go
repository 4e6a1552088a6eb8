package service

import (
	"context"
	"errors"
	"time"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/internal/dto"
	apperrors "github.com/devhub-platform/portal/internal/errors"
	"github.com/devhub-platform/portal/internal/model"
	ctxutil "github.com/devhub-platform/portal/pkg/context"
	"github.com/devhub-platform/portal/pkg/logger"
	"github.com/devhub-platform/portal/pkg/pool"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore is the user persistence surface the auth service needs
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, id uint) error
}

// SessionStore is the refresh token persistence surface
type SessionStore interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	Claim(ctx context.Context, token string) (*model.RefreshToken, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	issuer   *TokenIssuer
	hashPool *pool.Pool
}

func NewAuthService(users UserStore, sessions SessionStore, issuer *TokenIssuer, hashPool *pool.Pool) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		issuer:   issuer,
		hashPool: hashPool,
	}
}

// hashPassword runs bcrypt on the worker pool. A deadline hit while hashing
// is an infrastructure problem, not an authentication verdict.
func (s *AuthService) hashPassword(ctx context.Context, password string) (string, error) {
	var hashed []byte
	err := s.hashPool.Submit(ctx, func() error {
		var hashErr error
		hashed, hashErr = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return hashErr
	})
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return string(hashed), nil
}

// comparePassword runs the bcrypt comparison on the worker pool and reports
// whether the password matches. Infrastructure failures come back as errors
// distinct from a mismatch.
func (s *AuthService) comparePassword(ctx context.Context, hash, password string) (bool, error) {
	var match bool
	err := s.hashPool.Submit(ctx, func() error {
		cmpErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if cmpErr == nil {
			match = true
			return nil
		}
		if errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword) {
			match = false
			return nil
		}
		return cmpErr
	})
	if err != nil {
		return false, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return match, nil
}

// issueTokenPair mints an access token and persists a fresh session record
func (s *AuthService) issueTokenPair(ctx context.Context, userID uint) (*dto.TokenResponse, error) {
	accessToken, err := s.issuer.GenerateAccessToken(userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshToken, err := s.issuer.GenerateRefreshToken()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	record := &model.RefreshToken{
		Token:     refreshToken,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.issuer.RefreshTTL()),
	}
	if err := s.sessions.Create(ctx, record); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.issuer.AccessTTL().Seconds()),
	}, nil
}

// Register creates an account and signs the user in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	logger.InfoWithContext(ctx, "Registration attempt").
		String("email", req.Email).
		String("username", req.Username).
		Log()

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperrors.ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashed, err := s.hashPassword(ctx, req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:   req.Username,
		Email:      req.Email,
		Password:   hashed,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Role:       constants.DefaultRole,
		IsActive:   true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	tokens, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User registered").
		Uint("new_user_id", user.ID).
		String("email", user.Email).
		Log()

	return &dto.AuthResponse{
		User:   dto.NewUserResponse(user),
		Tokens: *tokens,
	}, nil
}

// Login verifies credentials and issues a token pair. An unknown email and
// a wrong password produce the same error; a deactivated account does not.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	logger.InfoWithContext(ctx, "Login attempt").
		String("email", req.Email).
		Log()

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Login failed: unknown email").
				String("email", req.Email).
				Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	match, err := s.comparePassword(ctx, user.Password, req.Password)
	if err != nil {
		return nil, err
	}
	if !match {
		logger.WarnWithContext(ctx, "Login failed: wrong password").
			Uint("target_user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.WarnWithContext(ctx, "Login rejected: account inactive").
			Uint("target_user_id", user.ID).
			Log()
		return nil, apperrors.ErrAccountInactive
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the timestamp is advisory
		logger.WarnWithContext(ctx, "Failed to stamp last login").
			Uint("target_user_id", user.ID).
			Err(err).
			Log()
	}

	tokens, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Login succeeded").
		Uint("target_user_id", user.ID).
		Log()

	return &dto.AuthResponse{
		User:   dto.NewUserResponse(user),
		Tokens: *tokens,
	}, nil
}

// Refresh rotates a refresh token: the presented token is atomically
// consumed and a brand new pair is issued. Presenting the same token twice
// means the second caller loses.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Refresh")

	record, err := s.sessions.Claim(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Refresh rejected: token unknown or already used").
				Log()
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// The row is already gone either way; an expired session just stops here
	if record.Expired(time.Now()) {
		logger.InfoWithContext(ctx, "Refresh rejected: session expired").
			Uint("target_user_id", record.UserID).
			Log()
		return nil, apperrors.ErrRefreshTokenExpired
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !user.IsActive {
		logger.WarnWithContext(ctx, "Refresh rejected: account inactive").
			Uint("target_user_id", user.ID).
			Log()
		return nil, apperrors.ErrAccountInactive
	}

	tokens, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Session rotated").
		Uint("target_user_id", user.ID).
		Log()

	return tokens, nil
}

// Logout revokes every session belonging to the user
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	revoked, err := s.sessions.DeleteByUser(ctx, userID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out").
		Uint("target_user_id", userID).
		Int64("revoked_count", revoked).
		Log()

	return nil
}

// GetCurrentUser returns the authenticated user's profile
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetCurrentUser")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateProfile applies the whitelisted self-service profile fields. A
// username change re-checks uniqueness first.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateProfile")

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Username != nil {
		existing, err := s.users.GetByUsername(ctx, *req.Username)
		if err == nil && existing.ID != userID {
			return nil, apperrors.ErrUsernameExists
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		updates["username"] = *req.Username
	}

	if len(updates) > 0 {
		if err := s.users.Update(ctx, userID, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	return s.GetCurrentUser(ctx, userID)
}

// ChangePassword verifies the current password, stores the new hash, and
// revokes every existing session so stolen refresh tokens die with the
// old password.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ChangePassword")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	match, err := s.comparePassword(ctx, user.Password, req.OldPassword)
	if err != nil {
		return err
	}
	if !match {
		logger.WarnWithContext(ctx, "Password change rejected: current password wrong").
			Uint("target_user_id", userID).
			Log()
		return apperrors.ErrPasswordMismatch
	}

	hashed, err := s.hashPassword(ctx, req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, hashed); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	revoked, err := s.sessions.DeleteByUser(ctx, userID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password changed, sessions revoked").
		Uint("target_user_id", userID).
		Int64("revoked_count", revoked).
		Log()

	return nil
}

// ForgotPassword accepts the request without revealing whether the email is
// registered. Delivery of a reset link is not wired up yet.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ForgotPassword")

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same outcome as a known address
			logger.InfoWithContext(ctx, "Password reset requested for unknown email").
				Log()
			return nil
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password reset requested").
		String("email", email).
		Log()

	return nil
}

// ResetPassword is not available until reset token delivery exists
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	return apperrors.ErrNotImplemented
}

// SweepExpiredSessions removes expired session rows. Invoked by the
// background sweeper; correctness never depends on it running.
func (s *AuthService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "SweepExpiredSessions")
	return s.sessions.DeleteExpired(ctx)
}
