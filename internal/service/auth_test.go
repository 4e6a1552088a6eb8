package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/internal/dto"
	apperrors "github.com/devhub-platform/portal/internal/errors"
	"github.com/devhub-platform/portal/internal/model"
	"github.com/devhub-platform/portal/pkg/pool"
	"gorm.io/gorm"
)

// stubUserStore is an in-memory UserStore
type stubUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{nextID: 1, users: make(map[uint]*model.User)}
}

func (s *stubUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextID
	s.nextID++
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *stubUserStore) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, val := range updates {
		switch col {
		case "first_name":
			u.FirstName = val.(string)
		case "last_name":
			u.LastName = val.(string)
		case "username":
			u.Username = val.(string)
		case "avatar":
			u.Avatar = val.(string)
		case "department":
			u.Department = val.(string)
		}
	}
	return nil
}

func (s *stubUserStore) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = hashedPassword
	return nil
}

func (s *stubUserStore) UpdateLastLogin(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.LastLogin = time.Now()
	}
	return nil
}

func (s *stubUserStore) setActive(id uint, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.IsActive = active
	}
}

// stubSessionStore is an in-memory SessionStore with the same claim
// atomicity the database provides
type stubSessionStore struct {
	mu     sync.Mutex
	nextID uint
	tokens map[string]*model.RefreshToken
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{nextID: 1, tokens: make(map[string]*model.RefreshToken)}
}

func (s *stubSessionStore) Create(ctx context.Context, token *model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token.ID = s.nextID
	s.nextID++
	copied := *token
	s.tokens[token.Token] = &copied
	return nil
}

func (s *stubSessionStore) Claim(ctx context.Context, token string) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(s.tokens, token)
	copied := *record
	return &copied, nil
}

func (s *stubSessionStore) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for tok, record := range s.tokens {
		if record.UserID == userID {
			delete(s.tokens, tok)
			count++
		}
	}
	return count, nil
}

func (s *stubSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var count int64
	for tok, record := range s.tokens {
		if record.ExpiresAt.Before(now) {
			delete(s.tokens, tok)
			count++
		}
	}
	return count, nil
}

func (s *stubSessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

func (s *stubSessionStore) expire(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.tokens[token]; ok {
		record.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

func newTestAuthService(t *testing.T) (*AuthService, *stubUserStore, *stubSessionStore) {
	t.Helper()

	users := newStubUserStore()
	sessions := newStubSessionStore()
	issuer := NewTokenIssuer("test-secret", time.Hour, 7*24*time.Hour)
	hashPool := pool.New(pool.Config{Workers: 2, QueueSize: 8}, nil)
	t.Cleanup(hashPool.Shutdown)

	return NewAuthService(users, sessions, issuer, hashPool), users, sessions
}

func registerTestUser(t *testing.T, svc *AuthService) *dto.AuthResponse {
	t.Helper()

	res, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3rSecret!",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return res
}

func TestAuthService_Register(t *testing.T) {
	svc, users, sessions := newTestAuthService(t)

	res := registerTestUser(t, svc)

	if res.User.Role != constants.RoleDeveloper {
		t.Errorf("Expected default role %q, got %q", constants.RoleDeveloper, res.User.Role)
	}
	if !res.User.IsActive {
		t.Error("Expected new account to be active")
	}
	if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" {
		t.Error("Expected both tokens to be issued")
	}
	if res.Tokens.ExpiresIn != 3600 {
		t.Errorf("Expected expiresIn 3600, got %d", res.Tokens.ExpiresIn)
	}

	stored, err := users.GetByID(context.Background(), res.User.ID)
	if err != nil {
		t.Fatalf("Stored user not found: %v", err)
	}
	if stored.Password == "Sup3rSecret!" {
		t.Error("Password must not be stored in plaintext")
	}

	if sessions.count() != 1 {
		t.Errorf("Expected 1 session after registration, got %d", sessions.count())
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "bob",
		Email:    "alice@example.com",
		Password: "An0therSecret!",
	})
	if !errors.Is(err, apperrors.ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice",
		Email:    "bob@example.com",
		Password: "An0therSecret!",
	})
	if !errors.Is(err, apperrors.ErrUsernameExists) {
		t.Errorf("Expected ErrUsernameExists, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc)

	res, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "Sup3rSecret!",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" {
		t.Error("Expected both tokens to be issued")
	}
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc)

	// Wrong password and unknown email must be indistinguishable
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", err)
	}

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Sup3rSecret!",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_LoginInactiveAccount(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	res := registerTestUser(t, svc)

	users.setActive(res.User.ID, false)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "Sup3rSecret!",
	})
	if !errors.Is(err, apperrors.ErrAccountInactive) {
		t.Errorf("Expected ErrAccountInactive, got %v", err)
	}
}

func TestAuthService_RefreshRotation(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	res := registerTestUser(t, svc)

	rotated, err := svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if rotated.RefreshToken == res.Tokens.RefreshToken {
		t.Error("Expected a new refresh token after rotation")
	}
	if sessions.count() != 1 {
		t.Errorf("Expected exactly 1 live session after rotation, got %d", sessions.count())
	}

	// The consumed token must be dead
	_, err = svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	if !errors.Is(err, apperrors.ErrInvalidRefreshToken) {
		t.Errorf("Expected ErrInvalidRefreshToken on reuse, got %v", err)
	}
}

func TestAuthService_RefreshSingleUseUnderConcurrency(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	res := registerTestUser(t, svc)

	const callers = 16
	var wg sync.WaitGroup
	successes := make(chan *dto.TokenResponse, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tokens, err := svc.Refresh(context.Background(), res.Tokens.RefreshToken); err == nil {
				successes <- tokens
			}
		}()
	}
	wg.Wait()
	close(successes)

	var wins int
	for range successes {
		wins++
	}
	if wins != 1 {
		t.Errorf("Expected exactly 1 successful rotation, got %d", wins)
	}
}

func TestAuthService_RefreshExpired(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	res := registerTestUser(t, svc)

	sessions.expire(res.Tokens.RefreshToken)

	_, err := svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	if !errors.Is(err, apperrors.ErrRefreshTokenExpired) {
		t.Errorf("Expected ErrRefreshTokenExpired, got %v", err)
	}

	// The expired record must be gone, not resurrectable
	if sessions.count() != 0 {
		t.Errorf("Expected expired session to be removed, %d left", sessions.count())
	}
	_, err = svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	if !errors.Is(err, apperrors.ErrInvalidRefreshToken) {
		t.Errorf("Expected ErrInvalidRefreshToken after expiry cleanup, got %v", err)
	}
}

func TestAuthService_RefreshInactiveAccount(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	res := registerTestUser(t, svc)

	users.setActive(res.User.ID, false)

	_, err := svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	if !errors.Is(err, apperrors.ErrAccountInactive) {
		t.Errorf("Expected ErrAccountInactive, got %v", err)
	}
}

func TestAuthService_LogoutRevokesAllSessions(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	res := registerTestUser(t, svc)

	// A second login creates a second session
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "Sup3rSecret!",
	}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if sessions.count() != 2 {
		t.Fatalf("Expected 2 sessions, got %d", sessions.count())
	}

	if err := svc.Logout(context.Background(), res.User.ID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if sessions.count() != 0 {
		t.Errorf("Expected all sessions revoked, %d left", sessions.count())
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	res := registerTestUser(t, svc)

	err := svc.ChangePassword(context.Background(), res.User.ID, &dto.ChangePasswordRequest{
		OldPassword: "Sup3rSecret!",
		NewPassword: "Brand-New-Secret1",
	})
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	// All sessions die with the old password
	if sessions.count() != 0 {
		t.Errorf("Expected sessions revoked after password change, %d left", sessions.count())
	}

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "Sup3rSecret!",
	}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Expected old password rejected, got %v", err)
	}

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "Brand-New-Secret1",
	}); err != nil {
		t.Errorf("Expected new password accepted, got %v", err)
	}
}

func TestAuthService_ChangePasswordWrongCurrent(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	res := registerTestUser(t, svc)

	err := svc.ChangePassword(context.Background(), res.User.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong-password",
		NewPassword: "Brand-New-Secret1",
	})
	if !errors.Is(err, apperrors.ErrPasswordMismatch) {
		t.Errorf("Expected ErrPasswordMismatch, got %v", err)
	}

	// Sessions survive a failed attempt
	if sessions.count() != 1 {
		t.Errorf("Expected session to survive failed change, got %d", sessions.count())
	}
}

func TestAuthService_UpdateProfileUsernameConflict(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc)

	other, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "B0bSecret!!",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	taken := "alice"
	_, err = svc.UpdateProfile(context.Background(), other.User.ID, &dto.UpdateProfileRequest{
		Username: &taken,
	})
	if !errors.Is(err, apperrors.ErrUsernameExists) {
		t.Errorf("Expected ErrUsernameExists, got %v", err)
	}

	// Re-submitting your own username is not a conflict
	own := "bob"
	if _, err := svc.UpdateProfile(context.Background(), other.User.ID, &dto.UpdateProfileRequest{
		Username: &own,
	}); err != nil {
		t.Errorf("Expected no error for unchanged username, got %v", err)
	}
}

func TestAuthService_UpdateProfileWhitelist(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	res := registerTestUser(t, svc)

	first := "Alice"
	dept := "Platform"
	updated, err := svc.UpdateProfile(context.Background(), res.User.ID, &dto.UpdateProfileRequest{
		FirstName:  &first,
		Department: &dept,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.FirstName != "Alice" || updated.Department != "Platform" {
		t.Errorf("Expected updated fields, got first=%q dept=%q", updated.FirstName, updated.Department)
	}

	// Role and email are untouchable through the profile path
	stored, _ := users.GetByID(context.Background(), res.User.ID)
	if stored.Role != constants.RoleDeveloper || stored.Email != "alice@example.com" {
		t.Error("Profile update must not change role or email")
	}
}

func TestAuthService_ForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc)

	if err := svc.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Errorf("Expected nil for known email, got %v", err)
	}
	if err := svc.ForgotPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Errorf("Expected nil for unknown email, got %v", err)
	}
}

func TestAuthService_ResetPasswordNotImplemented(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:       "some-token",
		NewPassword: "Brand-New-Secret1",
	})
	if !errors.Is(err, apperrors.ErrNotImplemented) {
		t.Errorf("Expected ErrNotImplemented, got %v", err)
	}
}

func TestAuthService_HashingTimeoutIsInternalError(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "C4rolSecret!",
	})
	if err == nil {
		t.Fatal("Expected error from cancelled context")
	}
	// A deadline problem is infrastructure, never an authentication verdict
	if !errors.Is(err, apperrors.ErrInternal) {
		t.Errorf("Expected ErrInternal, got %v", err)
	}
	if errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Error("Timeout must not surface as a credential failure")
	}
}

func TestAuthService_SweepExpiredSessions(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	res := registerTestUser(t, svc)

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "Sup3rSecret!",
	}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	sessions.expire(res.Tokens.RefreshToken)

	cleaned, err := svc.SweepExpiredSessions(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if cleaned != 1 {
		t.Errorf("Expected 1 session swept, got %d", cleaned)
	}
	if sessions.count() != 1 {
		t.Errorf("Expected 1 live session to remain, got %d", sessions.count())
	}
}
