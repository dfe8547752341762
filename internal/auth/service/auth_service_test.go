package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/authgate/authgate/internal/auth/service"
	"github.com/authgate/authgate/internal/common/clock"
	"github.com/authgate/authgate/internal/common/logger"
	sessiondomain "github.com/authgate/authgate/internal/session/domain"
	sessionrepo "github.com/authgate/authgate/internal/session/repository"
	userdomain "github.com/authgate/authgate/internal/user/domain"
	userrepo "github.com/authgate/authgate/internal/user/repository"
)

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockSessionRepo, *mockHasher, *mockIDGenerator, *clock.MockClock) {
	t.Helper()

	log, _ := logger.New("", "test", "info")
	mockUsers := &mockUserRepo{}
	mockSessions := &mockSessionRepo{}
	hasher := &mockHasher{}
	idGen := &mockIDGenerator{}
	mockClock := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := service.NewAuthService(mockUsers, mockSessions, hasher, idGen, mockClock, time.Hour, log)

	return svc, mockUsers, mockSessions, hasher, idGen, mockClock
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, mockUsers, _, _, _, mockClock := setupAuthService(t)

	var created userdomain.User
	mockUsers.createFunc = func(ctx context.Context, user userdomain.User) error {
		created = user
		return nil
	}

	userID, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "user1",
		Password: "123456",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if userID == "" {
		t.Fatal("expected user id to be set")
	}

	if created.Username != "user1" {
		t.Errorf("expected username user1, got %s", created.Username)
	}

	if created.PasswordHash == "123456" {
		t.Error("expected password to be hashed before storage")
	}

	if !created.CreatedAt.Equal(mockClock.Now()) {
		t.Errorf("expected created_at %v, got %v", mockClock.Now(), created.CreatedAt)
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	svc, _, _, _, _, _ := setupAuthService(t)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "123456"},
		{"empty password", "user1", ""},
		{"both empty", "", ""},
		{"username too long", strings.Repeat("a", 65), "123456"},
		{"password beyond bcrypt limit", "user1", strings.Repeat("p", 73)},
		// 40 two-byte runes: 80 bytes, which bcrypt rejects even though
		// the rune count is well under the cap.
		{"multibyte password beyond bcrypt limit", "user1", strings.Repeat("п", 40)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), service.RegisterInput{
				Username: tc.username,
				Password: tc.password,
			})

			if !errors.Is(err, service.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_PasswordAtBcryptByteLimit(t *testing.T) {
	svc, _, _, _, _, _ := setupAuthService(t)

	// 36 two-byte runes: exactly 72 bytes, the most bcrypt accepts.
	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "user1",
		Password: strings.Repeat("п", 36),
	})

	if err != nil {
		t.Errorf("expected 72-byte password to be accepted, got %v", err)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, mockUsers, _, _, _, _ := setupAuthService(t)

	mockUsers.createFunc = func(ctx context.Context, user userdomain.User) error {
		return userrepo.ErrUsernameAlreadyExists
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "user1",
		Password: "123456",
	})

	if !errors.Is(err, service.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_StorageError(t *testing.T) {
	svc, mockUsers, _, _, _, _ := setupAuthService(t)

	mockUsers.createFunc = func(ctx context.Context, user userdomain.User) error {
		return errors.New("connection refused")
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "user1",
		Password: "123456",
	})

	if !errors.Is(err, service.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, mockUsers, mockSessions, _, _, mockClock := setupAuthService(t)

	mockUsers.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "hashed_123456",
		}, nil
	}

	var stored sessiondomain.Session
	mockSessions.createFunc = func(ctx context.Context, session sessiondomain.Session) error {
		stored = session
		return nil
	}

	result, err := svc.Login(context.Background(), service.LoginInput{
		Username: "user1",
		Password: "123456",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Token == "" {
		t.Fatal("expected session token to be set")
	}

	if result.UserID != "user-123" {
		t.Errorf("expected user id user-123, got %s", result.UserID)
	}

	wantExpiry := mockClock.Now().Add(time.Hour)
	if !result.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expected expiry %v, got %v", wantExpiry, result.ExpiresAt)
	}

	if stored.TokenHash == result.Token {
		t.Error("expected store to hold a hash, not the raw token")
	}

	if stored.TokenHash == "" {
		t.Error("expected token hash to be set")
	}
}

func TestAuthService_Login_UnknownUserAndWrongPasswordIndistinguishable(t *testing.T) {
	svc, mockUsers, _, _, _, _ := setupAuthService(t)

	_, errUnknown := svc.Login(context.Background(), service.LoginInput{
		Username: "nouser",
		Password: "123456",
	})

	mockUsers.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "hashed_other",
		}, nil
	}

	_, errWrongPassword := svc.Login(context.Background(), service.LoginInput{
		Username: "user1",
		Password: "123456",
	})

	if !errors.Is(errUnknown, service.ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed for unknown user, got %v", errUnknown)
	}

	if !errors.Is(errWrongPassword, service.ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed for wrong password, got %v", errWrongPassword)
	}

	if errUnknown.Error() != errWrongPassword.Error() {
		t.Errorf("expected identical errors, got %q vs %q", errUnknown, errWrongPassword)
	}
}

func TestAuthService_Login_StorageErrorIsNotAuthFailure(t *testing.T) {
	svc, mockUsers, _, _, _, _ := setupAuthService(t)

	mockUsers.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("connection refused")
	}

	_, err := svc.Login(context.Background(), service.LoginInput{
		Username: "user1",
		Password: "123456",
	})

	if !errors.Is(err, service.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}

	if errors.Is(err, service.ErrAuthenticationFailed) {
		t.Error("storage failure must not be reported as bad credentials")
	}
}

func TestAuthService_ResolveAfterLogin(t *testing.T) {
	svc, mockUsers, mockSessions, _, _, _ := setupAuthService(t)

	mockUsers.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "hashed_123456",
		}, nil
	}

	var stored sessiondomain.Session
	mockSessions.createFunc = func(ctx context.Context, session sessiondomain.Session) error {
		stored = session
		return nil
	}
	mockSessions.findByTokenHashFunc = func(ctx context.Context, hash string) (sessiondomain.Session, error) {
		if hash != stored.TokenHash {
			return sessiondomain.Session{}, sessionrepo.ErrSessionNotFound
		}
		return stored, nil
	}

	result, err := svc.Login(context.Background(), service.LoginInput{
		Username: "user1",
		Password: "123456",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	userID, err := svc.Resolve(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if userID != "user-123" {
		t.Errorf("expected user id user-123, got %s", userID)
	}

	_, err = svc.Resolve(context.Background(), "not-the-token")
	if !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for bogus token, got %v", err)
	}
}

func TestAuthService_Resolve_ExpiredSession(t *testing.T) {
	svc, mockUsers, mockSessions, _, _, mockClock := setupAuthService(t)

	mockUsers.findByUsernameFunc = func(ctx context.Context, username string) (userdomain.User, error) {
		return userdomain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "hashed_123456",
		}, nil
	}

	var stored sessiondomain.Session
	deleted := false
	mockSessions.createFunc = func(ctx context.Context, session sessiondomain.Session) error {
		stored = session
		return nil
	}
	mockSessions.findByTokenHashFunc = func(ctx context.Context, hash string) (sessiondomain.Session, error) {
		return stored, nil
	}
	mockSessions.deleteByTokenHashFunc = func(ctx context.Context, hash string) error {
		deleted = true
		return nil
	}

	result, err := svc.Login(context.Background(), service.LoginInput{
		Username: "user1",
		Password: "123456",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	mockClock.Advance(time.Hour + time.Minute)

	_, err = svc.Resolve(context.Background(), result.Token)
	if !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for expired session, got %v", err)
	}

	if !deleted {
		t.Error("expected expired session to be deleted")
	}
}

func TestAuthService_Resolve_EmptyToken(t *testing.T) {
	svc, _, _, _, _, _ := setupAuthService(t)

	_, err := svc.Resolve(context.Background(), "")
	if !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	svc, _, mockSessions, _, _, _ := setupAuthService(t)

	deletes := 0
	mockSessions.deleteByTokenHashFunc = func(ctx context.Context, hash string) error {
		deletes++
		if deletes > 1 {
			return sessionrepo.ErrSessionNotFound
		}
		return nil
	}

	if err := svc.Logout(context.Background(), "some-token"); err != nil {
		t.Fatalf("first logout failed: %v", err)
	}

	if err := svc.Logout(context.Background(), "some-token"); err != nil {
		t.Fatalf("repeated logout must succeed, got %v", err)
	}

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("logout without a token must succeed, got %v", err)
	}
}

func TestAuthService_Logout_StorageError(t *testing.T) {
	svc, _, mockSessions, _, _, _ := setupAuthService(t)

	mockSessions.deleteByTokenHashFunc = func(ctx context.Context, hash string) error {
		return errors.New("connection refused")
	}

	err := svc.Logout(context.Background(), "some-token")
	if !errors.Is(err, service.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	svc, mockUsers, _, _, _, mockClock := setupAuthService(t)

	mockUsers.findByIDFunc = func(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
		if id != "user-123" {
			return userdomain.User{}, userrepo.ErrUserNotFound
		}
		return userdomain.User{
			ID:           id,
			Username:     "user1",
			PasswordHash: "hashed_123456",
			CreatedAt:    mockClock.Now(),
		}, nil
	}

	view, err := svc.Profile(context.Background(), "user-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if view.Username != "user1" {
		t.Errorf("expected username user1, got %s", view.Username)
	}

	_, err = svc.Profile(context.Background(), "gone-user")
	if !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for deleted user, got %v", err)
	}
}
