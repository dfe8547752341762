package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/authgate/authgate/internal/common/clock"
	"github.com/authgate/authgate/internal/common/constants"
	commoncrypto "github.com/authgate/authgate/internal/common/crypto"
	"github.com/authgate/authgate/internal/common/logger"
	sessiondomain "github.com/authgate/authgate/internal/session/domain"
	sessionrepo "github.com/authgate/authgate/internal/session/repository"
	userdomain "github.com/authgate/authgate/internal/user/domain"
	userrepo "github.com/authgate/authgate/internal/user/repository"
)

// AuthService owns the credential and session lifecycle: it is the only
// component that sees plaintext passwords or raw session tokens.
type AuthService struct {
	users       userrepo.Repository
	sessions    sessionrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
	sessionTTL  time.Duration
}

func NewAuthService(
	users userrepo.Repository,
	sessions sessionrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	sessionTTL time.Duration,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		sessions:    sessions,
		hasher:      hasher,
		idGenerator: idGenerator,
		clock:       clk,
		log:         log,
		sessionTTL:  sessionTTL,
	}
}

type RegisterInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the raw session token back to the transport
// layer. It must end up only in the session cookie, never in a URL or
// response body.
type LoginResult struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateCredentials(input.Username, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return "", err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return "", err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return "", err
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			return "", ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return "", ErrStorageUnavailable.WithCause(err)
	}

	incrementUsersRegistered()

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return string(user.ID), nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			incrementLoginFailures()
			return LoginResult{}, ErrAuthenticationFailed
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, ErrStorageUnavailable.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		incrementLoginFailures()
		return LoginResult{}, ErrAuthenticationFailed
	}

	session, err := s.createSession(ctx, string(user.ID))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "login_session_create_failed",
		}).Errorf("login failed: session create error: %v", err)
		return LoginResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	return session, nil
}

// Resolve maps a raw session token to the user identity it proves.
// An absent, destroyed or expired token yields ErrUnauthenticated.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}

	session, err := s.sessions.FindByTokenHash(ctx, hashSessionToken(token))
	if err != nil {
		if errors.Is(err, sessionrepo.ErrSessionNotFound) {
			return "", ErrUnauthenticated
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "resolve_lookup_failed",
		}).Errorf("session resolve failed: %v", err)
		return "", ErrStorageUnavailable.WithCause(err)
	}

	// The stores already hide expired records; this guards against
	// clock skew between instances sharing the store.
	if s.clock.Now().After(session.ExpiresAt) {
		incrementSessionsExpired()
		if err := s.sessions.DeleteByTokenHash(ctx, session.TokenHash); err != nil {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": session.UserID,
				"action":  "resolve_delete_expired_failed",
			}).Errorf("failed to delete expired session: %v", err)
		}
		return "", ErrUnauthenticated
	}

	incrementSessionsResolved()
	return session.UserID, nil
}

// Logout destroys the session behind the token. It is idempotent:
// unknown, expired and already-destroyed tokens all succeed.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.sessions.DeleteByTokenHash(ctx, hashSessionToken(token)); err != nil {
		if errors.Is(err, sessionrepo.ErrSessionNotFound) {
			return nil
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "logout_delete_failed",
		}).Errorf("logout failed: %v", err)
		return ErrStorageUnavailable.WithCause(err)
	}

	incrementSessionsDestroyed()

	s.log.WithFields(ctx, logger.Fields{
		"action": "logout_success",
	}).Info("logout success")

	return nil
}

// Profile returns the identity view for an already-resolved user id.
// The password hash never crosses this boundary.
func (s *AuthService) Profile(ctx context.Context, userID string) (userdomain.View, error) {
	user, err := s.users.FindByID(ctx, userdomain.ID(userID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return userdomain.View{}, ErrUnauthenticated
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "profile_fetch_failed",
		}).Errorf("profile fetch failed: %v", err)
		return userdomain.View{}, ErrStorageUnavailable.WithCause(err)
	}

	return user.View(), nil
}

func (s *AuthService) createSession(ctx context.Context, userID string) (LoginResult, error) {
	rawToken, err := generateSessionToken()
	if err != nil {
		return LoginResult{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return LoginResult{}, err
	}

	now := s.clock.Now()
	session := sessiondomain.Session{
		ID:        id,
		TokenHash: hashSessionToken(rawToken),
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return LoginResult{}, ErrStorageUnavailable.WithCause(err)
	}

	incrementSessionsCreated()

	return LoginResult{
		Token:     rawToken,
		UserID:    userID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func generateSessionToken() (string, error) {
	b := make([]byte, constants.SessionTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
