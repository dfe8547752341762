package repository

import (
	"context"
	"errors"

	"github.com/authgate/authgate/internal/session/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// Repository persists sessions in a store shared by every process
// instance. FindByTokenHash must treat expired records as absent;
// DeleteByTokenHash is idempotent.
type Repository interface {
	Create(ctx context.Context, session domain.Session) error
	FindByTokenHash(ctx context.Context, hash string) (domain.Session, error)
	DeleteByTokenHash(ctx context.Context, hash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
