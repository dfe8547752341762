package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/authgate/authgate/internal/common/db"
	"github.com/authgate/authgate/internal/session/domain"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, session domain.Session) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO sessions (id, token_hash, user_id, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		session.ID,
		session.TokenHash,
		session.UserID,
		session.ExpiresAt,
		session.CreatedAt,
	)
	return db.HandleExecError(err, "create session", start)
}

// FindByTokenHash filters on expires_at so an expired record is
// indistinguishable from a missing one even before cleanup removes it.
func (r *PgRepository) FindByTokenHash(ctx context.Context, hash string) (domain.Session, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, token_hash, user_id, expires_at, created_at
		 FROM sessions
		 WHERE token_hash = $1 AND expires_at > NOW()`,
		hash,
	)

	var session domain.Session
	err := row.Scan(&session.ID, &session.TokenHash, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err := db.HandleQueryError(err, ErrSessionNotFound, "find session", start); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (r *PgRepository) DeleteByTokenHash(ctx context.Context, hash string) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`DELETE FROM sessions WHERE token_hash = $1`,
		hash,
	)
	return db.HandleExecError(err, "delete session", start)
}

func (r *PgRepository) DeleteExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	res, err := r.pool.Exec(
		ctx,
		`DELETE FROM sessions WHERE expires_at < NOW()`,
	)
	if err != nil {
		return 0, db.HandleExecError(err, "delete expired sessions", start)
	}
	db.MeasureQueryDuration("delete expired sessions", start)
	return res.RowsAffected(), nil
}
