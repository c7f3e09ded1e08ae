package store

import (
	"context"
	"fmt"
	"time"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionStore struct {
	db *pgxpool.Pool
}

func NewSessionStore(db *pgxpool.Pool) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) CreateSession(ctx context.Context, session *models.AdminSession) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO admin_sessions (id, session_token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, session.ID, session.SessionToken, session.ExpiresAt).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not create session: %w", mapErr(err))
	}
	return nil
}

func (s *SessionStore) GetSessionByToken(ctx context.Context, token string) (*models.AdminSession, error) {
	session := &models.AdminSession{}
	err := s.db.QueryRow(ctx, `
		SELECT id, session_token, expires_at, created_at
		FROM admin_sessions
		WHERE session_token = $1
		LIMIT 1
	`, token).Scan(&session.ID, &session.SessionToken, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return session, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM admin_sessions WHERE session_token = $1`, token)
	return mapErr(err)
}

// DeleteExpiredSessions removes every session that expired before now.
func (s *SessionStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM admin_sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}
