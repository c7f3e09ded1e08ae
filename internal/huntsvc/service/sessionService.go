package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const DefaultSessionTTL = 24 * time.Hour

// SessionService issues and checks admin bearer tokens.
type SessionService struct {
	store    SessionRepository
	meta     MetaRepository
	adminKey string
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionService(store SessionRepository, meta MetaRepository, adminKey string, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		store:    store,
		meta:     meta,
		adminKey: adminKey,
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetClock replaces the time source, used by tests.
func (s *SessionService) SetClock(now func() time.Time) {
	s.now = now
}

// Login exchanges the shared admin key for a new session.
func (s *SessionService) Login(ctx context.Context, adminKey string) (*models.AdminSession, error) {
	if s.adminKey == "" || subtle.ConstantTimeCompare([]byte(adminKey), []byte(s.adminKey)) != 1 {
		return nil, ErrInvalidKey
	}

	if _, err := s.Sweep(ctx); err != nil {
		log.Warnf("session sweep before login failed: %v", err)
	}

	now := s.now()
	session := &models.AdminSession{
		ID:           uuid.New().String(),
		SessionToken: uuid.New().String(),
		ExpiresAt:    now.Add(s.ttl),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	log.Infof("admin session created, expires at %s", session.ExpiresAt.Format(time.RFC3339))
	return session, nil
}

// Check fails closed: any token that cannot be matched to a live session is rejected.
// Expired sessions are deleted on detection.
func (s *SessionService) Check(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}

	session, err := s.store.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("load session: %w", err)
	}

	if session.Expired(s.now()) {
		if err := s.store.DeleteSession(ctx, token); err != nil {
			log.Errorf("failed to delete expired session: %v", err)
		}
		return ErrSessionExpired
	}

	return nil
}

// Sweep deletes all expired sessions and records when it ran.
func (s *SessionService) Sweep(ctx context.Context) (int64, error) {
	now := s.now()
	n, err := s.store.DeleteExpiredSessions(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if s.meta != nil {
		if err := s.meta.SetMeta(ctx, models.MetaSessionsLastSweep, now.UTC().Format(time.RFC3339)); err != nil {
			log.Warnf("failed to record session sweep: %v", err)
		}
	}
	if n > 0 {
		log.Infof("swept %d expired admin sessions", n)
	}
	return n, nil
}
