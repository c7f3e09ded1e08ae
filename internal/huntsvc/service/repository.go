package service

import (
	"context"
	"time"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/store"
)

type HuntRepository interface {
	ListHunts(ctx context.Context) ([]*models.HuntWithBonusCount, error)
	GetHunt(ctx context.Context, id string) (*models.Hunt, error)
	GetHuntByPublicToken(ctx context.Context, token string) (*models.Hunt, error)
	GetLatestHunt(ctx context.Context) (*models.Hunt, error)
	CreateHunt(ctx context.Context, h *models.Hunt) error
	UpdateHunt(ctx context.Context, h *models.Hunt) error
	DeleteHunt(ctx context.Context, id string) error
	GetStats(ctx context.Context) (*models.GlobalStats, error)
}

type BonusRepository interface {
	ListBonusesByHunt(ctx context.Context, huntID string) ([]*models.Bonus, error)
	GetBonus(ctx context.Context, id string) (*models.Bonus, error)
	NextOrder(ctx context.Context, huntID string) (int, error)
	CreateBonus(ctx context.Context, b *models.Bonus) error
	UpdateBonus(ctx context.Context, b *models.Bonus) error
	DeleteBonus(ctx context.Context, id string) error
}

type SlotRepository interface {
	SearchSlots(ctx context.Context, query string, limit int) ([]*models.Slot, error)
	GetSlotByName(ctx context.Context, name string) (*models.Slot, error)
	ReplaceSlots(ctx context.Context, slots []*models.Slot) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.AdminSession) error
	GetSessionByToken(ctx context.Context, token string) (*models.AdminSession, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type MetaRepository interface {
	GetMeta(ctx context.Context, key string) (*string, error)
	SetMeta(ctx context.Context, key, value string) error
}

var (
	_ HuntRepository    = (*store.HuntStore)(nil)
	_ BonusRepository   = (*store.BonusStore)(nil)
	_ SlotRepository    = (*store.SlotStore)(nil)
	_ SessionRepository = (*store.SessionStore)(nil)
	_ MetaRepository    = (*store.MetaStore)(nil)
)
