package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/db"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
)

// setupTestDB migrates and empties the database named by TEST_DATABASE_URL.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, db.RunMigrations(ctx, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE hunts, bonuses, slot_database, admin_sessions, meta`)
	require.NoError(t, err)

	return pool
}

func newTestHunt(title string) *models.Hunt {
	token := uuid.NewString()
	return &models.Hunt{
		ID:           uuid.NewString(),
		Title:        title,
		Casino:       "Stake",
		Currency:     "USD",
		StartBalance: decimal.NewFromInt(100),
		Status:       models.HuntStatusCollecting,
		IsPublic:     true,
		PublicToken:  &token,
	}
}

func newTestBonus(huntID string, order int, bet int64) *models.Bonus {
	return &models.Bonus{
		ID:        uuid.NewString(),
		HuntID:    huntID,
		SlotName:  "Sweet Bonanza",
		Provider:  "Pragmatic Play",
		BetAmount: decimal.NewFromInt(bet),
		Order:     order,
	}
}

func TestHuntStore(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	hunts := NewHuntStore(pool)
	bonuses := NewBonusStore(pool)

	first := newTestHunt("first")
	require.NoError(t, hunts.CreateHunt(ctx, first))
	assert.False(t, first.CreatedAt.IsZero())

	second := newTestHunt("second")
	require.NoError(t, hunts.CreateHunt(ctx, second))
	require.NoError(t, bonuses.CreateBonus(ctx, newTestBonus(second.ID, 1, 10)))

	list, err := hunts.ListHunts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, 1, list[0].BonusCount)
	assert.Equal(t, 0, list[1].BonusCount)

	latest, err := hunts.GetLatestHunt(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	byToken, err := hunts.GetHuntByPublicToken(ctx, *first.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byToken.ID)

	first.Status = models.HuntStatusPlaying
	first.EndBalance = decimal.NewNullDecimal(decimal.NewFromInt(40))
	require.NoError(t, hunts.UpdateHunt(ctx, first))

	got, err := hunts.GetHunt(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HuntStatusPlaying, got.Status)
	assert.True(t, got.EndBalance.Decimal.Equal(decimal.NewFromInt(40)))

	stats, err := hunts.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalHunts)
	assert.Equal(t, 2, stats.ActiveHunts)
	assert.True(t, stats.TotalSpent.Equal(decimal.NewFromInt(160)), stats.TotalSpent.String())

	_, err = hunts.GetHunt(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = hunts.GetHunt(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	dup := newTestHunt("dup")
	dup.PublicToken = first.PublicToken
	assert.ErrorIs(t, hunts.CreateHunt(ctx, dup), ErrConflict)
}

func TestDeleteHuntCascades(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	hunts := NewHuntStore(pool)
	bonuses := NewBonusStore(pool)

	h := newTestHunt("cascade")
	require.NoError(t, hunts.CreateHunt(ctx, h))
	b := newTestBonus(h.ID, 1, 10)
	require.NoError(t, bonuses.CreateBonus(ctx, b))

	require.NoError(t, hunts.DeleteHunt(ctx, h.ID))
	assert.ErrorIs(t, hunts.DeleteHunt(ctx, h.ID), ErrNotFound)

	_, err := bonuses.GetBonus(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBonusStore(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	hunts := NewHuntStore(pool)
	bonuses := NewBonusStore(pool)

	h := newTestHunt("bonuses")
	require.NoError(t, hunts.CreateHunt(ctx, h))

	next, err := bonuses.NextOrder(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	late := newTestBonus(h.ID, 5, 20)
	early := newTestBonus(h.ID, 2, 10)
	require.NoError(t, bonuses.CreateBonus(ctx, late))
	require.NoError(t, bonuses.CreateBonus(ctx, early))
	assert.Equal(t, models.BonusStatusWaiting, early.Status)

	next, err = bonuses.NextOrder(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, next)

	list, err := bonuses.ListBonusesByHunt(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)

	early.WinAmount = decimal.NewNullDecimal(decimal.NewFromInt(15))
	early.Multiplier = decimal.NewNullDecimal(decimal.NewFromFloat(1.5))
	early.IsPlayed = true
	require.NoError(t, bonuses.UpdateBonus(ctx, early))

	got, err := bonuses.GetBonus(ctx, early.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPlayed)
	assert.Equal(t, models.BonusStatusOpened, got.Status)
	assert.True(t, got.Multiplier.Decimal.Equal(decimal.NewFromFloat(1.5)))

	stats, err := hunts.GetStats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.TotalWon.Equal(decimal.NewFromInt(15)))

	orphan := newTestBonus(uuid.NewString(), 1, 10)
	assert.ErrorIs(t, bonuses.CreateBonus(ctx, orphan), ErrNotFound)

	require.NoError(t, bonuses.DeleteBonus(ctx, late.ID))
	assert.ErrorIs(t, bonuses.DeleteBonus(ctx, late.ID), ErrNotFound)
	assert.ErrorIs(t, bonuses.UpdateBonus(ctx, late), ErrNotFound)
}

func TestSlotStore(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	slots := NewSlotStore(pool)

	category := "video"
	catalog := []*models.Slot{
		{ID: uuid.NewString(), Name: "Sweet Bonanza", Provider: "Pragmatic Play", Category: &category},
		{ID: uuid.NewString(), Name: "Sweet Bonanza 1000", Provider: "Pragmatic Play"},
		{ID: uuid.NewString(), Name: "Wanted Dead or a Wild", Provider: "Hacksaw"},
		{ID: uuid.NewString(), Name: "100%_Hot", Provider: "Novomatic"},
	}
	require.NoError(t, slots.ReplaceSlots(ctx, catalog))

	n, err := slots.CountSlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	found, err := slots.SearchSlots(ctx, "SWEET", 50)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Sweet Bonanza", found[0].Name)

	found, err = slots.SearchSlots(ctx, "sweet", 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = slots.SearchSlots(ctx, "%", 50)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100%_Hot", found[0].Name)

	slot, err := slots.GetSlotByName(ctx, "Sweet Bonanza")
	require.NoError(t, err)
	assert.Equal(t, "video", *slot.Category)

	_, err = slots.GetSlotByName(ctx, "sweet bonanza")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, slots.ReplaceSlots(ctx, catalog[:1]))
	n, err = slots.CountSlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSessionAndMetaStore(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	sessions := NewSessionStore(pool)
	meta := NewMetaStore(pool)

	now := time.Now()
	live := &models.AdminSession{ID: uuid.NewString(), SessionToken: uuid.NewString(), ExpiresAt: now.Add(time.Hour)}
	stale := &models.AdminSession{ID: uuid.NewString(), SessionToken: uuid.NewString(), ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, sessions.CreateSession(ctx, live))
	require.NoError(t, sessions.CreateSession(ctx, stale))

	got, err := sessions.GetSessionByToken(ctx, live.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)

	deleted, err := sessions.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = sessions.GetSessionByToken(ctx, stale.SessionToken)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, sessions.DeleteSession(ctx, live.SessionToken))
	_, err = sessions.GetSessionByToken(ctx, live.SessionToken)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = meta.GetMeta(ctx, "slots.last_import")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, meta.SetMeta(ctx, "slots.last_import", "a"))
	require.NoError(t, meta.SetMeta(ctx, "slots.last_import", "b"))
	value, err := meta.GetMeta(ctx, "slots.last_import")
	require.NoError(t, err)
	assert.Equal(t, "b", *value)
}
