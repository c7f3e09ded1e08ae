package service

import (
	"context"
	"testing"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayoutScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHunt(t, "100")

	first, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "Gates of Olympus", Provider: "Pragmatic", BetAmount: ptr(dec("10"))})
	require.NoError(t, err)
	second, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "Wanted Dead or a Wild", Provider: "Hacksaw", BetAmount: ptr(dec("20"))})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 2, second.Order)
	assert.Equal(t, models.BonusStatusWaiting, first.Status)

	paid, err := f.bonuses.SubmitPayout(ctx, first.ID, dec("15"))
	require.NoError(t, err)
	assert.Equal(t, "1.5", paid.Multiplier.Decimal.String())
	assert.True(t, paid.IsPlayed)
	assert.Equal(t, models.BonusStatusOpened, paid.Status)

	mid, err := f.hunts.GetHunt(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HuntStatusPlaying, mid.Status)
	assert.Equal(t, "15.00", mid.TotalWon.StringFixed(2))
	assert.Equal(t, 1, mid.CurrentSlotIndex)

	zero, err := f.bonuses.SubmitPayout(ctx, second.ID, dec("0"))
	require.NoError(t, err)
	assert.True(t, zero.Multiplier.Decimal.IsZero())

	done, err := f.hunts.GetHunt(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HuntStatusCompleted, done.Status)
	assert.Equal(t, "15.00", done.TotalWon.StringFixed(2))
	assert.Equal(t, 2, done.CurrentSlotIndex)
	assert.Equal(t, []string{h.ID}, f.notifier.Completed)

	stats, err := f.hunts.HuntStats(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", stats.Progress.StringFixed(2))
	assert.Equal(t, "-50.00", stats.ROI.StringFixed(2))
	assert.Equal(t, first.ID, stats.BestWin.ID)

	assert.Equal(t, []string{"created", "bonus-added", "bonus-added", "payout", "payout"}, f.events.Reasons())
}

func TestPayoutRejectsNegativeWin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHunt(t, "100")
	b, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "Sugar Rush", Provider: "Pragmatic", BetAmount: ptr(dec("1"))})
	require.NoError(t, err)

	_, err = f.bonuses.SubmitPayout(ctx, b.ID, dec("-3"))
	assert.True(t, IsValidation(err))

	_, err = f.bonuses.SubmitPayout(ctx, "missing", dec("3"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBonusValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: "missing", SlotName: "a", Provider: "b", BetAmount: ptr(dec("1"))})
	assert.ErrorIs(t, err, ErrNotFound)

	h := f.createHunt(t, "100")
	_, err = f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "a", Provider: "b", BetAmount: ptr(dec("-1"))})
	assert.True(t, IsValidation(err))

	_, err = f.hunts.UpdateHunt(ctx, h.ID, UpdateHuntInput{Status: ptr(models.HuntStatusCompleted)})
	require.NoError(t, err)
	_, err = f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "a", Provider: "b", BetAmount: ptr(dec("1"))})
	assert.True(t, IsValidation(err))
}

func TestListBonusesInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHunt(t, "100")

	for _, in := range []CreateBonusInput{
		{HuntID: h.ID, SlotName: "third", Provider: "p", BetAmount: ptr(dec("1")), Order: ptr(3)},
		{HuntID: h.ID, SlotName: "first", Provider: "p", BetAmount: ptr(dec("1")), Order: ptr(1)},
		{HuntID: h.ID, SlotName: "second", Provider: "p", BetAmount: ptr(dec("1")), Order: ptr(2)},
	} {
		_, err := f.bonuses.CreateBonus(ctx, in)
		require.NoError(t, err)
	}
	next, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "fourth", Provider: "p", BetAmount: ptr(dec("1"))})
	require.NoError(t, err)
	assert.Equal(t, 4, next.Order)

	list, err := f.bonuses.ListBonuses(ctx, h.ID)
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.SlotName
	}
	assert.Equal(t, []string{"first", "second", "third", "fourth"}, names)

	_, err = f.bonuses.ListBonuses(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBonusBetLockedWhilePlaying(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHunt(t, "100")
	b, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "Sugar Rush", Provider: "Pragmatic", BetAmount: ptr(dec("1"))})
	require.NoError(t, err)

	updated, err := f.bonuses.UpdateBonus(ctx, b.ID, UpdateBonusInput{BetAmount: ptr(dec("2")), SlotName: ptr("Sugar Rush 1000")})
	require.NoError(t, err)
	assert.Equal(t, "2", updated.BetAmount.String())
	assert.Equal(t, "Sugar Rush 1000", updated.SlotName)

	_, err = f.hunts.StartPlaying(ctx, h.ID)
	require.NoError(t, err)

	_, err = f.bonuses.UpdateBonus(ctx, b.ID, UpdateBonusInput{BetAmount: ptr(dec("5"))})
	assert.True(t, IsValidation(err))

	// same bet and other fields still allowed
	_, err = f.bonuses.UpdateBonus(ctx, b.ID, UpdateBonusInput{BetAmount: ptr(dec("2")), Provider: ptr("Pragmatic Play")})
	assert.NoError(t, err)
}

func TestDeleteBonusRecomputes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHunt(t, "100")
	played, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "a", Provider: "p", BetAmount: ptr(dec("10"))})
	require.NoError(t, err)
	pending, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "b", Provider: "p", BetAmount: ptr(dec("10"))})
	require.NoError(t, err)

	_, err = f.bonuses.SubmitPayout(ctx, played.ID, dec("40"))
	require.NoError(t, err)

	require.NoError(t, f.bonuses.DeleteBonus(ctx, pending.ID))

	reloaded, err := f.hunts.GetHunt(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HuntStatusCompleted, reloaded.Status)
	assert.Equal(t, "40.00", reloaded.TotalWon.StringFixed(2))

	assert.ErrorIs(t, f.bonuses.DeleteBonus(ctx, pending.ID), ErrNotFound)
}

func TestBetLockedAfterPayoutWithoutStartPlaying(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHunt(t, "100")
	first, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "a", Provider: "p", BetAmount: ptr(dec("10"))})
	require.NoError(t, err)
	_, err = f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "b", Provider: "p", BetAmount: ptr(dec("10"))})
	require.NoError(t, err)

	_, err = f.bonuses.SubmitPayout(ctx, first.ID, dec("50"))
	require.NoError(t, err)

	mid, err := f.hunts.GetHunt(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HuntStatusPlaying, mid.Status)
	assert.False(t, mid.IsPlaying)

	_, err = f.bonuses.UpdateBonus(ctx, first.ID, UpdateBonusInput{BetAmount: ptr(dec("25"))})
	assert.True(t, IsValidation(err))

	kept, err := f.mem.GetBonus(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", kept.BetAmount.String())
	assert.Equal(t, "5", kept.Multiplier.Decimal.String())
}

func TestBetEditOnPaidBonusRecomputesMultiplier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHunt(t, "100")
	first, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "a", Provider: "p", BetAmount: ptr(dec("10"))})
	require.NoError(t, err)
	_, err = f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "b", Provider: "p", BetAmount: ptr(dec("10"))})
	require.NoError(t, err)

	_, err = f.bonuses.SubmitPayout(ctx, first.ID, dec("50"))
	require.NoError(t, err)

	// admin rewinds the hunt to collecting to fix a typo in the bet
	_, err = f.hunts.UpdateHunt(ctx, h.ID, UpdateHuntInput{Status: ptr(models.HuntStatusCollecting)})
	require.NoError(t, err)

	updated, err := f.bonuses.UpdateBonus(ctx, first.ID, UpdateBonusInput{BetAmount: ptr(dec("25"))})
	require.NoError(t, err)
	assert.Equal(t, "2", updated.Multiplier.Decimal.String())

	stored, err := f.mem.GetBonus(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, stored.Multiplier.Decimal.Equal(stored.WinAmount.Decimal.Div(stored.BetAmount)))
}

func TestMoneyRoundedBeforeMultiplier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHunt(t, "100")

	tiny, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "a", Provider: "p", BetAmount: ptr(dec("0.004"))})
	require.NoError(t, err)
	assert.True(t, tiny.BetAmount.IsZero())
	unit, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "b", Provider: "p", BetAmount: ptr(dec("1"))})
	require.NoError(t, err)

	paid, err := f.bonuses.SubmitPayout(ctx, tiny.ID, dec("5"))
	require.NoError(t, err)
	assert.True(t, paid.Multiplier.Decimal.IsZero())

	paid, err = f.bonuses.SubmitPayout(ctx, unit.ID, dec("1.005"))
	require.NoError(t, err)
	assert.Equal(t, "1.01", paid.WinAmount.Decimal.String())
	assert.Equal(t, "1.01", paid.Multiplier.Decimal.String())

	other := f.createHunt(t, "100")
	b, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: other.ID, SlotName: "c", Provider: "p", BetAmount: ptr(dec("1"))})
	require.NoError(t, err)
	updated, err := f.bonuses.UpdateBonus(ctx, b.ID, UpdateBonusInput{BetAmount: ptr(dec("2.499"))})
	require.NoError(t, err)
	assert.Equal(t, "2.5", updated.BetAmount.String())
}

func TestCursorFollowsInsertAndReorder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHunt(t, "100")
	played, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "a", Provider: "p", BetAmount: ptr(dec("10")), Order: ptr(2)})
	require.NoError(t, err)
	_, err = f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "b", Provider: "p", BetAmount: ptr(dec("10")), Order: ptr(3)})
	require.NoError(t, err)

	_, err = f.bonuses.SubmitPayout(ctx, played.ID, dec("20"))
	require.NoError(t, err)
	h, err = f.hunts.GetHunt(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.CurrentSlotIndex)

	inserted, err := f.bonuses.CreateBonus(ctx, CreateBonusInput{HuntID: h.ID, SlotName: "c", Provider: "p", BetAmount: ptr(dec("10")), Order: ptr(1)})
	require.NoError(t, err)
	h, err = f.hunts.GetHunt(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, h.CurrentSlotIndex)

	_, err = f.bonuses.UpdateBonus(ctx, inserted.ID, UpdateBonusInput{Order: ptr(4)})
	require.NoError(t, err)
	h, err = f.hunts.GetHunt(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.CurrentSlotIndex)
}
