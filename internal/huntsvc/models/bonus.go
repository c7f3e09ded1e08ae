package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BonusStatusWaiting = "waiting"
	BonusStatusOpened  = "opened"
)

type Bonus struct {
	ID         string              `json:"id"`
	HuntID     string              `json:"huntId"`
	SlotName   string              `json:"slotName"`
	Provider   string              `json:"provider"`
	ImageURL   *string             `json:"imageUrl"`
	BetAmount  decimal.Decimal     `json:"betAmount"`
	Multiplier decimal.NullDecimal `json:"multiplier"`
	WinAmount  decimal.NullDecimal `json:"winAmount"`
	Order      int                 `json:"order"`
	IsPlayed   bool                `json:"isPlayed"`
	Status     string              `json:"status"` // derived from IsPlayed, never stored
	CreatedAt  time.Time           `json:"createdAt"`
}

// SyncStatus derives Status from IsPlayed.
func (b *Bonus) SyncStatus() {
	if b.IsPlayed {
		b.Status = BonusStatusOpened
		return
	}
	b.Status = BonusStatusWaiting
}

// Win returns the recorded win amount, zero when unset.
func (b *Bonus) Win() decimal.Decimal {
	if !b.WinAmount.Valid {
		return decimal.Zero
	}
	return b.WinAmount.Decimal
}

// MultiplierValue returns the recorded multiplier, zero when unset.
func (b *Bonus) MultiplierValue() decimal.Decimal {
	if !b.Multiplier.Valid {
		return decimal.Zero
	}
	return b.Multiplier.Decimal
}

// MoneyScale matches the scale of the money columns.
const MoneyScale = 2

// Money rounds an amount to the stored money scale.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// Multiplier computes win / bet, or zero when the bet is not positive.
func Multiplier(win, bet decimal.Decimal) decimal.Decimal {
	if !bet.IsPositive() {
		return decimal.Zero
	}
	return win.Div(bet)
}
