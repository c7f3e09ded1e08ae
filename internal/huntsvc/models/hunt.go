package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	HuntStatusCollecting = "collecting"
	HuntStatusPlaying    = "playing"
	HuntStatusCompleted  = "completed"
)

// Currencies a hunt can be tracked in.
var Currencies = []string{"USD", "CAD", "AUD"}

type Hunt struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Casino           string              `json:"casino"`
	Currency         string              `json:"currency"`
	StartBalance     decimal.Decimal     `json:"startBalance"`
	EndBalance       decimal.NullDecimal `json:"endBalance"`
	TotalWon         decimal.Decimal     `json:"totalWon"`
	Status           string              `json:"status"`
	Notes            *string             `json:"notes"`
	IsPublic         bool                `json:"isPublic"`
	PublicToken      *string             `json:"publicToken"`
	IsPlaying        bool                `json:"isPlaying"`
	CurrentSlotIndex int                 `json:"currentSlotIndex"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// HasStarted reports whether play has begun, which is when an end balance may be recorded.
func (h *Hunt) HasStarted() bool {
	return h.IsPlaying || h.Status != HuntStatusCollecting
}

type HuntWithBonusCount struct {
	Hunt
	BonusCount int `json:"bonusCount"`
}

// HuntView is a hunt together with its bonuses in display order.
type HuntView struct {
	Hunt    *Hunt    `json:"hunt"`
	Bonuses []*Bonus `json:"bonuses"`
}
