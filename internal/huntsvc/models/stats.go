package models

import "github.com/shopspring/decimal"

// HuntStats is recomputed per request from a hunt and its bonuses; it is never stored.
type HuntStats struct {
	HuntID         string          `json:"huntId"`
	BonusCount     int             `json:"bonusCount"`
	PlayedCount    int             `json:"playedCount"`
	Progress       decimal.Decimal `json:"progress"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	AverageBet     decimal.Decimal `json:"averageBet"`
	TotalWin       decimal.Decimal `json:"totalWin"`
	Profit         decimal.Decimal `json:"profit"`
	ROI            decimal.Decimal `json:"roi"`
	BestWin        *Bonus          `json:"bestWin"`
	BestMultiplier *Bonus          `json:"bestMultiplier"`
	NextBonus      *Bonus          `json:"nextBonus"`
	Providers      []ProviderShare `json:"providers"`
}

type ProviderShare struct {
	Provider   string          `json:"provider"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

type GlobalStats struct {
	TotalHunts  int             `json:"totalHunts"`
	ActiveHunts int             `json:"activeHunts"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	TotalWon    decimal.Decimal `json:"totalWon"`
}

// HuntOverlay is what OBS browser sources and push clients render.
type HuntOverlay struct {
	*HuntView
	Stats *HuntStats `json:"stats"`
}
