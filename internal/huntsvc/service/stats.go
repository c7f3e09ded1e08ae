package service

import (
	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeStats derives the dashboard numbers for one hunt. bonuses must be in
// display order; ties for best win and best multiplier keep the earliest bonus.
//
// ROI is profit over cost: (totalWin - totalCost) / totalCost * 100.
func ComputeStats(h *models.Hunt, bonuses []*models.Bonus) *models.HuntStats {
	stats := &models.HuntStats{
		HuntID:     h.ID,
		BonusCount: len(bonuses),
		Progress:   decimal.Zero,
		TotalCost:  decimal.Zero,
		AverageBet: decimal.Zero,
		TotalWin:   decimal.Zero,
		Profit:     decimal.Zero,
		ROI:        decimal.Zero,
		Providers:  []models.ProviderShare{},
	}

	providerIndex := map[string]int{}
	for _, b := range bonuses {
		stats.TotalCost = stats.TotalCost.Add(b.BetAmount)

		if i, ok := providerIndex[b.Provider]; ok {
			stats.Providers[i].Count++
		} else {
			providerIndex[b.Provider] = len(stats.Providers)
			stats.Providers = append(stats.Providers, models.ProviderShare{Provider: b.Provider, Count: 1})
		}

		if !b.IsPlayed {
			if stats.NextBonus == nil && h.IsPlaying {
				stats.NextBonus = b
			}
			continue
		}

		stats.PlayedCount++
		stats.TotalWin = stats.TotalWin.Add(b.Win())
		if stats.BestWin == nil || b.Win().GreaterThan(stats.BestWin.Win()) {
			stats.BestWin = b
		}
		if stats.BestMultiplier == nil || b.MultiplierValue().GreaterThan(stats.BestMultiplier.MultiplierValue()) {
			stats.BestMultiplier = b
		}
	}

	if total := len(bonuses); total > 0 {
		count := decimal.NewFromInt(int64(total))
		stats.Progress = percentage(decimal.NewFromInt(int64(stats.PlayedCount)), count)
		stats.AverageBet = stats.TotalCost.Div(count).Round(2)
		for i := range stats.Providers {
			stats.Providers[i].Percentage = percentage(decimal.NewFromInt(int64(stats.Providers[i].Count)), count)
		}
	}

	stats.Profit = stats.TotalWin.Sub(stats.TotalCost)
	if stats.TotalCost.IsPositive() {
		stats.ROI = percentage(stats.Profit, stats.TotalCost)
	}

	return stats
}

func percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(2)
}
