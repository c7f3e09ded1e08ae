package service

import (
	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/shopspring/decimal"
)

// DeriveHunt recomputes the aggregate fields of h from its bonuses (display order).
// It sets TotalWon, Status and CurrentSlotIndex and reports whether the hunt
// moved to completed with this call.
//
// Status rule, first match wins:
//   - every bonus played and at least one bonus -> completed
//   - at least one played and status collecting -> playing
//   - otherwise unchanged
func DeriveHunt(h *models.Hunt, bonuses []*models.Bonus) (completedNow bool) {
	totalWon := decimal.Zero
	played := 0
	cursor := len(bonuses)
	for i, b := range bonuses {
		totalWon = totalWon.Add(b.Win())
		if b.IsPlayed {
			played++
		} else if cursor == len(bonuses) {
			cursor = i
		}
	}

	previous := h.Status
	switch {
	case len(bonuses) > 0 && played == len(bonuses):
		h.Status = models.HuntStatusCompleted
	case played > 0 && h.Status == models.HuntStatusCollecting:
		h.Status = models.HuntStatusPlaying
	}

	h.TotalWon = totalWon
	h.CurrentSlotIndex = cursor

	return previous != models.HuntStatusCompleted && h.Status == models.HuntStatusCompleted
}
