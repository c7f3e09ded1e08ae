package service

import (
	"context"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BonusService struct {
	bonuses BonusRepository
	hunts   *HuntService
}

func NewBonusService(bonuses BonusRepository, hunts *HuntService) *BonusService {
	return &BonusService{bonuses: bonuses, hunts: hunts}
}

// ListBonuses returns the bonuses of an existing hunt in ascending order.
func (s *BonusService) ListBonuses(ctx context.Context, huntID string) ([]*models.Bonus, error) {
	if _, err := s.hunts.GetHunt(ctx, huntID); err != nil {
		return nil, err
	}
	return s.bonuses.ListBonusesByHunt(ctx, huntID)
}

func (s *BonusService) CreateBonus(ctx context.Context, in CreateBonusInput) (*models.Bonus, error) {
	if in.BetAmount == nil || in.BetAmount.IsNegative() {
		return nil, invalid("betAmount", "must be zero or more")
	}
	bet := models.Money(*in.BetAmount)

	h, err := s.hunts.GetHunt(ctx, in.HuntID)
	if err != nil {
		return nil, err
	}
	if h.Status == models.HuntStatusCompleted {
		return nil, invalid("huntId", "hunt is already completed")
	}

	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		order, err = s.bonuses.NextOrder(ctx, h.ID)
		if err != nil {
			return nil, err
		}
	}

	b := &models.Bonus{
		ID:        uuid.New().String(),
		HuntID:    h.ID,
		SlotName:  in.SlotName,
		Provider:  in.Provider,
		ImageURL:  in.ImageURL,
		BetAmount: bet,
		Order:     order,
	}
	if err := s.bonuses.CreateBonus(ctx, b); err != nil {
		return nil, err
	}

	// the play cursor shifts when a bonus lands before it
	if recomputed, err := s.hunts.Recompute(ctx, h.ID); err != nil {
		log.Errorf("recompute hunt %s after bonus create: %v", h.ID, err)
	} else {
		h = recomputed
	}

	s.hunts.publish(h.ID, "bonus-added", h)
	return b, nil
}

func (s *BonusService) UpdateBonus(ctx context.Context, id string, in UpdateBonusInput) (*models.Bonus, error) {
	b, err := s.bonuses.GetBonus(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.BetAmount != nil && !models.Money(*in.BetAmount).Equal(b.BetAmount) {
		if in.BetAmount.IsNegative() {
			return nil, invalid("betAmount", "must be zero or more")
		}
		h, err := s.hunts.GetHunt(ctx, b.HuntID)
		if err != nil {
			return nil, err
		}
		if h.HasStarted() {
			return nil, invalid("betAmount", "cannot change once the hunt is playing")
		}
		b.BetAmount = models.Money(*in.BetAmount)
		if b.WinAmount.Valid {
			b.Multiplier = decimal.NewNullDecimal(models.Multiplier(b.WinAmount.Decimal, b.BetAmount))
		}
	}
	if in.SlotName != nil {
		b.SlotName = *in.SlotName
	}
	if in.Provider != nil {
		b.Provider = *in.Provider
	}
	if in.ImageURL != nil {
		b.ImageURL = in.ImageURL
	}
	reordered := in.Order != nil && *in.Order != b.Order
	if in.Order != nil {
		b.Order = *in.Order
	}

	if err := s.bonuses.UpdateBonus(ctx, b); err != nil {
		return nil, err
	}

	var h *models.Hunt
	if reordered {
		if h, err = s.hunts.Recompute(ctx, b.HuntID); err != nil {
			log.Errorf("recompute hunt %s after reorder: %v", b.HuntID, err)
		}
	}

	s.hunts.publish(b.HuntID, "bonus-updated", h)
	return b, nil
}

func (s *BonusService) DeleteBonus(ctx context.Context, id string) error {
	b, err := s.bonuses.GetBonus(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bonuses.DeleteBonus(ctx, id); err != nil {
		return err
	}

	h, err := s.hunts.Recompute(ctx, b.HuntID)
	if err != nil {
		log.Errorf("recompute hunt %s after bonus delete: %v", b.HuntID, err)
	}
	s.hunts.publish(b.HuntID, "bonus-deleted", h)
	return nil
}

// SubmitPayout records the win for a bonus, marks it played and recomputes
// the owning hunt. The bonus write and the hunt recompute are separate writes.
func (s *BonusService) SubmitPayout(ctx context.Context, id string, winAmount decimal.Decimal) (*models.Bonus, error) {
	if winAmount.IsNegative() {
		return nil, invalid("winAmount", "must be zero or more")
	}

	b, err := s.bonuses.GetBonus(ctx, id)
	if err != nil {
		return nil, err
	}

	winAmount = models.Money(winAmount)
	b.WinAmount = decimal.NewNullDecimal(winAmount)
	b.Multiplier = decimal.NewNullDecimal(models.Multiplier(winAmount, b.BetAmount))
	b.IsPlayed = true
	if err := s.bonuses.UpdateBonus(ctx, b); err != nil {
		return nil, err
	}

	h, err := s.hunts.Recompute(ctx, b.HuntID)
	if err != nil {
		return nil, err
	}

	s.hunts.publish(b.HuntID, "payout", h)
	return b, nil
}
