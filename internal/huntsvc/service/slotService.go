package service

import (
	"context"
	"strings"
	"time"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	MinSlotQueryLen = 2
	MaxSlotResults  = 50
)

type SlotService struct {
	slots SlotRepository
	meta  MetaRepository
}

func NewSlotService(slots SlotRepository, meta MetaRepository) *SlotService {
	return &SlotService{slots: slots, meta: meta}
}

// Search returns catalog entries whose name contains q, ignoring case.
// Queries shorter than two characters return nothing without a lookup.
func (s *SlotService) Search(ctx context.Context, q string) ([]*models.Slot, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < MinSlotQueryLen {
		return []*models.Slot{}, nil
	}
	return s.slots.SearchSlots(ctx, q, MaxSlotResults)
}

func (s *SlotService) GetByName(ctx context.Context, name string) (*models.Slot, error) {
	return s.slots.GetSlotByName(ctx, name)
}

// Import replaces the catalog with in.Slots and returns how many were stored.
func (s *SlotService) Import(ctx context.Context, in ImportSlotsInput) (int, error) {
	slots := make([]*models.Slot, 0, len(in.Slots))
	for i, row := range in.Slots {
		name := strings.TrimSpace(row.Name)
		provider := strings.TrimSpace(row.Provider)
		if name == "" || provider == "" {
			return 0, invalid("slots", "row %d needs a name and a provider", i)
		}
		slots = append(slots, &models.Slot{
			ID:       uuid.New().String(),
			Name:     name,
			Provider: provider,
			ImageURL: row.ImageURL,
			Category: row.Category,
		})
	}

	if err := s.slots.ReplaceSlots(ctx, slots); err != nil {
		return 0, err
	}

	if s.meta != nil {
		if err := s.meta.SetMeta(ctx, models.MetaSlotsLastImport, time.Now().UTC().Format(time.RFC3339)); err != nil {
			log.Warnf("failed to record slot import: %v", err)
		}
	}
	log.Infof("slot catalog replaced with %d entries", len(slots))
	return len(slots), nil
}
