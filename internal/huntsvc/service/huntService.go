package service

import (
	"context"
	"fmt"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type HuntService struct {
	hunts    HuntRepository
	bonuses  BonusRepository
	events   Publisher
	notifier Notifier
}

func NewHuntService(hunts HuntRepository, bonuses BonusRepository, events Publisher, notifier Notifier) *HuntService {
	if events == nil {
		events = NopPublisher{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &HuntService{
		hunts:    hunts,
		bonuses:  bonuses,
		events:   events,
		notifier: notifier,
	}
}

// PublicLinks are the share URLs handed to the streamer for a hunt.
type PublicLinks struct {
	HuntID      string `json:"huntId"`
	PublicToken string `json:"publicToken"`
	PublicURL   string `json:"publicUrl"`
	ObsURL      string `json:"obsUrl"`
	LiveObsURL  string `json:"liveObsUrl"`
}

func NewPublicLinks(baseURL string, h *models.Hunt) PublicLinks {
	token := ""
	if h.PublicToken != nil {
		token = *h.PublicToken
	}
	return PublicLinks{
		HuntID:      h.ID,
		PublicToken: token,
		PublicURL:   baseURL + "/public-hunt/" + token,
		ObsURL:      baseURL + "/obs-overlay/latest",
		LiveObsURL:  baseURL + "/live-obs-overlay",
	}
}

func (s *HuntService) publish(huntID, reason string, h *models.Hunt) {
	if err := s.events.PublishHuntUpdated(huntUpdate(huntID, reason, h)); err != nil {
		log.Warnf("failed to publish %s for hunt %s: %v", reason, huntID, err)
	}
}

func (s *HuntService) ListHunts(ctx context.Context) ([]*models.HuntWithBonusCount, error) {
	return s.hunts.ListHunts(ctx)
}

func (s *HuntService) GetHunt(ctx context.Context, id string) (*models.Hunt, error) {
	return s.hunts.GetHunt(ctx, id)
}

// GetHuntView returns a hunt with its bonuses in display order.
func (s *HuntService) GetHuntView(ctx context.Context, id string) (*models.HuntView, error) {
	h, err := s.hunts.GetHunt(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, h)
}

func (s *HuntService) view(ctx context.Context, h *models.Hunt) (*models.HuntView, error) {
	bonuses, err := s.bonuses.ListBonusesByHunt(ctx, h.ID)
	if err != nil {
		return nil, fmt.Errorf("list bonuses: %w", err)
	}
	return &models.HuntView{Hunt: h, Bonuses: bonuses}, nil
}

// GetPublicHunt resolves a share token. Hunts that are not public are
// reported as not found whatever the token.
func (s *HuntService) GetPublicHunt(ctx context.Context, token string) (*models.HuntView, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	h, err := s.hunts.GetHuntByPublicToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !h.IsPublic {
		return nil, ErrNotFound
	}
	return s.view(ctx, h)
}

func (s *HuntService) LatestHunt(ctx context.Context) (*models.Hunt, error) {
	return s.hunts.GetLatestHunt(ctx)
}

// LatestView feeds the OBS overlay: the newest hunt and its bonuses.
func (s *HuntService) LatestView(ctx context.Context) (*models.HuntView, error) {
	h, err := s.hunts.GetLatestHunt(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, h)
}

// LatestPublicLinks returns share links for the newest hunt, provisioning a
// public token when the hunt has none yet.
func (s *HuntService) LatestPublicLinks(ctx context.Context, baseURL string) (*PublicLinks, error) {
	h, err := s.hunts.GetLatestHunt(ctx)
	if err != nil {
		return nil, err
	}
	if h.PublicToken == nil {
		token := uuid.New().String()
		h.PublicToken = &token
		h.IsPublic = true
		if err := s.hunts.UpdateHunt(ctx, h); err != nil {
			return nil, fmt.Errorf("provision public token: %w", err)
		}
	}
	links := NewPublicLinks(baseURL, h)
	return &links, nil
}

// CreateHunt stores a new hunt in collecting state with its public token already issued.
func (s *HuntService) CreateHunt(ctx context.Context, in CreateHuntInput) (*models.Hunt, error) {
	if in.StartBalance == nil || in.StartBalance.IsNegative() {
		return nil, invalid("startBalance", "must be zero or more")
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	token := uuid.New().String()
	h := &models.Hunt{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Casino:       in.Casino,
		Currency:     currency,
		StartBalance: models.Money(*in.StartBalance),
		TotalWon:     decimal.Zero,
		Status:       models.HuntStatusCollecting,
		Notes:        in.Notes,
		IsPublic:     true,
		PublicToken:  &token,
	}
	if err := s.hunts.CreateHunt(ctx, h); err != nil {
		return nil, err
	}

	log.Infof("hunt %s created: %q at %s", h.ID, h.Title, h.Casino)
	s.publish(h.ID, "created", h)
	return h, nil
}

func (s *HuntService) UpdateHunt(ctx context.Context, id string, in UpdateHuntInput) (*models.Hunt, error) {
	h, err := s.hunts.GetHunt(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		h.Title = *in.Title
	}
	if in.Casino != nil {
		h.Casino = *in.Casino
	}
	if in.Currency != nil {
		h.Currency = *in.Currency
	}
	if in.StartBalance != nil {
		if in.StartBalance.IsNegative() {
			return nil, invalid("startBalance", "must be zero or more")
		}
		h.StartBalance = models.Money(*in.StartBalance)
	}
	if in.Status != nil {
		h.Status = *in.Status
	}
	if in.Notes != nil {
		h.Notes = in.Notes
	}
	if in.IsPlaying != nil {
		h.IsPlaying = *in.IsPlaying
	}
	if in.IsPublic != nil {
		h.IsPublic = *in.IsPublic
		if h.IsPublic && h.PublicToken == nil {
			token := uuid.New().String()
			h.PublicToken = &token
		}
	}
	if in.EndBalance != nil {
		if !h.HasStarted() {
			return nil, invalid("endBalance", "can only be set after play has started")
		}
		if in.EndBalance.IsNegative() {
			return nil, invalid("endBalance", "must be zero or more")
		}
		h.EndBalance = decimal.NewNullDecimal(models.Money(*in.EndBalance))
	}

	if err := s.hunts.UpdateHunt(ctx, h); err != nil {
		return nil, err
	}

	s.publish(h.ID, "updated", h)
	return h, nil
}

func (s *HuntService) DeleteHunt(ctx context.Context, id string) error {
	if err := s.hunts.DeleteHunt(ctx, id); err != nil {
		return err
	}
	log.Infof("hunt %s deleted", id)
	s.publish(id, "deleted", nil)
	return nil
}

// StartPlaying flips a hunt into playing and resets the play cursor.
func (s *HuntService) StartPlaying(ctx context.Context, id string) (*models.Hunt, error) {
	h, err := s.hunts.GetHunt(ctx, id)
	if err != nil {
		return nil, err
	}

	h.IsPlaying = true
	h.CurrentSlotIndex = 0
	if h.Status != models.HuntStatusCompleted {
		h.Status = models.HuntStatusPlaying
	}

	if err := s.hunts.UpdateHunt(ctx, h); err != nil {
		return nil, err
	}

	s.publish(h.ID, "started", h)
	return h, nil
}

// Recompute re-reads every bonus of a hunt and persists the derived totals
// and status. No lock or transaction is taken; the last writer wins.
func (s *HuntService) Recompute(ctx context.Context, huntID string) (*models.Hunt, error) {
	h, err := s.hunts.GetHunt(ctx, huntID)
	if err != nil {
		return nil, err
	}
	bonuses, err := s.bonuses.ListBonusesByHunt(ctx, huntID)
	if err != nil {
		return nil, fmt.Errorf("list bonuses: %w", err)
	}

	completedNow := DeriveHunt(h, bonuses)
	if err := s.hunts.UpdateHunt(ctx, h); err != nil {
		return nil, err
	}

	if completedNow {
		log.Infof("hunt %s completed, total won %s", h.ID, h.TotalWon.StringFixed(2))
		s.notifier.HuntCompleted(h, len(bonuses))
	}
	return h, nil
}

func (s *HuntService) HuntStats(ctx context.Context, id string) (*models.HuntStats, error) {
	view, err := s.GetHuntView(ctx, id)
	if err != nil {
		return nil, err
	}
	return ComputeStats(view.Hunt, view.Bonuses), nil
}

// Overlay returns a hunt view with its stats for overlay rendering.
func (s *HuntService) Overlay(ctx context.Context, id string) (*models.HuntOverlay, error) {
	view, err := s.GetHuntView(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.HuntOverlay{HuntView: view, Stats: ComputeStats(view.Hunt, view.Bonuses)}, nil
}

func (s *HuntService) LatestOverlay(ctx context.Context) (*models.HuntOverlay, error) {
	view, err := s.LatestView(ctx)
	if err != nil {
		return nil, err
	}
	return &models.HuntOverlay{HuntView: view, Stats: ComputeStats(view.Hunt, view.Bonuses)}, nil
}

func (s *HuntService) GlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	return s.hunts.GetStats(ctx)
}
