package service

import (
	"time"

	"github.com/avvvet/bonushunt-services/internal/comm"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
)

// Publisher fans hunt changes out to push clients.
type Publisher interface {
	PublishHuntUpdated(update comm.HuntUpdate) error
}

// Notifier is told when a hunt reaches completed.
type Notifier interface {
	HuntCompleted(h *models.Hunt, bonusCount int)
}

type NopPublisher struct{}

func (NopPublisher) PublishHuntUpdated(comm.HuntUpdate) error { return nil }

type NopNotifier struct{}

func (NopNotifier) HuntCompleted(*models.Hunt, int) {}

func huntUpdate(huntID, reason string, h *models.Hunt) comm.HuntUpdate {
	u := comm.HuntUpdate{HuntID: huntID, Reason: reason, At: time.Now().UTC()}
	if h != nil {
		u.Status = h.Status
		u.TotalWon = h.TotalWon.StringFixed(2)
	}
	return u
}
