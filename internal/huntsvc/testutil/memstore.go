// Package testutil holds in-memory stand-ins for the postgres stores and the
// event sinks so services and handlers can be tested without a database.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avvvet/bonushunt-services/internal/comm"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/store"
	"github.com/shopspring/decimal"
)

// MemStore implements every repository interface the services depend on.
type MemStore struct {
	mu       sync.Mutex
	hunts    map[string]*models.Hunt
	bonuses  map[string]*models.Bonus
	slots    []*models.Slot
	sessions map[string]*models.AdminSession
	meta     map[string]string
	clock    time.Time

	SlotSearches int
}

func NewMemStore() *MemStore {
	return &MemStore{
		hunts:    map[string]*models.Hunt{},
		bonuses:  map[string]*models.Bonus{},
		sessions: map[string]*models.AdminSession{},
		meta:     map[string]string{},
		clock:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick hands out strictly increasing timestamps so creation order is stable.
func (m *MemStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func copyHunt(h *models.Hunt) *models.Hunt {
	c := *h
	return &c
}

func copyBonus(b *models.Bonus) *models.Bonus {
	c := *b
	c.SyncStatus()
	return &c
}

// hunts

func (m *MemStore) ListHunts(ctx context.Context) ([]*models.HuntWithBonusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*models.HuntWithBonusCount{}
	for _, h := range m.hunts {
		count := 0
		for _, b := range m.bonuses {
			if b.HuntID == h.ID {
				count++
			}
		}
		out = append(out, &models.HuntWithBonusCount{Hunt: *h, BonusCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) GetHunt(ctx context.Context, id string) (*models.Hunt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.hunts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyHunt(h), nil
}

func (m *MemStore) GetHuntByPublicToken(ctx context.Context, token string) (*models.Hunt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range m.hunts {
		if h.PublicToken != nil && *h.PublicToken == token {
			return copyHunt(h), nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemStore) GetLatestHunt(ctx context.Context) (*models.Hunt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest *models.Hunt
	for _, h := range m.hunts {
		if latest == nil || h.CreatedAt.After(latest.CreatedAt) {
			latest = h
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	return copyHunt(latest), nil
}

func (m *MemStore) CreateHunt(ctx context.Context, h *models.Hunt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tick()
	h.CreatedAt, h.UpdatedAt = now, now
	m.hunts[h.ID] = copyHunt(h)
	return nil
}

func (m *MemStore) UpdateHunt(ctx context.Context, h *models.Hunt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.hunts[h.ID]; !ok {
		return store.ErrNotFound
	}
	h.UpdatedAt = m.tick()
	m.hunts[h.ID] = copyHunt(h)
	return nil
}

func (m *MemStore) DeleteHunt(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.hunts[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.hunts, id)
	for bid, b := range m.bonuses {
		if b.HuntID == id {
			delete(m.bonuses, bid)
		}
	}
	return nil
}

func (m *MemStore) GetStats(ctx context.Context) (*models.GlobalStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &models.GlobalStats{TotalSpent: decimal.Zero, TotalWon: decimal.Zero}
	for _, h := range m.hunts {
		stats.TotalHunts++
		if h.Status != models.HuntStatusCompleted {
			stats.ActiveHunts++
		}
		end := decimal.Zero
		if h.EndBalance.Valid {
			end = h.EndBalance.Decimal
		}
		stats.TotalSpent = stats.TotalSpent.Add(h.StartBalance.Sub(end))
	}
	for _, b := range m.bonuses {
		stats.TotalWon = stats.TotalWon.Add(b.Win())
	}
	return stats, nil
}

// bonuses

func (m *MemStore) ListBonusesByHunt(ctx context.Context, huntID string) ([]*models.Bonus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*models.Bonus{}
	for _, b := range m.bonuses {
		if b.HuntID == huntID {
			out = append(out, copyBonus(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemStore) GetBonus(ctx context.Context, id string) (*models.Bonus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bonuses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyBonus(b), nil
}

func (m *MemStore) NextOrder(ctx context.Context, huntID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	max := 0
	for _, b := range m.bonuses {
		if b.HuntID == huntID && b.Order > max {
			max = b.Order
		}
	}
	return max + 1, nil
}

func (m *MemStore) CreateBonus(ctx context.Context, b *models.Bonus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.hunts[b.HuntID]; !ok {
		return store.ErrNotFound
	}
	b.CreatedAt = m.tick()
	b.SyncStatus()
	m.bonuses[b.ID] = copyBonus(b)
	return nil
}

func (m *MemStore) UpdateBonus(ctx context.Context, b *models.Bonus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bonuses[b.ID]; !ok {
		return store.ErrNotFound
	}
	b.SyncStatus()
	m.bonuses[b.ID] = copyBonus(b)
	return nil
}

func (m *MemStore) DeleteBonus(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bonuses[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.bonuses, id)
	return nil
}

// slots

func (m *MemStore) SearchSlots(ctx context.Context, query string, limit int) ([]*models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SlotSearches++
	q := strings.ToLower(query)
	out := []*models.Slot{}
	for _, s := range m.slots {
		if strings.Contains(strings.ToLower(s.Name), q) {
			c := *s
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemStore) GetSlotByName(ctx context.Context, name string) (*models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.slots {
		if s.Name == name {
			c := *s
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemStore) ReplaceSlots(ctx context.Context, slots []*models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots = make([]*models.Slot, 0, len(slots))
	for _, s := range slots {
		c := *s
		m.slots = append(m.slots, &c)
	}
	return nil
}

// SlotCount reports the catalog size.
func (m *MemStore) SlotCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

// sessions

func (m *MemStore) CreateSession(ctx context.Context, session *models.AdminSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[session.SessionToken]; ok {
		return store.ErrConflict
	}
	session.CreatedAt = m.tick()
	c := *session
	m.sessions[session.SessionToken] = &c
	return nil
}

func (m *MemStore) GetSessionByToken(ctx context.Context, token string) (*models.AdminSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *s
	return &c, nil
}

func (m *MemStore) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}

func (m *MemStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for token, s := range m.sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

// HasSession reports whether a session row exists for token.
func (m *MemStore) HasSession(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[token]
	return ok
}

// meta

func (m *MemStore) GetMeta(ctx context.Context, key string) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.meta[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &v, nil
}

func (m *MemStore) SetMeta(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.meta[key] = value
	return nil
}

// RecordingPublisher keeps every published hunt update.
type RecordingPublisher struct {
	mu      sync.Mutex
	Updates []comm.HuntUpdate
}

func (p *RecordingPublisher) PublishHuntUpdated(u comm.HuntUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Updates = append(p.Updates, u)
	return nil
}

// Reasons lists the reasons of the recorded updates in order.
func (p *RecordingPublisher) Reasons() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Updates))
	for i, u := range p.Updates {
		out[i] = u.Reason
	}
	return out
}

// RecordingNotifier keeps the ids of hunts reported as completed.
type RecordingNotifier struct {
	mu        sync.Mutex
	Completed []string
}

func (n *RecordingNotifier) HuntCompleted(h *models.Hunt, bonusCount int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Completed = append(n.Completed, h.ID)
}
