package models

import "time"

type AdminSession struct {
	ID           string    `json:"id"`
	SessionToken string    `json:"sessionToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *AdminSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Meta keys written by the services.
const (
	MetaSessionsLastSweep = "admin_sessions.last_sweep"
	MetaSlotsLastImport   = "slots.last_import"
)

type Meta struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}
