package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MetaStore struct {
	db *pgxpool.Pool
}

func NewMetaStore(db *pgxpool.Pool) *MetaStore {
	return &MetaStore{db: db}
}

func (s *MetaStore) GetMeta(ctx context.Context, key string) (*string, error) {
	var value *string
	err := s.db.QueryRow(ctx, `SELECT value FROM meta WHERE key = $1`, key).Scan(&value)
	if err != nil {
		return nil, mapErr(err)
	}
	return value, nil
}

func (s *MetaStore) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO meta (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	return mapErr(err)
}
