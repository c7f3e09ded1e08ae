package service

import (
	"context"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
)

type MetaService struct {
	store MetaRepository
}

func NewMetaService(store MetaRepository) *MetaService {
	return &MetaService{store: store}
}

func (s *MetaService) Get(ctx context.Context, key string) (*models.Meta, error) {
	value, err := s.store.GetMeta(ctx, key)
	if err != nil {
		return nil, err
	}
	return &models.Meta{Key: key, Value: value}, nil
}

func (s *MetaService) Set(ctx context.Context, key, value string) (*models.Meta, error) {
	if key == "" {
		return nil, invalid("key", "is required")
	}
	if err := s.store.SetMeta(ctx, key, value); err != nil {
		return nil, err
	}
	return &models.Meta{Key: key, Value: &value}, nil
}
