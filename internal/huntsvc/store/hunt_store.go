package store

import (
	"context"
	"fmt"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HuntStore struct {
	db *pgxpool.Pool
}

func NewHuntStore(db *pgxpool.Pool) *HuntStore {
	return &HuntStore{db: db}
}

const huntColumns = `
	id, title, casino, currency, start_balance, end_balance, total_won, status,
	notes, is_public, public_token, is_playing, current_slot_index, created_at, updated_at`

func scanHunt(row pgx.Row, extra ...any) (*models.Hunt, error) {
	h := &models.Hunt{}
	dest := []any{
		&h.ID,
		&h.Title,
		&h.Casino,
		&h.Currency,
		&h.StartBalance,
		&h.EndBalance,
		&h.TotalWon,
		&h.Status,
		&h.Notes,
		&h.IsPublic,
		&h.PublicToken,
		&h.IsPlaying,
		&h.CurrentSlotIndex,
		&h.CreatedAt,
		&h.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return h, nil
}

// ListHunts returns all hunts newest first, each with its bonus count.
func (s *HuntStore) ListHunts(ctx context.Context) ([]*models.HuntWithBonusCount, error) {
	query := `
		SELECT ` + prefixed("h", huntColumns) + `, COUNT(b.id)
		FROM hunts h
		LEFT JOIN bonuses b ON b.hunt_id = h.id
		GROUP BY h.id
		ORDER BY h.created_at DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hunts: %w", err)
	}
	defer rows.Close()

	hunts := []*models.HuntWithBonusCount{}
	for rows.Next() {
		var count int
		h, err := scanHunt(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hunt: %w", err)
		}
		hunts = append(hunts, &models.HuntWithBonusCount{Hunt: *h, BonusCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return hunts, nil
}

func (s *HuntStore) GetHunt(ctx context.Context, id string) (*models.Hunt, error) {
	query := `SELECT ` + huntColumns + ` FROM hunts WHERE id = $1`

	h, err := scanHunt(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return h, nil
}

func (s *HuntStore) GetHuntByPublicToken(ctx context.Context, token string) (*models.Hunt, error) {
	query := `SELECT ` + huntColumns + ` FROM hunts WHERE public_token = $1 LIMIT 1`

	h, err := scanHunt(s.db.QueryRow(ctx, query, token))
	if err != nil {
		return nil, mapErr(err)
	}
	return h, nil
}

// GetLatestHunt returns the most recently created hunt.
func (s *HuntStore) GetLatestHunt(ctx context.Context) (*models.Hunt, error) {
	query := `SELECT ` + huntColumns + ` FROM hunts ORDER BY created_at DESC LIMIT 1`

	h, err := scanHunt(s.db.QueryRow(ctx, query))
	if err != nil {
		return nil, mapErr(err)
	}
	return h, nil
}

// CreateHunt inserts h and fills its timestamps.
func (s *HuntStore) CreateHunt(ctx context.Context, h *models.Hunt) error {
	const query = `
		INSERT INTO hunts (
			id, title, casino, currency, start_balance, end_balance, total_won, status,
			notes, is_public, public_token, is_playing, current_slot_index
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`
	err := s.db.QueryRow(ctx, query,
		h.ID,
		h.Title,
		h.Casino,
		h.Currency,
		h.StartBalance,
		h.EndBalance,
		h.TotalWon,
		h.Status,
		h.Notes,
		h.IsPublic,
		h.PublicToken,
		h.IsPlaying,
		h.CurrentSlotIndex,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not create hunt: %w", mapErr(err))
	}
	return nil
}

// UpdateHunt overwrites every mutable column of h and bumps updated_at.
func (s *HuntStore) UpdateHunt(ctx context.Context, h *models.Hunt) error {
	const query = `
		UPDATE hunts SET
			title = $2,
			casino = $3,
			currency = $4,
			start_balance = $5,
			end_balance = $6,
			total_won = $7,
			status = $8,
			notes = $9,
			is_public = $10,
			public_token = $11,
			is_playing = $12,
			current_slot_index = $13,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := s.db.QueryRow(ctx, query,
		h.ID,
		h.Title,
		h.Casino,
		h.Currency,
		h.StartBalance,
		h.EndBalance,
		h.TotalWon,
		h.Status,
		h.Notes,
		h.IsPublic,
		h.PublicToken,
		h.IsPlaying,
		h.CurrentSlotIndex,
	).Scan(&h.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *HuntStore) DeleteHunt(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM hunts WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *HuntStore) GetStats(ctx context.Context) (*models.GlobalStats, error) {
	stats := &models.GlobalStats{}

	err := s.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status <> 'completed'),
			COALESCE(SUM(start_balance - COALESCE(end_balance, 0)), 0)
		FROM hunts
	`).Scan(&stats.TotalHunts, &stats.ActiveHunts, &stats.TotalSpent)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate hunts: %w", err)
	}

	err = s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(win_amount), 0)
		FROM bonuses
		WHERE win_amount IS NOT NULL
	`).Scan(&stats.TotalWon)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate wins: %w", err)
	}

	return stats, nil
}
