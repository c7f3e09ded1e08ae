package store

import (
	"context"
	"fmt"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BonusStore struct {
	db *pgxpool.Pool
}

func NewBonusStore(db *pgxpool.Pool) *BonusStore {
	return &BonusStore{db: db}
}

const bonusColumns = `
	id, hunt_id, slot_name, provider, image_url, bet_amount, multiplier,
	win_amount, "order", is_played, created_at`

func scanBonus(row pgx.Row) (*models.Bonus, error) {
	b := &models.Bonus{}
	err := row.Scan(
		&b.ID,
		&b.HuntID,
		&b.SlotName,
		&b.Provider,
		&b.ImageURL,
		&b.BetAmount,
		&b.Multiplier,
		&b.WinAmount,
		&b.Order,
		&b.IsPlayed,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.SyncStatus()
	return b, nil
}

// ListBonusesByHunt returns the bonuses of a hunt in display order.
func (s *BonusStore) ListBonusesByHunt(ctx context.Context, huntID string) ([]*models.Bonus, error) {
	query := `
		SELECT ` + bonusColumns + `
		FROM bonuses
		WHERE hunt_id = $1
		ORDER BY "order" ASC, created_at ASC
	`

	rows, err := s.db.Query(ctx, query, huntID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	bonuses := []*models.Bonus{}
	for rows.Next() {
		b, err := scanBonus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bonus: %w", err)
		}
		bonuses = append(bonuses, b)
	}
	if err := rows.Err(); err != nil {
		if mapped := mapErr(err); mapped == ErrNotFound {
			return []*models.Bonus{}, nil
		}
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return bonuses, nil
}

func (s *BonusStore) GetBonus(ctx context.Context, id string) (*models.Bonus, error) {
	query := `SELECT ` + bonusColumns + ` FROM bonuses WHERE id = $1`

	b, err := scanBonus(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return b, nil
}

// NextOrder returns the order value that appends a bonus to the end of a hunt.
func (s *BonusStore) NextOrder(ctx context.Context, huntID string) (int, error) {
	var next int
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(MAX("order"), 0) + 1
		FROM bonuses
		WHERE hunt_id = $1
	`, huntID).Scan(&next)
	if err != nil {
		return 0, mapErr(err)
	}
	return next, nil
}

func (s *BonusStore) CreateBonus(ctx context.Context, b *models.Bonus) error {
	const query = `
		INSERT INTO bonuses (
			id, hunt_id, slot_name, provider, image_url, bet_amount,
			multiplier, win_amount, "order", is_played
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	err := s.db.QueryRow(ctx, query,
		b.ID,
		b.HuntID,
		b.SlotName,
		b.Provider,
		b.ImageURL,
		b.BetAmount,
		b.Multiplier,
		b.WinAmount,
		b.Order,
		b.IsPlayed,
	).Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not create bonus: %w", mapErr(err))
	}
	b.SyncStatus()
	return nil
}

// UpdateBonus overwrites the mutable columns of b.
func (s *BonusStore) UpdateBonus(ctx context.Context, b *models.Bonus) error {
	const query = `
		UPDATE bonuses SET
			slot_name = $2,
			provider = $3,
			image_url = $4,
			bet_amount = $5,
			multiplier = $6,
			win_amount = $7,
			"order" = $8,
			is_played = $9
		WHERE id = $1
	`
	tag, err := s.db.Exec(ctx, query,
		b.ID,
		b.SlotName,
		b.Provider,
		b.ImageURL,
		b.BetAmount,
		b.Multiplier,
		b.WinAmount,
		b.Order,
		b.IsPlayed,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	b.SyncStatus()
	return nil
}

func (s *BonusStore) DeleteBonus(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM bonuses WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
