package store

import (
	"context"
	"fmt"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotStore struct {
	db *pgxpool.Pool
}

func NewSlotStore(db *pgxpool.Pool) *SlotStore {
	return &SlotStore{db: db}
}

func scanSlot(row pgx.Row) (*models.Slot, error) {
	s := &models.Slot{}
	if err := row.Scan(&s.ID, &s.Name, &s.Provider, &s.ImageURL, &s.Category); err != nil {
		return nil, err
	}
	return s, nil
}

// SearchSlots does a case-insensitive substring match on the slot name.
func (s *SlotStore) SearchSlots(ctx context.Context, query string, limit int) ([]*models.Slot, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, provider, image_url, category
		FROM slot_database
		WHERE LOWER(name) LIKE LOWER($1)
		ORDER BY name ASC
		LIMIT $2
	`, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search slots: %w", err)
	}
	defer rows.Close()

	slots := []*models.Slot{}
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return slots, nil
}

func (s *SlotStore) GetSlotByName(ctx context.Context, name string) (*models.Slot, error) {
	slot, err := scanSlot(s.db.QueryRow(ctx, `
		SELECT id, name, provider, image_url, category
		FROM slot_database
		WHERE name = $1
		LIMIT 1
	`, name))
	if err != nil {
		return nil, mapErr(err)
	}
	return slot, nil
}

// ReplaceSlots swaps the whole catalog for slots inside one transaction.
func (s *SlotStore) ReplaceSlots(ctx context.Context, slots []*models.Slot) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM slot_database`); err != nil {
		return fmt.Errorf("clear slots: %w", err)
	}

	const query = `
		INSERT INTO slot_database (id, name, provider, image_url, category)
		VALUES ($1, $2, $3, $4, $5)
	`
	batch := &pgx.Batch{}
	for _, slot := range slots {
		batch.Queue(query, slot.ID, slot.Name, slot.Provider, slot.ImageURL, slot.Category)
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("insert slots: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *SlotStore) CountSlots(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM slot_database`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
