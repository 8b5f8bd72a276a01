package repository

import (
	"context"
	"fmt"

	"catalog/harvester/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createTrendDataQuery = `
	CREATE TABLE IF NOT EXISTS trendData (
		headline TEXT
	)`
	deleteTrendDataQuery = `DELETE FROM trendData`
	insertTrendDataQuery = `
	INSERT INTO trendData (headline)
	VALUES ($1)`
)

type TrendRepository interface {
	// ReplaceHeadlines swaps the contents of trendData for the given run.
	ReplaceHeadlines(ctx context.Context, headlines []domain.Headline) error
	ListHeadlines(ctx context.Context) ([]domain.Headline, error)
}

type trendRepository struct {
	db *pgxpool.Pool
}

func NewTrendRepository(db *pgxpool.Pool) TrendRepository {
	return &trendRepository{
		db: db,
	}
}

func (r *trendRepository) ReplaceHeadlines(ctx context.Context, headlines []domain.Headline) error {
	if err := execCommitted(ctx, r.db, createTrendDataQuery); err != nil {
		return fmt.Errorf("failed to create trendData: %w", err)
	}

	if err := execCommitted(ctx, r.db, deleteTrendDataQuery); err != nil {
		return fmt.Errorf("failed to clear trendData: %w", err)
	}

	rows := make([][]any, 0, len(headlines))
	for _, h := range headlines {
		rows = append(rows, []any{h.Text})
	}
	if err := insertBatch(ctx, r.db, insertTrendDataQuery, rows); err != nil {
		return fmt.Errorf("failed to insert headlines: %w", err)
	}

	return nil
}

// ListHeadlines returns rows in physical order. The table has no sequence
// column, so insert order is only reliable for a table written once.
func (r *trendRepository) ListHeadlines(ctx context.Context) ([]domain.Headline, error) {
	rows, err := r.db.Query(ctx, `SELECT headline FROM trendData`)
	if err != nil {
		return nil, fmt.Errorf("failed to query headlines: %w", err)
	}

	headlines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Headline, error) {
		var h domain.Headline
		err := row.Scan(&h.Text)
		return h, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan headlines: %w", err)
	}

	return headlines, nil
}
