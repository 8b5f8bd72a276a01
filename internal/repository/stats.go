package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// countQueries maps each managed table to its row count query.
var countQueries = map[string]string{
	"brandData":       `SELECT count(*) FROM brandData`,
	"brandCategories": `SELECT count(*) FROM brandCategories`,
	"trendData":       `SELECT count(*) FROM trendData`,
}

type StatsRepository interface {
	// CountRows returns row counts per table. Tables that do not exist yet
	// are left out.
	CountRows(ctx context.Context) (map[string]int64, error)
}

type statsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountRows(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(countQueries))
	for table, query := range countQueries {
		var n int64
		if err := r.db.QueryRow(ctx, query).Scan(&n); err != nil {
			if isUndefinedTable(err) {
				continue
			}
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
