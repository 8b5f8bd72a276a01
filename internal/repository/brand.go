package repository

import (
	"context"
	"fmt"

	"catalog/harvester/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const (
	createBrandDataQuery = `
	CREATE TABLE IF NOT EXISTS brandData (
		brand_name VARCHAR(255),
		category TEXT[],
		image_url TEXT
	)`
	createBrandCategoriesQuery = `
	CREATE TABLE IF NOT EXISTS brandCategories (
		category_name VARCHAR(255) UNIQUE
	)`
	deleteBrandDataQuery       = `DELETE FROM brandData`
	deleteBrandCategoriesQuery = `DELETE FROM brandCategories`
	insertBrandDataQuery       = `
	INSERT INTO brandData (brand_name, category, image_url)
	VALUES ($1, $2, $3)`
	insertBrandCategoryQuery = `
	INSERT INTO brandCategories (category_name)
	VALUES ($1)`
)

// CategoryStats reports how a category insert went.
type CategoryStats struct {
	Inserted   int
	Duplicates int
}

type BrandRepository interface {
	// ReplaceBrands swaps the contents of brandData and brandCategories for
	// the given run. Schema, delete and insert phases commit separately.
	ReplaceBrands(ctx context.Context, items []domain.CatalogItem, categories []domain.CanonicalCategory) (CategoryStats, error)
	ListBrands(ctx context.Context) ([]domain.CatalogItem, error)
	ListCategories(ctx context.Context) ([]domain.CanonicalCategory, error)
}

type brandRepository struct {
	db *pgxpool.Pool
}

func NewBrandRepository(db *pgxpool.Pool) BrandRepository {
	return &brandRepository{
		db: db,
	}
}

func (r *brandRepository) ReplaceBrands(ctx context.Context, items []domain.CatalogItem, categories []domain.CanonicalCategory) (CategoryStats, error) {
	var stats CategoryStats

	for _, query := range []string{createBrandDataQuery, createBrandCategoriesQuery} {
		if err := execCommitted(ctx, r.db, query); err != nil {
			return stats, fmt.Errorf("failed to create brand tables: %w", err)
		}
	}

	for _, query := range []string{deleteBrandDataQuery, deleteBrandCategoriesQuery} {
		if err := execCommitted(ctx, r.db, query); err != nil {
			return stats, fmt.Errorf("failed to clear brand tables: %w", err)
		}
	}

	if err := r.insertBrands(ctx, items); err != nil {
		return stats, fmt.Errorf("failed to insert brands: %w", err)
	}

	stats, err := r.insertCategories(ctx, categories)
	if err != nil {
		return stats, fmt.Errorf("failed to insert brand categories: %w", err)
	}

	return stats, nil
}

func (r *brandRepository) insertBrands(ctx context.Context, items []domain.CatalogItem) error {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		categories := item.Categories
		if categories == nil {
			categories = []string{}
		}
		rows = append(rows, []any{item.Name, categories, item.ImageURL})
	}
	return insertBatch(ctx, r.db, insertBrandDataQuery, rows)
}

// insertCategories inserts row by row, each under a savepoint, so a duplicate
// name only undoes its own insert.
func (r *brandRepository) insertCategories(ctx context.Context, categories []domain.CanonicalCategory) (CategoryStats, error) {
	var stats CategoryStats

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, category := range categories {
			savepoint, err := tx.Begin(ctx)
			if err != nil {
				return err
			}

			_, err = savepoint.Exec(ctx, insertBrandCategoryQuery, category.Name)
			if err != nil {
				if rbErr := savepoint.Rollback(ctx); rbErr != nil {
					return rbErr
				}
				if isUniqueViolation(err) {
					log.Warnf("⚠️ Category %q already stored, skipping", category.Name)
					stats.Duplicates++
					continue
				}
				return err
			}

			if err := savepoint.Commit(ctx); err != nil {
				return err
			}
			stats.Inserted++
		}
		return nil
	})

	return stats, err
}

func (r *brandRepository) ListBrands(ctx context.Context) ([]domain.CatalogItem, error) {
	rows, err := r.db.Query(ctx, `SELECT brand_name, category, image_url FROM brandData`)
	if err != nil {
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CatalogItem, error) {
		var item domain.CatalogItem
		err := row.Scan(&item.Name, &item.Categories, &item.ImageURL)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan brands: %w", err)
	}

	return items, nil
}

func (r *brandRepository) ListCategories(ctx context.Context) ([]domain.CanonicalCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT category_name FROM brandCategories`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CanonicalCategory, error) {
		var c domain.CanonicalCategory
		err := row.Scan(&c.Name)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}

	return categories, nil
}
