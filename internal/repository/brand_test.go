package repository

import (
	"context"
	"testing"

	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestReplaceBrandsIsIdempotent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewBrandRepository(db)

	items := []domain.CatalogItem{
		{Name: "Acme", Categories: []string{"Menswear", "Shoes"}, ImageURL: strPtr("https://img.test/acme.png")},
		{Name: "Bare", Categories: []string{}},
		{Name: "Comma, Inc", Categories: []string{"Bags, Luggage"}},
	}
	categories := []domain.CanonicalCategory{{Name: "Menswear"}, {Name: "Shoes"}}

	for i := 0; i < 2; i++ {
		stats, err := repo.ReplaceBrands(ctx, items, categories)
		require.NoError(t, err)
		assert.Equal(t, CategoryStats{Inserted: 2}, stats)
	}

	stored, err := repo.ListBrands(ctx)
	require.NoError(t, err)

	diff := cmp.Diff(items, stored,
		cmpopts.EquateEmpty(),
		cmpopts.SortSlices(func(a, b domain.CatalogItem) bool {
			return a.Name < b.Name
		}),
	)
	if diff != "" {
		t.Fatal(diff)
	}

	storedCategories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, categories, storedCategories)
}

func TestReplaceBrandsReplacesPreviousRun(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewBrandRepository(db)

	_, err := repo.ReplaceBrands(ctx, []domain.CatalogItem{{Name: "Old", Categories: []string{}}}, []domain.CanonicalCategory{{Name: "Retired"}})
	require.NoError(t, err)

	_, err = repo.ReplaceBrands(ctx, []domain.CatalogItem{{Name: "New", Categories: []string{"Menswear"}}}, []domain.CanonicalCategory{{Name: "Menswear"}})
	require.NoError(t, err)

	stored, err := repo.ListBrands(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "New", stored[0].Name)

	storedCategories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CanonicalCategory{{Name: "Menswear"}}, storedCategories)
}

func TestReplaceBrandsAbsorbsDuplicateCategories(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewBrandRepository(db)

	stats, err := repo.ReplaceBrands(ctx, nil, []domain.CanonicalCategory{
		{Name: "Menswear"},
		{Name: "Menswear"},
		{Name: "Womenswear"},
	})
	require.NoError(t, err)
	assert.Equal(t, CategoryStats{Inserted: 2, Duplicates: 1}, stats)

	storedCategories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.CanonicalCategory{{Name: "Menswear"}, {Name: "Womenswear"}}, storedCategories)
}

func TestCountRows(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	stats := NewStatsRepository(db)

	counts, err := stats.CountRows(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)

	require.NoError(t, NewTrendRepository(db).ReplaceHeadlines(ctx, []domain.Headline{{Text: "A"}}))

	counts, err = stats.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"trendData": 1}, counts)
}
