package normalize

import (
	"strings"
	"testing"

	"catalog/harvester/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// upperMatcher returns the upper-cased token when it is a candidate.
type upperMatcher struct {
	calls int
}

func (m *upperMatcher) BestMatch(token string, candidates []string) string {
	m.calls++
	for _, c := range candidates {
		if c == strings.ToUpper(token) {
			return c
		}
	}
	return token
}

func TestNormalizerUsesMatcher(t *testing.T) {
	m := &upperMatcher{}
	n := NewNormalizer(m, []domain.CanonicalCategory{{Name: "SHOES"}, {Name: "BAGS"}})

	assert.Equal(t, []string{"SHOES", "hats", "SHOES"}, n.NormalizeAll([]string{"shoes", "hats", "shoes"}))
	assert.Equal(t, 3, m.calls)
}

func TestNormalizerWithoutCanonicalSet(t *testing.T) {
	m := &upperMatcher{}
	n := NewNormalizer(m, nil)

	assert.Equal(t, "mens wear", n.Normalize("mens wear"))
	assert.Equal(t, 0, m.calls)
}

func TestNormalizerApply(t *testing.T) {
	logo := "https://img.test/a.png"
	n := NewNormalizer(NewFuzzyMatcher(0), []domain.CanonicalCategory{{Name: "Menswear"}, {Name: "Womenswear"}})

	items := n.Apply([]domain.RawBrand{
		{Name: "A", Categories: []string{"mens wear", "Womens wear", "mens wear"}, ImageURL: &logo},
		{Name: "B", Categories: []string{}},
	})

	expected := []domain.CatalogItem{
		{Name: "A", Categories: []string{"Menswear", "Womenswear", "Menswear"}, ImageURL: &logo},
		{Name: "B", Categories: []string{}},
	}
	if diff := cmp.Diff(expected, items); diff != "" {
		t.Fatal(diff)
	}
}
