package normalize

import (
	"catalog/harvester/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Normalizer rewrites scraped category tokens to canonical category names.
// It never fails; unmatched tokens pass through verbatim.
type Normalizer struct {
	matcher   Matcher
	canonical []string
}

func NewNormalizer(matcher Matcher, canonical []domain.CanonicalCategory) *Normalizer {
	return &Normalizer{
		matcher:   matcher,
		canonical: domain.CategoryNames(canonical),
	}
}

// Normalize maps one token.
func (n *Normalizer) Normalize(token string) string {
	if len(n.canonical) == 0 {
		return token
	}
	return n.matcher.BestMatch(token, n.canonical)
}

// NormalizeAll maps tokens in order, keeping duplicates.
func (n *Normalizer) NormalizeAll(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		normalized := n.Normalize(t)
		if normalized != t {
			log.Debugf("Category %q normalized to %q", t, normalized)
		}
		out = append(out, normalized)
	}
	return out
}

// Apply turns raw brands into catalog items with normalized categories.
func (n *Normalizer) Apply(raw []domain.RawBrand) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, domain.CatalogItem{
			Name:       r.Name,
			Categories: n.NormalizeAll(r.Categories),
			ImageURL:   r.ImageURL,
		})
	}
	return items
}
