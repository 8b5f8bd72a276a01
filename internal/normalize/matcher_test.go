package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzyMatcherBestMatch(t *testing.T) {
	canonical := []string{"Menswear", "Womenswear", "Shoes", "Accessories"}

	testCases := []struct {
		token      string
		candidates []string
		minScore   float64
		expected   string
	}{
		{token: "mens wear", candidates: canonical, expected: "Menswear"},
		{token: "WOMENS-WEAR", candidates: canonical, expected: "Womenswear"},
		{token: "Shoes", candidates: canonical, expected: "Shoes"},
		{token: "shoe", candidates: canonical, expected: "Shoes"},
		{token: "accesories", candidates: canonical, expected: "Accessories"},
		{token: "Menswear", candidates: nil, expected: "Menswear"},
		{token: "anything", candidates: []string{}, expected: "anything"},
		{token: "", candidates: canonical, expected: ""},
		// nothing clears a strict threshold
		{token: "Lingerie", candidates: canonical, minScore: 95, expected: "Lingerie"},
		// ties go to the first candidate
		{token: "denim", candidates: []string{"Denim", "DENIM"}, expected: "Denim"},
	}

	for _, test := range testCases {
		m := NewFuzzyMatcher(test.minScore)
		assert.Equal(t, test.expected, m.BestMatch(test.token, test.candidates), "token %q", test.token)
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 100.0, Score("Menswear", "menswear"))
	assert.Equal(t, 100.0, Score("mens wear", "Menswear"))
	assert.Equal(t, 100.0, Score("wear mens", "mens wear"))
	assert.Equal(t, 0.0, Score("", "Menswear"))
	assert.Equal(t, 0.0, Score("---", "Menswear"))

	// a substring is discounted below an exact match
	assert.InDelta(t, 90.0, Score("menswear", "womenswear"), 0.001)
	assert.Less(t, Score("bags", "Menswear"), Score("bags", "Bags & Luggage"))
}
