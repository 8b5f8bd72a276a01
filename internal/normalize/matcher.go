package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Matcher picks the candidate closest to token, or returns token itself when
// nothing is close enough.
type Matcher interface {
	BestMatch(token string, candidates []string) string
}

// partialWeight discounts substring matches so a full match always wins.
const partialWeight = 0.9

var nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// FuzzyMatcher scores candidates on a 0-100 scale using edit distance over
// case-folded, punctuation-free text. A candidate must score above minScore.
// Ties go to the candidate that appears first.
type FuzzyMatcher struct {
	minScore float64
}

func NewFuzzyMatcher(minScore float64) *FuzzyMatcher {
	return &FuzzyMatcher{minScore: minScore}
}

func (m *FuzzyMatcher) BestMatch(token string, candidates []string) string {
	best, score := "", m.minScore
	found := false

	for _, c := range candidates {
		s := Score(token, c)
		if s > score {
			best, score = c, s
			found = true
		}
	}

	if !found {
		return token
	}
	return best
}

// Score is the best of the plain, whitespace-free, token-sorted and
// (discounted) partial ratios between a and b.
func Score(a, b string) float64 {
	a, b = clean(a), clean(b)
	if a == "" || b == "" {
		return 0
	}

	best := ratio(a, b)
	best = max(best, ratio(compact(a), compact(b)))
	best = max(best, ratio(sortTokens(a), sortTokens(b)))
	best = max(best, partialWeight*partialRatio(a, b))
	return best
}

// ratio is the share of characters that survive the edit script, 0-100.
func ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	dist := matchr.Levenshtein(a, b)
	return 100 * float64(total-dist) / float64(total)
}

// partialRatio compares the shorter string to every same-length window of
// the longer one.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}

	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(string(short), string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func clean(s string) string {
	s = strings.ToLower(s)
	s = nonWordRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
