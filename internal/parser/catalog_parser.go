package parser

import (
	"fmt"
	"strings"

	"catalog/harvester/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// allCategoriesLabel is the synthetic chip that clears the category filter.
const allCategoriesLabel = "All"

// categorySeparator joins category names inside one brand entry.
const categorySeparator = ", "

// BrandSelectors locate the parts of one brand entry.
type BrandSelectors struct {
	Title     string
	Category  string
	Image     string
	Chip      string
	ChipLabel string
}

type CatalogParser struct {
	brand    BrandSelectors
	headline string
}

func NewCatalogParser(brand BrandSelectors, headlineSelector string) *CatalogParser {
	return &CatalogParser{
		brand:    brand,
		headline: headlineSelector,
	}
}

// ParseBrands returns one raw entry per brand title, in document order.
// Missing logos and missing category lines are not errors.
func (p *CatalogParser) ParseBrands(html string) ([]domain.RawBrand, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	brands := make([]domain.RawBrand, 0)
	doc.Find(p.brand.Title).Each(func(i int, title *goquery.Selection) {
		brands = append(brands, domain.RawBrand{
			Name:       strings.TrimSpace(title.Text()),
			Categories: p.extractCategories(title),
			ImageURL:   p.extractImageURL(title),
		})
	})

	log.Debugf("Extracted %d brands", len(brands))
	return brands, nil
}

// extractImageURL looks for the logo inside the nearest enclosing list item.
func (p *CatalogParser) extractImageURL(title *goquery.Selection) *string {
	item := title.Closest("li")
	if item.Length() == 0 {
		return nil
	}

	src, exists := item.Find(p.brand.Image).First().Attr("src")
	if !exists {
		return nil
	}
	return &src
}

// extractCategories reads the first following sibling holding the
// comma separated category line.
func (p *CatalogParser) extractCategories(title *goquery.Selection) []string {
	line := title.NextAllFiltered(p.brand.Category).First()
	if line.Length() == 0 {
		return []string{}
	}

	text := strings.TrimSpace(line.Text())
	if text == "" {
		return []string{}
	}
	return strings.Split(text, categorySeparator)
}

// ParseCategoryChips returns the filter chip labels without the "All" chip.
// Labels are unique by name; the first occurrence wins.
func (p *CatalogParser) ParseCategoryChips(html string) ([]domain.CanonicalCategory, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.CanonicalCategory, 0)
	seen := make(map[string]struct{})

	doc.Find(p.brand.Chip).Each(func(i int, chip *goquery.Selection) {
		name := strings.TrimSpace(chip.Find(p.brand.ChipLabel).First().Text())
		if name == "" || name == allCategoriesLabel {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		categories = append(categories, domain.CanonicalCategory{Name: name})
	})

	log.Debugf("Extracted %d canonical categories", len(categories))
	return categories, nil
}

// ParseHeadlines returns every headline's trimmed text in document order.
func (p *CatalogParser) ParseHeadlines(html string) ([]domain.Headline, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	headlines := make([]domain.Headline, 0)
	doc.Find(p.headline).Each(func(i int, s *goquery.Selection) {
		headlines = append(headlines, domain.Headline{Text: strings.TrimSpace(s.Text())})
	})

	log.Debugf("Extracted %d headlines", len(headlines))
	return headlines, nil
}

func newDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
