package domain

// CatalogItem is one brand entry scraped from the brand directory.
type CatalogItem struct {
	Name       string   `json:"brand_name"`
	Categories []string `json:"category"`  // Normalized, scrape order, duplicates allowed
	ImageURL   *string  `json:"image_url"` // nil when the entry has no logo
}

// RawBrand is an extracted brand entry before category normalization.
type RawBrand struct {
	Name       string
	Categories []string
	ImageURL   *string
}

// CanonicalCategory is a category name taken from the page's filter chips.
type CanonicalCategory struct {
	Name string `json:"category_name"`
}

// CategoryNames returns the names in order.
func CategoryNames(categories []CanonicalCategory) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}
