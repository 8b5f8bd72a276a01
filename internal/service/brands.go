package service

import (
	"context"
	"fmt"
	"time"

	"catalog/harvester/internal/config"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/harvest"
	"catalog/harvester/internal/normalize"
	"catalog/harvester/internal/parser"
	"catalog/harvester/internal/repository"

	log "github.com/sirupsen/logrus"
)

// BrandPipeline scrapes the brand directory with its filter categories.
type BrandPipeline struct {
	cfg        config.BrandsConfig
	launch     BrowserLauncher
	harvester  *harvest.Harvester
	parser     *parser.CatalogParser
	matcher    normalize.Matcher
	repository repository.BrandRepository
}

func NewBrandPipeline(
	cfg config.BrandsConfig,
	launch BrowserLauncher,
	parser *parser.CatalogParser,
	matcher normalize.Matcher,
	repository repository.BrandRepository,
) *BrandPipeline {
	return &BrandPipeline{
		cfg:        cfg,
		launch:     launch,
		harvester:  harvest.NewHarvester(cfg.MaxScrolls, cfg.Pause),
		parser:     parser,
		matcher:    matcher,
		repository: repository,
	}
}

func (p *BrandPipeline) Name() domain.PipelineName {
	return domain.PipelineBrands
}

type brandScrape struct {
	brands     []domain.RawBrand
	categories []domain.CanonicalCategory
	result     *harvest.Result
}

func (p *BrandPipeline) Run(ctx context.Context) (*domain.RunSummary, error) {
	startedAt := time.Now()

	scraped, err := p.scrape(ctx)
	if err != nil {
		return nil, err
	}

	if len(scraped.categories) == 0 {
		log.Warn("⚠️ No filter categories found, keeping scraped category names as is")
	}

	normalizer := normalize.NewNormalizer(p.matcher, scraped.categories)
	items := normalizer.Apply(scraped.brands)

	stats, err := p.repository.ReplaceBrands(ctx, items, scraped.categories)
	if err != nil {
		return nil, err
	}
	if stats.Duplicates > 0 {
		log.Warnf("⚠️ Skipped %d duplicate categories", stats.Duplicates)
	}

	return &domain.RunSummary{
		Pipeline:   p.Name(),
		Items:      len(items),
		Categories: stats.Inserted,
		Scrolls:    scraped.result.Scrolls,
		Converged:  scraped.result.Converged,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}, nil
}

// scrape owns the browser session; it is closed before anything is persisted.
func (p *BrandPipeline) scrape(ctx context.Context) (*brandScrape, error) {
	browser, err := p.launch(ctx, p.cfg.URL)
	if err != nil {
		return nil, err
	}
	defer closeBrowser(browser)

	page, err := browser.Open(ctx, p.cfg.URL)
	if err != nil {
		return nil, err
	}

	// Filter chips are read before scrolling, as rendered on first load.
	initial, err := page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read brand page: %w", err)
	}
	categories, err := p.parser.ParseCategoryChips(initial)
	if err != nil {
		return nil, err
	}
	log.Infof("Found %d brand categories", len(categories))

	result, err := p.harvester.Harvest(ctx, page, p.cfg.TitleSelector)
	if err != nil {
		return nil, err
	}

	brands, err := p.parser.ParseBrands(result.HTML)
	if err != nil {
		return nil, err
	}
	log.Infof("Harvested %d brands after %d scrolls", len(brands), result.Scrolls)

	return &brandScrape{
		brands:     brands,
		categories: categories,
		result:     result,
	}, nil
}
