package service

import (
	"context"
	"time"

	"catalog/harvester/internal/config"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/harvest"
	"catalog/harvester/internal/parser"
	"catalog/harvester/internal/repository"

	log "github.com/sirupsen/logrus"
)

// TrendPipeline scrapes the "just in" headline feed.
type TrendPipeline struct {
	cfg        config.TrendsConfig
	launch     BrowserLauncher
	harvester  *harvest.Harvester
	parser     *parser.CatalogParser
	repository repository.TrendRepository
}

func NewTrendPipeline(
	cfg config.TrendsConfig,
	launch BrowserLauncher,
	parser *parser.CatalogParser,
	repository repository.TrendRepository,
) *TrendPipeline {
	return &TrendPipeline{
		cfg:        cfg,
		launch:     launch,
		harvester:  harvest.NewHarvester(cfg.MaxScrolls, cfg.Pause),
		parser:     parser,
		repository: repository,
	}
}

func (p *TrendPipeline) Name() domain.PipelineName {
	return domain.PipelineTrends
}

func (p *TrendPipeline) Run(ctx context.Context) (*domain.RunSummary, error) {
	startedAt := time.Now()

	headlines, result, err := p.scrape(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.repository.ReplaceHeadlines(ctx, headlines); err != nil {
		return nil, err
	}

	return &domain.RunSummary{
		Pipeline:   p.Name(),
		Items:      len(headlines),
		Scrolls:    result.Scrolls,
		Converged:  result.Converged,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}, nil
}

func (p *TrendPipeline) scrape(ctx context.Context) ([]domain.Headline, *harvest.Result, error) {
	browser, err := p.launch(ctx, p.cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	defer closeBrowser(browser)

	page, err := browser.Open(ctx, p.cfg.URL)
	if err != nil {
		return nil, nil, err
	}

	result, err := p.harvester.Harvest(ctx, page, p.cfg.HeadlineSelector)
	if err != nil {
		return nil, nil, err
	}

	headlines, err := p.parser.ParseHeadlines(result.HTML)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("Harvested %d headlines after %d scrolls", len(headlines), result.Scrolls)

	return headlines, result, nil
}
