package service

import (
	"context"
	"fmt"
	"time"

	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/harvest"
	"catalog/harvester/internal/state"

	log "github.com/sirupsen/logrus"
)

// Browser is a running browser session. Close must release the process.
type Browser interface {
	Open(ctx context.Context, url string) (harvest.Page, error)
	Close() error
}

// BrowserLauncher starts a fresh browser session for one pipeline run.
// targetURL is the page the session is about to open.
type BrowserLauncher func(ctx context.Context, targetURL string) (Browser, error)

// Pipeline scrapes one catalog page and replaces its table contents.
type Pipeline interface {
	Name() domain.PipelineName
	Run(ctx context.Context) (*domain.RunSummary, error)
}

type Service struct {
	pipelines    map[domain.PipelineName]Pipeline
	stateManager state.StateManager
}

func NewService(stateManager state.StateManager, pipelines ...Pipeline) *Service {
	s := &Service{
		pipelines:    make(map[domain.PipelineName]Pipeline, len(pipelines)),
		stateManager: stateManager,
	}
	for _, p := range pipelines {
		s.pipelines[p.Name()] = p
	}
	return s
}

// Run executes the named pipelines one after another and stops at the first
// failure. A failed run is never recorded.
func (s *Service) Run(ctx context.Context, names ...domain.PipelineName) error {
	for _, name := range names {
		p, ok := s.pipelines[name]
		if !ok {
			return fmt.Errorf("unknown pipeline: %s", name)
		}

		log.Infof("🔄 Running %s pipeline", name)

		summary, err := p.Run(ctx)
		if err != nil {
			return fmt.Errorf("%s pipeline failed: %w", name, err)
		}

		log.Infof("✅ Completed %s: %d rows written to %s after %d scrolls in %s",
			name, summary.Items, name.GetTableName(), summary.Scrolls, summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second))

		// The data is already committed; a lost summary is not worth failing for.
		if err := s.stateManager.RecordRun(ctx, *summary); err != nil {
			log.Warnf("⚠️ Failed to record %s run: %v", name, err)
		}
	}

	return nil
}

// LastRun returns the last recorded summary for a pipeline.
func (s *Service) LastRun(ctx context.Context, name domain.PipelineName) (*domain.RunSummary, error) {
	return s.stateManager.LastRun(ctx, name)
}

func closeBrowser(b Browser) {
	if err := b.Close(); err != nil {
		log.Warnf("⚠️ Failed to close browser: %v", err)
	}
}
