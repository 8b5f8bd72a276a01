package harvest

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Page is the part of a live browser page the scroll loop needs.
type Page interface {
	CountMatches(ctx context.Context, selector string) (int, error)
	ScrollToLastMatch(ctx context.Context, selector string) error
	HTML(ctx context.Context) (string, error)
}

// Result is the outcome of one harvest.
type Result struct {
	HTML      string // Rendered document after the loop stopped
	Count     int    // Marker count at the last growing observation
	Scrolls   int
	Converged bool // False when the scroll budget ran out first
}

// Harvester scrolls a lazily loading list until its item count stops growing.
type Harvester struct {
	maxScrolls int
	pause      time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewHarvester(maxScrolls int, pause time.Duration) *Harvester {
	return &Harvester{
		maxScrolls: maxScrolls,
		pause:      pause,
		sleep:      sleepContext,
	}
}

// Harvest runs the scroll loop against page and returns the final markup.
// Browser faults are returned as is; they are never retried.
func (h *Harvester) Harvest(ctx context.Context, page Page, selector string) (*Result, error) {
	conv := NewConvergence(h.maxScrolls)
	scrolls := 0

	for !conv.Done() {
		count, err := page.CountMatches(ctx, selector)
		if err != nil {
			return nil, fmt.Errorf("failed to query %q: %w", selector, err)
		}

		if conv.Observe(count) == StateConverged {
			log.Debugf("Item count settled at %d after %d scrolls", count, scrolls)
			break
		}

		if err := page.ScrollToLastMatch(ctx, selector); err != nil {
			return nil, fmt.Errorf("failed to scroll to item %d: %w", count, err)
		}
		scrolls++

		if err := h.sleep(ctx, h.pause); err != nil {
			return nil, err
		}

		log.Debugf("Scroll %d: %d items loaded", scrolls, count)
	}

	if conv.Exhausted() {
		log.Warnf("⚠️ Scroll budget of %d exhausted with %d items still growing", h.maxScrolls, conv.Count())
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered page: %w", err)
	}

	return &Result{
		HTML:      html,
		Count:     conv.Count(),
		Scrolls:   scrolls,
		Converged: !conv.Exhausted(),
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
