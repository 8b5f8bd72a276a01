package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
)

// Page is a loaded tab. It satisfies harvest.Page.
type Page struct {
	page *rod.Page
}

// CountMatches returns the number of elements matching selector right now.
// It does not wait for a first match.
func (p *Page) CountMatches(ctx context.Context, selector string) (int, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// ScrollToLastMatch scrolls the last element matching selector into view,
// which is what triggers the site's lazy loading.
func (p *Page) ScrollToLastMatch(ctx context.Context, selector string) error {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return err
	}
	last := els.Last()
	if last == nil {
		return fmt.Errorf("no element matches %q", selector)
	}
	return last.ScrollIntoView()
}

// HTML returns the rendered document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}
