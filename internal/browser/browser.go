package browser

import (
	"context"
	"fmt"
	"time"

	"catalog/harvester/internal/harvest"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	log "github.com/sirupsen/logrus"
)

// Options controls how the browser process is launched.
type Options struct {
	Headless          bool
	ProxyURL          string
	NavigationTimeout time.Duration
}

// Session owns one browser process. Close must be called on every exit path
// or the Chromium process is left running.
type Session struct {
	browser           *rod.Browser
	launcher          *launcher.Launcher
	navigationTimeout time.Duration
}

// Launch starts a browser process and connects to it.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	l := launcher.New().Headless(opts.Headless)
	if opts.ProxyURL != "" {
		l = l.Proxy(opts.ProxyURL)
	}

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	log.Info("✅ Browser session started")

	return &Session{
		browser:           b,
		launcher:          l,
		navigationTimeout: opts.NavigationTimeout,
	}, nil
}

// Open creates a tab and navigates it to url, waiting for the load event.
func (s *Session) Open(ctx context.Context, url string) (harvest.Page, error) {
	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	nav := page
	if s.navigationTimeout > 0 {
		nav = page.Timeout(s.navigationTimeout)
	}

	if err := nav.Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := nav.WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}

	log.Infof("🌐 Loaded %s", url)
	return &Page{page: page}, nil
}

// Close shuts down the browser and kills the launched process.
func (s *Session) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	log.Info("Browser session closed")
	return err
}
