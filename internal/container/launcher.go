package container

import (
	"context"
	"sync"
	"time"

	"catalog/harvester/internal/browser"
	"catalog/harvester/internal/config"
	"catalog/harvester/internal/proxy"
	"catalog/harvester/internal/service"

	log "github.com/sirupsen/logrus"
)

type proxyValidator func(ctx context.Context, proxies []string, testURL string, timeout time.Duration) proxy.ProxySupplier

type sessionStarter func(ctx context.Context, opts browser.Options) (service.Browser, error)

// browserLauncher starts browser sessions, routing them through a proxy when
// any are configured. Proxies are validated on the first launch for each
// target URL, never before.
type browserLauncher struct {
	opts         browser.Options
	proxies      []string
	proxyTimeout time.Duration

	validate proxyValidator
	start    sessionStarter

	mutex     sync.Mutex
	suppliers map[string]proxy.ProxySupplier
}

func newBrowserLauncher(cfg config.BrowserConfig) *browserLauncher {
	return &browserLauncher{
		opts: browser.Options{
			Headless:          cfg.Headless,
			NavigationTimeout: cfg.NavigationTimeout,
		},
		proxies:      cfg.Proxies,
		proxyTimeout: cfg.ProxyTestTimeout,
		validate:     proxy.NewProxySupplier,
		start:        startSession,
		suppliers:    make(map[string]proxy.ProxySupplier),
	}
}

func startSession(ctx context.Context, opts browser.Options) (service.Browser, error) {
	session, err := browser.Launch(ctx, opts)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Launch satisfies service.BrowserLauncher.
func (l *browserLauncher) Launch(ctx context.Context, targetURL string) (service.Browser, error) {
	opts := l.opts
	if len(l.proxies) > 0 {
		opts.ProxyURL = l.proxyFor(ctx, targetURL)
	}
	return l.start(ctx, opts)
}

func (l *browserLauncher) proxyFor(ctx context.Context, targetURL string) string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	supplier, ok := l.suppliers[targetURL]
	if !ok {
		supplier = l.validate(ctx, l.proxies, targetURL, l.proxyTimeout)
		l.suppliers[targetURL] = supplier
		if supplier.Len() == 0 {
			log.Warnf("⚠️ No working proxies for %s, connecting directly", targetURL)
		}
	}

	return supplier.Get()
}
