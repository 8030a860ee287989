package proxy

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"resty.dev/v3"
)

const maxParallelChecks = 50

// ProxySupplier hands out outbound proxies in round-robin order. Get returns "" when none are usable.
type ProxySupplier interface {
	Get() string
	Len() int
}

// CheckFunc reports whether proxyURL can reach testURL
type CheckFunc func(ctx context.Context, proxyURL, testURL string) bool

type proxySupplier struct {
	proxies []string
	current int
	mutex   sync.Mutex
}

// NewProxySupplier keeps the proxies that can reach testURL
func NewProxySupplier(ctx context.Context, proxies []string, testURL string) (ProxySupplier, error) {
	return NewCheckedProxySupplier(ctx, proxies, testURL, isProxyValid)
}

// NewCheckedProxySupplier is NewProxySupplier with a custom health check. Input order is preserved.
func NewCheckedProxySupplier(ctx context.Context, proxies []string, testURL string, check CheckFunc) (ProxySupplier, error) {
	if len(proxies) == 0 {
		return &proxySupplier{proxies: []string{}}, nil
	}

	log.Infof("🔄 Testing %d proxies in parallel...", len(proxies))

	working := make([]bool, len(proxies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelChecks)

	for i, proxyURL := range proxies {
		i, proxyURL := i, proxyURL
		g.Go(func() error {
			if check(gctx, proxyURL, testURL) {
				working[i] = true
				log.Infof("✅ Proxy %s is working", proxyURL)
			} else {
				log.Infof("❌ Proxy %s is not working, skipping", proxyURL)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	valid := make([]string, 0, len(proxies))
	for i, ok := range working {
		if ok {
			valid = append(valid, proxies[i])
		}
	}

	log.Infof("✅ ProxySupplier initialized with %d working proxies out of %d tested", len(valid), len(proxies))

	return &proxySupplier{proxies: valid}, nil
}

func (p *proxySupplier) Get() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	proxy := p.proxies[p.current]
	p.current = (p.current + 1) % len(p.proxies)

	return proxy
}

func (p *proxySupplier) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.proxies)
}

// isProxyValid sends one request through proxyURL. Any HTTP answer counts: the fitment
// endpoint rejects unauthenticated GETs, which still proves the tunnel works.
func isProxyValid(ctx context.Context, proxyURL, testURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0).
		SetProxy(proxyURL)

	resp, err := client.R().
		SetContext(ctx).
		Get(testURL)
	if err != nil {
		log.Debugf("Proxy test failed for %s: %v", proxyURL, err)
		return false
	}

	if resp.StatusCode() >= 500 {
		log.Debugf("Proxy test failed for %s with status: %s", proxyURL, resp.Status())
		return false
	}

	return true
}
