package httpfetch

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// ProxyPool hands out outbound proxies in round-robin order.
type ProxyPool struct {
	mu      sync.Mutex
	proxies []*url.URL
	next    int
}

// NewProxyPool parses the given proxy URLs. An empty list yields a pool that never proxies.
func NewProxyPool(rawProxies []string) (*ProxyPool, error) {
	pool := &ProxyPool{}
	for _, raw := range rawProxies {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid outbound proxy %q", raw)
		}
		pool.proxies = append(pool.proxies, u)
	}
	return pool, nil
}

// Next returns the next proxy, or nil when the pool is empty.
func (p *ProxyPool) Next() *url.URL {
	if len(p.proxies) == 0 {
		return nil // No proxy
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	proxy := p.proxies[p.next]
	p.next = (p.next + 1) % len(p.proxies)
	return proxy
}

// Len is the number of configured proxies.
func (p *ProxyPool) Len() int {
	return len(p.proxies)
}

// ProxyFunc plugs the pool into http.Transport.Proxy.
func (p *ProxyPool) ProxyFunc(_ *http.Request) (*url.URL, error) {
	return p.Next(), nil
}
