package proxy

import (
	"net/http"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
	"go.trai.ch/zerr"
)

// Router dispatches requests to the first proxy whose prefix matches.
type Router struct {
	proxies []*Proxy
}

// NewRouter builds one proxy per configured rule, single backend first.
func NewRouter(cfg *domain.BuildConfig, logger ports.Logger, metrics ports.Metrics) (*Router, error) {
	rules := cfg.ProxyRules()
	r := &Router{proxies: make([]*Proxy, 0, len(rules))}
	seen := make(map[string]struct{}, len(rules))

	for _, rule := range rules {
		if rule.Prefix == "/" {
			return nil, zerr.With(domain.ErrProxyConflict, "prefix", rule.Prefix)
		}
		if _, ok := seen[rule.Prefix]; ok {
			return nil, zerr.With(domain.ErrProxyConflict, "prefix", rule.Prefix)
		}
		seen[rule.Prefix] = struct{}{}
		r.proxies = append(r.proxies, New(rule, logger, metrics))
	}
	return r, nil
}

// Proxies returns the proxies in routing order.
func (r *Router) Proxies() []*Proxy {
	return r.proxies
}

// Match returns the proxy responsible for path.
func (r *Router) Match(path string) (*Proxy, bool) {
	for _, p := range r.proxies {
		if p.Match(path) {
			return p, true
		}
	}
	return nil, false
}

// Wrap routes matching requests to their proxy and everything else to next.
func (r *Router) Wrap(next http.Handler) http.Handler {
	if len(r.proxies) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if p, ok := r.Match(req.URL.Path); ok {
			p.ServeHTTP(w, req)
			return
		}
		next.ServeHTTP(w, req)
	})
}
