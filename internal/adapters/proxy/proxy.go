// Package proxy forwards development server requests to backend services.
package proxy

import (
	"net/http"
	"net/http/httputil"
	"strings"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
	"go.trai.ch/zerr"
)

// Proxy forwards requests under one prefix to one backend.
// The forwarded path is the backend path, then the rule's rewrite, then the
// remainder of the request path after the prefix.
type Proxy struct {
	rule    domain.ProxyRule
	rp      *httputil.ReverseProxy
	logger  ports.Logger
	metrics ports.Metrics
}

// New creates a proxy for rule.
func New(rule domain.ProxyRule, logger ports.Logger, metrics ports.Metrics) *Proxy {
	p := &Proxy{rule: rule, logger: logger, metrics: metrics}
	p.rp = &httputil.ReverseProxy{
		Rewrite:        p.rewrite,
		ModifyResponse: p.observe,
		ErrorHandler:   p.fail,
	}
	return p
}

// Prefix returns the request path prefix the proxy serves.
func (p *Proxy) Prefix() string {
	return p.rule.Prefix
}

// Match reports whether path belongs to this proxy.
func (p *Proxy) Match(path string) bool {
	return p.rule.Match(path)
}

// ServeHTTP forwards the request to the backend and relays the response.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.rp.ServeHTTP(w, r)
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	backend := p.rule.Backend
	rest := strings.TrimPrefix(pr.In.URL.Path, p.rule.Prefix)

	out := pr.Out.URL
	out.Scheme = backend.Scheme
	out.Host = backend.Host
	out.Path = backend.Path + p.rule.Rewrite + rest
	out.RawPath = ""
	if out.Path == "" {
		out.Path = "/"
	}

	pr.Out.Host = backend.Host
	pr.SetXForwarded()
}

func (p *Proxy) observe(resp *http.Response) error {
	p.metrics.ObserveProxy(p.rule.Prefix, resp.StatusCode)
	return nil
}

func (p *Proxy) fail(w http.ResponseWriter, r *http.Request, err error) {
	err = zerr.Wrap(err, domain.ErrProxyFailed.Error())
	err = zerr.With(err, "prefix", p.rule.Prefix)
	err = zerr.With(err, "backend", p.rule.Backend.String())
	err = zerr.With(err, "path", r.URL.Path)
	p.logger.Error(err)
	p.metrics.ObserveProxy(p.rule.Prefix, http.StatusBadGateway)
	w.WriteHeader(http.StatusBadGateway)
}
