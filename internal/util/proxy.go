package util

import (
	"net/http"
	"net/url"

	"github.com/factlab/veracity/internal/model"
)

// NewProxyFunc creates a proxy function from configuration.
// If no proxy URLs are configured, falls back to environment variables.
func NewProxyFunc(cfg model.ProxyConfig) func(*http.Request) (*url.URL, error) {
	if cfg.HTTP == "" && cfg.HTTPS == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && cfg.HTTPS != "" {
			return url.Parse(cfg.HTTPS)
		}
		if cfg.HTTP != "" {
			return url.Parse(cfg.HTTP)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// NewTransport builds an HTTP transport honoring the proxy configuration.
// Both the search client and the Ollama embedder use this so all outbound
// API traffic follows the same proxy rules.
func NewTransport(cfg model.ProxyConfig) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(cfg)
	return transport
}
