package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// Config holds configuration for the shared HTTP client.
type Config struct {
	Timeout             time.Duration     // Request timeout
	InsecureSkipVerify  bool              // Skip TLS verification
	FollowRedirects     bool              // Whether to follow redirects
	MaxRedirects        int               // Maximum number of redirects to follow
	CustomHeaders       map[string]string // Headers added to every request
	MaxIdleConns        int               // Maximum idle connections
	MaxIdleConnsPerHost int               // Maximum idle connections per host
	IdleConnTimeout     time.Duration     // Idle connection timeout
	TLSHandshakeTimeout time.Duration     // TLS handshake timeout
	DialTimeout         time.Duration     // Connection dial timeout
}

// DefaultConfig returns the default HTTP client configuration. TLS
// verification is relaxed because some storefront endpoints serve
// non-standard certificate chains.
func DefaultConfig() Config {
	return Config{
		Timeout:             30 * time.Second,
		InsecureSkipVerify:  true,
		FollowRedirects:     true,
		MaxRedirects:        10,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialTimeout:         10 * time.Second,
	}
}

// NewClient builds a long-lived *http.Client from cfg. The client is safe
// for concurrent use and is meant to be shared across all fetches.
func NewClient(cfg Config) *http.Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
		DialContext: (&net.Dialer{
			Timeout: cfg.DialTimeout,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &headerTransport{base: transport, headers: cfg.CustomHeaders},
	}

	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if cfg.MaxRedirects > 0 {
		maxRedirects := cfg.MaxRedirects
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		}
	}

	return client
}

// headerTransport injects the configured headers into every outgoing
// request without overriding headers already set on the request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for key, value := range t.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	return t.base.RoundTrip(req)
}
