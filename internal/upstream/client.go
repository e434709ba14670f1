package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-offline-gateway/internal/interfaces"
	"go-offline-gateway/internal/models"
)

// maxBodyBytes caps how much of an origin response is captured. Responses
// larger than this cannot be cached anyway (store entry limit) and would only
// buffer memory.
const maxBodyBytes = 8 * 1024 * 1024

// hopByHopHeaders are connection-scoped and must not be forwarded or stored.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Ensure Client implements interfaces.Fetcher
var _ interfaces.Fetcher = (*Client)(nil)

// Client fetches from the configured application origin and captures the
// full response so it can be both served and stored.
type Client struct {
	origin *url.URL
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates an origin client for a base URL like "http://app:3000"
func NewClient(origin string, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("failed to parse origin URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("origin URL must include scheme and host: %q", origin)
	}

	return &Client{
		origin: parsed,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

// Fetch requests a host-relative path from the origin. Transport failures
// come back as errors; any HTTP status is a captured response. SameOrigin is
// false when redirects landed the request on a different host.
func (c *Client) Fetch(ctx context.Context, method, path string, header http.Header, body io.Reader) (*models.FetchResult, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build origin request: %w", err)
	}
	copyHeader(req.Header, header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	captured, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read origin response: %w", err)
	}

	stored := models.NewStoredResponse(resp.StatusCode, stripHopByHop(resp.Header), captured)

	sameOrigin := resp.Request.URL.Host == c.origin.Host

	return &models.FetchResult{
		Response:   stored,
		SameOrigin: sameOrigin,
	}, nil
}

// resolve joins a host-relative request URI onto the origin base URL. The
// input is already percent-encoded, so it is parsed rather than assigned to
// url.URL fields, which would re-encode it.
func (c *Client) resolve(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	ref, err := url.ParseRequestURI(path)
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}
	return c.origin.ResolveReference(ref).String(), nil
}

// copyHeader copies request headers minus hop-by-hop ones.
func copyHeader(dst, src http.Header) {
	for key, values := range src {
		if isHopByHop(key) {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

// stripHopByHop returns response headers with connection-scoped ones removed.
func stripHopByHop(header http.Header) http.Header {
	out := make(http.Header, len(header))
	for key, values := range header {
		if isHopByHop(key) {
			continue
		}
		out[key] = append([]string(nil), values...)
	}
	return out
}

func isHopByHop(key string) bool {
	for _, h := range hopByHopHeaders {
		if http.CanonicalHeaderKey(key) == h {
			return true
		}
	}
	return false
}
