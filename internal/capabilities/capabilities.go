// Package capabilities reads WMS GetCapabilities documents to find the
// GetMap endpoint a service advertises.
package capabilities

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/html/charset"
)

// DefaultTimeout bounds a single capabilities request.
const DefaultTimeout = 10 * time.Second

const cacheSize = 256

// ErrNoGetMap is returned when a capabilities document has no GetMap
// online resource.
var ErrNoGetMap = errors.New("capabilities document has no GetMap endpoint")

// document covers WMS 1.3.0 (WMS_Capabilities) and 1.1.1
// (WMT_MS_Capabilities); both nest GetMap the same way.
type document struct {
	Version string `xml:"version,attr"`
	GetMap  []struct {
		Href string `xml:"href,attr"`
	} `xml:"Capability>Request>GetMap>DCPType>HTTP>Get>OnlineResource"`
}

type result struct {
	url string
	err error
}

// Client fetches capabilities documents and caches the GetMap URL per
// service URL, failures included.
type Client struct {
	http   *http.Client
	cache  *lru.Cache[string, result]
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a capabilities client.
func New(opts ...Option) *Client {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, result](cacheSize)
	c := &Client{
		http:   &http.Client{Timeout: DefaultTimeout},
		cache:  cache,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetMapURL returns the GetMap endpoint advertised by the WMS at serviceURL.
func (c *Client) GetMapURL(ctx context.Context, serviceURL string) (string, error) {
	if r, ok := c.cache.Get(serviceURL); ok {
		return r.url, r.err
	}
	u, err := c.fetch(ctx, serviceURL)
	// a cancelled caller says nothing about the service
	if ctx.Err() == nil {
		c.cache.Add(serviceURL, result{url: u, err: err})
	}
	return u, err
}

func (c *Client) fetch(ctx context.Context, serviceURL string) (string, error) {
	reqURL, err := RequestURL(serviceURL)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("capabilities request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("capabilities request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("capabilities fetched", "url", reqURL, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("capabilities request: unexpected status %s", resp.Status)
	}
	return Parse(resp.Body)
}

// RequestURL adds the GetCapabilities query to serviceURL, keeping any
// parameters the service URL already carries (map=, vendor keys).
func RequestURL(serviceURL string) (string, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("capabilities request: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("capabilities request: unsupported scheme %q", u.Scheme)
	}
	q := u.Query()
	for k := range q {
		switch strings.ToUpper(k) {
		case "SERVICE", "REQUEST", "VERSION":
			q.Del(k)
		}
	}
	q.Set("SERVICE", "WMS")
	q.Set("REQUEST", "GetCapabilities")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Parse reads a capabilities document and returns its first GetMap
// online resource.
func Parse(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return "", fmt.Errorf("decode capabilities: %w", err)
	}
	for _, g := range doc.GetMap {
		if href := strings.TrimSpace(g.Href); href != "" {
			return href, nil
		}
	}
	return "", ErrNoGetMap
}
