package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"golang.org/x/net/html/charset"

	"github.com/williampepple1/price-tracker/internal/config"
	"github.com/williampepple1/price-tracker/internal/proxy"
)

// ErrUnexpectedStatus is returned for any non-2xx response
var ErrUnexpectedStatus = errors.New("unexpected status code")

// HTTPScraper fetches pages with a single plain GET
type HTTPScraper struct {
	Config *config.AppConfig
	Proxy  *proxy.Manager
	pick   func(n int) int
}

// NewHTTPScraper creates a new HTTP scraper
func NewHTTPScraper(config *config.AppConfig) *HTTPScraper {
	return &HTTPScraper{
		Config: config,
		Proxy:  proxy.NewManager(&config.Proxies),
		pick:   rand.Intn,
	}
}

// Fetch issues one GET for url and returns the body decoded to UTF-8.
// There is no retry; any transport failure or non-2xx status is returned.
func (s *HTTPScraper) Fetch(ctx context.Context, url string) (string, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	defer transport.CloseIdleConnections()

	if err := s.Proxy.ApplyToTransport(transport); err != nil {
		return "", fmt.Errorf("apply proxy: %w", err)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   s.Config.Scraper.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	if agents := s.Config.Scraper.UserAgents; len(agents) > 0 {
		req.Header.Set("User-Agent", agents[s.pick(len(agents))])
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(data), nil
}
