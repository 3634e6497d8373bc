package scraper

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/williampepple1/price-tracker/internal/config"
	"github.com/williampepple1/price-tracker/internal/proxy"
)

// BrowserScraper renders pages in headless Chrome before reading the markup
type BrowserScraper struct {
	Config *config.AppConfig
	Proxy  *proxy.Manager
}

// NewBrowserScraper creates a new browser scraper
func NewBrowserScraper(config *config.AppConfig) *BrowserScraper {
	return &BrowserScraper{
		Config: config,
		Proxy:  proxy.NewManager(&config.Proxies),
	}
}

// proxyServer returns the --proxy-server value, or "" when proxying is off.
// Chrome takes no credentials in that flag, so only scheme and host are kept.
func (s *BrowserScraper) proxyServer() (string, error) {
	proxyURL, err := s.Proxy.GetProxyURL()
	if err != nil || proxyURL == nil {
		return "", err
	}
	return proxyURL.Scheme + "://" + proxyURL.Host, nil
}

// Fetch navigates to url, waits for scripts to settle and returns the
// rendered document
func (s *BrowserScraper) Fetch(ctx context.Context, url string) (string, error) {
	server, err := s.proxyServer()
	if err != nil {
		return "", fmt.Errorf("apply proxy: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.Config.Scraper.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.Config.Browser.Headless),
		chromedp.UserAgent(s.Config.Browser.UserAgent),
	)
	if server != "" {
		opts = append(opts, chromedp.ProxyServer(server))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var html string
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(s.Config.Browser.WaitTime),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser fetch: %w", err)
	}

	return html, nil
}
