package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/price-tracker/internal/config"
)

func TestHTTPScraper_Fetch(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<span id="productTitle">Widget</span>`))
	}))
	defer server.Close()

	cfg := config.CreateDefault()
	s := NewHTTPScraper(cfg)
	s.pick = func(int) int { return 1 }

	body, err := s.Fetch(context.Background(), server.URL+"/shop/ABC123")
	require.NoError(t, err)
	assert.Equal(t, `<span id="productTitle">Widget</span>`, body)
	assert.Equal(t, cfg.Scraper.UserAgents[1], gotAgent)
}

func TestHTTPScraper_DecodesCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<span>Caf\xe9</span>"))
	}))
	defer server.Close()

	body, err := NewHTTPScraper(config.CreateDefault()).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "<span>Café</span>", body)
}

func TestHTTPScraper_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewHTTPScraper(config.CreateDefault()).Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPScraper_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := config.CreateDefault()
	cfg.Scraper.Timeout = 50 * time.Millisecond

	_, err := NewHTTPScraper(cfg).Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestNew_SelectsImplementation(t *testing.T) {
	cfg := config.CreateDefault()
	assert.IsType(t, &HTTPScraper{}, New(cfg))

	cfg.Browser.Enabled = true
	assert.IsType(t, &BrowserScraper{}, New(cfg))
}
