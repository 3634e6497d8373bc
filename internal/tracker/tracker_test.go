package tracker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/price-tracker/internal/clock"
	"github.com/williampepple1/price-tracker/internal/config"
	"github.com/williampepple1/price-tracker/internal/extraction"
	"github.com/williampepple1/price-tracker/internal/history"
	"github.com/williampepple1/price-tracker/internal/logger"
)

type fakeScraper struct {
	pages   map[string]string
	errs    map[string]error
	fetched []string
}

func (f *fakeScraper) Fetch(_ context.Context, url string) (string, error) {
	f.fetched = append(f.fetched, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return f.pages[url], nil
}

func page(title, price string) string {
	return `<html><body><span id="productTitle"> ` + title + ` </span>` +
		`<span id="tp_price_block_total_price_ww">` + price + `</span></body></html>`
}

var now = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func newTestTracker(t *testing.T, s *fakeScraper) (*Tracker, *history.Store, *clock.MockClock) {
	t.Helper()
	cfg := config.CreateDefault()
	cfg.Scraper.RateLimit = 0
	clk := clock.NewMockClock(now)
	store := history.NewStore(filepath.Join(t.TempDir(), "data.json"), history.ResetToEmpty, clk, logger.Discard())
	return New(cfg, s, store, logger.Discard()), store, clk
}

func TestRun_EndToEndExample(t *testing.T) {
	url := "https://example.com/shop/ABC123"
	s := &fakeScraper{pages: map[string]string{url: page("Widget", "19,99&nbsp;€")}}
	tr, store, _ := newTestTracker(t, s)

	summary, err := tr.Run(context.Background(), []string{url})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Stored)
	assert.Equal(t, Result{URL: url, ProductID: "ABC123", Status: StatusStored, Price: 19.99}, summary.Results[0])

	data, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ABC123": {"title": "Widget", "url": "https://example.com/shop/ABC123",
		"prices": [{"price": 19.99, "currency": "€", "timestamp": 1792315800}]}}`, string(data))
}

func TestRun_ContinuesPastFailures(t *testing.T) {
	urls := []string{
		"https://example.com/shop/DOWN",
		"https://example.com/shop/NOPRICE",
		"https://example.com/shop/BADPRICE",
		"https://example.com/shop/OK1",
	}
	s := &fakeScraper{
		pages: map[string]string{
			urls[1]: `<span id="productTitle">No price</span>`,
			urls[2]: page("Bad", "Voir les offres"),
			urls[3]: page("Good", "5,00&nbsp;€"),
		},
		errs: map[string]error{urls[0]: errors.New("connection refused")},
	}
	tr, store, _ := newTestTracker(t, s)

	summary, err := tr.Run(context.Background(), urls)
	require.NoError(t, err)

	assert.Equal(t, urls, s.fetched, "URLs are fetched in configured order")
	assert.Equal(t, 1, summary.Stored)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 2, summary.Failed)

	require.Len(t, summary.Results, 4)
	assert.Equal(t, StatusFailed, summary.Results[0].Status)
	assert.Equal(t, StatusSkipped, summary.Results[1].Status)
	assert.ErrorIs(t, summary.Results[1].Err, extraction.ErrPriceNotFound)
	assert.Equal(t, StatusFailed, summary.Results[2].Status)
	assert.ErrorIs(t, summary.Results[2].Err, extraction.ErrInvalidPrice)
	assert.Equal(t, StatusStored, summary.Results[3].Status)

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, doc, 1)
	assert.Contains(t, doc, "OK1")
}

func TestRun_RepeatedRunsAppend(t *testing.T) {
	url := "https://example.com/shop/ABC123"
	s := &fakeScraper{pages: map[string]string{url: page("Widget", "19,99&nbsp;€")}}
	tr, store, clk := newTestTracker(t, s)

	_, err := tr.Run(context.Background(), []string{url})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	s.pages[url] = page("Widget v2", "18,49&nbsp;€")
	_, err = tr.Run(context.Background(), []string{url})
	require.NoError(t, err)

	doc, err := store.Load()
	require.NoError(t, err)
	entry := doc["ABC123"]
	require.Len(t, entry.Prices, 2)
	assert.Equal(t, "Widget", entry.Title)
	assert.Equal(t, 19.99, entry.Prices[0].Price)
	assert.Equal(t, 18.49, entry.Prices[1].Price)
	assert.Equal(t, now.Add(time.Hour).Unix(), entry.Prices[1].Timestamp)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := &fakeScraper{pages: map[string]string{}}
	tr, _, _ := newTestTracker(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := tr.Run(ctx, []string{"https://example.com/shop/A", "https://example.com/shop/B"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summary.Results)
	assert.Empty(t, s.fetched)
}

func TestRun_RateLimitWaitIsInterruptible(t *testing.T) {
	urls := []string{"https://example.com/shop/A", "https://example.com/shop/B"}
	s := &fakeScraper{pages: map[string]string{urls[0]: page("A", "1,00&nbsp;€")}}
	tr, _, _ := newTestTracker(t, s)
	tr.Config.Scraper.RateLimit = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	summary, err := tr.Run(ctx, urls)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, []string{urls[0]}, s.fetched)
}

func TestNew_AssignsRunID(t *testing.T) {
	tr, _, _ := newTestTracker(t, &fakeScraper{})
	assert.Len(t, tr.RunID, 36)
}
