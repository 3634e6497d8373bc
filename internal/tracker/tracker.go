package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/williampepple1/price-tracker/internal/config"
	"github.com/williampepple1/price-tracker/internal/extraction"
	"github.com/williampepple1/price-tracker/internal/history"
	"github.com/williampepple1/price-tracker/internal/logger"
	"github.com/williampepple1/price-tracker/internal/scraper"
)

// Status is the outcome of one URL cycle
type Status string

const (
	StatusStored  Status = "stored"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result describes what happened to a single URL
type Result struct {
	URL       string
	ProductID string
	Status    Status
	Price     float64
	Err       error
}

// Summary collects the results of a run in URL order
type Summary struct {
	Results []Result
	Stored  int
	Skipped int
	Failed  int
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusStored:
		s.Stored++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// Tracker runs fetch, extract and store for each configured URL, one URL at
// a time
type Tracker struct {
	Config    *config.AppConfig
	Scraper   scraper.Scraper
	Extractor *extraction.Extractor
	Store     *history.Store
	RunID     string

	logger *logger.Logger
}

// New creates a tracker with a fresh run id
func New(cfg *config.AppConfig, s scraper.Scraper, store *history.Store, log *logger.Logger) *Tracker {
	runID := uuid.NewString()
	return &Tracker{
		Config:    cfg,
		Scraper:   s,
		Extractor: extraction.NewExtractor(&cfg.Extraction),
		Store:     store,
		RunID:     runID,
		logger:    log.With("run_id", runID),
	}
}

// Run processes urls in order. A failing URL does not stop the run; only
// ctx cancellation does, in which case the partial summary is returned with
// ctx's error.
func (t *Tracker) Run(ctx context.Context, urls []string) (Summary, error) {
	var summary Summary
	t.logger.Info("run started", "urls", len(urls))

	for i, url := range urls {
		if i > 0 {
			if err := wait(ctx, t.Config.Scraper.RateLimit); err != nil {
				t.logger.Warn("run interrupted", "processed", i)
				return summary, err
			}
		} else if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.add(t.Process(ctx, url))
	}

	t.logger.Info("run finished", "stored", summary.Stored, "skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

// Process runs one fetch, extract, store cycle. Pages missing the price or
// title are skipped without touching the history.
func (t *Tracker) Process(ctx context.Context, url string) Result {
	log := t.logger.With("url", url)
	result := Result{URL: url, ProductID: extraction.ProductID(url)}

	html, err := t.Scraper.Fetch(ctx, url)
	if err != nil {
		log.Error("fetch failed", "error", err)
		return result.fail(err)
	}

	record, err := t.Extractor.ExtractHTML(url, html)
	switch {
	case errors.Is(err, extraction.ErrNotFound):
		log.Warn("skipping page", "reason", err.Error())
		result.Status = StatusSkipped
		result.Err = err
		return result
	case err != nil:
		log.Error("extraction failed", "error", err)
		return result.fail(err)
	}

	log = log.With("product_id", record.ProductID)
	entry, err := t.Store.Append(*record)
	if err != nil {
		log.Error("storing observation failed", "error", err)
		return result.fail(err)
	}

	result.Status = StatusStored
	result.Price = record.Price

	if n := len(entry.Prices); n > 1 {
		prev := entry.Prices[n-2].Price
		if prev != record.Price {
			log.Info("price changed", "from", prev, "to", record.Price, "currency", record.Currency)
		} else {
			log.Debug("price unchanged", "price", record.Price, "currency", record.Currency)
		}
	} else {
		log.Info("tracking new product", "title", record.Title, "price", record.Price, "currency", record.Currency)
	}

	return result
}

func (r Result) fail(err error) Result {
	r.Status = StatusFailed
	r.Err = err
	return r
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
