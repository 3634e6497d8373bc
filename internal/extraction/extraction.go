package extraction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/williampepple1/price-tracker/internal/config"
	"github.com/williampepple1/price-tracker/pkg/models"
)

// ErrNotFound matches every missing-element failure. Callers treat it as a
// page to skip rather than a hard error.
var ErrNotFound = errors.New("element not found")

// NotFoundError reports which element the page template was missing
type NotFoundError struct {
	Element string
}

func (e *NotFoundError) Error() string {
	return e.Element + " not found"
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

var (
	ErrPriceNotFound     = &NotFoundError{Element: "price"}
	ErrTitleNotFound     = &NotFoundError{Element: "title"}
	ErrProductIDNotFound = &NotFoundError{Element: "product id"}
)

// Extractor reads the price and title out of a product page
type Extractor struct {
	Config *config.ExtractionConfig
}

// NewExtractor creates a new data extractor
func NewExtractor(config *config.ExtractionConfig) *Extractor {
	return &Extractor{
		Config: config,
	}
}

// ExtractHTML parses html and extracts a record from it
func (e *Extractor) ExtractHTML(url, html string) (*models.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return e.Extract(url, doc)
}

// Extract builds a record for url from doc. It returns either a complete
// record or an error, never a record with a missing price. A missing element
// yields an error matching ErrNotFound; unparseable price text yields
// ErrInvalidPrice.
func (e *Extractor) Extract(url string, doc *goquery.Document) (*models.Record, error) {
	price := doc.Find(e.Config.PriceSelector).First()
	if price.Length() == 0 {
		return nil, ErrPriceNotFound
	}

	title := doc.Find(e.Config.TitleSelector).First()
	if title.Length() == 0 {
		return nil, ErrTitleNotFound
	}

	id := ProductID(url)
	if id == "" {
		return nil, ErrProductIDNotFound
	}

	value, err := NormalizePrice(price.Text(), e.Config.Currency)
	if err != nil {
		return nil, err
	}

	return &models.Record{
		ProductID: id,
		Title:     strings.TrimSpace(title.Text()),
		URL:       url,
		Price:     value,
		Currency:  e.Config.Currency,
	}, nil
}
