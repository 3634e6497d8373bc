// Package history persists per-product price series in a single JSON document.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/williampepple1/price-tracker/internal/clock"
	"github.com/williampepple1/price-tracker/internal/config"
	"github.com/williampepple1/price-tracker/internal/io"
	"github.com/williampepple1/price-tracker/internal/logger"
	"github.com/williampepple1/price-tracker/pkg/models"
)

// ErrCorruptDocument is returned by Load under the Fail policy when the
// document on disk is not valid JSON.
var ErrCorruptDocument = errors.New("history document is corrupt")

// CorruptPolicy decides what Load does with a document it cannot parse
type CorruptPolicy int

const (
	// ResetToEmpty treats a corrupt document as empty. The next Save
	// overwrites it, so whatever was in the file is lost.
	ResetToEmpty CorruptPolicy = iota
	// Fail surfaces ErrCorruptDocument and leaves the file untouched.
	Fail
)

// ParseCorruptPolicy maps a config value ("reset" or "fail") to a policy
func ParseCorruptPolicy(s string) (CorruptPolicy, error) {
	switch s {
	case config.OnCorruptReset, "":
		return ResetToEmpty, nil
	case config.OnCorruptFail:
		return Fail, nil
	default:
		return ResetToEmpty, fmt.Errorf("unknown corrupt policy %q", s)
	}
}

// Store reads and writes the history document at Path
type Store struct {
	Path      string
	OnCorrupt CorruptPolicy

	clock  clock.Clock
	logger *logger.Logger
	mu     sync.Mutex
}

// NewStore creates a store for the document at path
func NewStore(path string, policy CorruptPolicy, clk clock.Clock, log *logger.Logger) *Store {
	return &Store{
		Path:      path,
		OnCorrupt: policy,
		clock:     clk,
		logger:    log.With("history_file", path),
	}
}

// Load reads the whole document. A missing file is created as an empty
// document first.
func (s *Store) Load() (models.Document, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("creating empty history document")
		doc := models.Document{}
		if err := s.Save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var doc models.Document
	err = json.Unmarshal(data, &doc)
	if err == nil && doc == nil {
		err = errors.New("document is null")
	}
	if err != nil {
		if s.OnCorrupt == Fail {
			return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		s.logger.Warn("history document is corrupt, resetting to empty", "error", err, "bytes", len(data))
		return models.Document{}, nil
	}

	// a null entry cannot be appended to; drop it like any other garbage
	for id, entry := range doc {
		if entry == nil {
			delete(doc, id)
		}
	}

	return doc, nil
}

// Save replaces the document on disk with doc
func (s *Store) Save(doc models.Document) error {
	if err := io.SaveJSON(s.Path, doc); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Append records one observation of rec. The first observation of a product
// creates its entry with rec's title and URL; later ones only extend the
// price series. It returns the updated entry.
func (s *Store) Append(rec models.Record) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.Load()
	if err != nil {
		return nil, err
	}

	entry, ok := doc[rec.ProductID]
	if !ok {
		entry = &models.Entry{
			Title:  rec.Title,
			URL:    rec.URL,
			Prices: []models.Observation{},
		}
		doc[rec.ProductID] = entry
	}

	entry.Prices = append(entry.Prices, models.Observation{
		Price:     rec.Price,
		Currency:  rec.Currency,
		Timestamp: s.clock.Now().Unix(),
	})

	if err := s.Save(doc); err != nil {
		return nil, err
	}

	return entry, nil
}
