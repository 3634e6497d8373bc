package models

// Record is a successful extraction from a product page
type Record struct {
	ProductID string  `json:"id"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
}

// Observation is one timestamped price sample
type Observation struct {
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Timestamp int64   `json:"timestamp"`
}

// Entry is the history of a single product. Title and URL are set when the
// entry is created and never change afterwards.
type Entry struct {
	Title  string        `json:"title"`
	URL    string        `json:"url"`
	Prices []Observation `json:"prices"`
}

// Latest returns the most recent observation, if any
func (e *Entry) Latest() (Observation, bool) {
	if len(e.Prices) == 0 {
		return Observation{}, false
	}
	return e.Prices[len(e.Prices)-1], true
}

// Document maps product identifiers to their history
type Document map[string]*Entry
