package extraction

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const nbsp = "\u00a0"

// dotGrouped matches "1.234,56": dot-separated thousands before a decimal comma
var dotGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})+,\d+$`)

// ErrInvalidPrice is returned when price text is not numeric after normalization
var ErrInvalidPrice = errors.New("invalid price")

// NormalizePrice turns localized price text such as "1 234,56 €" into a
// number. It drops the currency symbol, keeps only what precedes the first
// non-breaking space, trims, turns the decimal comma into a point, then
// parses.
//
// Plain, narrow and thin spaces inside the number are thousands separators.
// Dots are thousands separators only when they split groups of three digits
// ahead of a decimal comma ("1.234,56"); any other mix of dots and commas is
// rejected rather than guessed.
func NormalizePrice(text, symbol string) (float64, error) {
	s := text
	if symbol != "" {
		s = strings.ReplaceAll(s, symbol, "")
	}

	// a leading symbol leaves a non-breaking space in front of the number
	s = strings.TrimLeft(s, " \t\r\n"+nbsp)
	s = strings.Split(s, nbsp)[0]
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u202f', '\u2009':
			return -1
		}
		return r
	}, s)

	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		if !dotGrouped.MatchString(s) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
		}
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}

	f, _ := d.Float64()
	return f, nil
}

// ProductID returns the last non-empty path segment of rawURL
func ProductID(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return ""
}
