// Package report renders the price history as an aligned text table.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/williampepple1/price-tracker/pkg/models"
)

// MaxTitleWidth caps the title column, measured in terminal cells
const MaxTitleWidth = 40

var headers = []string{"ID", "TITLE", "LATEST", "MIN", "MAX", "OBS", "FIRST SEEN", "LAST SEEN"}

// Rows builds one row per product, sorted by product id
func Rows(doc models.Document) [][]string {
	ids := make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		entry := doc[id]
		latest, ok := entry.Latest()
		if !ok {
			rows = append(rows, []string{id, runewidth.Truncate(entry.Title, MaxTitleWidth, "…"), "-", "-", "-", "0", "-", "-"})
			continue
		}

		low, high := latest.Price, latest.Price
		for _, obs := range entry.Prices {
			low = min(low, obs.Price)
			high = max(high, obs.Price)
		}

		rows = append(rows, []string{
			id,
			runewidth.Truncate(entry.Title, MaxTitleWidth, "…"),
			formatPrice(latest.Price, latest.Currency),
			formatPrice(low, latest.Currency),
			formatPrice(high, latest.Currency),
			strconv.Itoa(len(entry.Prices)),
			formatTime(entry.Prices[0].Timestamp),
			formatTime(latest.Timestamp),
		})
	}
	return rows
}

// Write prints the table for doc to w
func Write(w io.Writer, doc models.Document) error {
	rows := Rows(doc)

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	lines := append([][]string{headers}, rows...)
	for _, row := range lines {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
			} else {
				cells[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}
	return nil
}

func formatPrice(price float64, currency string) string {
	return strconv.FormatFloat(price, 'f', 2, 64) + " " + currency
}

func formatTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04")
}
