package io

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/williampepple1/price-tracker/internal/config"
)

// URLReader reads product URLs from the configured source
type URLReader struct {
	Config *config.IOConfig
	Getenv func(string) string
}

// NewURLReader creates a new URL reader backed by the process environment
func NewURLReader(config *config.IOConfig) *URLReader {
	return &URLReader{
		Config: config,
		Getenv: os.Getenv,
	}
}

// ReadFromFile reads URLs from a file, one URL per line
func (r *URLReader) ReadFromFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		url := strings.TrimSpace(scanner.Text())
		if url != "" && !strings.HasPrefix(url, "#") {
			urls = append(urls, url)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return urls, nil
}

// ParseURLList splits a comma-separated URL list, dropping blank entries
func ParseURLList(list string) []string {
	var urls []string
	for _, part := range strings.Split(list, ",") {
		if url := strings.TrimSpace(part); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// GetURLs returns URLs from the input file when one is configured, otherwise
// from the environment variable. An empty result is a configuration error.
func (r *URLReader) GetURLs() ([]string, error) {
	var urls []string
	if r.Config.InputFile != "" {
		var err error
		urls, err = r.ReadFromFile(r.Config.InputFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.Config.InputFile, err)
		}
	} else {
		urls = ParseURLList(r.Getenv(r.Config.URLsEnv))
	}

	if len(urls) == 0 {
		return nil, config.ErrNoURLs
	}
	return urls, nil
}
