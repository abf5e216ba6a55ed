// Package fetch retrieves raw pages from media sites. Two implementations
// exist: a plain HTTP client for the regular press sites, and a headless
// browser for script-rendered pages.
package fetch

import (
	"context"
	"time"
)

// Response holds a fetched page.
type Response struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte
	Duration   time.Duration
	FetchedAt  time.Time
}

// Fetcher retrieves the content of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
	Close() error
	Type() string
}
