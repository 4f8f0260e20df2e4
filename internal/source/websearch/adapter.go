// Package websearch adapts an external search API (You.com-style) into the
// source.Source interface.
package websearch

import (
	"context"
	"fmt"
	"time"

	"github.com/Anantaverma20/NovaIQ/internal/dedup"
	"github.com/Anantaverma20/NovaIQ/internal/domain"
	"github.com/go-resty/resty/v2"
)

const sourceID = "websearch"

// Config holds the search API connection settings.
type Config struct {
	BaseURL          string
	APIKey           string
	Timeout          time.Duration
	RetryCount       int
	MinContentLength int
}

// Adapter implements source.Source against a remote search API.
type Adapter struct {
	client           *resty.Client
	apiKey           string
	minContentLength int
}

// NewAdapter creates a new web search adapter. Timeout and bounded
// retry-with-backoff live here at the transport level; the pipeline above
// never retries a fetch.
func NewAdapter(cfg *Config) *Adapter {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second)

	return &Adapter{
		client:           client,
		apiKey:           cfg.APIKey,
		minContentLength: cfg.MinContentLength,
	}
}

// GetSourceID returns the unique identifier for this source.
func (a *Adapter) GetSourceID() string {
	return sourceID
}

// Configured reports whether the search API key is present.
func (a *Adapter) Configured() bool {
	return a.apiKey != ""
}

type searchResponse struct {
	Results []struct {
		URL           string `json:"url"`
		Title         string `json:"title"`
		Snippet       string `json:"snippet"`
		PublishedDate string `json:"published_date"`
	} `json:"results"`
}

// Search queries the remote API and normalizes results into candidates.
// Results with insufficient content are dropped here so the pipeline never
// sees unusable snippets.
func (a *Adapter) Search(ctx context.Context, query string, maxResults int) ([]dedup.Candidate, error) {
	if !a.Configured() {
		return nil, &domain.FetchError{Source: sourceID, Err: fmt.Errorf("search API key not configured")}
	}

	var resp searchResponse
	httpResp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+a.apiKey).
		SetQueryParams(map[string]string{
			"q":     query,
			"limit": fmt.Sprintf("%d", maxResults),
		}).
		SetResult(&resp).
		Get("/api/search")
	if err != nil {
		return nil, &domain.FetchError{Source: sourceID, Err: err}
	}
	if httpResp.StatusCode() != 200 {
		return nil, &domain.FetchError{Source: sourceID, Err: fmt.Errorf("status %d", httpResp.StatusCode())}
	}

	candidates := make([]dedup.Candidate, 0, len(resp.Results))
	for _, item := range resp.Results {
		if len(candidates) >= maxResults {
			break
		}
		if item.URL == "" || len(item.Snippet) < a.minContentLength {
			continue
		}
		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		candidates = append(candidates, dedup.Candidate{
			URL:         item.URL,
			Title:       title,
			Body:        item.Snippet,
			Source:      sourceID,
			PublishedAt: parseDate(item.PublishedDate),
		})
	}
	return candidates, nil
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
