package backendapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/observability/metrics"
)

// Client talks to the backend API that owns timelines, summaries and its own
// storage admin. Timeline and summary requests run without a client-side
// timeout: summary generation is slow by nature and the console waits it out.
type Client struct {
	baseURL    string
	httpClient *http.Client
	upstream   *metrics.UpstreamMetrics
}

func New(baseURL string, upstream *metrics.UpstreamMetrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		upstream:   upstream,
	}
}

// FetchTimeline retrieves the full communication timeline for one lead. The
// identifier kind picks the query parameter; exactly one is ever sent.
func (c *Client) FetchTimeline(ctx context.Context, id domain.Identifier) ([]domain.TimelineEvent, error) {
	query := url.Values{}
	query.Set(id.QueryParam(), id.Value)

	body, err := c.getRaw(ctx, "/generate-timeline", query, "fetch_timeline")
	if err != nil {
		return nil, err
	}
	return domain.DecodeTimeline(body)
}

// GenerateSummary asks the backend for the AI conversation summary. The raw
// response bytes are preserved verbatim inside the summary.
func (c *Client) GenerateSummary(ctx context.Context, id domain.Identifier) (domain.Summary, error) {
	query := url.Values{}
	query.Set(id.QueryParam(), id.Value)

	body, err := c.getRaw(ctx, "/generate-summary", query, "generate_summary")
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.NewSummary(body), nil
}

// StorageStats reads the backend's storage-admin counters.
func (c *Client) StorageStats(ctx context.Context) (domain.StorageStats, error) {
	var stats domain.StorageStats
	if err := c.getJSON(ctx, "/storage/stats", nil, &stats, "storage_stats"); err != nil {
		return domain.StorageStats{}, err
	}
	return stats, nil
}

// StorageCleanup triggers the backend's manual cleanup and returns the stats
// it reports afterwards.
func (c *Client) StorageCleanup(ctx context.Context) (domain.StorageStats, error) {
	var response struct {
		Stats domain.StorageStats `json:"stats"`
		Error string              `json:"error"`
	}
	if err := c.postJSON(ctx, "/storage/cleanup", struct{}{}, &response, "storage_cleanup"); err != nil {
		return domain.StorageStats{}, err
	}
	if response.Error != "" {
		return domain.StorageStats{}, upstreamError("storage_cleanup", response.Error)
	}
	return response.Stats, nil
}
