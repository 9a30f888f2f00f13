package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/observability/metrics"
)

const target = "transcription"

// Client talks to the transcription service. Transcription requests carry no
// client-side timeout; a long recording takes as long as it takes, and the
// orchestrator keeps calls strictly sequential anyway.
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

// TranscribeCall converts one call recording into transcript text. The
// service answers with the transcript as a plain-text body; a non-2xx
// response surfaces the body text as the error message, and that text ends up
// in the per-call error list verbatim.
func (c *Client) TranscribeCall(ctx context.Context, request domain.TranscriptionRequest) (string, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal transcribe request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe-call", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, "transcribe_call")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = fmt.Sprintf("status %s", resp.Status)
		}
		return "", fmt.Errorf("%s", msg)
	}

	transcript, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcribe response: %w", err)
	}
	return strings.TrimSpace(string(transcript)), nil
}

// StorageStats reads the transcription service's storage-admin counters.
func (c *Client) StorageStats(ctx context.Context) (domain.StorageStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/storage/stats", nil)
	if err != nil {
		return domain.StorageStats{}, fmt.Errorf("create storage stats request: %w", err)
	}

	resp, err := c.do(req, "storage_stats")
	if err != nil {
		return domain.StorageStats{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.StorageStats{}, httpError("storage_stats", resp)
	}

	var stats domain.StorageStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return domain.StorageStats{}, fmt.Errorf("decode storage stats response: %w", err)
	}
	return stats, nil
}

// StorageCleanup triggers the transcription service's manual cleanup.
func (c *Client) StorageCleanup(ctx context.Context) (domain.StorageStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/storage/cleanup", bytes.NewReader([]byte("{}")))
	if err != nil {
		return domain.StorageStats{}, fmt.Errorf("create storage cleanup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, "storage_cleanup")
	if err != nil {
		return domain.StorageStats{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.StorageStats{}, httpError("storage_cleanup", resp)
	}

	var response struct {
		Stats domain.StorageStats `json:"stats"`
		Error string              `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return domain.StorageStats{}, fmt.Errorf("decode storage cleanup response: %w", err)
	}
	if response.Error != "" {
		return domain.StorageStats{}, domain.WrapError(domain.ErrUpstream, "transcription storage_cleanup", fmt.Errorf("%s", response.Error))
	}
	return response.Stats, nil
}

func (c *Client) do(req *http.Request, operation string) (*http.Response, error) {
	if c.upstream == nil {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, domain.WrapError(domain.ErrTemporary, "transcription "+operation, err)
		}
		return resp, nil
	}

	c.upstream.Start(target)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.upstream.Finish(target, operation, time.Since(start), err)
	if err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "transcription "+operation, err)
	}
	return resp, nil
}

func httpError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))

	kind := domain.ErrUpstream
	if resp.StatusCode >= 500 {
		kind = domain.ErrTemporary
	}
	if msg == "" {
		return domain.WrapError(kind, "transcription "+operation, fmt.Errorf("status %s", resp.Status))
	}
	return domain.WrapError(kind, "transcription "+operation, fmt.Errorf("status %s: %s", resp.Status, msg))
}
