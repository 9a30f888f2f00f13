package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/leadops/lead-console/internal/core/domain"
)

const target = "backend"

func (c *Client) getRaw(ctx context.Context, path string, query url.Values, operation string) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}

	resp, err := c.do(req, operation)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpError(operation, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", operation, err)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any, operation string) error {
	body, err := c.getRaw(ctx, path, query, operation)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpError(operation, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) do(req *http.Request, operation string) (*http.Response, error) {
	if c.upstream != nil {
		c.upstream.Start(target)
		start := time.Now()
		resp, err := c.httpClient.Do(req)
		c.upstream.Finish(target, operation, time.Since(start), err)
		if err != nil {
			return nil, transportError(operation, err)
		}
		return resp, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(operation, err)
	}
	return resp, nil
}

// transportError marks connection-level failures temporary so the resilience
// executor may retry the storage-admin calls.
func transportError(operation string, err error) error {
	return domain.WrapError(domain.ErrTemporary, "backend "+operation, err)
}

func httpError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))

	kind := domain.ErrUpstream
	if resp.StatusCode >= 500 {
		kind = domain.ErrTemporary
	}
	if msg == "" {
		return domain.WrapError(kind, "backend "+operation, fmt.Errorf("status %s", resp.Status))
	}
	return domain.WrapError(kind, "backend "+operation, fmt.Errorf("status %s: %s", resp.Status, msg))
}

func upstreamError(operation, message string) error {
	return domain.WrapError(domain.ErrUpstream, "backend "+operation, fmt.Errorf("%s", message))
}
