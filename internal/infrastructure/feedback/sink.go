package feedback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/observability/metrics"
)

const target = "feedback"

// Sink posts operator feedback to a form-submission endpoint as a multipart
// form, the format those endpoints expect from plain HTML forms.
type Sink struct {
	endpoint   string
	httpClient *http.Client
	upstream   *metrics.UpstreamMetrics
}

func New(endpoint string, upstream *metrics.UpstreamMetrics) *Sink {
	return &Sink{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		upstream:   upstream,
	}
}

func (s *Sink) SubmitFeedback(ctx context.Context, feedback domain.Feedback) error {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("message", feedback.Message); err != nil {
		return fmt.Errorf("write feedback form: %w", err)
	}
	if feedback.Email != "" {
		if err := form.WriteField("email", feedback.Email); err != nil {
			return fmt.Errorf("write feedback form: %w", err)
		}
	}
	if err := form.WriteField("rating", strconv.Itoa(feedback.Rating)); err != nil {
		return fmt.Errorf("write feedback form: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("close feedback form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return fmt.Errorf("create feedback request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	if s.upstream != nil {
		s.upstream.Start(target)
	}
	resp, err := s.httpClient.Do(req)
	if s.upstream != nil {
		s.upstream.Finish(target, "submit", time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("feedback request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			return fmt.Errorf("feedback endpoint status %s", resp.Status)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}
