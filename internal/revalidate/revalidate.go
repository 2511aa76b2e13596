// Package revalidate tells the presentation layer which cached views are stale.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
)

const (
	PathHome  = "/"
	PathAdmin = "/admin"

	SecretHeader = "x-revalidate-secret"
)

// ProjectPath is the public detail view of a project.
func ProjectPath(slug string) string {
	return "/project/" + slug
}

type request struct {
	Paths []string `json:"paths"`
}

// WebhookNotifier posts the stale paths to the site's revalidation endpoint.
// Failures are logged and never returned.
type WebhookNotifier struct {
	url        string
	secret     string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewWebhookNotifier(url, secret string, logger zerolog.Logger) *WebhookNotifier {
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = 10 * time.Second

	return &WebhookNotifier{
		url:        url,
		secret:     secret,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (n *WebhookNotifier) Invalidate(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}
	if err := n.post(ctx, paths); err != nil {
		n.logger.Warn().Err(err).Strs("paths", paths).Msg("view invalidation failed")
		return
	}
	n.logger.Debug().Strs("paths", paths).Msg("views invalidated")
}

func (n *WebhookNotifier) post(ctx context.Context, paths []string) error {
	jsonData, err := json.Marshal(request{Paths: paths})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	// the request may already be finishing; invalidation should still go out
	ctx = context.WithoutCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.secret != "" {
		req.Header.Set(SecretHeader, n.secret)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// LogNotifier only records which views would be invalidated.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Invalidate(ctx context.Context, paths ...string) {
	n.logger.Info().Strs("paths", paths).Msg("views invalidated")
}
