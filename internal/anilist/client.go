package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/osusume/osusume-backend/internal/conf"
	"github.com/osusume/osusume-backend/internal/pkg/logger"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// maxErrorBody bounds how much of an upstream error body ends up in
// logs and error details.
const maxErrorBody = 2048

// Client is the catalog search client. A single constructed Client is
// safe to reuse across independent requests; it holds no per-request
// state.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a catalog client with a bounded request timeout.
func NewClient(cfg conf.AniListConfig, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logger.L()
	}

	return &Client{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: log.Named("anilist"),
	}
}

// graphQLRequest is the POST body the catalog accepts.
type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// do executes one GraphQL round trip and returns the raw response body.
// Exactly one of the three failure classes is reported via *APIError;
// nothing is swallowed into an empty result at this layer.
func (c *Client) do(ctx context.Context, query string, variables map[string]interface{}) ([]byte, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)))
		return nil, &APIError{Kind: FailureTransport, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: FailureTransport, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("catalog returned non-2xx status",
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)))
		return nil, &APIError{
			Kind:       FailureStatus,
			StatusCode: resp.StatusCode,
			Detail:     truncate(string(respBody), maxErrorBody),
		}
	}

	// A 200 body can still carry an application-level errors array.
	if errs := gjson.GetBytes(respBody, "errors"); errs.Exists() {
		c.logger.Warn("catalog returned error payload",
			zap.String("errors", truncate(errs.Raw, maxErrorBody)))
		return nil, &APIError{
			Kind:   FailurePayload,
			Detail: truncate(errs.Raw, maxErrorBody),
		}
	}

	c.logger.Debug("catalog request completed",
		zap.Duration("elapsed", time.Since(start)))

	return respBody, nil
}

// truncate trims s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
