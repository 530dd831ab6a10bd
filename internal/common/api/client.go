// internal/common/api/client.go
package api

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

	"partner-console/internal/common/config"
	"partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/common/metrics"
)

// MethodOverrideField signals semantic PUT on update endpoints. The transport
// is uniformly POST; the backend switches on this field.
const MethodOverrideField = "_method"

// MethodOverridePut is the only override value the backend accepts.
const MethodOverridePut = "PUT"

// Client is the authenticated REST client for the administration backend.
type Client struct {
	baseURL    string
	locale     string
	userAgent  string
	httpClient *http.Client
	sessions   SessionStore
	logger     logger.Logger
}

func NewClient(cfg config.APIConfig, sessions SessionStore, log logger.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		locale:    cfg.Locale,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: config.GetDuration(cfg.RequestTimeout),
		},
		sessions: sessions,
		logger:   log,
	}
}

// GetJSON performs an authenticated GET and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// PostJSON performs an authenticated POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.NewDecodeFailedError(err)
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(payload), "application/json", out)
}

// PostMultipart performs an authenticated POST with a prepared multipart body.
// Used whenever a file field or mixed array payload is present; updates signal
// semantic PUT through the override field inside the body, not the verb.
func (c *Client) PostMultipart(ctx context.Context, path string, body io.Reader, contentType string, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	token := c.sessions.Token()
	if token == "" {
		// Short-circuit before the request is sent; the caller redirects to login.
		return errors.NewLoginRequiredError()
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return errors.NewNetworkFailureError(err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Locale", c.locale)
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.APIRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, path, "transport_error").Inc()
		if ctx.Err() == context.DeadlineExceeded {
			return errors.NewRequestTimeoutError(method + " " + path)
		}
		return errors.NewNetworkFailureError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, path, "transport_error").Inc()
		return errors.NewNetworkFailureError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.APIRequestsTotal.WithLabelValues(method, path, fmt.Sprintf("http_%d", resp.StatusCode)).Inc()
		return c.decodeError(method, path, resp.StatusCode, respBody)
	}

	metrics.APIRequestsTotal.WithLabelValues(method, path, "success").Inc()

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.NewDecodeFailedError(err)
	}
	return nil
}

// decodeError maps a non-2xx response onto the error taxonomy. A structured
// validation-errors map is flattened with the first message as the primary
// notification; the full set is logged for diagnostics.
func (c *Client) decodeError(method, path string, status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		// Not intercepted globally; surfaced per call at the action boundary.
		return errors.NewTokenRejectedError(strings.TrimSpace(string(body)))
	case status == http.StatusNotFound:
		return errors.NewResourceNotFoundError("resource", path)
	case status >= 500:
		return errors.NewNetworkFailureError(fmt.Errorf("server error (status %d)", status))
	}

	var payload struct {
		Message string                 `json:"message"`
		Errors  map[string]interface{} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		stdErr := errors.NewValidationFailedError(payload.Errors)
		c.logger.Error("Backend rejected request with validation errors", map[string]interface{}{
			"method": method,
			"path":   path,
			"status": status,
			"fields": stdErr.Fields,
		})
		return stdErr
	}

	return errors.NewNetworkFailureError(fmt.Errorf("request failed (status %d): %s", status, strings.TrimSpace(string(body))))
}
