/*
 * Client - HTTP client for the SiHealth REST API.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sihealth-console/internal/metrics"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	defaultUserAgent = "sihealth-console"
	requestIDHeader  = "X-Request-ID"
)

// Client calls endpoints relative to a base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// URL builds the absolute URL of an endpoint. A trailing slash in the
// endpoint is preserved.
func (c *Client) URL(endpoint string, query url.Values) string {
	base := strings.TrimSuffix(c.baseURL.String(), "/")
	u := base + "/" + strings.TrimPrefix(endpoint, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends the request and returns the response if the status is 2xx. For
// other statuses the body is consumed and an *APIError is returned.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	m := metrics.GetOpenMetricsInstance()
	action := req.Method + " " + req.URL.Path

	req.Header.Set(requestIDHeader, uuid.NewString())
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		m.IncFailedApiCallsTotal(action)
		return nil, fmt.Errorf("%s failed: %w", action, err)
	}
	m.AddApiDelayHist(action, time.Since(start).Milliseconds())
	m.SetRateLimits(resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		m.IncFailedApiCallsTotal(action)
		body, _ := io.ReadAll(resp.Body)
		apiErr := newAPIError(resp.StatusCode, body)
		log.Debugf("%s [%s] returned %d: %s", action, req.Header.Get(requestIDHeader), resp.StatusCode, apiErr.Detail)
		return nil, apiErr
	}
	m.IncSuccessfulApiCallsTotal(action)
	return resp, nil
}

// readBody reads and closes the body of a successful response.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read response body: %w", err)
	}
	return body, nil
}

// decode unmarshals a JSON body into v. A nil v discards the body.
func decode(body []byte, v any) error {
	if v == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("cannot decode response body: %w", err)
	}
	return nil
}

// Get performs a GET request and returns the response body.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(endpoint, query), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return readBody(resp)
}

// GetJSON performs a GET request and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, endpoint string, query url.Values, v any) error {
	body, err := c.Get(ctx, endpoint, query)
	if err != nil {
		return err
	}
	return decode(body, v)
}

// PostJSON sends payload as JSON and decodes the JSON response into v.
func (c *Client) PostJSON(ctx context.Context, endpoint string, payload, v any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(endpoint, nil), bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	body, err := readBody(resp)
	if err != nil {
		return err
	}
	return decode(body, v)
}

// PostForm sends the fields as a multipart form and decodes the JSON
// response into v.
func (c *Client) PostForm(ctx context.Context, endpoint string, fields url.Values, v any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, values := range fields {
		for _, value := range values {
			if err := w.WriteField(name, value); err != nil {
				return fmt.Errorf("cannot encode form field %s: %w", name, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("cannot encode form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(endpoint, nil), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	body, err := readBody(resp)
	if err != nil {
		return err
	}
	return decode(body, v)
}
