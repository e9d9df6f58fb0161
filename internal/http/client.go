package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/leg100/rawlink/internal"
	"github.com/leg100/rawlink/internal/logr"
)

const (
	DefaultURL = "http://localhost:10000"

	// ErrorReasonHeader carries the machine-readable reason a raw link was
	// rejected.
	ErrorReasonHeader = "X-Rawlink-Error"
)

type (
	Client struct {
		baseURL *url.URL
		headers http.Header
		http    *retryablehttp.Client
	}

	// ClientConfig provides configuration details to the API client.
	ClientConfig struct {
		// The URL of the rawlink daemon.
		URL string
		// Headers that will be added to every request.
		Headers http.Header
		// Toggle retrying requests upon encountering transient errors.
		RetryRequests bool
		// Override default http transport
		Transport http.RoundTripper
		// Logger for logging an error upon retry
		Logger logr.Logger
	}
)

func NewClient(config ClientConfig) (*Client, error) {
	// set defaults
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.Headers == nil {
		config.Headers = make(http.Header)
	}
	if config.Transport == nil {
		config.Transport = DefaultTransport
	}
	if config.Headers.Get("User-Agent") == "" {
		config.Headers.Set("User-Agent", "rawlink-cli")
	}

	baseURL, err := ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %v", err)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	// Create the client.
	client := &Client{
		baseURL: baseURL,
		headers: config.Headers,
	}
	client.http = &retryablehttp.Client{
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
		HTTPClient:   &http.Client{Transport: config.Transport},
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 30 * time.Second,
		RetryMax:     5,
	}
	if config.RetryRequests {
		// enable retries
		client.http.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
			retry, retryErr := retryablehttp.ErrorPropagatedRetryPolicy(ctx, resp, err)
			if retry {
				if retryErr != nil {
					err = retryErr
				}
				// The http response is nil when there is a problem with the
				// request and there is no response, e.g. socket timeout.
				if resp != nil && resp.Request != nil {
					config.Logger.Error(err, "retrying request", "path", resp.Request.URL.Path, "status", resp.StatusCode)
				} else {
					config.Logger.Error(err, "retrying request")
				}
			}
			return retry, retryErr
		}
	} else {
		// disable retries
		client.http.CheckRetry = func(_ context.Context, _ *http.Response, err error) (bool, error) {
			return false, err
		}
	}
	return client, nil
}

// Hostname returns the server host:port.
func (c *Client) Hostname() string {
	return c.baseURL.Host
}

// NewRequest creates a request. A relative path is resolved relative to the
// base URL of the client; an absolute URL is used as-is. If body is non-nil
// it is sent as raw bytes.
func (c *Client) NewRequest(method, path string, body []byte) (*retryablehttp.Request, error) {
	u, err := c.baseURL.Parse(path)
	if err != nil {
		return nil, err
	}

	var reqBody any
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequest(method, u.String(), reqBody)
	if err != nil {
		return nil, err
	}

	// Set the default headers.
	maps.Copy(req.Header, c.headers)
	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}
	return req, nil
}

// Do sends a request. If v implements io.Writer, the raw response body is
// written to it; otherwise a non-nil v is decoded from a JSON response.
//
// The provided ctx must be non-nil. If it is canceled or times out, ctx.Err()
// will be returned.
func (c *Client) Do(ctx context.Context, req *retryablehttp.Request, v any) error {
	// Add the context to the request.
	req = req.WithContext(ctx)

	// Execute the request and check the response.
	resp, err := c.http.Do(req)
	if err != nil {
		// If we got an error, and the context has been canceled,
		// the context's error is probably more useful.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return err
		}
	}
	defer resp.Body.Close()

	// Basic response checking.
	if err := checkResponseCode(resp); err != nil {
		return err
	}

	// Return here if decoding the response isn't needed.
	if v == nil {
		return nil
	}

	// If v implements io.Writer, write the raw response body.
	if w, ok := v.(io.Writer); ok {
		_, err = io.Copy(w, resp.Body)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("unmarshalling response: %w", err)
	}
	return nil
}

// checkResponseCode can be used to check the status code of an HTTP request.
func checkResponseCode(r *http.Response) error {
	if r.StatusCode >= 200 && r.StatusCode <= 299 {
		return nil
	}
	msg := readErrorMessage(r)
	if r.StatusCode == http.StatusNotFound && r.Header.Get(ErrorReasonHeader) == "" {
		return fmt.Errorf("%w: %s", internal.ErrResourceNotFound, msg)
	}
	if reason := r.Header.Get(ErrorReasonHeader); reason != "" {
		msg = fmt.Sprintf("%s (%s)", msg, reason)
	}
	return &internal.HTTPError{Code: r.StatusCode, Message: msg}
}

// readErrorMessage extracts an error message from the response, which is
// either a JSON error payload or plain text.
func readErrorMessage(r *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil || len(body) == 0 {
		return r.Status
	}
	var payload ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return r.Status
}
