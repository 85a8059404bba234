// Package httputil holds the small JSON-over-HTTP helpers shared by the
// HTTP-based provider backends.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// RequestDetails holds the details for an HTTP request
type RequestDetails struct {
	URL               string
	APIKey            string
	RequestBody       interface{}
	AdditionalHeaders map[string]string
}

// StatusError is returned when the server answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

var (
	clientMu sync.RWMutex
	// Deadlines come from the caller's context, so the shared client has no
	// timeout of its own.
	httpClient = &http.Client{}
)

// SetClient replaces the shared HTTP client
func SetClient(client *http.Client) {
	clientMu.Lock()
	defer clientMu.Unlock()
	httpClient = client
}

func currentClient() *http.Client {
	clientMu.RLock()
	defer clientMu.RUnlock()
	return httpClient
}

func drainAndCloseBody(body io.ReadCloser) error {
	_, err := io.Copy(io.Discard, body)
	if err != nil {
		return fmt.Errorf("error draining body: %w", err)
	}
	if err := body.Close(); err != nil {
		return fmt.Errorf("error closing body: %w", err)
	}
	return nil
}

func createRequest(ctx context.Context, method string, details RequestDetails) (*http.Request, error) {
	var body io.Reader
	if details.RequestBody != nil {
		jsonBody, err := json.Marshal(details.RequestBody)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, details.URL, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request for URL %s: %w", details.URL, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if details.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+details.APIKey)
	}

	for key, value := range details.AdditionalHeaders {
		req.Header.Set(key, value)
	}

	return req, nil
}

func executeRequest(req *http.Request) ([]byte, error) {
	resp, err := currentClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := drainAndCloseBody(resp.Body); err != nil {
			logrus.WithError(err).Debug("error closing response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from %s: %w", req.URL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logrus.WithFields(logrus.Fields{
			"url":    req.URL.String(),
			"status": resp.StatusCode,
		}).Debug("API request failed")
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

// SendRequest POSTs details.RequestBody as JSON and returns the raw response
// body. The request is bounded by ctx; there is no retry.
func SendRequest(ctx context.Context, details RequestDetails) ([]byte, error) {
	req, err := createRequest(ctx, http.MethodPost, details)
	if err != nil {
		return nil, err
	}

	return executeRequest(req)
}

// Get issues a GET request and returns the raw response body
func Get(ctx context.Context, url, apiKey string) ([]byte, error) {
	req, err := createRequest(ctx, http.MethodGet, RequestDetails{URL: url, APIKey: apiKey})
	if err != nil {
		return nil, err
	}

	return executeRequest(req)
}

// DecodeJSON sends a POST and unmarshals the response into out
func DecodeJSON(ctx context.Context, details RequestDetails, out interface{}) error {
	body, err := SendRequest(ctx, details)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
