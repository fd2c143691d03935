// Package tesuto provides a client for the Tesuto network-emulation REST API.
package tesuto

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// Common errors
var (
	// ErrInvalidToken indicates the API rejected the supplied token (HTTP 401).
	ErrInvalidToken = errors.New("invalid API token")
	// ErrNotFound indicates the requested object does not exist (HTTP 404).
	ErrNotFound = errors.New("object not found")
)

// Client defines the interface for Tesuto API operations.
// All methods accept context.Context for cancellation and timeout support.
type Client interface {
	// ListEmulations fetches all emulations, ordered alphabetically by name.
	ListEmulations(ctx context.Context) ([]Emulation, error)

	// GetEmulation fetches a single emulation by ID.
	GetEmulation(ctx context.Context, emulationID string) (*Emulation, error)

	// SetEmulationAction transitions an emulation to the given action
	// (ActionStart, ActionSuspend, or ActionStop). A non-zero endAt schedules
	// automatic teardown at that epoch second; it is only meaningful with
	// ActionStart.
	SetEmulationAction(ctx context.Context, emulationID, action string, endAt int64) error

	// ListDevices fetches all devices within an emulation.
	ListDevices(ctx context.Context, emulationID string) ([]Device, error)

	// GetDevice fetches a single device within an emulation.
	GetDevice(ctx context.Context, emulationID, deviceID string) (*Device, error)

	// SetDeviceEnabled enables or disables a device.
	SetDeviceEnabled(ctx context.Context, emulationID, deviceID string, enabled bool) error
}

// clientImpl represents a Tesuto API client implementation
type clientImpl struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// Compile-time verification that clientImpl implements Client
var _ Client = (*clientImpl)(nil)

// NewClient connects to the Tesuto API at baseURL using the supplied token.
// Make sure to use the programmable token and not the login UI token, which
// expires.
func NewClient(baseURL, apiToken string) Client {
	return &clientImpl{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// retryResult holds the result of a single retry attempt.
type retryResult struct {
	body       []byte
	statusCode int
	err        error
}

// executeWithRetry performs an HTTP request with retry logic for transient errors.
func (c *clientImpl) executeWithRetry(httpReq *http.Request, maxRetries int) ([]byte, int, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		// Rewind the body before re-sending; Do consumes it.
		if attempt > 0 && httpReq.GetBody != nil {
			body, err := httpReq.GetBody()
			if err != nil {
				return nil, 0, fmt.Errorf("failed to rewind request body for retry: %w", err)
			}
			httpReq.Body = body
		}

		result := c.executeRequest(httpReq)
		if result.err == nil && result.statusCode < 500 {
			return result.body, result.statusCode, nil
		}

		// Don't retry on last attempt
		if attempt >= maxRetries-1 {
			if result.err != nil {
				return nil, 0, fmt.Errorf("failed after %d attempts: %w", maxRetries, result.err)
			}
			return result.body, result.statusCode, nil
		}

		// Retry on network errors or 5xx status codes
		lastErr = result.err
		time.Sleep(time.Duration(attempt+1) * time.Second)
	}
	return nil, 0, lastErr
}

// executeRequest performs a single HTTP request and returns the result.
func (c *clientImpl) executeRequest(httpReq *http.Request) retryResult {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return retryResult{err: err}
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close() // Close response body; error not actionable as body is already read
	if err != nil {
		return retryResult{err: err}
	}

	return retryResult{body: body, statusCode: resp.StatusCode}
}

// dispatch issues an API request and maps authentication and lookup failures
// to their sentinel errors. The returned body is only valid for 2xx statuses.
func (c *clientImpl) dispatch(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body for %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request to %s: %w", endpoint, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	respBody, statusCode, err := c.executeWithRetry(httpReq, 3)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		return nil, ErrInvalidToken
	case statusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case statusCode >= 300:
		var apiErr APIError
		if unmarshalErr := json.Unmarshal(respBody, &apiErr); unmarshalErr == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API %s returned status %d: %w", endpoint, statusCode, &apiErr)
		}
		return nil, fmt.Errorf("API %s returned status %d: %s", endpoint, statusCode, string(respBody))
	}

	return respBody, nil
}

func (c *clientImpl) ListEmulations(ctx context.Context) ([]Emulation, error) {
	body, err := c.dispatch(ctx, http.MethodGet, "/emulations", nil)
	if err != nil {
		return nil, err
	}

	var resp listResponse[Emulation]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse emulation list response: %w", err)
	}

	// Order emulations alphabetically by name
	sort.Slice(resp.Data, func(i, j int) bool {
		return resp.Data[i].Name < resp.Data[j].Name
	})

	return resp.Data, nil
}

func (c *clientImpl) GetEmulation(ctx context.Context, emulationID string) (*Emulation, error) {
	body, err := c.dispatch(ctx, http.MethodGet, "/emulations/"+emulationID, nil)
	if err != nil {
		return nil, err
	}

	var resp objectResponse[Emulation]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse emulation %s response: %w", emulationID, err)
	}

	return &resp.Data, nil
}

func (c *clientImpl) SetEmulationAction(ctx context.Context, emulationID, action string, endAt int64) error {
	update := emulationUpdate{
		Action: action,
		EndAt:  endAt,
	}

	_, err := c.dispatch(ctx, http.MethodPut, "/emulations/"+emulationID, update)
	if err != nil {
		return fmt.Errorf("failed to set emulation %s to %q: %w", emulationID, action, err)
	}
	return nil
}

func (c *clientImpl) ListDevices(ctx context.Context, emulationID string) ([]Device, error) {
	body, err := c.dispatch(ctx, http.MethodGet, "/emulations/"+emulationID+"/devices", nil)
	if err != nil {
		return nil, err
	}

	var resp listResponse[Device]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse device list response for emulation %s: %w", emulationID, err)
	}

	return resp.Data, nil
}

func (c *clientImpl) GetDevice(ctx context.Context, emulationID, deviceID string) (*Device, error) {
	body, err := c.dispatch(ctx, http.MethodGet, "/emulations/"+emulationID+"/devices/"+deviceID, nil)
	if err != nil {
		return nil, err
	}

	var resp objectResponse[Device]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse device %s response: %w", deviceID, err)
	}

	return &resp.Data, nil
}

func (c *clientImpl) SetDeviceEnabled(ctx context.Context, emulationID, deviceID string, enabled bool) error {
	update := deviceUpdate{
		IsEnabled: enabled,
	}

	_, err := c.dispatch(ctx, http.MethodPut, "/emulations/"+emulationID+"/devices/"+deviceID, update)
	if err != nil {
		return fmt.Errorf("failed to toggle device %s in emulation %s: %w", deviceID, emulationID, err)
	}
	return nil
}
