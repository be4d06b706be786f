/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package lineapi implements an outbound client for the LINE Messaging API:
// replying to webhook events, pushing messages and fetching user profiles.
package lineapi

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
)

// DefaultBaseURL is the production endpoint of the LINE Messaging API.
const DefaultBaseURL = "https://api.line.me/v2/bot"

// APIError represents a non-2xx answer of the LINE Messaging API.
type APIError struct {
	StatusCode int
	Message    string
	Details    []ErrorDetail
}

// ErrorDetail describes a single problem with the request payload.
type ErrorDetail struct {
	Message  string `json:"message"`
	Property string `json:"property"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("line api error (status %d): %s", e.StatusCode, e.Message)
	}
	details := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		details = append(details, d.Message)
	}
	return fmt.Sprintf("line api error (status %d): %s: %s", e.StatusCode, e.Message, strings.Join(details, ", "))
}

// Profile is a LINE user profile.
type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
	Language      string `json:"language,omitempty"`
}

type replyMessageRequest struct {
	ReplyToken           string    `json:"replyToken"`
	Messages             []Message `json:"messages"`
	NotificationDisabled bool      `json:"notificationDisabled,omitempty"`
}

type pushMessageRequest struct {
	To                   string    `json:"to"`
	Messages             []Message `json:"messages"`
	NotificationDisabled bool      `json:"notificationDisabled,omitempty"`
}

type multicastMessageRequest struct {
	To                   []string  `json:"to"`
	Messages             []Message `json:"messages"`
	NotificationDisabled bool      `json:"notificationDisabled,omitempty"`
}

type apiErrorResponse struct {
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details"`
}

// Client calls the LINE Messaging API over HTTP.
// It is safe for concurrent use; one long-lived instance should be shared by all request handlers.
type Client struct {
	httpClient       *http.Client
	baseURL          string
	metricsCollector *MetricsCollector
}

// ClientOpts contains optional parameters for the Client.
type ClientOpts struct {
	// MetricsCollector, when set, observes the duration and status of every API request.
	MetricsCollector *MetricsCollector
}

// NewClient creates a new Client.
// The passed http.Client is expected to carry authorization
// (see httpclient.AuthBearerRoundTripper); baseURL without a trailing slash,
// empty value means DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return NewClientWithOpts(httpClient, baseURL, ClientOpts{})
}

// NewClientWithOpts is a more configurable version of the NewClient.
func NewClientWithOpts(httpClient *http.Client, baseURL string, opts ClientOpts) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:       httpClient,
		baseURL:          strings.TrimSuffix(baseURL, "/"),
		metricsCollector: opts.MetricsCollector,
	}
}

// ReplyMessage sends reply messages correlated with an inbound event by its reply token.
// A reply token can be used only once and expires shortly after the event is delivered.
func (c *Client) ReplyMessage(ctx context.Context, replyToken string, messages []Message) error {
	return c.postJSON(ctx, "reply", "/message/reply",
		&replyMessageRequest{ReplyToken: replyToken, Messages: messages})
}

// PushMessage sends messages to a user, group or room at any time.
func (c *Client) PushMessage(ctx context.Context, to string, messages []Message) error {
	return c.postJSON(ctx, "push", "/message/push", &pushMessageRequest{To: to, Messages: messages})
}

// MulticastMessage sends messages to multiple users at once.
func (c *Client) MulticastMessage(ctx context.Context, to []string, messages []Message) error {
	return c.postJSON(ctx, "multicast", "/message/multicast",
		&multicastMessageRequest{To: to, Messages: messages})
}

// GetProfile fetches the profile of a user by id.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/profile/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("create profile request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metricsCollector.observeRequest("get_profile", 0, time.Since(start))
		return nil, fmt.Errorf("get profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.metricsCollector.observeRequest("get_profile", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, makeAPIError(resp)
	}

	var profile Profile
	if err = json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode profile response: %w", err)
	}
	return &profile, nil
}

func (c *Client) postJSON(ctx context.Context, operation, path string, payload interface{}) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metricsCollector.observeRequest(operation, 0, time.Since(start))
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.metricsCollector.observeRequest(operation, resp.StatusCode, time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return makeAPIError(resp)
	}

	// Drain to allow connection reuse.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func makeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var errResp apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		apiErr.Message = "unknown error"
		return apiErr
	}
	apiErr.Message = errResp.Message
	apiErr.Details = errResp.Details
	if apiErr.Message == "" && len(apiErr.Details) == 0 {
		apiErr.Message = "unknown error"
	}
	return apiErr
}
