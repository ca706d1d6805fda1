// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package groupsio implements the subscriber list on top of the Groups.io API
package groupsio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-querystring/query"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/httpclient"
)

// groupsioBasicAuthRoundTripper injects the cached login token as BasicAuth
type groupsioBasicAuthRoundTripper struct {
	client *Client
}

// RoundTrip logs in when needed, then adds the token to every non-login request
func (rt *groupsioBasicAuthRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	// Skip auth for login requests to avoid infinite recursion
	if strings.HasSuffix(req.URL.Path, "/v1/login") {
		return next(req)
	}

	token, err := rt.client.getOrRefreshToken(req.Context())
	if err != nil {
		return nil, fmt.Errorf("authentication failed in RoundTripper: %w", err)
	}

	req.SetBasicAuth(token, "")
	return next(req)
}

// tokenCache holds the login token and the time it stops being reused
type tokenCache struct {
	token  string
	expiry time.Time
	mu     sync.RWMutex
}

// Client is a thin Groups.io API client for membership management.
// All calls go to the configured domain.
type Client struct {
	config     Config
	httpClient *httpclient.Client
	cache      tokenCache
	now        func() time.Time
}

// NewClient creates a new Groups.io client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return nil, errors.NewConfiguration("email and password are required for Groups.io client")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultConfig().PageSize
	}

	httpConfig := httpclient.DefaultConfig()
	httpConfig.Timeout = cfg.Timeout
	httpConfig.MaxRetries = cfg.MaxRetries
	httpConfig.RetryDelay = cfg.RetryDelay

	client := &Client{
		config:     cfg,
		httpClient: httpclient.NewClient(httpConfig),
		now:        time.Now,
	}

	client.httpClient.AddRoundTripper(&groupsioBasicAuthRoundTripper{client: client})

	slog.Debug("Groups.io client initialized", "domain", cfg.Domain)

	return client, nil
}

// GetSubs returns every group the account is subscribed to
func (c *Client) GetSubs(ctx context.Context) ([]SubscriptionObject, error) {
	var subs []SubscriptionObject

	err := c.paginate(ctx, "/getsubs", PageOptions{}, func(data json.RawMessage) error {
		var page []SubscriptionObject
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		subs = append(subs, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return subs, nil
}

// GetMembers returns every member of a group
func (c *Client) GetMembers(ctx context.Context, groupID uint64) ([]MemberObject, error) {
	var members []MemberObject

	opts := GetMembersOptions{GroupID: groupID}
	err := c.paginate(ctx, "/getmembers", &opts, func(data json.RawMessage) error {
		var page []MemberObject
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		members = append(members, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return members, nil
}

// DirectAdd subscribes members without sending an invitation
func (c *Client) DirectAdd(ctx context.Context, opts DirectAddOptions) (*DirectAddResultsObject, error) {
	data, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}

	var result DirectAddResultsObject
	if err := c.makeRequest(ctx, http.MethodPost, "/directadd", data, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// BulkRemoveMembers removes members from a group
func (c *Client) BulkRemoveMembers(ctx context.Context, opts BulkRemoveOptions) error {
	data, err := query.Values(opts)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	return c.makeRequest(ctx, http.MethodPost, "/bulkremovemembers", data, nil)
}

// paginate walks a list endpoint. opts must encode PageOptions, either
// directly or embedded; the page token is set on each request.
func (c *Client) paginate(ctx context.Context, path string, opts any, handle func(json.RawMessage) error) error {
	var pageToken uint64

	for {
		data, err := query.Values(opts)
		if err != nil {
			return fmt.Errorf("failed to encode options: %w", err)
		}
		data.Set("limit", fmt.Sprint(c.config.PageSize))
		if pageToken != 0 {
			data.Set("page_token", fmt.Sprint(pageToken))
		}

		var page ListObject
		if err := c.makeRequest(ctx, http.MethodGet, path, data, &page); err != nil {
			return err
		}

		if len(page.Data) > 0 && string(page.Data) != "null" {
			if err := handle(page.Data); err != nil {
				return fmt.Errorf("failed to parse %s page: %w", path, err)
			}
		}

		if !page.HasMore || page.NextPageToken == 0 {
			return nil
		}
		pageToken = page.NextPageToken
	}
}

// makeRequest centralizes all API calls with authentication and error handling
func (c *Client) makeRequest(ctx context.Context, method string, path string, data url.Values, result any) error {
	reqURL := c.config.BaseURL + "/v1" + path

	var body io.Reader
	headers := map[string]string{}

	if method == http.MethodPost && data != nil {
		// POST calls carry the login token as csrf field
		token, err := c.getOrRefreshToken(ctx)
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		data.Set("csrf", token)
		body = strings.NewReader(data.Encode())
		headers["Content-Type"] = "application/x-www-form-urlencoded"
	} else if data != nil {
		reqURL += "?" + data.Encode()
	}

	// vhost selection
	if c.config.Domain != "" {
		headers["Host"] = c.config.Domain
	}

	resp, err := c.httpClient.Request(ctx, method, reqURL, body, headers)
	if err != nil {
		return MapHTTPError(ctx, err)
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// getOrRefreshToken returns the cached token, logging in when it expired
func (c *Client) getOrRefreshToken(ctx context.Context) (string, error) {
	c.cache.mu.RLock()
	if c.cache.token != "" && c.now().Before(c.cache.expiry) {
		token := c.cache.token
		c.cache.mu.RUnlock()
		return token, nil
	}
	c.cache.mu.RUnlock()

	return c.getToken(ctx)
}

// getToken logs in and caches the token until shortly before its JWT expiry
func (c *Client) getToken(ctx context.Context) (string, error) {
	loginCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	data := url.Values{
		"email":    {c.config.Email},
		"password": {c.config.Password},
		"token":    {"true"},
	}

	headers := map[string]string{}
	if c.config.Domain != "" {
		headers["Host"] = c.config.Domain
	}

	loginURL := c.config.BaseURL + "/v1/login?" + data.Encode()
	resp, err := c.httpClient.Request(loginCtx, http.MethodGet, loginURL, nil, headers)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", MapHTTPError(loginCtx, err))
	}

	var loginResp LoginObject
	if err := json.Unmarshal(resp.Body, &loginResp); err != nil {
		return "", fmt.Errorf("login response parse failed: %w", err)
	}

	token := loginResp.Token
	if token == "" {
		return "", fmt.Errorf("no token in login response")
	}

	expiry := c.parseTokenExpiry(token)

	c.cache.mu.Lock()
	c.cache.token = token
	c.cache.expiry = expiry
	c.cache.mu.Unlock()

	slog.InfoContext(ctx, "Groups.io authentication successful",
		"domain", c.config.Domain, "expires_at", expiry.Format(time.RFC3339))

	return token, nil
}

// parseTokenExpiry reads the exp claim without verifying the token.
// Tokens are reused until one minute before they expire.
func (c *Client) parseTokenExpiry(token string) time.Time {
	parser := jwt.Parser{}
	claims := jwt.MapClaims{}

	_, _, err := parser.ParseUnverified(token, &claims)
	if err != nil {
		slog.Warn("failed to parse JWT token", "error", err)
		return c.now().Add(10 * time.Minute) // Default TTL
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		slog.Warn("no expiry in JWT token", "error", err)
		return c.now().Add(10 * time.Minute) // Default TTL
	}

	return exp.Time.Add(-1 * time.Minute)
}
