// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mailchimp implements the subscriber list on top of the Mailchimp Marketing API v3
package mailchimp

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/httpclient"
)

// apiKeyRoundTripper authenticates with the API key as BasicAuth password
type apiKeyRoundTripper struct {
	apiKey string
}

func (rt *apiKeyRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	req.SetBasicAuth("lfx", rt.apiKey)
	return next(req)
}

// Client is a thin Mailchimp Marketing API client
type Client struct {
	config     Config
	apiURL     string
	httpClient *httpclient.Client
}

// NewClient creates a new Mailchimp client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfiguration("Mailchimp API key is required")
	}

	apiURL, err := cfg.apiURL()
	if err != nil {
		return nil, errors.NewConfiguration("invalid Mailchimp configuration", err)
	}

	defaults := DefaultConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > defaults.BatchSize {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaults.Concurrency
	}

	httpConfig := httpclient.DefaultConfig()
	httpConfig.Timeout = cfg.Timeout
	httpConfig.MaxRetries = cfg.MaxRetries
	httpConfig.RetryDelay = cfg.RetryDelay

	client := &Client{
		config:     cfg,
		apiURL:     apiURL,
		httpClient: httpclient.NewClient(httpConfig),
	}
	client.httpClient.AddRoundTripper(&apiKeyRoundTripper{apiKey: cfg.APIKey})

	slog.Debug("Mailchimp client initialized", "api_url", apiURL)

	return client, nil
}

// GetLists returns every audience of the account
func (c *Client) GetLists(ctx context.Context) ([]ListObject, error) {
	var lists []ListObject

	for offset := 0; ; offset += c.config.PageSize {
		var page ListsPage
		query := c.pageQuery(offset, "lists.id,lists.name,total_items")
		if err := c.makeRequest(ctx, http.MethodGet, "/lists?"+query.Encode(), nil, &page); err != nil {
			return nil, err
		}

		lists = append(lists, page.Lists...)
		if len(page.Lists) == 0 || len(lists) >= page.TotalItems {
			return lists, nil
		}
	}
}

// GetMembers returns the members of an audience with the given status,
// or of every status when status is empty
func (c *Client) GetMembers(ctx context.Context, listID, status string) ([]MemberObject, error) {
	var members []MemberObject

	for offset := 0; ; offset += c.config.PageSize {
		var page MembersPage
		query := c.pageQuery(offset, "members.email_address,members.status,total_items")
		if status != "" {
			query.Set("status", status)
		}
		path := fmt.Sprintf("/lists/%s/members?%s", url.PathEscape(listID), query.Encode())
		if err := c.makeRequest(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}

		members = append(members, page.Members...)
		if len(page.Members) == 0 || len(members) >= page.TotalItems {
			return members, nil
		}
	}
}

// BatchSubscribe adds or updates up to BatchSize members in one call
func (c *Client) BatchSubscribe(ctx context.Context, listID string, req BatchRequest) (*BatchResponse, error) {
	var resp BatchResponse
	path := "/lists/" + url.PathEscape(listID)
	if err := c.makeRequest(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteMember archives a member. The contact leaves the audience but keeps
// its history and can be subscribed again later; this is not the
// delete-permanent action, which would block any re-import of the address.
func (c *Client) DeleteMember(ctx context.Context, listID, email string) error {
	path := fmt.Sprintf("/lists/%s/members/%s", url.PathEscape(listID), SubscriberHash(email))
	return c.makeRequest(ctx, http.MethodDelete, path, nil, nil)
}

// SubscriberHash is the member ID Mailchimp derives from an address:
// the hex MD5 of the lower case email
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func (c *Client) pageQuery(offset int, fields string) url.Values {
	return url.Values{
		"count":  {strconv.Itoa(c.config.PageSize)},
		"offset": {strconv.Itoa(offset)},
		"fields": {fields},
	}
}

// makeRequest sends a JSON request and decodes the JSON response into result
func (c *Client) makeRequest(ctx context.Context, method, path string, payload any, result any) error {
	headers := map[string]string{}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
		headers["Content-Type"] = "application/json"
	}

	resp, err := c.httpClient.Request(ctx, method, c.apiURL+path, body, headers)
	if err != nil {
		return MapHTTPError(ctx, err)
	}

	if result != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
