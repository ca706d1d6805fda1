// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package google reads group membership from the Google Workspace Admin SDK Directory API
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/httpclient"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"
)

// bearerRoundTripper sets the OAuth2 access token on every request
type bearerRoundTripper struct {
	source oauth2.TokenSource
}

func (rt *bearerRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	token, err := rt.source.Token()
	if err != nil {
		return nil, errors.NewUnauthorized("failed to obtain Google access token", err)
	}
	token.SetAuthHeader(req)
	return next(req)
}

// Directory implements port.SourceDirectoryReader for Google groups.
// The group ID is the group email address (or its unique ID).
type Directory struct {
	config     Config
	httpClient *httpclient.Client
}

var _ port.SourceDirectoryReader = (*Directory)(nil)

// NewDirectory creates a directory authenticated as the service account,
// impersonating the configured administrator
func NewDirectory(ctx context.Context, cfg Config) (*Directory, error) {
	if cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, errors.NewConfiguration("Google service account address and private key are required")
	}
	if cfg.AdminEmail == "" {
		return nil, errors.NewConfiguration("Google admin address is required for domain-wide delegation")
	}

	jwtConfig := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{DirectoryMemberReadonlyScope},
		TokenURL:   cfg.TokenURL,
		Subject:    cfg.AdminEmail,
	}

	// token requests are traced like the API calls
	tokenCtx := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})

	return NewDirectoryWithTokenSource(cfg, jwtConfig.TokenSource(tokenCtx)), nil
}

// NewDirectoryWithTokenSource creates a directory using the given token source
func NewDirectoryWithTokenSource(cfg Config, source oauth2.TokenSource) *Directory {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 200 {
		cfg.PageSize = DefaultConfig().PageSize
	}

	httpConfig := httpclient.DefaultConfig()
	httpConfig.Timeout = cfg.Timeout
	httpConfig.MaxRetries = cfg.MaxRetries
	httpConfig.RetryDelay = cfg.RetryDelay

	client := httpclient.NewClient(httpConfig)
	client.AddRoundTripper(&bearerRoundTripper{source: source})

	return &Directory{
		config:     cfg,
		httpClient: client,
	}
}

// ListMembers returns every member of the group, following nextPageToken.
// Members without an email (the CUSTOMER type) are skipped.
func (d *Directory) ListMembers(ctx context.Context, groupID string) ([]model.SourceMember, error) {
	var (
		members   []model.SourceMember
		pageToken string
		pages     int
	)

	for {
		page, err := d.membersPage(ctx, groupID, pageToken)
		if err != nil {
			return nil, err
		}
		pages++

		for _, m := range page.Members {
			if m.Email == "" || m.Type == MemberTypeCustomer {
				continue
			}
			members = append(members, model.SourceMember{Email: m.Email})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	slog.InfoContext(ctx, "retrieved Google group members",
		"group", groupID,
		"member_count", len(members),
		"pages", pages,
	)

	return members, nil
}

func (d *Directory) membersPage(ctx context.Context, groupID, pageToken string) (*MembersPage, error) {
	query := url.Values{
		"maxResults": {strconv.Itoa(d.config.PageSize)},
	}
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	reqURL := fmt.Sprintf("%s/admin/directory/v1/groups/%s/members?%s",
		d.config.BaseURL, url.PathEscape(groupID), query.Encode())

	resp, err := d.httpClient.Request(ctx, http.MethodGet, reqURL, nil, nil)
	if err != nil {
		return nil, MapHTTPError(ctx, err)
	}

	var page MembersPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, errors.NewUnexpected("failed to parse Google members response", err)
	}

	return &page, nil
}
