// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package groupsio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
	pkgerrors "github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroupsIO struct {
	t         *testing.T
	token     string
	logins    atomic.Int32
	removed   []string
	added     []string
	lastHost  string
	failWith  int
	errorBody string
}

func newFakeGroupsIO(t *testing.T) *fakeGroupsIO {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return &fakeGroupsIO{t: t, token: token}
}

func (f *fakeGroupsIO) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	require.NoError(f.t, json.NewEncoder(w).Encode(v))
}

func (f *fakeGroupsIO) page(w http.ResponseWriter, r *http.Request, pages ...any) {
	idx := 0
	if r.URL.Query().Get("page_token") == "2" {
		idx = 1
	}
	f.writeJSON(w, map[string]any{
		"object":          "list",
		"has_more":        idx < len(pages)-1,
		"next_page_token": idx + 2,
		"data":            pages[idx],
	})
}

func (f *fakeGroupsIO) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.lastHost = r.Host

	if r.URL.Path == "/v1/login" {
		f.logins.Add(1)
		f.writeJSON(w, LoginObject{Token: f.token})
		return
	}

	if user, _, ok := r.BasicAuth(); !ok || user != f.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if f.failWith != 0 {
		w.WriteHeader(f.failWith)
		_, _ = w.Write([]byte(f.errorBody))
		return
	}

	if r.Method == http.MethodPost {
		require.NoError(f.t, r.ParseForm())
		assert.Equal(f.t, f.token, r.PostForm.Get("csrf"))
		assert.Equal(f.t, "42", r.PostForm.Get("group_id"))
	}

	switch r.URL.Path {
	case "/v1/getsubs":
		f.page(w, r,
			[]SubscriptionObject{{GroupID: 7, GroupName: "other"}},
			[]SubscriptionObject{{GroupID: 42, GroupName: "Announce"}},
		)
	case "/v1/getmembers":
		assert.Equal(f.t, "42", r.URL.Query().Get("group_id"))
		f.page(w, r,
			[]MemberObject{{Email: "A@x.com"}, {Email: "b@x.com"}},
			[]MemberObject{{Email: "c@x.com"}},
		)
	case "/v1/bulkremovemembers":
		f.removed = append(f.removed, strings.Split(r.PostForm.Get("emails"), "\n")...)
		f.writeJSON(w, map[string]any{"object": "bulk_remove_results"})
	case "/v1/directadd":
		lines := strings.Split(r.PostForm.Get("emails"), "\n")
		f.added = append(f.added, lines...)
		f.writeJSON(w, DirectAddResultsObject{
			TotalEmails:  len(lines),
			AddedMembers: []MemberObject{{Email: "new@x.com"}},
			Errors:       []DirectAddError{{Email: "b@x.com", Status: "already a member"}},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func setupSubscriberList(t *testing.T) (*SubscriberList, *fakeGroupsIO) {
	t.Helper()

	fake := newFakeGroupsIO(t)
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.Domain = "lists.example.org"
	cfg.Email = "admin@example.org"
	cfg.Password = "secret"
	cfg.MaxRetries = 0
	cfg.PageSize = 2

	client, err := NewClient(cfg)
	require.NoError(t, err)

	return NewSubscriberList(client), fake
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestSubscriberList_FindListByName(t *testing.T) {
	ctx := context.Background()
	list, fake := setupSubscriberList(t)

	id, found, err := list.FindListByName(ctx, "announce")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "42", id)
	assert.Equal(t, "lists.example.org", fake.lastHost)

	_, found, err = list.FindListByName(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	// the login token is cached
	assert.Equal(t, int32(1), fake.logins.Load())
}

func TestSubscriberList_ListMembers(t *testing.T) {
	list, _ := setupSubscriberList(t)

	emails, err := list.ListMembers(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, []model.MemberEmail{"a@x.com", "b@x.com", "c@x.com"}, emails)

	_, err = list.ListMembers(context.Background(), "not-a-number")
	var validation pkgerrors.Validation
	assert.True(t, errors.As(err, &validation))
}

func TestSubscriberList_BatchRemove(t *testing.T) {
	list, fake := setupSubscriberList(t)

	err := list.BatchRemove(context.Background(), "42", []model.MemberEmail{"c@x.com", "d@x.com"}, model.SilentRemove())
	require.NoError(t, err)
	assert.Equal(t, []string{"c@x.com", "d@x.com"}, fake.removed)

	require.NoError(t, list.BatchRemove(context.Background(), "42", nil, model.SilentRemove()))
	assert.Len(t, fake.removed, 2)
}

func TestSubscriberList_BatchUpsert(t *testing.T) {
	list, fake := setupSubscriberList(t)

	result, err := list.BatchUpsert(context.Background(), "42", []model.SourceMember{
		{Email: "new@x.com", FirstName: "New", LastName: "Member"},
		{Email: "b@x.com"},
	}, model.SilentUpsert())
	require.NoError(t, err)

	assert.Equal(t, &model.UpsertResult{Added: 1, Updated: 1}, result)
	assert.Equal(t, []string{"New Member <new@x.com>", "b@x.com"}, fake.added)

	_, err = list.BatchUpsert(context.Background(), "42", []model.SourceMember{{Email: "x@x.com"}}, model.UpsertOptions{DoubleOptIn: true})
	var validation pkgerrors.Validation
	assert.True(t, errors.As(err, &validation))
}

func TestSubscriberList_ErrorMapping(t *testing.T) {
	list, fake := setupSubscriberList(t)

	fake.failWith = http.StatusBadRequest
	fake.errorBody = `{"object":"error","type":"no_such_group","extra":"42"}`

	_, err := list.ListMembers(context.Background(), "42")
	var notFound pkgerrors.NotFound
	require.True(t, errors.As(err, &notFound))
	assert.Contains(t, err.Error(), "no_such_group")

	fake.failWith = http.StatusServiceUnavailable
	fake.errorBody = "maintenance"

	_, err = list.ListMembers(context.Background(), "42")
	var unavailable pkgerrors.ServiceUnavailable
	assert.True(t, errors.As(err, &unavailable))
}

func TestBatches(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, batches([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2}}, batches([]int{1, 2}, 2))
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("GROUPSIO_BASE_URL", "")
	t.Setenv("GROUPSIO_DOMAIN", "lists.example.org")
	t.Setenv("GROUPSIO_EMAIL", "admin@example.org")
	t.Setenv("GROUPSIO_PASSWORD", "secret")
	t.Setenv("GROUPSIO_PAGE_SIZE", "50")
	t.Setenv("GROUPSIO_MAX_RETRIES", "")
	t.Setenv("GROUPSIO_TIMEOUT", "5s")
	t.Setenv("GROUPSIO_RETRY_DELAY", "")

	cfg, err := NewConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().BaseURL, cfg.BaseURL)
	assert.Equal(t, "lists.example.org", cfg.Domain)
	assert.Equal(t, "admin@example.org", cfg.Email)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultConfig().MaxRetries, cfg.MaxRetries)

	t.Setenv("GROUPSIO_PAGE_SIZE", "lots")
	_, err = NewConfigFromEnv()
	var cfgErr pkgerrors.Configuration
	assert.True(t, errors.As(err, &cfgErr))
}
