// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(retries int) Config {
	return Config{
		Timeout:      5 * time.Second,
		MaxRetries:   retries,
		RetryDelay:   10 * time.Millisecond,
		RetryBackoff: false,
	}
}

func TestNewClient(t *testing.T) {
	config := Config{
		Timeout:      10 * time.Second,
		MaxRetries:   2,
		RetryDelay:   500 * time.Millisecond,
		RetryBackoff: true,
	}

	client := NewClient(config)

	assert.Equal(t, config.Timeout, client.config.Timeout)
	assert.Equal(t, config.MaxRetries, client.config.MaxRetries)
	assert.Equal(t, config.Timeout, client.httpClient.Timeout)
	assert.Equal(t, 30*time.Second, client.config.MaxDelay, "MaxDelay defaults to 30s")
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 2, config.MaxRetries)
	assert.Equal(t, 1*time.Second, config.RetryDelay)
	assert.True(t, config.RetryBackoff)
	assert.Equal(t, 30*time.Second, config.MaxDelay)
}

func TestClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "custom-value", r.Header.Get("Custom-Header"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"message": "success"}`))
	}))
	defer server.Close()

	client := NewClient(fastConfig(1))

	resp, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, map[string]string{
		"Custom-Header": "custom-value",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"message": "success"}`, string(resp.Body))
}

func TestClient_HostHeaderSetsRequestHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lists.example.org", r.Host)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(fastConfig(0))

	_, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, map[string]string{
		"Host": "lists.example.org",
	})
	require.NoError(t, err)
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "not found"}`))
	}))
	defer server.Close()

	client := NewClient(fastConfig(3))

	_, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.Error(t, err)

	var retryableErr *RetryableError
	require.ErrorAs(t, err, &retryableErr)
	assert.Equal(t, http.StatusNotFound, retryableErr.StatusCode)
	assert.Contains(t, retryableErr.Message, "not found")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Retry_ServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"message": "success"}`))
	}))
	defer server.Close()

	client := NewClient(fastConfig(3))

	resp, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load(), "2 failures + 1 success")
}

func TestClient_Retry_ResendsBody(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"test": "data"}`, string(body))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(fastConfig(2))

	resp, err := client.Request(context.Background(), http.MethodPost, server.URL, strings.NewReader(`{"test": "data"}`), map[string]string{
		"Content-Type": "application/json",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Request(ctx, http.MethodGet, server.URL, nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_BackoffIsCapped(t *testing.T) {
	client := NewClient(Config{
		RetryDelay:   100 * time.Millisecond,
		RetryBackoff: true,
		MaxDelay:     500 * time.Millisecond,
	})

	for attempt := 1; attempt <= 6; attempt++ {
		delay := client.backoff(attempt)
		// cap plus at most 25% jitter
		assert.LessOrEqual(t, delay, 625*time.Millisecond, "attempt %d", attempt)
		assert.GreaterOrEqual(t, delay, 100*time.Millisecond, "attempt %d", attempt)
	}
}

// authRoundTripper simulates BasicAuth injection (Groups.io pattern)
type authRoundTripper struct {
	username string
	called   bool
}

func (a *authRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	a.called = true
	req.SetBasicAuth(a.username, "")
	return next(req)
}

func TestClient_RoundTripperChain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != "jwt.token.here" || password != "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"message": "authenticated"}`))
	}))
	defer server.Close()

	client := NewClient(DefaultConfig())
	auth := &authRoundTripper{username: "jwt.token.here"}
	client.AddRoundTripper(auth)
	require.Len(t, client.roundTrippers, 1)

	resp, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, auth.called)
}
