// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package google

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/httpclient"
)

// MapHTTPError maps httpclient errors to domain errors
func MapHTTPError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var retryableErr *httpclient.RetryableError
	if !stderrors.As(err, &retryableErr) {
		slog.ErrorContext(ctx, "Google Directory request failed with non-HTTP error", "error", err)
		return errors.NewUnexpected("Google Directory request failed", err)
	}

	message := "Google Directory API error"
	var errResp ErrorResponse
	if jsonErr := json.Unmarshal([]byte(retryableErr.Message), &errResp); jsonErr == nil && errResp.Error.Message != "" {
		message = "Google Directory: " + errResp.Error.Message
	}

	slog.WarnContext(ctx, "Google Directory HTTP error occurred",
		"status_code", retryableErr.StatusCode,
		"message", message,
	)

	switch retryableErr.StatusCode {
	case http.StatusNotFound:
		return errors.NewNotFound(message, err)
	case http.StatusUnauthorized:
		return errors.NewUnauthorized(message, err)
	case http.StatusForbidden, http.StatusBadRequest:
		return errors.NewValidation(message, err)
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return errors.NewServiceUnavailable(message, err)
	default:
		return errors.NewUnexpected(message, err)
	}
}
