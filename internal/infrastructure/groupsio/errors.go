// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package groupsio

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/httpclient"
)

type errorConstructor func(message string, err ...error) error

func asError[T error](newErr func(string, ...error) T) errorConstructor {
	return func(message string, err ...error) error {
		return newErr(message, err...)
	}
}

// errorTypes classifies the "type" field of a Groups.io error object.
// inadequate_permissions is a refusal of the call, not of the credentials.
var errorTypes = map[string]errorConstructor{
	"bad_request":            asError(errors.NewValidation),
	"invalid_value":          asError(errors.NewValidation),
	"missing_parameter":      asError(errors.NewValidation),
	"inadequate_permissions": asError(errors.NewValidation),
	"unauthorized":           asError(errors.NewUnauthorized),
	"invalid_login":          asError(errors.NewUnauthorized),
	"expired_token":          asError(errors.NewUnauthorized),
	"not_found":              asError(errors.NewNotFound),
	"no_such_group":          asError(errors.NewNotFound),
	"no_such_member":         asError(errors.NewNotFound),
	"rate_limited":           asError(errors.NewServiceUnavailable),
}

// MapHTTPError turns an httpclient failure into a domain error. A typed error
// object in the body wins over the status code.
func MapHTTPError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var httpErr *httpclient.RetryableError
	if !stderrors.As(err, &httpErr) {
		slog.ErrorContext(ctx, "Groups.io unreachable", "error", err)
		return errors.NewServiceUnavailable("Groups.io request failed", err)
	}

	var errObj ErrorObject
	if json.Unmarshal([]byte(httpErr.Message), &errObj) == nil && errObj.Type != "" {
		return WrapGroupsIOError(ctx, &errObj, err)
	}

	slog.WarnContext(ctx, "Groups.io HTTP error", "status_code", httpErr.StatusCode)

	switch code := httpErr.StatusCode; {
	case code == http.StatusNotFound:
		return errors.NewNotFound("resource not found in Groups.io", err)
	case code == http.StatusConflict:
		return errors.NewConflict("conflicting state in Groups.io", err)
	case code == http.StatusUnauthorized:
		return errors.NewUnauthorized("Groups.io authentication failed", err)
	case code == http.StatusBadRequest || code == http.StatusForbidden:
		return errors.NewValidation("Groups.io rejected the request", err)
	case code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
		return errors.NewServiceUnavailable("Groups.io service unavailable", err)
	default:
		return errors.NewUnexpected("Groups.io API error", err)
	}
}

// WrapGroupsIOError maps a Groups.io error object to a domain error
func WrapGroupsIOError(ctx context.Context, errObj *ErrorObject, cause error) error {
	if errObj == nil {
		return nil
	}

	message := "Groups.io " + errObj.Type
	if errObj.Extra != "" {
		message += ": " + errObj.Extra
	}

	newErr, known := errorTypes[errObj.Type]
	if !known {
		slog.ErrorContext(ctx, "unknown Groups.io error type", "error_type", errObj.Type, "extra", errObj.Extra)
		return errors.NewUnexpected(message, cause)
	}

	slog.WarnContext(ctx, "Groups.io API error", "error_type", errObj.Type, "extra", errObj.Extra)
	return newErr(message, cause)
}
