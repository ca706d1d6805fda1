// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package nats reads committee membership from the LFX platform over NATS request/reply.
package nats

import (
	"context"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"

	"github.com/nats-io/nats.go"
)

// NATSClient is a request/reply connection to the platform
type NATSClient struct {
	conn *nats.Conn
	// timeout bounds a request whose context has no deadline
	timeout time.Duration
}

// Close drains the connection so pending replies are delivered first
func (c *NATSClient) Close() error {
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}

	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
		return err
	}
	return nil
}

// ready reports a ServiceUnavailable error unless requests can be sent right now
func (c *NATSClient) ready() error {
	switch {
	case c.conn == nil:
		return errors.NewServiceUnavailable("NATS client is not connected")
	case c.conn.IsDraining():
		return errors.NewServiceUnavailable("NATS connection is draining")
	case !c.conn.IsConnected():
		return errors.NewServiceUnavailable("NATS connection is " + c.conn.Status().String())
	}
	return nil
}

func (c *NATSClient) request(ctx context.Context, subject string, payload []byte) (*nats.Msg, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	return c.conn.RequestWithContext(ctx, subject, payload)
}

// connectOptions builds the connection options; the handlers only log
func connectOptions(ctx context.Context, config Config) []nats.Option {
	opts := []nats.Option{
		nats.Name(constants.ServiceName),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected", "error", err, "status", nc.Status())
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			slog.ErrorContext(ctx, "async NATS error", "error", err)
		}),
	}

	if config.CredentialsFile != "" {
		opts = append(opts, nats.UserCredentials(config.CredentialsFile))
	}

	return opts
}

// NewClient connects to the NATS server in config
func NewClient(ctx context.Context, config Config) (*NATSClient, error) {
	if config.URL == "" {
		return nil, errors.NewConfiguration("NATS URL is required")
	}

	conn, err := nats.Connect(config.URL, connectOptions(ctx, config)...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to NATS", "error", err, "url", config.URL)
		return nil, errors.NewServiceUnavailable("failed to connect to NATS", err)
	}

	slog.InfoContext(ctx, "connected to NATS",
		"connected_url", conn.ConnectedUrl(),
		"timeout", config.Timeout,
	)

	return &NATSClient{conn: conn, timeout: config.Timeout}, nil
}
