// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package natsconn provides the NATS connection factory used to publish
// interaction events.
package natsconn

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/constants"
)

// Options configures the NATS connection behaviour.
type Options struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

const (
	defaultMaxReconnects = 5
	defaultReconnectWait = 2 * time.Second
)

// Connect establishes a NATS connection and fails fast if the server is unreachable.
// Later disconnects are logged and retried by the client.
func Connect(opts Options, logger *slog.Logger) (*nats.Conn, error) {
	if opts.MaxReconnects == 0 {
		opts.MaxReconnects = defaultMaxReconnects
	}
	if opts.ReconnectWait == 0 {
		opts.ReconnectWait = defaultReconnectWait
	}

	connection, err := nats.Connect(opts.URL,
		nats.Name(constants.AppName),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.RetryOnFailedConnect(false),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(connection *nats.Conn) {
			logger.Info("nats_reconnected", slog.String("url", connection.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s (max_reconnects=%d, wait=%s): %w",
			opts.URL, opts.MaxReconnects, opts.ReconnectWait, err)
	}

	logger.Info("nats_connected", slog.String("url", connection.ConnectedUrl()))
	return connection, nil
}
