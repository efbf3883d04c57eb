// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/metrics"
)

// # HTTP Provider

const (
	httpBreakerName     = "catalog-http"
	httpBreakerTrips    = 3
	httpBreakerCooldown = 60 * time.Second
	httpMaxBodyBytes    = 64 << 20
)

// HTTPProvider downloads the catalog CSV from a URL.
//
// Requests go through a circuit breaker: after repeated failures the URL is
// skipped outright until the cooldown passes, so periodic reloads do not
// stall on a dead mirror.
type HTTPProvider struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]Row]
}

// NewHTTPProvider creates a provider for the given CSV URL.
func NewHTTPProvider(url string, client *http.Client, logger *slog.Logger) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	breaker := gobreaker.NewCircuitBreaker[[]Row](gobreaker.Settings{
		Name:        httpBreakerName,
		MaxRequests: 1,
		Timeout:     httpBreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= httpBreakerTrips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit_breaker_state_changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})

	return &HTTPProvider{url: url, client: client, breaker: breaker}
}

// Name implements [Provider].
func (provider *HTTPProvider) Name() string {
	return "http"
}

// Load implements [Provider].
func (provider *HTTPProvider) Load(context context.Context) ([]Row, error) {
	return provider.breaker.Execute(func() ([]Row, error) {
		return provider.fetch(context)
	})
}

func (provider *HTTPProvider) fetch(context context.Context) ([]Row, error) {
	request, err := http.NewRequestWithContext(context, http.MethodGet, provider.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Accept", "text/csv")

	response, err := provider.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s answered %d", ErrSourceUnavailable, provider.url, response.StatusCode)
	}

	return ParseCSV(io.LimitReader(response.Body, httpMaxBodyBytes))
}

// State exposes the breaker state for readiness reporting.
func (provider *HTTPProvider) State() gobreaker.State {
	return provider.breaker.State()
}
