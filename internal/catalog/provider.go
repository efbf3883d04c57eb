// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/constants"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/metrics"
)

// ErrSourceUnavailable marks a provider that could not supply a catalog.
var ErrSourceUnavailable = errors.New("catalog: source unavailable")

// # Provider Contract

// Provider supplies raw catalog rows from one source.
type Provider interface {
	// Name identifies the source in logs, metrics and reload responses.
	Name() string

	// Load returns the rows in the source's natural order.
	Load(context context.Context) ([]Row, error)
}

// # Provider Chain

// Chain tries its providers in order; the first one returning a non-empty
// row set that builds into a valid index wins.
//
// Provider failures are logged and counted, never fatal. The embedded seed
// is always the last provider, so a chain only fails if the seed itself is broken.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain builds a chain over the given providers followed by the embedded seed.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	all := make([]Provider, 0, len(providers)+1)
	for _, provider := range providers {
		if provider != nil {
			all = append(all, provider)
		}
	}
	all = append(all, NewSeedProvider())

	return &Chain{providers: all, logger: logger}
}

// Names lists the providers in the order they are tried.
func (chain *Chain) Names() []string {
	names := make([]string, len(chain.providers))
	for i, provider := range chain.providers {
		names[i] = provider.Name()
	}
	return names
}

// Load implements [Loader].
func (chain *Chain) Load(ctx context.Context) (*Index, string, error) {
	var failures []error

	for _, provider := range chain.providers {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		index, err := chain.try(ctx, provider)
		if err == nil {
			return index, provider.Name(), nil
		}

		chain.logger.WarnContext(ctx, "catalog_source_unavailable",
			slog.String("source", provider.Name()),
			slog.Any("error", err),
		)
		failures = append(failures, err)
	}

	return nil, "", fmt.Errorf("%w: every provider failed: %w", ErrSourceUnavailable, errors.Join(failures...))
}

func (chain *Chain) try(ctx context.Context, provider Provider) (*Index, error) {
	loadCtx, cancel := context.WithTimeout(ctx, constants.CatalogLoadTimeout)
	defer cancel()

	startTime := time.Now()
	rows, err := provider.Load(loadCtx)
	elapsed := time.Since(startTime)

	if err != nil {
		metrics.RecordCatalogLoad(provider.Name(), metrics.OutcomeError, elapsed)
		return nil, fmt.Errorf("%s: %w", provider.Name(), err)
	}

	if len(rows) == 0 {
		metrics.RecordCatalogLoad(provider.Name(), metrics.OutcomeEmpty, elapsed)
		return nil, fmt.Errorf("%w: %s returned no rows", ErrSourceUnavailable, provider.Name())
	}

	index, err := Build(rows)
	if err != nil {
		metrics.RecordCatalogLoad(provider.Name(), metrics.OutcomeError, elapsed)
		return nil, fmt.Errorf("%s: %w", provider.Name(), err)
	}

	metrics.RecordCatalogLoad(provider.Name(), metrics.OutcomeSuccess, elapsed)
	return index, nil
}
