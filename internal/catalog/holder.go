// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/metrics"
)

// # Snapshot Holder

// snapshot pairs an index with the provider that produced it.
type snapshot struct {
	index    *Index
	source   string
	loadedAt time.Time
}

// LoadResult describes the outcome of a reload.
type LoadResult struct {
	Source   string    `json:"source"`
	Items    int       `json:"items"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Loader produces a fresh index; [Chain] is the production implementation.
type Loader interface {
	Load(context context.Context) (*Index, string, error)
}

// Holder owns the current catalog snapshot.
//
// Readers call [Holder.Current] once per operation and keep using that
// snapshot, so a concurrent reload never mixes two catalogs in one answer.
type Holder struct {
	current  atomic.Pointer[snapshot]
	loader   Loader
	reloadMu sync.Mutex
	logger   *slog.Logger
}

// NewHolder creates a holder with an empty catalog. Call [Holder.Reload] to populate it.
func NewHolder(loader Loader, logger *slog.Logger) *Holder {
	holder := &Holder{loader: loader, logger: logger}
	empty, _ := Build(nil)
	holder.current.Store(&snapshot{index: empty, source: "none"})
	return holder
}

// NewStaticHolder wraps a prebuilt index, with no loader to reload from.
func NewStaticHolder(index *Index) *Holder {
	holder := &Holder{logger: slog.Default()}
	holder.current.Store(&snapshot{index: index, source: "static", loadedAt: time.Now()})
	return holder
}

// Current returns the active index. It is never nil.
func (holder *Holder) Current() *Index {
	return holder.current.Load().index
}

// Status reports which provider produced the active index.
func (holder *Holder) Status() LoadResult {
	active := holder.current.Load()
	return LoadResult{Source: active.source, Items: active.index.Len(), LoadedAt: active.loadedAt}
}

// Reload runs the loader and publishes the new index with one pointer swap.
//
// On failure the previous snapshot stays active. Concurrent reloads are serialized.
func (holder *Holder) Reload(context context.Context) (LoadResult, error) {
	holder.reloadMu.Lock()
	defer holder.reloadMu.Unlock()

	if holder.loader == nil {
		return holder.Status(), nil
	}

	index, source, err := holder.loader.Load(context)
	if err != nil {
		holder.logger.ErrorContext(context, "catalog_reload_failed", slog.Any("error", err))
		return holder.Status(), err
	}

	holder.current.Store(&snapshot{index: index, source: source, loadedAt: time.Now()})
	metrics.SetCatalogSize(index.Len())

	holder.logger.InfoContext(context, "catalog_reloaded",
		slog.String("source", source),
		slog.Int("items", index.Len()),
	)

	return holder.Status(), nil
}

// Run reloads the catalog every interval until the context is cancelled.
// A non-positive interval disables periodic reloads.
func (holder *Holder) Run(context context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = holder.Reload(context)
		case <-context.Done():
			return
		}
	}
}
