// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/apperr"
	"github.com/MORAX777/Movies-Recommendation-System/pkg/pagination"
)

// # Service Layer

// allLabels is the browse filter value meaning "no label filter".
const allLabels = "All"

// Service answers catalog browsing requests against the current snapshot.
type Service struct {
	holder *Holder
	logger *slog.Logger
}

// NewService constructs a new [Service] over a snapshot holder.
func NewService(holder *Holder, logger *slog.Logger) *Service {
	return &Service{holder: holder, logger: logger}
}

// ListQuery holds the browse filters of GET /movies.
type ListQuery struct {
	Search string
	Genre  string
	Page   pagination.Params
}

/*
List filters the catalog and returns one page of it.

Parameters:
  - query: ListQuery (Genre "All" disables the label filter)

Returns:
  - []Item: The requested page, in load order
  - pagination.Meta: Totals for the whole filtered result
*/
func (service *Service) List(_ context.Context, query ListQuery) ([]Item, pagination.Meta) {
	genre := strings.TrimSpace(query.Genre)
	if strings.EqualFold(genre, allLabels) {
		genre = ""
	}

	matches := service.holder.Current().Filter(query.Search, genre)
	start, end := query.Page.Window(len(matches))

	return matches[start:end], pagination.NewMeta(query.Page.Page, query.Page.Limit, len(matches))
}

/*
Get retrieves a single movie.

Returns:
  - Item: The movie
  - error: apperr.NotFound if the id is not in the current catalog
*/
func (service *Service) Get(_ context.Context, id int64) (Item, error) {
	item, ok := service.holder.Current().Get(id)
	if !ok {
		return Item{}, apperr.NotFound("Movie")
	}
	return item, nil
}

// Labels returns every label of the current catalog in first-appearance order.
func (service *Service) Labels(_ context.Context) []string {
	return service.holder.Current().Labels()
}

// Reload re-runs the provider chain and reports which source won.
func (service *Service) Reload(context context.Context) (LoadResult, error) {
	result, err := service.holder.Reload(context)
	if err != nil {
		return result, apperr.Internal(err)
	}
	return result, nil
}

// Status reports the active catalog source.
func (service *Service) Status() LoadResult {
	return service.holder.Status()
}
