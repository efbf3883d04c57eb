// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/MORAX777/Movies-Recommendation-System/pkg/fold"
)

// ErrMalformedRow is returned by [Build] when a row fails validation.
var ErrMalformedRow = errors.New("catalog: malformed row")

// # Index

// Index is an immutable, load-ordered view of the catalog.
//
// # Concurrency
//
// An Index is safe for concurrent reads. Slices returned by its methods are
// fresh copies; the Items inside them share label slices that must not be modified.
type Index struct {
	items      []Item
	positions  map[int64]int
	labelOrder map[string]int

	// Folded search keys, aligned with items.
	foldedTitles []string
	foldedLabels [][]string
}

// Build validates rows and indexes them in their given order.
//
// Every row must have a positive unique id, a non-empty title and a finite,
// non-negative quality score. The first malformed row fails the whole build
// and no partial index is returned.
func Build(rows []Row) (*Index, error) {
	index := &Index{
		items:        make([]Item, 0, len(rows)),
		positions:    make(map[int64]int, len(rows)),
		labelOrder:   make(map[string]int),
		foldedTitles: make([]string, 0, len(rows)),
		foldedLabels: make([][]string, 0, len(rows)),
	}

	for position, row := range rows {
		if err := validateRow(row); err != nil {
			return nil, fmt.Errorf("%w at position %d (id %d): %s", ErrMalformedRow, position, row.ID, err.Error())
		}
		if _, duplicate := index.positions[row.ID]; duplicate {
			return nil, fmt.Errorf("%w at position %d: duplicate id %d", ErrMalformedRow, position, row.ID)
		}

		title := strings.TrimSpace(row.Title)
		item := Item{
			ID:           row.ID,
			Title:        title,
			Labels:       ParseLabels(row.Labels),
			Year:         ParseYear(title),
			QualityScore: row.QualityScore,
		}

		folded := make([]string, len(item.Labels))
		for i, label := range item.Labels {
			folded[i] = fold.String(label)
			if _, seen := index.labelOrder[label]; !seen {
				index.labelOrder[label] = len(index.labelOrder)
			}
		}

		index.positions[item.ID] = len(index.items)
		index.items = append(index.items, item)
		index.foldedTitles = append(index.foldedTitles, fold.String(title))
		index.foldedLabels = append(index.foldedLabels, folded)
	}

	return index, nil
}

func validateRow(row Row) error {
	switch {
	case row.ID <= 0:
		return errors.New("id must be positive")
	case strings.TrimSpace(row.Title) == "":
		return errors.New("title is empty")
	case math.IsNaN(row.QualityScore) || math.IsInf(row.QualityScore, 0):
		return errors.New("quality score is not finite")
	case row.QualityScore < 0:
		return errors.New("quality score is negative")
	}
	return nil
}

// # Lookups

// Len returns the number of indexed items.
func (index *Index) Len() int {
	return len(index.items)
}

// Items returns every item in load order.
func (index *Index) Items() []Item {
	return slices.Clone(index.items)
}

// Get returns the item with the given id.
func (index *Index) Get(id int64) (Item, bool) {
	position, ok := index.positions[id]
	if !ok {
		return Item{}, false
	}
	return index.items[position], true
}

// Position returns the load-order position of an item, used as the final ranking tie-break.
func (index *Index) Position(id int64) (int, bool) {
	position, ok := index.positions[id]
	return position, ok
}

// LabelOrder returns where a label first appeared in load order.
// Unknown labels sort after every known one.
func (index *Index) LabelOrder(label string) int {
	if order, ok := index.labelOrder[label]; ok {
		return order
	}
	return math.MaxInt
}

// Labels returns every distinct label in first-appearance order.
func (index *Index) Labels() []string {
	labels := make([]string, len(index.labelOrder))
	for label, order := range index.labelOrder {
		labels[order] = label
	}
	return labels
}

// # Queries

// Filter returns items whose title contains title and which carry a label
// containing label. Matching is case- and accent-insensitive, empty filters
// match everything, and the result keeps load order.
func (index *Index) Filter(title, label string) []Item {
	titleNeedle := fold.String(strings.TrimSpace(title))
	labelNeedle := fold.String(strings.TrimSpace(label))

	result := make([]Item, 0)
	for position, item := range index.items {
		if titleNeedle != "" && !strings.Contains(index.foldedTitles[position], titleNeedle) {
			continue
		}
		if labelNeedle != "" && !slices.ContainsFunc(index.foldedLabels[position], func(candidate string) bool {
			return strings.Contains(candidate, labelNeedle)
		}) {
			continue
		}
		result = append(result, item)
	}
	return result
}

// LabelFrequencies counts, for each label, how many of the given items carry it.
// Unknown ids contribute nothing and repeated ids count once.
func (index *Index) LabelFrequencies(ids []int64) map[string]int {
	frequencies := make(map[string]int)
	counted := make(map[int64]struct{}, len(ids))

	for _, id := range ids {
		if _, done := counted[id]; done {
			continue
		}
		counted[id] = struct{}{}

		item, ok := index.Get(id)
		if !ok {
			continue
		}
		for _, label := range item.Labels {
			frequencies[label]++
		}
	}
	return frequencies
}

// CandidatesExcluding returns every item not in excluded, in load order.
func (index *Index) CandidatesExcluding(excluded map[int64]struct{}) []Item {
	candidates := make([]Item, 0, len(index.items))
	for _, item := range index.items {
		if _, skip := excluded[item.ID]; skip {
			continue
		}
		candidates = append(candidates, item)
	}
	return candidates
}

// Popular ranks items not in excluded by quality score, highest first, with
// load order breaking ties, and returns at most limit of them.
//
// The ranking is computed on every call.
func (index *Index) Popular(limit int, excluded map[int64]struct{}) []Item {
	if limit <= 0 {
		return []Item{}
	}

	ranked := index.CandidatesExcluding(excluded)
	slices.SortStableFunc(ranked, func(a, b Item) int {
		switch {
		case a.QualityScore > b.QualityScore:
			return -1
		case a.QualityScore < b.QualityScore:
			return 1
		}
		return 0
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
