// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package recommend ranks catalog items for a user and for a reference item.

# Strategies

  - personalized: Candidates scored by overlap with the user's top-K history labels.
  - popular: Quality ranking, used on cold start or when history has no labels.
  - similar: Items sharing the reference's exact label set, broadened by its primary label.

Every list is computed from the current catalog snapshot and the current
interaction state on each call. Nothing is cached.
*/
package recommend

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MORAX777/Movies-Recommendation-System/internal/catalog"
	"github.com/MORAX777/Movies-Recommendation-System/internal/interaction"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/constants"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/metrics"
	"github.com/MORAX777/Movies-Recommendation-System/pkg/slice"
)

// Strategy names the ranking that produced a result.
type Strategy string

const (
	StrategyPersonalized Strategy = "personalized"
	StrategyPopular      Strategy = "popular"
	StrategySimilar      Strategy = "similar"
)

// Result is one ranked item.
//
// Score is the number of labels shared with the user's top labels
// (personalized) or with the reference item (similar); 0 for popular.
type Result struct {
	catalog.Item
	Score    int      `json:"score"`
	Strategy Strategy `json:"strategy"`
}

// HistorySource is the read side of the interaction store the engine needs.
type HistorySource interface {
	SeenItems(context context.Context, userID int64) ([]interaction.Entry, error)
}

// Options tunes the rankings.
type Options struct {
	// TopLabels is K, the number of history labels kept for scoring.
	TopLabels int
	// MinExact is the number of exact label-set matches below which Similar broadens.
	MinExact int
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		TopLabels: constants.DefaultTopLabels,
		MinExact:  constants.DefaultMinExactMatches,
	}
}

// # Engine

// Engine computes recommendation lists. It never writes to the interaction store.
type Engine struct {
	holder  *catalog.Holder
	history HistorySource
	options Options
}

// NewEngine constructs a new [Engine]. Non-positive options fall back to defaults.
func NewEngine(holder *catalog.Holder, history HistorySource, options Options) *Engine {
	defaults := DefaultOptions()
	if options.TopLabels <= 0 {
		options.TopLabels = defaults.TopLabels
	}
	if options.MinExact < 0 {
		options.MinExact = defaults.MinExact
	}
	return &Engine{holder: holder, history: history, options: options}
}

/*
ForUser ranks unseen items by overlap with the user's dominant labels.

Description: An empty history yields the popularity ranking (cold start).
A history whose items carry no labels in the current catalog yields the
popularity ranking without the seen items. Otherwise candidates are ordered
by (overlap desc, quality desc, load order asc).

Returns:
  - []Result: Never contains a seen item
  - error: Storage failures only
*/
func (engine *Engine) ForUser(context context.Context, userID int64, limit int) ([]Result, error) {
	started := time.Now()

	seen, err := engine.history.SeenItems(context, userID)
	if err != nil {
		return nil, fmt.Errorf("load_history_failed: %w", err)
	}

	index := engine.holder.Current()

	if len(seen) == 0 {
		results := popular(index, limit, nil)
		metrics.RecordRecommendation("for_user", string(StrategyPopular), time.Since(started))
		return results, nil
	}

	itemID := func(entry interaction.Entry) int64 { return entry.ItemID }
	seenIDs := slice.Map(seen, itemID)
	excluded := slice.Set(seen, itemID)

	top := topLabels(index, index.LabelFrequencies(seenIDs), engine.options.TopLabels)
	if len(top) == 0 {
		results := popular(index, limit, excluded)
		metrics.RecordRecommendation("for_user", string(StrategyPopular), time.Since(started))
		return results, nil
	}

	results := personalized(index, top, excluded, limit)
	metrics.RecordRecommendation("for_user", string(StrategyPersonalized), time.Since(started))
	return results, nil
}

/*
Similar ranks items resembling a reference item.

Description: Pass A keeps candidates with exactly the reference's label set.
When Pass A has fewer than MinExact items, Pass B adds candidates carrying
the reference's primary label. The union is ordered by (quality desc,
Pass A first, load order asc).

Returns:
  - []Result: Empty for an unknown reference; never contains the reference
*/
func (engine *Engine) Similar(_ context.Context, itemID int64, limit int) []Result {
	started := time.Now()
	defer func() {
		metrics.RecordRecommendation("similar", string(StrategySimilar), time.Since(started))
	}()

	index := engine.holder.Current()
	reference, ok := index.Get(itemID)
	if !ok || limit <= 0 {
		return []Result{}
	}

	candidates := index.CandidatesExcluding(map[int64]struct{}{reference.ID: {}})

	type match struct {
		item  catalog.Item
		exact bool
	}

	matches := make([]match, 0)
	for _, candidate := range candidates {
		if candidate.SameLabels(reference) {
			matches = append(matches, match{item: candidate, exact: true})
		}
	}

	if primary := reference.PrimaryLabel(); len(matches) < engine.options.MinExact && primary != "" {
		for _, candidate := range candidates {
			if !candidate.SameLabels(reference) && candidate.HasLabel(primary) {
				matches = append(matches, match{item: candidate})
			}
		}
	}

	// Candidates arrive in load order, so a stable sort keeps it as the last key.
	slices.SortStableFunc(matches, func(a, b match) int {
		if byQuality := cmp.Compare(b.item.QualityScore, a.item.QualityScore); byQuality != 0 {
			return byQuality
		}
		switch {
		case a.exact && !b.exact:
			return -1
		case !a.exact && b.exact:
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{Item: m.item, Score: sharedLabels(m.item, reference.Labels), Strategy: StrategySimilar}
	}
	return results
}

// Popular returns the quality ranking of the whole catalog.
func (engine *Engine) Popular(_ context.Context, limit int) []Result {
	started := time.Now()
	results := popular(engine.holder.Current(), limit, nil)
	metrics.RecordRecommendation("popular", string(StrategyPopular), time.Since(started))
	return results
}

// # Rankings

func popular(index *catalog.Index, limit int, excluded map[int64]struct{}) []Result {
	items := index.Popular(limit, excluded)
	results := make([]Result, len(items))
	for i, item := range items {
		results[i] = Result{Item: item, Strategy: StrategyPopular}
	}
	return results
}

func personalized(index *catalog.Index, top []string, excluded map[int64]struct{}, limit int) []Result {
	if limit <= 0 {
		return []Result{}
	}

	candidates := index.CandidatesExcluding(excluded)
	results := make([]Result, len(candidates))
	for i, candidate := range candidates {
		results[i] = Result{Item: candidate, Score: sharedLabels(candidate, top), Strategy: StrategyPersonalized}
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		if byScore := cmp.Compare(b.Score, a.Score); byScore != 0 {
			return byScore
		}
		return cmp.Compare(b.QualityScore, a.QualityScore)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

/*
topLabels keeps the k most frequent labels.

Ties are broken by the label's first appearance in catalog load order, then
by name, so the selection is deterministic for any history.
*/
func topLabels(index *catalog.Index, frequencies map[string]int, k int) []string {
	labels := make([]string, 0, len(frequencies))
	for label, count := range frequencies {
		if count > 0 {
			labels = append(labels, label)
		}
	}

	slices.SortFunc(labels, func(a, b string) int {
		if byCount := cmp.Compare(frequencies[b], frequencies[a]); byCount != 0 {
			return byCount
		}
		if byOrder := cmp.Compare(index.LabelOrder(a), index.LabelOrder(b)); byOrder != 0 {
			return byOrder
		}
		return cmp.Compare(a, b)
	})

	if len(labels) > k {
		labels = labels[:k]
	}
	return labels
}

func sharedLabels(item catalog.Item, labels []string) int {
	shared := 0
	for _, label := range labels {
		if item.HasLabel(label) {
			shared++
		}
	}
	return shared
}
