// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recommend_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MORAX777/Movies-Recommendation-System/internal/catalog"
	"github.com/MORAX777/Movies-Recommendation-System/internal/interaction"
	"github.com/MORAX777/Movies-Recommendation-System/internal/recommend"
)

func newEngine(t *testing.T, rows []catalog.Row, options recommend.Options) (*recommend.Engine, *interaction.MemoryStore) {
	t.Helper()
	index, err := catalog.Build(rows)
	require.NoError(t, err)

	store := interaction.NewMemoryStore()
	return recommend.NewEngine(catalog.NewStaticHolder(index), store, options), store
}

type loaderFunc func(context.Context) (*catalog.Index, string, error)

func (f loaderFunc) Load(ctx context.Context) (*catalog.Index, string, error) { return f(ctx) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resultIDs(results []recommend.Result) []int64 {
	ids := make([]int64, len(results))
	for i, result := range results {
		ids[i] = result.ID
	}
	return ids
}

func movieRows() []catalog.Row {
	return []catalog.Row{
		{ID: 1, Title: "Toy Story (1995)", Labels: "Animation|Children's|Comedy", QualityScore: 4.1},
		{ID: 2, Title: "Jumanji (1995)", Labels: "Adventure|Children's|Fantasy", QualityScore: 3.2},
		{ID: 6, Title: "Heat (1995)", Labels: "Action|Crime|Thriller", QualityScore: 3.9},
		{ID: 9, Title: "Sudden Death (1995)", Labels: "Action", QualityScore: 2.7},
		{ID: 10, Title: "GoldenEye (1995)", Labels: "Action|Adventure|Thriller", QualityScore: 3.5},
		{ID: 32, Title: "Twelve Monkeys (1995)", Labels: "Drama|Sci-Fi", QualityScore: 3.9},
		{ID: 50, Title: "Usual Suspects, The (1995)", Labels: "Crime|Thriller", QualityScore: 4.5},
		{ID: 260, Title: "Star Wars: Episode IV - A New Hope (1977)", Labels: "Action|Adventure|Fantasy|Sci-Fi", QualityScore: 4.4},
		{ID: 318, Title: "Shawshank Redemption, The (1994)", Labels: "Drama", QualityScore: 4.5},
		{ID: 1193, Title: "One Flew Over the Cuckoo's Nest (1975)", Labels: "Drama", QualityScore: 4.3},
		{ID: 2571, Title: "Matrix, The (1999)", Labels: "Action|Sci-Fi|Thriller", QualityScore: 4.2},
		{ID: 999, Title: "Untitled Short (2001)", Labels: "(no genres listed)", QualityScore: 1.0},
	}
}

/*
TestForUser_Example ranks the shared-label item before the unrelated one.
*/
func TestForUser_Example(t *testing.T) {
	engine, store := newEngine(t, []catalog.Row{
		{ID: 1, Title: "A", Labels: "Comedy", QualityScore: 1},
		{ID: 2, Title: "B", Labels: "Comedy", QualityScore: 1},
		{ID: 3, Title: "C", Labels: "Drama", QualityScore: 5},
	}, recommend.DefaultOptions())
	ctx := context.Background()

	require.NoError(t, store.MarkSeen(ctx, 1, 1))

	results, err := engine.ForUser(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, resultIDs(results))
	assert.Equal(t, 1, results[0].Score)
	assert.Equal(t, 0, results[1].Score)
	assert.Equal(t, recommend.StrategyPersonalized, results[0].Strategy)
}

/*
TestForUser_ColdStartEqualsPopular returns the popularity ranking for an empty history.
*/
func TestForUser_ColdStartEqualsPopular(t *testing.T) {
	engine, _ := newEngine(t, movieRows(), recommend.DefaultOptions())
	ctx := context.Background()

	for limit := 0; limit <= 14; limit++ {
		results, err := engine.ForUser(ctx, 42, limit)
		require.NoError(t, err)
		assert.Equal(t, engine.Popular(ctx, limit), results, "limit %d", limit)
	}

	results, err := engine.ForUser(ctx, 42, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{50, 318, 260}, resultIDs(results))
	assert.Equal(t, recommend.StrategyPopular, results[0].Strategy)
}

/*
TestForUser_NeverReturnsSeen checks exclusion over many random histories.
*/
func TestForUser_NeverReturnsSeen(t *testing.T) {
	rows := movieRows()
	random := rand.New(rand.NewPCG(7, 11))
	ctx := context.Background()

	for trial := range 200 {
		engine, store := newEngine(t, rows, recommend.DefaultOptions())
		userID := int64(trial + 1)

		seen := map[int64]struct{}{}
		for range random.IntN(len(rows)) + 1 {
			id := rows[random.IntN(len(rows))].ID
			seen[id] = struct{}{}
			require.NoError(t, store.MarkSeen(ctx, userID, id))
		}

		results, err := engine.ForUser(ctx, userID, len(rows))
		require.NoError(t, err)

		for _, result := range results {
			_, wasSeen := seen[result.ID]
			assert.False(t, wasSeen, "trial %d returned seen item %d", trial, result.ID)
		}
		assert.Len(t, results, len(rows)-len(seen), "trial %d: only empty when no candidates remain", trial)
	}
}

/*
TestForUser_Ordering sorts by overlap, then quality, then load order.
*/
func TestForUser_Ordering(t *testing.T) {
	engine, store := newEngine(t, movieRows(), recommend.DefaultOptions())
	ctx := context.Background()

	// Action x2, Thriller x2, then Adventure x1 (catalog order puts it before Crime).
	require.NoError(t, store.MarkSeen(ctx, 5, 6))
	require.NoError(t, store.MarkSeen(ctx, 5, 10))

	results, err := engine.ForUser(ctx, 5, 5)
	require.NoError(t, err)

	assert.Equal(t, []int64{260, 2571, 50, 2, 9}, resultIDs(results))
	scores := make([]int, len(results))
	for i, result := range results {
		scores[i] = result.Score
	}
	assert.Equal(t, []int{2, 2, 1, 1, 1}, scores)
}

/*
TestForUser_LabelTieBreak resolves equal counts by catalog first appearance.
*/
func TestForUser_LabelTieBreak(t *testing.T) {
	engine, store := newEngine(t, []catalog.Row{
		{ID: 1, Title: "Western", Labels: "Western", QualityScore: 1},
		{ID: 2, Title: "Horror", Labels: "Horror", QualityScore: 1},
		{ID: 3, Title: "Seen Both", Labels: "Horror|Western", QualityScore: 1},
		{ID: 4, Title: "More Horror", Labels: "Horror", QualityScore: 5},
	}, recommend.Options{TopLabels: 1, MinExact: 3})
	ctx := context.Background()

	require.NoError(t, store.MarkSeen(ctx, 1, 3))

	results, err := engine.ForUser(ctx, 1, 10)
	require.NoError(t, err)

	// Western appears first in load order, so it is the single top label.
	assert.Equal(t, []int64{1, 4, 2}, resultIDs(results))
}

/*
TestForUser_NoUsableLabels falls back to popularity without the seen items.
*/
func TestForUser_NoUsableLabels(t *testing.T) {
	engine, store := newEngine(t, movieRows(), recommend.DefaultOptions())
	ctx := context.Background()

	t.Run("unlabelled", func(t *testing.T) {
		require.NoError(t, store.MarkSeen(ctx, 1, 999))
		require.NoError(t, store.MarkSeen(ctx, 1, 50))
		require.NoError(t, store.RemoveSeen(ctx, 1, 50))

		results, err := engine.ForUser(ctx, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, []int64{50, 318, 260}, resultIDs(results))
		assert.Equal(t, recommend.StrategyPopular, results[0].Strategy)
	})

	t.Run("stale", func(t *testing.T) {
		require.NoError(t, store.MarkSeen(ctx, 2, 424242))

		results, err := engine.ForUser(ctx, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{50, 318}, resultIDs(results))
	})

	t.Run("unlabelled_excluded", func(t *testing.T) {
		require.NoError(t, store.MarkSeen(ctx, 3, 999))
		results, err := engine.ForUser(ctx, 3, 20)
		require.NoError(t, err)
		assert.NotContains(t, resultIDs(results), int64(999))
	})
}

/*
TestForUser_EverythingSeen returns an empty list.
*/
func TestForUser_EverythingSeen(t *testing.T) {
	rows := movieRows()
	engine, store := newEngine(t, rows, recommend.DefaultOptions())
	ctx := context.Background()

	for _, row := range rows {
		require.NoError(t, store.MarkSeen(ctx, 1, row.ID))
	}

	results, err := engine.ForUser(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

type brokenHistory struct{}

func (brokenHistory) SeenItems(context.Context, int64) ([]interaction.Entry, error) {
	return nil, errors.New("connection reset")
}

/*
TestForUser_HistoryFailure surfaces storage errors.
*/
func TestForUser_HistoryFailure(t *testing.T) {
	index, err := catalog.Build(movieRows())
	require.NoError(t, err)
	engine := recommend.NewEngine(catalog.NewStaticHolder(index), brokenHistory{}, recommend.DefaultOptions())

	_, err = engine.ForUser(context.Background(), 1, 5)
	assert.Error(t, err)
}

func similarRows() []catalog.Row {
	return []catalog.Row{
		{ID: 10, Title: "Reference", Labels: "Action|Sci-Fi", QualityScore: 3},
		{ID: 11, Title: "Exact Low", Labels: "Sci-Fi|Action", QualityScore: 2},
		{ID: 12, Title: "Action Only", Labels: "Action", QualityScore: 4},
		{ID: 13, Title: "Exact High", Labels: "Action|Sci-Fi", QualityScore: 4},
		{ID: 14, Title: "Drama", Labels: "Drama", QualityScore: 5},
		{ID: 15, Title: "Sci-Fi Only", Labels: "Sci-Fi", QualityScore: 4.5},
		{ID: 16, Title: "Action Crime", Labels: "Action|Crime", QualityScore: 4},
	}
}

/*
TestSimilar_Broadens adds primary-label matches when exact matches are scarce.
*/
func TestSimilar_Broadens(t *testing.T) {
	engine, _ := newEngine(t, similarRows(), recommend.DefaultOptions())

	results := engine.Similar(context.Background(), 10, 10)

	// Quality desc; at equal quality exact matches first, then load order.
	assert.Equal(t, []int64{13, 12, 16, 11}, resultIDs(results))
	assert.Equal(t, recommend.StrategySimilar, results[0].Strategy)
	assert.Equal(t, 2, results[0].Score)
	assert.Equal(t, 1, results[1].Score)
}

/*
TestSimilar_ExactOnly skips broadening once enough exact matches exist.
*/
func TestSimilar_ExactOnly(t *testing.T) {
	engine, _ := newEngine(t, similarRows(), recommend.Options{TopLabels: 3, MinExact: 2})

	results := engine.Similar(context.Background(), 10, 10)
	assert.Equal(t, []int64{13, 11}, resultIDs(results))
}

/*
TestSimilar_EdgeCases covers unknown references, limits and self-exclusion.
*/
func TestSimilar_EdgeCases(t *testing.T) {
	engine, _ := newEngine(t, movieRows(), recommend.DefaultOptions())
	ctx := context.Background()

	assert.Empty(t, engine.Similar(ctx, 424242, 10))
	assert.Empty(t, engine.Similar(ctx, 260, 0))
	assert.Len(t, engine.Similar(ctx, 260, 1), 1)

	for _, row := range movieRows() {
		assert.NotContains(t, resultIDs(engine.Similar(ctx, row.ID, 20)), row.ID)
	}

	// Unlabelled reference: only other unlabelled items match exactly, no broadening.
	assert.Empty(t, engine.Similar(ctx, 999, 10))
}

/*
TestPopular ranks by quality with load order breaking ties.
*/
func TestPopular(t *testing.T) {
	engine, _ := newEngine(t, movieRows(), recommend.DefaultOptions())
	ctx := context.Background()

	results := engine.Popular(ctx, 4)
	assert.Equal(t, []int64{50, 318, 260, 1193}, resultIDs(results))
	assert.Empty(t, engine.Popular(ctx, 0))
	assert.Len(t, engine.Popular(ctx, 100), len(movieRows()))
}

/*
TestPopular_ReflectsReload serves the new snapshot immediately after a swap.
*/
func TestPopular_ReflectsReload(t *testing.T) {
	current := movieRows()
	holder := catalog.NewHolder(loaderFunc(func(context.Context) (*catalog.Index, string, error) {
		index, err := catalog.Build(current)
		return index, "test", err
	}), discardLogger())
	engine := recommend.NewEngine(holder, interaction.NewMemoryStore(), recommend.DefaultOptions())
	ctx := context.Background()

	_, err := holder.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), engine.Popular(ctx, 1)[0].ID)

	current = append(current, catalog.Row{ID: 858, Title: "Godfather, The (1972)", Labels: "Action|Crime|Drama", QualityScore: 4.6})
	_, err = holder.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(858), engine.Popular(ctx, 1)[0].ID)
}
