// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubProvider returns canned rows or an error.
type stubProvider struct {
	name  string
	rows  []Row
	err   error
	calls atomic.Int32
}

func (provider *stubProvider) Name() string { return provider.name }

func (provider *stubProvider) Load(context.Context) ([]Row, error) {
	provider.calls.Add(1)
	return provider.rows, provider.err
}

/*
TestParseCSV reads the MovieLens layout with and without a score column.
*/
func TestParseCSV(t *testing.T) {
	input := "MovieID,Title,Genres,Score\n" +
		"1,Toy Story (1995),Animation|Children's|Comedy,4.15\n" +
		"11,\"American President, The (1995)\",Comedy|Drama|Romance,\n"

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []Row{
		{ID: 1, Title: "Toy Story (1995)", Labels: "Animation|Children's|Comedy", QualityScore: 4.15},
		{ID: 11, Title: "American President, The (1995)", Labels: "Comedy|Drama|Romance"},
	}, rows)
}

/*
TestParseCSV_Latin1 decodes non-UTF-8 input as Latin-1.
*/
func TestParseCSV_Latin1(t *testing.T) {
	input := []byte("movieId,title,genres\n4973,Am\xe9lie (2001),Comedy|Romance\n")

	rows, err := ParseCSV(strings.NewReader(string(input)))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Amélie (2001)", rows[0].Title)
}

/*
TestParseCSV_Errors rejects files the index could not trust.
*/
func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing_genres_column", "MovieID,Title\n1,Toy Story\n"},
		{"bad_id", "MovieID,Title,Genres\nabc,Toy Story,Comedy\n"},
		{"bad_score", "MovieID,Title,Genres,Score\n1,Toy Story,Comedy,high\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

/*
TestFileProvider_FallsBackToNextPath skips missing paths in order.
*/
func TestFileProvider_FallsBackToNextPath(t *testing.T) {
	dir := t.TempDir()
	parent := filepath.Join(dir, "movies.csv")
	require.NoError(t, os.WriteFile(parent, []byte("MovieID,Title,Genres\n6,Heat (1995),Action|Crime\n"), 0o600))

	provider := NewFileProvider(filepath.Join(dir, "app", "movies.csv"), parent)

	rows, err := provider.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(6), rows[0].ID)
}

/*
TestFileProvider_NoFile reports the source as unavailable.
*/
func TestFileProvider_NoFile(t *testing.T) {
	provider := NewFileProvider(filepath.Join(t.TempDir(), "missing.csv"))

	_, err := provider.Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

/*
TestSeedProvider loads the fifteen embedded movies into a valid index.
*/
func TestSeedProvider(t *testing.T) {
	rows, err := NewSeedProvider().Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 15)

	index, err := Build(rows)
	require.NoError(t, err)

	godfather, ok := index.Get(858)
	require.True(t, ok)
	assert.Equal(t, "Action", godfather.PrimaryLabel())
	assert.Equal(t, 1972, godfather.Year)
}

/*
TestHTTPProvider fetches CSV and opens the breaker after repeated failures.
*/
func TestHTTPProvider(t *testing.T) {
	var failing atomic.Bool
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		if failing.Load() {
			writer.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(writer, "MovieID,Title,Genres\n9,Sudden Death (1995),Action\n")
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, server.Client(), discardLogger())

	rows, err := provider.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	failing.Store(true)
	for range httpBreakerTrips {
		_, err = provider.Load(context.Background())
		assert.ErrorIs(t, err, ErrSourceUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, provider.State())

	before := hits.Load()
	_, err = provider.Load(context.Background())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, before, hits.Load())
}

/*
TestChain_FirstValidProviderWins falls through failing, empty and malformed sources.
*/
func TestChain_FirstValidProviderWins(t *testing.T) {
	broken := &stubProvider{name: "postgres", err: errors.New("connection refused")}
	empty := &stubProvider{name: "file"}
	malformed := &stubProvider{name: "http", rows: []Row{{ID: 1, Title: ""}}}
	good := &stubProvider{name: "mirror", rows: []Row{{ID: 6, Title: "Heat (1995)", Labels: "Action"}}}
	never := &stubProvider{name: "never", rows: []Row{{ID: 7, Title: "Sabrina (1995)"}}}

	chain := NewChain(discardLogger(), broken, empty, malformed, good, never)

	index, source, err := chain.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mirror", source)
	assert.Equal(t, 1, index.Len())
	assert.Equal(t, int32(0), never.calls.Load())
}

/*
TestChain_EndsWithSeed guarantees a catalog even when every configured source fails.
*/
func TestChain_EndsWithSeed(t *testing.T) {
	chain := NewChain(discardLogger(), &stubProvider{name: "file", err: ErrSourceUnavailable}, nil)

	assert.Equal(t, []string{"file", "seed"}, chain.Names())

	index, source, err := chain.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seed", source)
	assert.Equal(t, 15, index.Len())
}

/*
TestSelectItems checks the generated catalog query.
*/
func TestSelectItems(t *testing.T) {
	query, args, err := selectItems()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, title, coalesce(array_to_string(labels, '|'), ''), qualityscore FROM core.item WHERE deletedat IS NULL ORDER BY loadposition ASC, id ASC",
		query)
	assert.Empty(t, args)
}
