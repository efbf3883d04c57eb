// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MORAX777/Movies-Recommendation-System/internal/catalog"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/middleware"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/sec"
)

type listResponse struct {
	Data []catalog.Item `json:"data"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

func newCatalogServer(t *testing.T) (http.Handler, *sec.TokenService) {
	t.Helper()

	tokens, err := sec.NewTokenService("catalog-test", "movies-test")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	holder := catalog.NewHolder(catalog.NewChain(logger), logger)
	handler := catalog.NewHandler(catalog.NewService(holder, logger))

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Route("/movies", handler.RegisterRoutes)

	// Populate from the embedded seed through the admin endpoint.
	admin, err := tokens.GenerateAccessToken(1, "root", sec.RoleAdmin, time.Minute)
	require.NoError(t, err)
	request := httptest.NewRequest(http.MethodPost, "/movies/reload", nil)
	request.Header.Set("Authorization", "Bearer "+admin)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"source":"seed"`)

	return router, tokens
}

/*
TestListMovies covers search, genre and the "All" genre.
*/
func TestListMovies(t *testing.T) {
	router, _ := newCatalogServer(t)

	tests := []struct {
		name  string
		query string
		total int
	}{
		{"everything", "", 15},
		{"genre_all", "?genre=All", 15},
		{"search", "?search=star%20wars", 2},
		{"genre", "?genre=sci-fi", 3},
		{"search_and_genre", "?search=1995&genre=thriller", 2},
		{"paged", "?limit=5&page=3", 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/movies"+tt.query, nil))
			require.Equal(t, http.StatusOK, recorder.Code)

			var body listResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.total, body.Meta.Total)
		})
	}
}

/*
TestGetMovie returns one movie or a 404 envelope.
*/
func TestGetMovie(t *testing.T) {
	router, _ := newCatalogServer(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/movies/2571", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"title":"Matrix, The (1999)"`)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/movies/424242", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"code":"NOT_FOUND"`)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/movies/abc", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestReload_RequiresAdmin keeps members away from catalog reloads.
*/
func TestReload_RequiresAdmin(t *testing.T) {
	router, tokens := newCatalogServer(t)

	member, err := tokens.GenerateAccessToken(7, "Ada", sec.RoleMember, time.Minute)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, "/movies/reload", nil)
	request.Header.Set("Authorization", "Bearer "+member)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
