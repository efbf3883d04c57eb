// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/middleware"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/sec"
	"github.com/MORAX777/Movies-Recommendation-System/internal/users/account"
)

func newAuthServer(t *testing.T) http.Handler {
	t.Helper()

	tokens, err := sec.NewTokenService("account-http-test", "movies-test")
	require.NoError(t, err)

	service := account.NewService(
		account.NewMemoryAccountRepository(),
		account.NewMemoryAttemptTracker(account.LockoutWindow),
		tokens,
		time.Minute,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Route("/auth", account.NewHandler(service).RegisterRoutes)
	return router
}

func send(t *testing.T, router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAuthFlow signs up, logs in and reads the profile with the issued token.
*/
func TestAuthFlow(t *testing.T) {
	router := newAuthServer(t)

	recorder := send(t, router, http.MethodPost, "/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"correct-horse"}`, "")
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "correct-horse")
	assert.NotContains(t, recorder.Body.String(), "password")

	recorder = send(t, router, http.MethodPost, "/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"correct-horse"}`, "")
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = send(t, router, http.MethodPost, "/auth/login",
		`{"email":"ada@example.com","password":"correct-horse"}`, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var login struct {
		Data account.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &login))
	assert.Equal(t, int64(1), login.Data.UserID)
	assert.Equal(t, "Ada", login.Data.Name)
	require.NotEmpty(t, login.Data.AccessToken)

	recorder = send(t, router, http.MethodGet, "/auth/me", "", login.Data.AccessToken)
	require.Equal(t, http.StatusOK, recorder.Code)

	var me struct {
		Data account.Account `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &me))
	assert.Equal(t, "ada@example.com", me.Data.Email)
}

/*
TestAuthErrors maps bad input and bad credentials to status codes.
*/
func TestAuthErrors(t *testing.T) {
	router := newAuthServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed signup", http.MethodPost, "/auth/signup", `{"name":`, http.StatusBadRequest},
		{"invalid signup", http.MethodPost, "/auth/signup", `{"name":"Ada","email":"nope","password":"x"}`, http.StatusBadRequest},
		{"unknown login", http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"whatever1"}`, http.StatusUnauthorized},
		{"anonymous me", http.MethodGet, "/auth/me", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := send(t, router, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.want, recorder.Code)
		})
	}
}
