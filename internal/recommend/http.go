// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recommend

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/apperr"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/middleware"
	requestutil "github.com/MORAX777/Movies-Recommendation-System/internal/platform/request"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/respond"
	"github.com/MORAX777/Movies-Recommendation-System/pkg/pagination"
)

// Handler implements the recommendation endpoints.
type Handler struct {
	engine       *Engine
	defaultLimit int
}

// NewHandler constructs a new [Handler]. defaultLimit applies when ?limit= is absent.
func NewHandler(engine *Engine, defaultLimit int) *Handler {
	return &Handler{engine: engine, defaultLimit: defaultLimit}
}

// RegisterUserRoutes mounts the personalized route on a /users/{userID} router.
//
// # Endpoints
//   - GET /recommendations : Personalized list (owner or admin)
func (handler *Handler) RegisterUserRoutes(router chi.Router) {
	router.With(middleware.RequireSelf("userID")).Get("/recommendations", handler.forUser)
}

// RegisterMovieRoutes mounts the public routes on the /movies router.
//
// # Endpoints
//   - GET /popular      : Quality ranking
//   - GET /{id}/similar : Items resembling one movie
func (handler *Handler) RegisterMovieRoutes(router chi.Router) {
	router.Get("/popular", handler.popular)
	router.Get("/{id}/similar", handler.similar)
}

/*
GET /api/v1/users/{userID}/recommendations

Response:
  - 200: []Result; strategy is "personalized" or "popular" (cold start)
  - 400: Invalid user id or limit
*/
func (handler *Handler) forUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.Int64Param(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	limit, err := requestutil.QueryLimit(request, handler.defaultLimit, pagination.MaxLimit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	results, err := handler.engine.ForUser(request.Context(), userID, limit)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}
	respond.OK(writer, results)
}

/*
GET /api/v1/movies/{id}/similar

Response:
  - 200: []Result, empty for a movie outside the catalog
  - 400: Invalid id or limit
*/
func (handler *Handler) similar(writer http.ResponseWriter, request *http.Request) {
	movieID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	limit, err := requestutil.QueryLimit(request, handler.defaultLimit, pagination.MaxLimit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.engine.Similar(request.Context(), movieID, limit))
}

func (handler *Handler) popular(writer http.ResponseWriter, request *http.Request) {
	limit, err := requestutil.QueryLimit(request, handler.defaultLimit, pagination.MaxLimit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.engine.Popular(request.Context(), limit))
}
