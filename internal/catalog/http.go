// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/middleware"
	requestutil "github.com/MORAX777/Movies-Recommendation-System/internal/platform/request"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/respond"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/sec"
	"github.com/MORAX777/Movies-Recommendation-System/pkg/pagination"
)

// Handler implements the catalog browsing endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the catalog routes on a /movies router.
//
// # Endpoints
//   - GET  /         : Browse with ?search=&genre=&page=&limit=
//   - GET  /genres   : Every label in first-appearance order
//   - GET  /{id}     : One movie
//   - POST /reload   : Re-run the provider chain (admin)
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listMovies)
	router.Get("/genres", handler.listGenres)
	router.Get("/{id}", handler.getMovie)
	router.With(middleware.RequireRole(sec.RoleAdmin)).Post("/reload", handler.reload)
}

/*
GET /api/v1/movies

Description: Case- and accent-insensitive search on title (search) and
label (genre). genre=All disables the label filter.

Response:
  - 200: []Item with pagination meta
*/
func (handler *Handler) listMovies(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	items, meta := handler.service.List(request.Context(), ListQuery{
		Search: query.Get("search"),
		Genre:  query.Get("genre"),
		Page:   pagination.FromRequest(request),
	})
	respond.Paginated(writer, items, meta)
}

func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Labels(request.Context()))
}

/*
GET /api/v1/movies/{id}

Response:
  - 200: Item
  - 400: id is not a positive integer
  - 404: Movie not in the current catalog
*/
func (handler *Handler) getMovie(writer http.ResponseWriter, request *http.Request) {
	movieID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Get(request.Context(), movieID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

/*
POST /api/v1/movies/reload

Response:
  - 200: LoadResult naming the winning source
  - 500: Every provider failed; the previous catalog stays active
*/
func (handler *Handler) reload(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Reload(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
