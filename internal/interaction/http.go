// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package interaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/middleware"
	requestutil "github.com/MORAX777/Movies-Recommendation-System/internal/platform/request"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/respond"
)

// UserParam is the route parameter every per-user route is keyed on.
const UserParam = "userID"

// Handler implements the per-user interaction endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type itemRequest struct {
	ItemID int64 `json:"item_id"`
}

type rateRequest struct {
	ItemID int64 `json:"item_id"`
	Rating int   `json:"rating"`
}

type toggleResponse struct {
	ItemID int64        `json:"item_id"`
	Result ToggleResult `json:"result"`
}

// RegisterRoutes mounts the routes on a /users/{userID} router.
//
// # Endpoints
//   - GET    /history           : Seen items, most recent first
//   - POST   /history           : Mark an item seen
//   - DELETE /history/{itemID}  : Forget one view
//   - GET    /watchlist         : Saved items, most recent first
//   - POST   /watchlist         : Toggle an item
//   - POST   /ratings           : Rate an item 1..5
//   - GET    /ratings/{itemID}  : One rating
//
// Every route requires the caller to be the {userID} user or an admin.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireSelf(UserParam))

		router.Get("/history", handler.history)
		router.Post("/history", handler.markSeen)
		router.Delete("/history/{itemID}", handler.removeSeen)

		router.Get("/watchlist", handler.watchlist)
		router.Post("/watchlist", handler.toggleSaved)

		router.Post("/ratings", handler.rate)
		router.Get("/ratings/{itemID}", handler.ratingOf)
	})
}

// # History

func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.Int64Param(request, UserParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.service.History(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entries)
}

/*
POST /api/v1/users/{userID}/history

Request Body:
  - item_id: int64 (required)

Response:
  - 204: Recorded (repeat views keep the first timestamp)
  - 400: Invalid id
*/
func (handler *Handler) markSeen(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.Int64Param(request, UserParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body itemRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.MarkSeen(request.Context(), userID, body.ItemID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) removeSeen(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.Int64Param(request, UserParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	itemID, err := requestutil.Int64Param(request, "itemID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveSeen(request.Context(), userID, itemID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Watchlist

func (handler *Handler) watchlist(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.Int64Param(request, UserParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.service.Watchlist(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entries)
}

/*
POST /api/v1/users/{userID}/watchlist

Request Body:
  - item_id: int64 (required)

Response:
  - 200: {"item_id": 1, "result": "Added"|"Removed"}
*/
func (handler *Handler) toggleSaved(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.Int64Param(request, UserParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body itemRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.ToggleSaved(request.Context(), userID, body.ItemID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, toggleResponse{ItemID: body.ItemID, Result: result})
}

// # Ratings

/*
POST /api/v1/users/{userID}/ratings

Request Body:
  - item_id: int64 (required)
  - rating: int 1..5 (required)

Response:
  - 204: Stored; a later rating replaces it
  - 400: Invalid id or rating out of range
*/
func (handler *Handler) rate(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.Int64Param(request, UserParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body rateRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Rate(request.Context(), userID, body.ItemID, body.Rating); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) ratingOf(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.Int64Param(request, UserParam)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	itemID, err := requestutil.Int64Param(request, "itemID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rating, err := handler.service.RatingOf(request.Context(), userID, itemID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rating)
}
