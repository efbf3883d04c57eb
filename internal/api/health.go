// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MORAX777/Movies-Recommendation-System/internal/catalog"
	"github.com/MORAX777/Movies-Recommendation-System/internal/platform/respond"
)

// readinessTimeout bounds each dependency probe.
const readinessTimeout = 2 * time.Second

// errCatalogEmpty marks a catalog that has not loaded any movie yet.
var errCatalogEmpty = errors.New("catalog is empty")

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
// A nil checker means the dependency is not configured and is skipped.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func(context.Context) error

	// CheckCache pings the Redis client.
	CheckCache func(context.Context) error

	// CheckEvents reports the NATS connection state.
	CheckEvents func(context.Context) error

	// Catalog reports the active snapshot.
	Catalog *catalog.Holder
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	probes := []struct {
		name  string
		check func(context.Context) error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
		{"nats", handler.dependencies.CheckEvents},
	}

	results := make([]checkResult, 0, len(probes)+1)
	isSystemReady := true

	for _, probe := range probes {
		if probe.check == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
		err := probe.check(ctx)
		cancel()

		results = append(results, handler.result(probe.name, err))
		isSystemReady = isSystemReady && err == nil
	}

	body := map[string]any{}
	if handler.dependencies.Catalog != nil {
		status := handler.dependencies.Catalog.Status()
		var err error
		if status.Items == 0 {
			err = errCatalogEmpty
		}
		results = append(results, handler.result("catalog", err))
		isSystemReady = isSystemReady && err == nil
		body["catalog"] = status
	}

	responseStatus := "ready"
	httpStatus := http.StatusOK
	if !isSystemReady {
		responseStatus = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	body["status"] = responseStatus
	body["checks"] = results
	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: body})
}

func (handler *healthHandler) result(name string, err error) checkResult {
	if err == nil {
		return checkResult{Name: name, IsOK: true}
	}
	handler.logger.Error("readiness_check_failed", slog.String("dependency", name), slog.Any("error", err))
	return checkResult{Name: name, IsOK: false, Error: err.Error()}
}
