package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// HealthHandler serves GET /health. It only proves the process answers.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CatalogState is satisfied by the meal and restaurant registries.
type CatalogState interface {
	LastError() error
}

// dependencyCheck probes one dependency. A nil probe reports "disabled".
type dependencyCheck struct {
	name  string
	probe func(ctx context.Context) error
}

// HealthDependenciesHandler serves GET /health/ready: configured backends
// must answer a ping and both catalogs must have loaded cleanly.
type HealthDependenciesHandler struct {
	checks []dependencyCheck
}

// NewHealthDependenciesHandler accepts nil db or rdb for backends that are
// not configured.
func NewHealthDependenciesHandler(db *mongo.Database, rdb *redis.Client, catalogs map[string]CatalogState) *HealthDependenciesHandler {
	mongoCheck := dependencyCheck{name: "mongodb"}
	if db != nil {
		mongoCheck.probe = func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		}
	}
	redisCheck := dependencyCheck{name: "redis"}
	if rdb != nil {
		redisCheck.probe = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}

	checks := []dependencyCheck{mongoCheck, redisCheck}

	names := make([]string, 0, len(catalogs))
	for name := range catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		catalog := catalogs[name]
		checks = append(checks, dependencyCheck{
			name:  name,
			probe: func(context.Context) error { return catalog.LastError() },
		})
	}

	return &HealthDependenciesHandler{checks: checks}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	resp := readinessResponse{Status: "ok", Dependencies: make(map[string]dependencyStatus, len(h.checks))}
	for _, check := range h.checks {
		switch {
		case check.probe == nil:
			resp.Dependencies[check.name] = dependencyStatus{Status: "disabled"}
		default:
			if err := check.probe(ctx); err != nil {
				resp.Dependencies[check.name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
				resp.Status = "degraded"
				continue
			}
			resp.Dependencies[check.name] = dependencyStatus{Status: "ok"}
		}
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}
