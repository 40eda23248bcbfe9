package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Router aggregates the API handlers into one route registrar.
type Router struct {
	strategy      *StrategyHandler
	commandCenter *CommandCenterHandler
	checks        map[string]HealthCheck
}

func NewRouter(strategy *StrategyHandler, commandCenter *CommandCenterHandler) *Router {
	return &Router{
		strategy:      strategy,
		commandCenter: commandCenter,
		checks:        make(map[string]HealthCheck),
	}
}

// AddHealthCheck registers a named dependency check reported by /health.
func (r *Router) AddHealthCheck(name string, check HealthCheck) {
	r.checks[name] = check
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.health)
	r.strategy.RegisterRoutes(e)
	r.commandCenter.RegisterRoutes(e)
}

func (r *Router) health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	for name, check := range r.checks {
		if err := check(c.Request().Context()); err != nil {
			status[name] = err.Error()
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}
	return c.JSON(code, status)
}
