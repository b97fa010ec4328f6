// Package routes wires the HTTP surface of the service.
package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/clover/pkg/routes/health"
	"github.com/Ramsey-B/clover/pkg/routes/member"
)

// Register mounts all routes. The auth middleware is applied to the tenant
// group only; health and metrics stay open for probes and scrapers.
func Register(e *echo.Echo, appName string, checker *health.Checker, auth echo.MiddlewareFunc) {
	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	api.Use(otelecho.Middleware(appName))

	tenants := api.Group("/tenants/:tenant")
	if auth != nil {
		tenants.Use(auth)
	}

	member.Register(tenants.Group("/members"))
}
