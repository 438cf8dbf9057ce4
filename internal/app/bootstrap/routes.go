// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	announcementsfeature "github.com/dalemusser/schoolhub/internal/app/features/announcements"
	healthfeature "github.com/dalemusser/schoolhub/internal/app/features/health"
	"github.com/dalemusser/schoolhub/internal/app/store/audit"
	"github.com/dalemusser/schoolhub/internal/app/system/auditlog"
	"github.com/dalemusser/schoolhub/internal/app/system/requestid"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/juju/clock"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. SchoolHub is a JSON API: every request
// gets a request id, browser origins are checked when configured, and the
// health and announcement routers are mounted.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	return buildRouter(appCfg, deps, clock.WallClock, logger), nil
}

func buildRouter(appCfg AppConfig, deps DBDeps, clk clock.Clock, logger *zap.Logger) chi.Router {
	db := deps.SchoolHubMongoDatabase
	loc := appCfg.Location()

	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{Mode: appCfg.AuditLog})

	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	if len(appCfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: appCfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestid.Header},
			ExposedHeaders: []string{requestid.Header},
			MaxAge:         300,
		}))
	}

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.SchoolHubMongoClient, clk, loc, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	announcementsHandler := announcementsfeature.NewHandler(db, auditLogger, clk, loc, logger)
	r.Mount("/announcements", announcementsfeature.Routes(announcementsHandler))

	return r
}
