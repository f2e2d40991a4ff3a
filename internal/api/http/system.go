package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/soapbox/internal/api/store"
	"github.com/aussiebroadwan/soapbox/pkg/apisdk"
	"github.com/aussiebroadwan/soapbox/pkg/httpx"
)

// RootHandler godoc
//
//	@Summary		API root
//	@Description	Entry point listing the main resources.
//	@Tags			System
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Success		200	{object}	apisdk.MessageResponse
//	@Failure		401	{object}	apisdk.ErrorResponse
//	@Router			/ [get]
func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.Write(w, r, http.StatusOK, apisdk.MessageResponse{
			Message: "Welcome, this is the API",
			Links: httpx.Links{
				"self":     httpx.Get("/"),
				"login":    httpx.Post("/login"),
				"register": httpx.Post("/register"),
				"posts":    httpx.Get("/posts"),
				"profile":  httpx.Get("/profile"),
			},
		})
	}
}

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning uptime and version. Always 200 while the process runs.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	apisdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get]
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, apisdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// migrationReporter is implemented by stores that track schema versions.
type migrationReporter interface {
	MigrationVersion() (version uint, dirty bool, err error)
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database connection and schema state.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	apisdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	apisdk.HealthResponse	"service not ready"
//	@Router			/readyz [get]
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &apisdk.HealthChecks{
			Database:   "ok",
			Migrations: "ok",
		}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if mr, ok := st.(migrationReporter); ok {
			v, dirty, err := mr.MigrationVersion()
			switch {
			case err != nil:
				checks.Migrations = "error: " + err.Error()
			case dirty:
				checks.Migrations = "error: dirty"
			case v == 0:
				checks.Migrations = "error: not applied"
			}
			if checks.Migrations != "ok" {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		httpx.WriteJSON(w, code, apisdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
