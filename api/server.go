/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/settings         Company settings and tax rates
  /api/employees/*      Employee management, costs, availability, history
  /api/scenarios/*      Staffing plan generation and activation
  /api/jobs/*           Active jobs, team edits, completion, reports
  /api/dashboard        Month-at-a-glance employee ROI
  /api/reports/*        Aggregated reports and CSV export
  /api/backup           Full-state JSON export/import
  /api/demo/*           Demo dataset loader (dev only)
  /*                    Static files (frontend)

STATIC FILE SERVING:
  In production, serves the built React app from web/dist/.
  Falls back to an endpoint listing when the frontend isn't built.

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.
  Single-office desktop deployments sit behind localhost.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Settings
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Post("/cost-preview", h.PreviewCost)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Get("/{id}/availability", h.GetAvailability)
			r.Get("/{id}/history", h.GetEmployeeHistory)
			r.Get("/{id}/timesheet", h.GetTimesheet)
			r.Get("/{id}/timesheets", h.ListTimesheets)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/", h.SaveScenario)
			r.Post("/generate", h.GenerateScenarios)
			r.Delete("/{id}", h.DeleteScenario)
			r.Post("/{id}/activate", h.ActivateScenario)
		})

		// Job routes
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/active", h.ListActiveJobs)
			r.Get("/completed", h.ListCompletedJobs)
			r.Get("/{id}", h.GetJob)
			r.Post("/{id}/team", h.AddTeamMember)
			r.Delete("/{id}/team/{employeeId}", h.RemoveTeamMember)
			r.Post("/{id}/complete", h.CompleteJob)
			r.Get("/{id}/report", h.GetJobReport)
		})

		// Dashboard routes
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", h.GetDashboard)
			r.Get("/months", h.GetAvailableMonths)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/{type}", h.GetReport)
			r.Get("/{type}/csv", h.ExportCSV)
		})

		// Backup routes
		r.Route("/backup", func(r chi.Router) {
			r.Get("/", h.ExportBackup)
			r.Post("/", h.ImportBackup)
		})

		// Demo data (dev only)
		r.Post("/demo/load", h.LoadDemo)
	})

	// Serve static files (React app)
	// First try ./web/dist (development), then fall back to message
	staticDir := "./web/dist"
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		// Try relative to executable
		exe, _ := os.Executable()
		staticDir = filepath.Join(filepath.Dir(exe), "web", "dist")
	}

	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, r.URL.Path)

			// SPA routing: serve index.html for unknown paths
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Workforce Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Workforce Engine API</h1>
<p>The frontend is not built yet. Run <code>cd web && npm install && npm run build</code></p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/api/dashboard">/api/dashboard</a> - Monthly dashboard</li>
<li><a href="/api/jobs/active">/api/jobs/active</a> - Active jobs</li>
<li><a href="/api/reports/overview">/api/reports/overview</a> - Company overview</li>
</ul>
</body>
</html>`))
		})
	}

	return r
}
