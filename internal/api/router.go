package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prospectbd/cadence/internal/journal"
	"github.com/prospectbd/cadence/internal/metrics"
	"github.com/prospectbd/cadence/internal/sdlc"
	"github.com/prospectbd/cadence/internal/team"
	"github.com/prospectbd/cadence/internal/timer"
	"github.com/prospectbd/cadence/internal/user"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Store          *sdlc.Store
	Teams          *team.Store
	Users          *user.Store
	Tracker        *timer.Tracker
	Journal        *journal.Collector
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(slogRequestLogger)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}
	r.Use(actorMiddleware)

	rec := &recorder{journal: deps.Journal, metrics: deps.Metrics}

	// Handlers.
	projects := newProjectsHandler(deps.Store, rec)
	modules := newModulesHandler(deps.Store, rec)
	stories := newStoriesHandler(deps.Store, rec)
	tasks := newTasksHandler(deps.Store, rec)
	sprints := newSprintsHandler(deps.Store, rec)
	teams := newTeamsHandler(deps.Teams, rec)
	users := newUsersHandler(deps.Users, rec)
	timers := newTimerHandler(deps.Tracker, rec)
	analytics := newAnalyticsHandler(deps.Store)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Live metrics summary.
	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(ar chi.Router) {
		// Projects.
		ar.Post("/projects", projects.CreateProject)
		ar.Get("/projects", projects.ListProjects)
		ar.Get("/projects/{id}", projects.GetProject)
		ar.Put("/projects/{id}", projects.UpdateProject)
		ar.Delete("/projects/{id}", projects.DeleteProject)
		ar.Get("/projects/{id}/aggregate", projects.GetProjectAggregate)

		// Modules.
		ar.Post("/modules", modules.CreateModule)
		ar.Get("/modules", modules.ListModules)
		ar.Put("/modules/{id}", modules.UpdateModule)
		ar.Delete("/modules/{id}", modules.DeleteModule)

		// User stories.
		ar.Post("/stories", stories.CreateStory)
		ar.Get("/stories", stories.ListStories)
		ar.Put("/stories/{id}", stories.UpdateStory)
		ar.Delete("/stories/{id}", stories.DeleteStory)

		// Tasks.
		ar.Post("/tasks", tasks.CreateTask)
		ar.Get("/tasks", tasks.ListTasks)
		ar.Put("/tasks/{id}", tasks.UpdateTask)
		ar.Delete("/tasks/{id}", tasks.DeleteTask)
		ar.Put("/tasks/{id}/status", tasks.UpdateTaskStatus)
		ar.Put("/tasks/{id}/assignee", tasks.UpdateTaskAssignee)

		// Sprints.
		ar.Post("/sprints", sprints.CreateSprint)
		ar.Get("/sprints", sprints.ListSprints)
		ar.Put("/sprints/{id}", sprints.UpdateSprint)
		ar.Delete("/sprints/{id}", sprints.DeleteSprint)

		// Teams, members, sub-teams.
		ar.Post("/teams", teams.CreateTeam)
		ar.Get("/teams", teams.ListTeams)
		ar.Get("/teams/{id}", teams.GetTeam)
		ar.Put("/teams/{id}", teams.UpdateTeam)
		ar.Delete("/teams/{id}", teams.DeleteTeam)
		ar.Post("/teams/{id}/members", teams.AddTeamMember)
		ar.Put("/teams/{id}/members/{userId}", teams.UpdateTeamMember)
		ar.Delete("/teams/{id}/members/{userId}", teams.RemoveTeamMember)
		ar.Post("/teams/{id}/sub-teams", teams.AddSubTeam)
		ar.Put("/teams/{id}/sub-teams/{subTeamId}/members/{userId}", teams.AddSubTeamMember)
		ar.Delete("/teams/{id}/sub-teams/{subTeamId}/members/{userId}", teams.RemoveSubTeamMember)

		// Users.
		ar.Post("/users", users.CreateUser)
		ar.Get("/users", users.ListUsers)
		ar.Get("/users/{id}", users.GetUser)
		ar.Put("/users/{id}", users.UpdateUser)
		ar.Delete("/users/{id}", users.DeleteUser)

		// Timer.
		ar.Post("/timer/start", timers.StartTimer)
		ar.Post("/timer/pause", timers.PauseTimer)
		ar.Post("/timer/resume", timers.ResumeTimer)
		ar.Post("/timer/stop", timers.StopTimer)
		ar.Post("/timer/tick", timers.TickTimer)
		ar.Get("/timer/active/{userID}", timers.GetActiveTimer)
		ar.Get("/time-entries", timers.ListTimeEntries)
		ar.Get("/time-summary", timers.GetTimeSummary)
		ar.Post("/time-logs", timers.CreateTimeLog)
		ar.Get("/time-logs", timers.ListTimeLogs)

		// Analytics.
		ar.Get("/analytics/sprint-summary", analytics.GetSprintSummary)
	})

	return r
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// metricsMiddleware records request counts and latency per route pattern.
func metricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			m.ObserveHTTPRequest(r.Method, pattern, ww.Status(), time.Since(start).Seconds())
		})
	}
}
