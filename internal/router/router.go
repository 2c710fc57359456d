package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/config"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/handlers"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/middleware"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository/postgres"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/service"
)

func New(log zerolog.Logger, db *pgxpool.Pool, cfg config.Config) *chi.Mux {
	users := postgres.NewUserRepo(db)
	projects := postgres.NewProjectRepo(db)
	sprints := postgres.NewSprintRepo(db)
	tickets := postgres.NewTicketRepo(db)
	bugs := postgres.NewBugRepo(db)
	epics := postgres.NewEpicRepo(db)
	meetings := postgres.NewMeetingRepo(db)
	notifs := postgres.NewNotificationRepo(db)
	activity := postgres.NewActivityRepo(db)
	analytics := postgres.NewAnalyticsRepo(db)

	emitter := service.NewEmitter(activity, notifs, log)
	authSvc := service.NewAuthService(users, cfg.SessionSecret)
	sprintSvc := service.NewSprintService(sprints, emitter)
	analyticsSvc := service.NewAnalyticsService(analytics)

	authH := handlers.NewAuthHTTP(authSvc, users, log)
	projectH := handlers.NewProjectHTTP(projects, activity, analyticsSvc, emitter, log)
	sprintH := handlers.NewSprintHTTP(sprintSvc, sprints, projects, emitter, log)
	ticketH := handlers.NewTicketHTTP(tickets, sprints, projects, emitter, log)
	bugH := handlers.NewBugHTTP(bugs, sprints, projects, emitter, log)
	epicH := handlers.NewEpicHTTP(epics, projects, emitter, log)
	meetingH := handlers.NewMeetingHTTP(meetings, projects, emitter, log)
	notifH := handlers.NewNotificationHTTP(notifs, log)
	userH := handlers.NewUserHTTP(users, log)
	statsH := handlers.NewStatsHTTP(analyticsSvc, log)

	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.WithAuth(log, cfg))

	r.Get("/healthz", handlers.Health())
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(httprate.LimitByIP(10, time.Minute)).Post("/register", authH.Register())
			r.With(httprate.LimitByIP(10, time.Minute)).Post("/login", authH.Login())
			r.Post("/logout", authH.Logout())
			r.With(middleware.RequireAuth).Get("/me", authH.Me())
			r.With(middleware.RequireAuth).Patch("/password", authH.ChangePassword())
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectH.List())
				r.Post("/", projectH.Create())
				r.Get("/{id}", projectH.Get())
				r.With(middleware.RequireRoles(models.RoleAdmin)).Delete("/{id}", projectH.Delete())
				r.Get("/{id}/activity", projectH.Activity())
				r.Get("/{id}/analytics", projectH.Analytics())
				r.Get("/{id}/retrospectives", sprintH.Retrospectives())
				r.Post("/{id}/retrospectives", sprintH.AddRetroItem())
				r.Get("/{id}/epics", epicH.List())
				r.Post("/{id}/epics", epicH.Create())
				r.Get("/{id}/meetings", meetingH.List())
				r.Post("/{id}/meetings", meetingH.Create())
				r.Route("/{id}/assignments", func(r chi.Router) {
					r.Use(middleware.RequireRoles(models.RoleAdmin))
					r.Get("/", projectH.Assignees())
					r.Post("/", projectH.Assign())
					r.Delete("/", projectH.Unassign())
				})
			})

			r.Route("/sprints", func(r chi.Router) {
				r.Get("/", sprintH.List())
				r.Post("/", sprintH.Create())
				r.Patch("/{id}/close", sprintH.Close())
			})

			r.Route("/tickets", func(r chi.Router) {
				r.Post("/", ticketH.Create())
				r.Get("/{id}", ticketH.Get())
				r.Patch("/{id}", ticketH.Update())
				r.Delete("/{id}", ticketH.Delete())
				r.Post("/{id}/comments", ticketH.AddComment())
			})

			r.Route("/bugs", func(r chi.Router) {
				r.Get("/", bugH.List())
				r.Post("/", bugH.Create())
				r.With(middleware.RequireRoles(models.RoleAdmin)).Patch("/{id}/validate", bugH.Validate())
			})

			r.Route("/epics", func(r chi.Router) {
				r.Patch("/{id}", epicH.Update())
				r.Delete("/{id}", epicH.Delete())
			})

			r.Delete("/meetings/{id}", meetingH.Delete())

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notifH.List())
				r.Patch("/", notifH.MarkRead())
				r.Delete("/{id}", notifH.Delete())
			})

			r.With(middleware.RequireRoles(models.RoleAdmin)).Get("/users", userH.ListDevs())
			r.Get("/stats", statsH.Dashboard())
		})
	})

	return r
}
