package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/config"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http/middleware"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/jwt"
)

type Handlers struct {
	Auth         AuthHandler
	Employee     EmployeeHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Payroll      PayrollHandler
	Notification NotificationHandler
}

func NewRouter(cfg config.AppConfig, jwtService jwt.Service, handlers Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "dayflow-hrms"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handlers.Auth.Register)
			r.Post("/login", handlers.Auth.Login)
			r.Post("/forgot-password", handlers.Auth.ForgotPassword)
			r.Put("/reset-password/{token}", handlers.Auth.ResetPassword)
			r.Get("/verify-email/{token}", handlers.Auth.VerifyEmail)

			// Requires authentication
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
				r.Get("/me", handlers.Auth.Me)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/{id}", handlers.Employee.GetByID)
				r.Put("/{id}", handlers.Employee.Update)

				// HR and admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Get("/", handlers.Employee.List)
					r.Post("/", handlers.Employee.Create)
					r.Get("/stats", handlers.Employee.Stats)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Delete("/{id}", handlers.Employee.Delete)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", handlers.Attendance.CheckIn)
				r.Post("/check-out", handlers.Attendance.CheckOut)
				r.Get("/today", handlers.Attendance.GetToday)
				r.Get("/my", handlers.Attendance.GetMy)

				// HR and admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Get("/", handlers.Attendance.List)
					r.Get("/stats", handlers.Attendance.Stats)
					r.Put("/{id}", handlers.Attendance.Update)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", handlers.Leave.Apply)
				r.Get("/my", handlers.Leave.GetMy)
				r.Get("/balance", handlers.Leave.GetBalance)
				r.Get("/{id}", handlers.Leave.GetByID)
				r.Delete("/{id}", handlers.Leave.Cancel)

				// HR and admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Get("/", handlers.Leave.List)
					r.Get("/stats", handlers.Leave.Stats)
					r.Put("/{id}/status", handlers.Leave.Decide)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/my", handlers.Payroll.GetMy)
				r.Get("/{id}", handlers.Payroll.GetByID)

				// HR and admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Get("/", handlers.Payroll.List)
					r.Get("/stats", handlers.Payroll.Stats)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/generate", handlers.Payroll.Generate)
					r.Put("/{id}", handlers.Payroll.Update)
					r.Put("/{id}/process", handlers.Payroll.MarkPaid)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", handlers.Notification.List)
				r.Put("/{id}/read", handlers.Notification.MarkRead)
				r.Put("/read-all", handlers.Notification.MarkAllRead)
				r.Delete("/{id}", handlers.Notification.Delete)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", handlers.Notification.Create)
				})
			})
		})
	})

	return r
}
