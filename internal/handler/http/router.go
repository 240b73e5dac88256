package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions configures the ambient middleware of the router.
type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	LogLevel       slog.Level
}

type Handlers struct {
	Auth           AuthHandler
	AttendanceType AttendanceTypeHandler
	Attendance     AttendanceHandler
	Employee       EmployeeHandler
	Kanban         KanbanHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hr-attendance-kanban"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// EventSource cannot send headers, the stream checks its ?token= itself
		r.Get("/kanban/events", h.Kanban.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/sse-token", h.Auth.SSEToken)

			r.Route("/attendance-types", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceTypeView))
				r.Get("/", h.AttendanceType.List)
				r.Get("/{id}", h.AttendanceType.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceTypeManage))
					r.Post("/", h.AttendanceType.Create)
					r.Put("/{id}", h.AttendanceType.Update)
					r.Delete("/{id}", h.AttendanceType.Delete)
				})
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceOwn))
				r.Get("/", h.Attendance.List)
				r.Get("/{id}", h.Attendance.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceManageAll))
					r.Post("/", h.Attendance.Create)
					r.Put("/{id}", h.Attendance.Update)
					r.Delete("/{id}", h.Attendance.Delete)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionEmployeeView))
				r.Get("/", h.Employee.ListEmployees)
				r.Get("/{id}", h.Employee.GetEmployee)
				r.Get("/{id}/public", h.Employee.GetPublicEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
				})
			})

			r.Route("/kanban", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceOwn))
				r.Get("/", h.Kanban.Board)
				r.Post("/employees/{id}/attendance-type", h.Kanban.UpdateAttendanceType)
				r.Get("/employees/{id}/break", h.Kanban.PrepareBreak)
				r.Post("/check-in-out/prepare", h.Kanban.PrepareCheckInOut)
				r.Post("/check-in-out", h.Kanban.CheckInOut)
				r.Post("/break/start", h.Kanban.StartBreak)
				r.Post("/break/end", h.Kanban.EndBreak)
			})
		})
	})
	return r
}
