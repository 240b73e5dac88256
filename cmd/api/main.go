package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/config"
	appHTTP "github.com/cmlabs-hris/hr-attendance-kanban/internal/handler/http"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/sse"
	attendanceService "github.com/cmlabs-hris/hr-attendance-kanban/internal/service/attendance"
	attendanceTypeService "github.com/cmlabs-hris/hr-attendance-kanban/internal/service/attendance_type"
	serviceAuth "github.com/cmlabs-hris/hr-attendance-kanban/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hr-attendance-kanban/internal/service/employee"
	kanbanService "github.com/cmlabs-hris/hr-attendance-kanban/internal/service/kanban"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer repos.close()

	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	notifier := kanbanService.NewNotifier(repos.employees, repos.attendances, hub)

	employeeSvc := employeeService.NewEmployeeService(repos.tx, repos.employees, repos.attendances, repos.types, repos.users)
	typeSvc := attendanceTypeService.NewAttendanceTypeService(repos.tx, repos.types, repos.attendances, employeeSvc)
	attendanceSvc := attendanceService.NewAttendanceService(repos.tx, repos.attendances, repos.employees, repos.types, employeeSvc, notifier)
	kanbanSvc := kanbanService.NewKanbanService(repos.tx, repos.attendances, repos.employees, repos.types, employeeSvc, notifier)
	authSvc := serviceAuth.NewAuthService(repos.tx, repos.users, JWTService, repos.refreshTokens)

	if err := typeSvc.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("failed to create default attendance types: %w", err)
	}
	if err := bootstrapAdmin(ctx, repos.users, cfg.Admin); err != nil {
		return err
	}

	scheduler := cron.NewScheduler(ctx)
	cron.NewConsistencyJobs(typeSvc, employeeSvc).RegisterJobs(scheduler, cfg.Cron.ConsistencyInterval)
	if err := scheduler.RunOnce(ctx); err != nil {
		return fmt.Errorf("startup consistency check failed: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:           appHTTP.NewAuthHandler(JWTService, authSvc),
		AttendanceType: appHTTP.NewAttendanceTypeHandler(typeSvc),
		Attendance:     appHTTP.NewAttendanceHandler(attendanceSvc),
		Employee:       appHTTP.NewEmployeeHandler(employeeSvc),
		Kanban:         appHTTP.NewKanbanHandler(kanbanSvc, JWTService, hub),
	}, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Env:            cfg.App.Env,
		LogLevel:       cfg.SlogLevel(),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "db_driver", cfg.Database.Driver)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
