package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/config"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/attendance"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/leave"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/notification"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
	appHTTP "github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/database"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/email"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/jwt"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/repository/memory"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/repository/postgresql"
	attendanceService "github.com/dayflow-hrms/dayflow-backend-go/internal/service/attendance"
	authService "github.com/dayflow-hrms/dayflow-backend-go/internal/service/auth"
	employeeService "github.com/dayflow-hrms/dayflow-backend-go/internal/service/employee"
	leaveService "github.com/dayflow-hrms/dayflow-backend-go/internal/service/leave"
	notificationService "github.com/dayflow-hrms/dayflow-backend-go/internal/service/notification"
	payrollService "github.com/dayflow-hrms/dayflow-backend-go/internal/service/payroll"
)

type repositories struct {
	users         user.Repository
	attendances   attendance.Repository
	leaves        leave.Repository
	payrolls      payroll.Repository
	notifications notification.Repository
}

func buildRepositories(cfg *config.Config) (repositories, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repositories{
			users:         postgresql.NewUserRepository(db),
			attendances:   postgresql.NewAttendanceRepository(db),
			leaves:        postgresql.NewLeaveRepository(db),
			payrolls:      postgresql.NewPayrollRepository(db),
			notifications: postgresql.NewNotificationRepository(db),
		}, nil

	case "memory":
		store := memory.NewStore()
		if err := store.Seed(); err != nil {
			return repositories{}, fmt.Errorf("failed to seed memory store: %w", err)
		}
		slog.Info("Running on the in-memory store with demo fixtures")
		return repositories{
			users:         memory.NewUserRepository(store),
			attendances:   memory.NewAttendanceRepository(store),
			leaves:        memory.NewLeaveRepository(store),
			payrolls:      memory.NewPayrollRepository(store),
			notifications: memory.NewNotificationRepository(store),
		}, nil

	default:
		return repositories{}, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	})))

	repos, err := buildRepositories(cfg)
	if err != nil {
		log.Fatal(err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	emailService, err := email.NewService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	notifier := notificationService.NewNotificationService(repos.notifications)
	authSvc := authService.NewAuthService(repos.users, jwtService, emailService, cfg.App)
	employeeSvc := employeeService.NewEmployeeService(repos.users, notifier)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendances, repos.users)
	leaveSvc := leaveService.NewLeaveService(repos.leaves, repos.users, notifier)
	payrollSvc := payrollService.NewPayrollService(repos.payrolls, repos.users, notifier)

	router := appHTTP.NewRouter(cfg.App, jwtService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Notification: appHTTP.NewNotificationHandler(notifier),
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("Server starting", "addr", addr, "env", cfg.App.Env, "store", cfg.Store.Driver)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}
