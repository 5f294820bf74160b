package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/config"
	appHTTP "github.com/vt-ctyhp/attendance-system-sub004/internal/handler/http"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/calendar"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/cron"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/database"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/jwt"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/repository/postgresql"
	attendanceService "github.com/vt-ctyhp/attendance-system-sub004/internal/service/attendance"
	authService "github.com/vt-ctyhp/attendance-system-sub004/internal/service/auth"
	payrollService "github.com/vt-ctyhp/attendance-system-sub004/internal/service/payroll"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-system"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	cal, err := calendar.New(cfg.Attendance.Timezone)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema applied")
	}

	transactor := postgresql.NewTransactor(db)
	monthFactRepo := postgresql.NewMonthFactRepository(db)
	activityRepo := postgresql.NewActivityRepository(db)
	requestRepo := postgresql.NewTimeOffRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	configRepo := postgresql.NewConfigRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	operatorRepo := postgresql.NewOperatorRepository(db)

	bonusSvc := payrollService.NewBonusService(transactor, cal, payrollRepo, monthFactRepo, configRepo, auditRepo, nil)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		cal,
		monthFactRepo,
		activityRepo,
		requestRepo,
		holidayRepo,
		configRepo,
		auditRepo,
		bonusSvc,
		nil,
	)
	settlementSvc := payrollService.NewSettlementService(transactor, cal, payrollRepo, employeeRepo, configRepo, auditRepo, nil)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authSvc := authService.NewAuthService(operatorRepo, JWTService)

	var scheduler *cron.Scheduler
	if cfg.Cron.Enabled {
		scheduler = cron.NewScheduler(ctx, logger)
		cron.NewAttendanceJobs(attendanceSvc, bonusSvc, employeeRepo, cal, cron.FinalizeSchedule{
			Day:         cfg.Cron.FinalizeDay,
			Hour:        cfg.Cron.FinalizeHour,
			MaxParallel: cfg.Cron.MaxParallel,
		}, logger, nil).RegisterJobs(scheduler)
		cron.NewPayrollJobs(settlementSvc, logger, nil).RegisterJobs(scheduler)
		scheduler.Start()
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{AllowedOrigins: cfg.CORS.AllowedOrigins, LogLevel: cfg.SlogLevel()},
		logger,
		JWTService,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewBonusHandler(bonusSvc),
		appHTTP.NewPayrollHandler(settlementSvc, cal),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "timezone", cal.Location().String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if scheduler != nil {
		scheduler.Stop()
	}
	return server.Shutdown(shutdownCtx)
}
