package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/citaflow/citaflow/internal/config"
	v1 "github.com/citaflow/citaflow/internal/handler/v1"
	"github.com/citaflow/citaflow/internal/repository/postgres"
	"github.com/citaflow/citaflow/internal/service"
	"github.com/citaflow/citaflow/pkg/auth"
	"github.com/citaflow/citaflow/pkg/database"
	"github.com/citaflow/citaflow/pkg/logger"
	"github.com/citaflow/citaflow/pkg/metrics"
	"github.com/citaflow/citaflow/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "citaflow-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, cfg.Scheduling, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("citaflow")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	appointmentRepo := postgres.NewAppointmentRepository(db, cfg.Scheduling.DoctorExclusive)
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	historyRepo := postgres.NewHistoryRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	adminRepo := postgres.NewAdminRepository(db)

	auditSvc := service.NewAuditService(auditRepo, log)
	defer auditSvc.Shutdown()
	notifier := service.NewNotificationService(notificationRepo, log)
	defer notifier.Shutdown()

	handlers := v1.Handlers{
		Auth:         v1.NewAuthHandler(service.NewAuthService(adminRepo, jwtManager, auditSvc, log)),
		Availability: v1.NewAvailabilityHandler(service.NewAvailabilityService(appointmentRepo, log), collector),
		Appointment: v1.NewAppointmentHandler(
			service.NewSchedulingService(appointmentRepo, patientRepo, doctorRepo, notifier, auditSvc, log),
			collector,
		),
		Patient: v1.NewPatientHandler(service.NewPatientService(patientRepo, auditSvc, log), collector),
		Doctor:  v1.NewDoctorHandler(service.NewDoctorService(doctorRepo, auditSvc, log)),
		History: v1.NewHistoryHandler(service.NewHistoryService(historyRepo, patientRepo, log)),
	}

	router := v1.NewRouter(cfg, handlers, jwtManager, collector, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("stopped cleanly")
	return nil
}
