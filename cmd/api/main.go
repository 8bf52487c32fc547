package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/eliahealth/elia/internal/ai"
	"github.com/eliahealth/elia/internal/config"
	"github.com/eliahealth/elia/internal/fixtures"
	v1 "github.com/eliahealth/elia/internal/handler/v1"
	"github.com/eliahealth/elia/internal/pdf"
	"github.com/eliahealth/elia/internal/repository"
	"github.com/eliahealth/elia/internal/service"
	"github.com/eliahealth/elia/internal/storage"
	"github.com/eliahealth/elia/pkg/database"
	"github.com/eliahealth/elia/pkg/logger"
	"github.com/eliahealth/elia/pkg/metrics"
	"github.com/eliahealth/elia/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("starting service",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	repos := repository.New(db)

	if cfg.Database.SeedFixtures {
		if err := fixtures.Seed(context.Background(), repos, log); err != nil {
			return err
		}
	}

	collector := metrics.NewCollector("elia")
	if sqlDB, err := db.DB(); err == nil {
		collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
	}

	files, err := storage.NewFileStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		return err
	}

	aiClient := ai.NewClient(cfg.OpenAI, log)
	renderer := pdf.NewRenderer()

	patientSvc := service.NewPatientService(repos.Patients, aiClient, log)
	appointmentSvc := service.NewAppointmentService(
		repos.Appointments, repos.Patients, repos.Reports, repos.Audio,
		aiClient, renderer, cfg.Simulation, collector, log,
	)
	audioSvc := service.NewAudioService(
		repos.Audio, repos.Appointments, repos.Patients,
		files, aiClient, cfg.Simulation, collector, log,
	)

	router := v1.NewRouter(v1.RouterDeps{
		Config:       cfg,
		Patients:     patientSvc,
		Appointments: appointmentSvc,
		Audio:        audioSvc,
		Collector:    collector,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped cleanly")
	return nil
}
