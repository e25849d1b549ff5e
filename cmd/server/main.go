package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	admissionapp "github.com/pathshala/backend/internal/application/admission"
	cashtransferapp "github.com/pathshala/backend/internal/application/cashtransfer"
	catalogapp "github.com/pathshala/backend/internal/application/catalog"
	centreapp "github.com/pathshala/backend/internal/application/centre"
	paymentapp "github.com/pathshala/backend/internal/application/payment"
	"github.com/pathshala/backend/internal/application/reconciliation"
	studentapp "github.com/pathshala/backend/internal/application/student"
	"github.com/pathshala/backend/internal/infrastructure/auth"
	"github.com/pathshala/backend/internal/infrastructure/cache"
	"github.com/pathshala/backend/internal/infrastructure/config"
	"github.com/pathshala/backend/internal/infrastructure/logger"
	"github.com/pathshala/backend/internal/infrastructure/persistence"
	"github.com/pathshala/backend/internal/infrastructure/storage"
	"github.com/pathshala/backend/internal/infrastructure/telemetry"
	"github.com/pathshala/backend/internal/infrastructure/worker"
	"github.com/pathshala/backend/internal/interfaces/http/handler"
	"github.com/pathshala/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	var db *persistence.Database
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		db, err = persistence.NewDatabaseWithTracing(&cfg.Database)
	} else {
		db, err = persistence.NewDatabase(&cfg.Database)
	}
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))

	idempotencyStore := cache.NewIdempotencyStore(cfg, log)
	defer func() { _ = idempotencyStore.Close() }()

	receipts, err := storage.NewS3ReceiptStorage(&cfg.Storage, log)
	if err != nil {
		return err
	}
	if err := receipts.EnsureBucket(ctx); err != nil {
		log.Warn("receipt bucket check failed, uploads may fail", zap.Error(err))
	}

	admissionRepo := persistence.NewGormAdmissionRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	studentRepo := persistence.NewGormStudentRepository(db.DB)
	centreRepo := persistence.NewGormCentreRepository(db.DB)
	targetRepo := persistence.NewGormSalesTargetRepository(db.DB)
	courseRepo := persistence.NewGormCourseRepository(db.DB)
	examTagRepo := persistence.NewGormExamTagRepository(db.DB)
	transferRepo := persistence.NewGormCashTransferRepository(db.DB)
	txManager := persistence.NewGormTxManager(db.DB)

	creditWorker := worker.NewTargetCreditWorker(targetRepo, cfg.Worker.TargetQueueSize, log)
	creditWorker.Start()
	defer creditWorker.Stop(cfg.Worker.ShutdownTimeout)

	admissionSvc := admissionapp.NewService(
		admissionRepo, paymentRepo, studentRepo, courseRepo, examTagRepo, centreRepo,
		txManager, creditWorker, log,
	)
	studentSvc := studentapp.NewService(studentRepo, admissionRepo, txManager, log)
	centreSvc := centreapp.NewService(centreRepo, targetRepo, txManager, log)
	catalogSvc := catalogapp.NewService(courseRepo, examTagRepo, log)
	billingSvc := paymentapp.NewBillingService(paymentRepo, admissionRepo, centreRepo, receipts, txManager, log)
	chequeSvc := reconciliation.NewChequeService(paymentRepo, admissionRepo, studentRepo, centreRepo, txManager, log)
	transferSvc := cashtransferapp.NewService(transferRepo, centreRepo, paymentRepo, receipts, txManager, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.New(cfg, jwtService, idempotencyStore, router.Handlers{
		System:       handler.NewSystemHandler(db.DB, version),
		Student:      handler.NewStudentHandler(studentSvc, log),
		Centre:       handler.NewCentreHandler(centreSvc, log),
		Catalog:      handler.NewCatalogHandler(catalogSvc, log),
		Admission:    handler.NewAdmissionHandler(admissionSvc, log),
		Payment:      handler.NewPaymentHandler(billingSvc, log),
		Cheque:       handler.NewChequeHandler(chequeSvc, log),
		CashTransfer: handler.NewCashTransferHandler(transferSvc, log),
	}, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
