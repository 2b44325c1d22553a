package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/veriface/internal/api"
	"github.com/saturnino-fabrica-de-software/veriface/internal/audit"
	"github.com/saturnino-fabrica-de-software/veriface/internal/config"
	"github.com/saturnino-fabrica-de-software/veriface/internal/database"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
	mockprovider "github.com/saturnino-fabrica-de-software/veriface/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider/rekognition"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider/textract"
	"github.com/saturnino-fabrica-de-software/veriface/internal/repository"
	"github.com/saturnino-fabrica-de-software/veriface/internal/service"
	"github.com/saturnino-fabrica-de-software/veriface/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// capabilities groups the step providers selected by PROVIDER_TYPE
type capabilities struct {
	analyzer provider.DocumentAnalyzer
	detector provider.FaceDetector
	comparer provider.FaceComparer
	liveness provider.LivenessProvider
	store    storage.ObjectStore
}

func buildCapabilities(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*capabilities, error) {
	switch cfg.ProviderType {
	case "aws":
		auditLogger := audit.NewSlogLogger(logger)

		client, err := rekognition.NewClient(ctx, rekognition.Config{
			Region:           cfg.AWSRegion,
			S3Bucket:         cfg.S3Bucket,
			AuditImagesLimit: cfg.AuditImagesLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("rekognition client: %w", err)
		}

		analyzer, err := textract.NewAnalyzer(ctx, textract.Config{Region: cfg.AWSRegion}, auditLogger)
		if err != nil {
			return nil, fmt.Errorf("textract analyzer: %w", err)
		}

		store, err := storage.NewS3Store(ctx, cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			return nil, fmt.Errorf("s3 store: %w", err)
		}

		faces := rekognition.NewProvider(client, rekognition.WithAuditLogger(auditLogger))

		return &capabilities{
			analyzer: analyzer,
			detector: faces,
			comparer: faces,
			liveness: rekognition.NewLivenessProvider(client, auditLogger),
			store:    store,
		}, nil

	case "mock":
		mock := mockprovider.New()
		return &capabilities{
			analyzer: mock,
			detector: mock,
			comparer: mock,
			liveness: mock,
			store:    storage.NewMemoryStore(),
		}, nil
	}

	return nil, fmt.Errorf("unknown provider type: %s", cfg.ProviderType)
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Veriface API",
		slog.String("environment", cfg.Environment),
		slog.String("provider", cfg.ProviderType),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Step providers and object storage
	caps, err := buildCapabilities(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build providers: %w", err)
	}

	// Services
	sessions := repository.NewSessionRepository(pool)
	documents := service.NewDocumentService(caps.analyzer, caps.detector, caps.store, cfg.FaceCropScale, cfg.FaceConfidenceMin)
	liveness := service.NewLivenessService(caps.liveness, cfg.LivenessPrefix)
	comparison := service.NewComparisonService(caps.comparer, caps.store, cfg.SimilarityThreshold)
	workflow := service.NewKYCService(sessions, documents, liveness, comparison, logger)

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		KYCService: workflow,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
