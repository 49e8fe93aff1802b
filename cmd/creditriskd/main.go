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

	"go.opentelemetry.io/otel"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/usecase"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/service"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/infrastructure/config"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/infrastructure/kafka"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/infrastructure/ml"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/infrastructure/mockbank"
	pgRepo "github.com/the-lost-phoenix/credit-risk-engine/internal/infrastructure/persistence/postgres"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/infrastructure/statement"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/infrastructure/telemetry"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/presentation/rest"
	"github.com/the-lost-phoenix/credit-risk-engine/pkg/auth"
	pkgkafka "github.com/the-lost-phoenix/credit-risk-engine/pkg/kafka"
	"github.com/the-lost-phoenix/credit-risk-engine/pkg/observability"
	pkgpostgres "github.com/the-lost-phoenix/credit-risk-engine/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("credit-risk-engine exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting credit-risk-engine", "http_port", cfg.HTTPPort)

	// Tracing is optional.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck
	decisionMetrics, err := telemetry.NewDecisionMetrics(otel.Meter("credit-risk-engine"))
	if err != nil {
		return fmt.Errorf("init decision metrics: %w", err)
	}

	// Database connection.
	dbCfg := cfg.DB.Postgres()
	if cfg.DB.LogQueries {
		dbCfg.QueryLogger = logger.With("component", "postgres")
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pgRepo.Migrate(dbCfg.DSN(), cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Security.
	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("init JWT service: %w", err)
	}
	hasher := auth.NewPasswordHasher(0)

	// Risk model, event publishing.
	riskModel := ml.NewFailSoftModel(loadRiskModel(cfg.Model, logger), decisionMetrics, logger)

	publisher, closePublisher, err := newEventPublisher(cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("init event publisher: %w", err)
	}
	defer closePublisher()

	// Wire infrastructure adapters.
	appRepo := pgRepo.NewLoanApplicationRepo(pool)
	userRepo := pgRepo.NewUserRepo(pool)
	historyRepo := pgRepo.NewHistoryRepo(pool)
	analyzer := service.NewStatementAnalyzer()

	// Wire use cases.
	uc := rest.UseCases{
		SubmitApplication: usecase.NewSubmitLoanApplicationUseCase(
			appRepo, publisher, riskModel,
			service.NewPolicyEngine(cfg.Decision.Policy()),
			decisionMetrics, logger, cfg.Decision.RiskRejectThreshold,
		),
		ListApplications: usecase.NewListApplicationsUseCase(appRepo),
		ListLoanHistory:  usecase.NewListLoanHistoryUseCase(appRepo),
		Register:         usecase.NewRegisterUserUseCase(userRepo, hasher),
		Login:            usecase.NewLoginUserUseCase(userRepo, hasher, jwtSvc),
		VerifyIncome:     usecase.NewVerifyIncomeUseCase(mockbank.NewSimulator(), analyzer),
		AnalyzeStatement: usecase.NewAnalyzeStatementFileUseCase(statement.NewCSVParser(), analyzer, historyRepo, logger),
		ListHistory:      usecase.NewListHistoryUseCase(historyRepo),
	}

	router := rest.NewRouter(rest.RouterConfig{
		API:            rest.NewHandler(uc, jwtSvc, cfg.MaxUploadBytes, logger),
		Health:         rest.NewHealthHandler(cfg.ServiceName, pool, logger),
		Metrics:        metricsHandler,
		AllowedOrigins: cfg.AllowedOrigins,
		AuthRateLimit:  cfg.AuthRateLimit,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("credit-risk-engine stopped")
	return serveErr
}

// newJWTService prefers an RSA private key and falls back to the HMAC secret.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	return auth.NewJWTService(auth.JWTConfig{
		PrivateKeyPEM:  cfg.PrivateKeyPEM,
		PrivateKeyFile: cfg.PrivateKeyFile,
		Secret:         cfg.Secret,
		Issuer:         cfg.Issuer,
		Expiration:     cfg.Expiration,
		Leeway:         5 * time.Second,
	})
}

// loadRiskModel returns the remote scorer when MODEL_SERVICE_URL is set and
// the bundled artifact otherwise. It returns nil when no model is usable;
// the fail-soft wrapper then serves neutral scores.
func loadRiskModel(cfg config.ModelConfig, logger *slog.Logger) port.RiskModel {
	if cfg.ServiceURL != "" {
		logger.Info("using remote risk model", "url", cfg.ServiceURL)
		return ml.NewBreakerModel(
			ml.NewRemoteModelClient(cfg.ServiceURL, cfg.Timeout),
			ml.BreakerConfig{
				Name:        "risk-model-service",
				MaxFailures: uint32(max(cfg.BreakerFailures, 1)),
				Cooldown:    cfg.BreakerCooldown,
			},
			logger,
		)
	}

	ensemble, err := ml.LoadTreeEnsemble(cfg.Path)
	if err != nil {
		logger.Error("risk model unavailable, decisions will use neutral scores",
			"path", cfg.Path,
			"error", err,
		)
		return nil
	}
	logger.Info("loaded risk model", "path", cfg.Path)
	return ensemble
}

func newEventPublisher(cfg config.KafkaConfig, logger *slog.Logger) (port.EventPublisher, func(), error) {
	producerCfg := cfg.Producer()
	if !producerCfg.Enabled() {
		logger.Info("KAFKA_BROKERS not set, decision events are not published")
		return kafka.NoopPublisher{}, func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(producerCfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Warn("failed to close kafka producer", "error", err)
		}
	}
	return kafka.NewDecisionEventPublisher(producer, cfg.Topic, logger), closeFn, nil
}
