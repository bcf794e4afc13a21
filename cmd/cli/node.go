package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/turtacn/fedicore/internal/application"
	"github.com/turtacn/fedicore/internal/config"
	"github.com/turtacn/fedicore/internal/domain/repository"
	"github.com/turtacn/fedicore/internal/domain/service"
	"github.com/turtacn/fedicore/internal/infrastructure/crypto"
	"github.com/turtacn/fedicore/internal/infrastructure/delivery"
	"github.com/turtacn/fedicore/internal/infrastructure/keystore"
	"github.com/turtacn/fedicore/internal/infrastructure/monitoring"
	"github.com/turtacn/fedicore/internal/infrastructure/persistence/memory"
	"github.com/turtacn/fedicore/pkg/logger"
)

// node is the wired object graph shared by every subcommand.
type node struct {
	cfg        *config.Config
	loader     *config.Loader
	log        *monitoring.ZapLogger
	registry   *prometheus.Registry
	metrics    *monitoring.Metrics
	tracing    *monitoring.TracingManager
	operators  *crypto.OperatorTokenManager
	store      repository.KeyStore
	federation application.FederationService
}

func newNode() (*node, error) {
	loader := config.NewLoader(configFile)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	loader.WatchLogLevel(func(level string) {
		if err := log.SetLevel(level); err != nil {
			log.Warn(context.Background(), "Ignoring invalid log level", logger.String("level", level))
			return
		}
		log.Info(context.Background(), "Log level changed", logger.String("level", level))
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(registry)
	domainMetrics := monitoring.NewMetricsAdapter(metrics)

	tracing, err := monitoring.NewTracingManager(cfg, log.WithComponent("tracing"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	generator, err := crypto.NewRSAKeyGenerator(cfg.Federation.KeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to create key generator: %w", err)
	}
	store := keystore.NewMemoryKeyStore()
	users := memory.NewUserRepository(store, generator, domainMetrics, log)
	deliverer := delivery.NewHTTPDeliverer(cfg.Delivery, tracing, log)

	federation := application.NewFederationService(
		cfg.Federation.Domain,
		users,
		crypto.NewHTTPSigner(crypto.WithSignedHeaders(cfg.Delivery.SignedHeaders...)),
		deliverer,
		domainMetrics,
		tracing,
		log,
	)

	var operators *crypto.OperatorTokenManager
	if cfg.Operator.TokenSecret != "" {
		operators, err = crypto.NewOperatorTokenManager(cfg.Operator.TokenSecret, cfg.Operator.Issuer)
		if err != nil {
			return nil, fmt.Errorf("failed to create operator token manager: %w", err)
		}
	}

	return &node{
		cfg:        cfg,
		loader:     loader,
		log:        log,
		registry:   registry,
		metrics:    metrics,
		tracing:    tracing,
		operators:  operators,
		store:      store,
		federation: federation,
	}, nil
}

// operatorAuth returns the authenticator for the submit API, or nil when no secret is set.
func (n *node) operatorAuth() service.OperatorAuthenticator {
	if n.operators == nil {
		return nil
	}
	return n.operators
}

// close flushes traces and buffered log entries.
func (n *node) close(ctx context.Context) {
	if err := n.tracing.Shutdown(ctx); err != nil {
		n.log.Error(ctx, "Failed to shut down tracing", err)
	}
	_ = n.log.Sync()
}
