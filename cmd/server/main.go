package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	assethandler "assetgov/internal/asset/handler"
	assetmetrics "assetgov/internal/asset/metrics"
	assetservice "assetgov/internal/asset/service"
	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/compliance"
	compliancehandler "assetgov/internal/compliance/handler"
	compliancemetrics "assetgov/internal/compliance/metrics"
	complianceservice "assetgov/internal/compliance/service"
	"assetgov/internal/deployment"
	deploymenthandler "assetgov/internal/deployment/handler"
	deploymentmetrics "assetgov/internal/deployment/metrics"
	deploymentservice "assetgov/internal/deployment/service"
	deploymentstore "assetgov/internal/deployment/store"
	eligibilityhandler "assetgov/internal/eligibility/handler"
	eligibilitymetrics "assetgov/internal/eligibility/metrics"
	eligibilityservice "assetgov/internal/eligibility/service"
	"assetgov/internal/genesis"
	jwttoken "assetgov/internal/jwt_token"
	"assetgov/internal/platform/config"
	"assetgov/internal/platform/httpserver"
	"assetgov/internal/platform/kafka"
	"assetgov/internal/platform/logger"
	platformmetrics "assetgov/internal/platform/metrics"
	"assetgov/internal/platform/postgres"
	"assetgov/internal/platform/redis"
	"assetgov/internal/platform/tracing"
	httptransport "assetgov/internal/transport/http"
	"assetgov/internal/versions"
	versionshandler "assetgov/internal/versions/handler"
	versionsmetrics "assetgov/internal/versions/metrics"
	versionsservice "assetgov/internal/versions/service"
	versionsstore "assetgov/internal/versions/store"
	"assetgov/pkg/domain"
	audit "assetgov/pkg/platform/audit"
	"assetgov/pkg/platform/audit/publisher"
	auditmemory "assetgov/pkg/platform/audit/store/memory"
	auditpostgres "assetgov/pkg/platform/audit/store/postgres"
	"assetgov/pkg/platform/audit/worker"
	"assetgov/pkg/platform/circuit"
)

// infra holds the optional backing services. Each one is nil when it is not
// configured.
type infra struct {
	db       *sql.DB
	redis    *redis.Client
	producer *kafka.Producer
}

func (i *infra) close() {
	if i.producer != nil {
		i.producer.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.IsProduction())

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	inf, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer inf.close()

	auditPublisher := publisher.NewPublisher(auditStore(inf),
		publisher.WithAsyncBuffer(cfg.Audit.BufferSize),
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics()),
	)
	defer auditPublisher.Close()

	chainOpts := []chain.Option{chain.WithLogger(log), chain.WithMetrics(platformmetrics.New())}
	if inf.db != nil {
		chainOpts = append(chainOpts, chain.WithDB(inf.db))
	}
	c := chain.New(chainOpts...)

	genesisCfg, err := loadGenesis(cfg)
	if err != nil {
		return err
	}
	complianceMetrics := compliancemetrics.New()
	genesisOpts := append(genesisOptions(inf, log),
		genesis.WithRulesOptions(compliance.WithMetrics(complianceMetrics)))
	network, err := genesis.Apply(ctx, c, capability.NewTable(), genesisCfg, genesisOpts...)
	if err != nil {
		return fmt.Errorf("apply genesis: %w", err)
	}

	jwt := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:     log,
		Validator:  jwttoken.NewJWTServiceAdapter(jwt),
		Tokens:     jwt,
		AdminToken: cfg.AdminToken,
		Health:     healthChecks(inf),
		Modules:    modules(c, network, auditPublisher, complianceMetrics, log),
	})
	srv := httpserver.New(cfg.Addr, router, cfg.HTTP)
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting assetgov", "addr", ln.Addr().String(), "environment", cfg.Environment)
		return httpserver.Serve(gctx, srv, ln, cfg.HTTP.ShutdownTimeout)
	})
	if inf.db != nil && inf.producer != nil {
		if err := inf.producer.EnsureTopic(ctx, cfg.Kafka.AuditTopic, 1, 1); err != nil {
			log.Warn("audit topic not ensured", "topic", cfg.Kafka.AuditTopic, "error", err)
		}
		relay := worker.NewWorker(auditpostgres.New(inf.db), inf.producer, cfg.Kafka.AuditTopic,
			worker.WithInterval(cfg.Kafka.RelayInterval),
			worker.WithLogger(log),
			worker.WithBreaker(circuit.New("audit-outbox", circuit.WithFailureThreshold(5))),
		)
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("audit relay: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func connect(ctx context.Context, cfg config.Server) (*infra, error) {
	inf := &infra{}
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := postgres.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		inf.db = db
	}
	if inf.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		inf.close()
		return nil, err
	}
	if inf.producer, err = kafka.NewProducer(cfg.Kafka); err != nil {
		inf.close()
		return nil, err
	}
	return inf, nil
}

func loadGenesis(cfg config.Server) (*genesis.Config, error) {
	if cfg.GenesisFile != "" {
		return genesis.Load(cfg.GenesisFile)
	}
	admin, err := domain.ParseAddress(cfg.Admin)
	if err != nil {
		return nil, fmt.Errorf("ASSETGOV_ADMIN or GENESIS_FILE is required: %w", err)
	}
	return genesis.Default(admin), nil
}

func auditStore(inf *infra) audit.Store {
	if inf.db != nil {
		return auditpostgres.New(inf.db)
	}
	return auditmemory.NewInMemoryStore()
}

// genesisOptions picks durable stores when their backends are configured.
// Deployment keys prefer Redis, then Postgres.
func genesisOptions(inf *infra, log *slog.Logger) []genesis.Option {
	opts := []genesis.Option{genesis.WithLogger(log)}
	if inf.db != nil {
		db := inf.db
		opts = append(opts,
			genesis.WithBundleStore(versionsstore.NewPostgres(db, genesis.ReferenceAddress)),
			genesis.WithStoreProvider(func(registry domain.Address) versions.BundleStore {
				return versionsstore.NewPostgres(db, registry)
			}),
		)
	}
	var keys deployment.KeyStore
	switch {
	case inf.redis != nil:
		keys = deploymentstore.NewRedis(inf.redis.Client, genesis.CoordinatorAddress)
	case inf.db != nil:
		keys = deploymentstore.NewPostgres(inf.db, genesis.CoordinatorAddress)
	}
	if keys != nil {
		opts = append(opts, genesis.WithKeyStore(keys))
	}
	return opts
}

func healthChecks(inf *infra) []httptransport.HealthCheck {
	var checks []httptransport.HealthCheck
	if inf.db != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "postgres", Check: inf.db.PingContext})
	}
	if inf.redis != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Check: inf.redis.Health})
	}
	if inf.producer != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "kafka", Check: inf.producer.Health})
	}
	return checks
}

func modules(c *chain.Chain, network *genesis.Network, pub *publisher.Publisher, complianceMetrics *compliancemetrics.Metrics, log *slog.Logger) []httptransport.Module {
	versionsSvc := versionsservice.New(c,
		versionsservice.WithLogger(log),
		versionsservice.WithAuditPublisher(pub),
		versionsservice.WithMetrics(versionsmetrics.New()),
	)
	deploymentSvc := deploymentservice.New(c, network.Coordinator,
		deploymentservice.WithLogger(log),
		deploymentservice.WithAuditPublisher(pub),
		deploymentservice.WithMetrics(deploymentmetrics.New()),
	)
	complianceSvc := complianceservice.New(c,
		complianceservice.WithLogger(log),
		complianceservice.WithAuditPublisher(pub),
		complianceservice.WithMetrics(complianceMetrics),
	)
	eligibilitySvc := eligibilityservice.New(c,
		eligibilityservice.WithLogger(log),
		eligibilityservice.WithAuditPublisher(pub),
		eligibilityservice.WithMetrics(eligibilitymetrics.New()),
	)
	assetSvc := assetservice.New(c,
		assetservice.WithLogger(log),
		assetservice.WithAuditPublisher(pub),
		assetservice.WithMetrics(assetmetrics.New()),
	)
	return []httptransport.Module{
		versionshandler.New(versionsSvc, log),
		deploymenthandler.New(deploymentSvc, log),
		compliancehandler.New(complianceSvc, log),
		eligibilityhandler.New(eligibilitySvc, log),
		assethandler.New(assetSvc, log),
	}
}
