package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/dossier-issuance/internal/activity"
	kafkaactivity "github.com/heartmarshall/dossier-issuance/internal/adapter/kafka/activity"
	"github.com/heartmarshall/dossier-issuance/internal/adapter/postgres"
	activityrepo "github.com/heartmarshall/dossier-issuance/internal/adapter/postgres/activity"
	"github.com/heartmarshall/dossier-issuance/internal/adapter/postgres/district"
	"github.com/heartmarshall/dossier-issuance/internal/adapter/postgres/document"
	"github.com/heartmarshall/dossier-issuance/internal/adapter/postgres/pricing"
	"github.com/heartmarshall/dossier-issuance/internal/adapter/postgres/sequence"
	"github.com/heartmarshall/dossier-issuance/internal/adapter/renderer/remote"
	"github.com/heartmarshall/dossier-issuance/internal/adapter/renderer/textrender"
	"github.com/heartmarshall/dossier-issuance/internal/adapter/storage/gcs"
	"github.com/heartmarshall/dossier-issuance/internal/adapter/storage/local"
	"github.com/heartmarshall/dossier-issuance/internal/auth"
	"github.com/heartmarshall/dossier-issuance/internal/config"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"github.com/heartmarshall/dossier-issuance/internal/metrics"
	"github.com/heartmarshall/dossier-issuance/internal/service/issuance"
	"github.com/heartmarshall/dossier-issuance/internal/transport/middleware"
	"github.com/heartmarshall/dossier-issuance/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires the issuance service and serves HTTP until ctx is
// cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Backend),
		slog.String("renderer", cfg.Renderer.Backend),
		slog.Bool("kafka", cfg.Kafka.Enabled()),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, cleanup, err := newHandler(ctx, cfg, pool, reg, logger)
	defer cleanup()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// newHandler wires the issuance service over pool and returns the HTTP API.
// cleanup releases the store, publisher and limiter; it is safe to call on error.
func newHandler(
	ctx context.Context,
	cfg *config.Config,
	pool *pgxpool.Pool,
	reg *prometheus.Registry,
	logger *slog.Logger,
) (http.Handler, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	format := domain.FileFormat{Extension: cfg.Renderer.Extension, ContentType: cfg.Renderer.ContentType}
	render, err := newRenderer(cfg.Renderer, format, logger)
	if err != nil {
		return nil, cleanup, fmt.Errorf("init renderer: %w", err)
	}

	store, closeStore, err := newStore(ctx, cfg.Storage, render.Format(), logger)
	if err != nil {
		return nil, cleanup, fmt.Errorf("init storage: %w", err)
	}
	closers = append(closers, closeStore)

	health := rest.NewHealthHandler(BuildVersion()).
		Register("database", pool).
		Register("artifact_store", store)

	activityLog := activityrepo.New(pool)
	sinks := activity.Multi{activityLog}
	if cfg.Kafka.Enabled() {
		pub, err := kafkaactivity.New(cfg.Kafka, logger)
		if err != nil {
			return nil, cleanup, fmt.Errorf("init kafka publisher: %w", err)
		}
		closers = append(closers, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Kafka.DeliveryTimeout)
			defer cancel()
			pub.Close(closeCtx)
		})
		sinks = append(sinks, pub)
		health.RegisterOptional("activity_broker", pub)
	}

	m := metrics.New(reg)
	docs := document.New(pool)
	gateway := issuance.NewGateway(logger, store, docs, sinks, m)

	svc := issuance.NewService(
		logger,
		docs,
		sequence.New(pool),
		store,
		render,
		pricing.New(pool),
		district.New(pool),
		sinks,
		activityLog,
		postgres.NewTxManager(pool, postgres.WithLockTimeout(cfg.Issuance.LockTimeout)),
		postgres.Locker{},
		gateway,
		m,
		cfg.Issuance,
	)

	limiter := middleware.NewRateLimiter(5 * time.Minute)
	closers = append(closers, limiter.Stop)

	routerCfg := rest.RouterConfig{
		Documents:          rest.NewDocumentHandler(svc, logger),
		Health:             health,
		Validator:          auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL),
		RateLimiter:        limiter,
		IssueRatePerMinute: cfg.Server.IssueRatePerMinute,
		Logger:             logger,
	}
	if cfg.Metrics.Enabled {
		routerCfg.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	return rest.NewRouter(routerCfg), cleanup, nil
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

type formattedRenderer interface {
	Render(ctx context.Context, kind domain.DocumentKind, values map[string]string) ([]byte, error)
	Format() domain.FileFormat
}

func newRenderer(cfg config.RendererConfig, format domain.FileFormat, logger *slog.Logger) (formattedRenderer, error) {
	switch cfg.Backend {
	case "remote":
		return remote.New(cfg.RemoteURL, cfg.RemoteTimeout, format, logger), nil
	default:
		return textrender.Load(cfg.ManifestPath, format, logger)
	}
}

type artifactStore interface {
	Write(ctx context.Context, p string, data []byte) (int64, error)
	Verify(ctx context.Context, p string, size int64) (bool, error)
	Open(ctx context.Context, p string) (io.ReadCloser, error)
	Ping(ctx context.Context) error
}

func newStore(ctx context.Context, cfg config.StorageConfig, format domain.FileFormat, logger *slog.Logger) (artifactStore, func(), error) {
	switch cfg.Backend {
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("create gcs client: %w", err)
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Warn("close gcs client", slog.String("error", err.Error()))
			}
		}
		return gcs.New(client, cfg.GCSBucket, cfg.GCSPrefix, format.ContentType), closeFn, nil
	default:
		store, err := local.New(cfg.LocalRoot, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
