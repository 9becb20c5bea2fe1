package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/protoguide/protoguide/internal/auth"
	"github.com/protoguide/protoguide/internal/config"
	"github.com/protoguide/protoguide/internal/db/postgres"
	dbRedis "github.com/protoguide/protoguide/internal/db/redis"
	"github.com/protoguide/protoguide/internal/domain"
	logpkg "github.com/protoguide/protoguide/internal/logger"
	"github.com/protoguide/protoguide/internal/metrics"
	agencyrepo "github.com/protoguide/protoguide/internal/repository/agency"
	historyrepo "github.com/protoguide/protoguide/internal/repository/history"
	identityrepo "github.com/protoguide/protoguide/internal/repository/identity"
	protocolrepo "github.com/protoguide/protoguide/internal/repository/protocol"
	quotarepo "github.com/protoguide/protoguide/internal/repository/quota"
	chiTransport "github.com/protoguide/protoguide/internal/transport/chi"
	openaiTransport "github.com/protoguide/protoguide/internal/transport/openai"
	agencyuc "github.com/protoguide/protoguide/internal/usecase/agency"
	healthuc "github.com/protoguide/protoguide/internal/usecase/health"
	historyuc "github.com/protoguide/protoguide/internal/usecase/history"
	identityuc "github.com/protoguide/protoguide/internal/usecase/identity"
	quotauc "github.com/protoguide/protoguide/internal/usecase/quota"
	searchuc "github.com/protoguide/protoguide/internal/usecase/search"
	synthesisuc "github.com/protoguide/protoguide/internal/usecase/synthesis"
	"github.com/protoguide/protoguide/internal/version"
)

func serveCommand(c *cli.Context) error {
	env := c.String("env")

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting protoguide API server",
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("quota_driver", cfg.Quota.Driver),
		zap.Bool("synthesis_enabled", cfg.LLM.Enabled()),
	)

	ctx := c.Context

	pg, err := postgres.NewClient(postgres.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime(),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = pg.Close() }()

	if err := pg.WaitForReady(ctx, cfg.Database.Readiness()); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	probes := []healthuc.Probe{healthuc.FromPinger("postgres", true, pg)}

	// Quota counter store. With postgres the users row is authoritative;
	// with redis the identity snapshot is overlaid from the counter hash.
	var (
		quotaStore    quotauc.Store
		quotaSnapshot identityuc.QuotaSnapshot
	)
	switch cfg.Quota.Driver {
	case config.QuotaDriverRedis:
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Quota.RedisAddrs,
			Password: cfg.Quota.RedisPass,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis store: %w", err)
		}
		defer rs.Close()
		if err := rs.WaitForReady(ctx, cfg.Database.Readiness()); err != nil {
			return fmt.Errorf("redis not ready: %w", err)
		}
		quotaStore = quotarepo.NewRedis(rs, cfg.Quota.TTL())
		probes = append(probes, healthuc.FromPinger("redis", true, rs))
		logger.Info("Connected to redis quota store", zap.Strings("addrs", cfg.Quota.RedisAddrs))
	default:
		quotaStore = quotarepo.NewPostgres(pg.DB())
	}

	metrics.RegisterCompletionMetrics()
	metrics.RegisterSearchMetrics()

	// Repositories
	protocolRepo := protocolrepo.New(pg.DB())
	agencyRepo := agencyrepo.New(pg.DB())
	identityRepo := identityrepo.New(pg.DB())
	historyRepo := historyrepo.New(pg.DB())

	// Use cases
	guard := quotauc.New(quotaStore, quotauc.WithLimits(quotauc.Limits{
		Free: cfg.Quota.FreeLimit,
		Paid: cfg.Quota.PaidLimit,
	}))
	if cfg.Quota.Driver == config.QuotaDriverRedis {
		quotaSnapshot = guard
	}

	synth, completerProbe := buildSynthesizer(cfg.LLM, logger)
	if completerProbe != nil {
		probes = append(probes, *completerProbe)
	}

	agencySvc := agencyuc.New(agencyRepo)
	historySvc := historyuc.New(historyRepo, cfg.History.WriteTimeout())
	identitySvc := identityuc.New(identityRepo, quotaSnapshot, agencyRepo)
	searchSvc := searchuc.New(protocolRepo, agencyRepo, synth, guard, historySvc)
	healthSvc := healthuc.New(healthuc.DefaultProbeTimeout, probes...)

	tokens, err := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	server := chiTransport.NewServer(chiTransport.Services{
		Search:     searchSvc,
		Agencies:   agencySvc,
		Identities: identitySvc,
		History:    historySvc,
		Quota:      guard,
		Health:     healthSvc,
		Tokens:     tokens,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout(),
		WriteTimeout: cfg.HTTP.WriteTimeout(),
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if err := historySvc.Wait(shutdownCtx); err != nil {
		logger.Warn("History writes still pending at shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// buildSynthesizer wires the completion transport behind the synthesis use case.
// Without an API key every answer is unavailable and no probe is registered.
func buildSynthesizer(cfg config.LLMConfig, logger *zap.Logger) (*synthesisuc.Service, *healthuc.Probe) {
	synthCfg := domain.SynthesisConfig{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout(),
	}

	if !cfg.Enabled() {
		logger.Warn("LLM api key not configured, answers disabled")
		return synthesisuc.New(nil, synthCfg), nil
	}

	completer := openaiTransport.NewCompleter(&openaiTransport.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})

	var opts []synthesisuc.Option
	if cfg.RequestsPerSecond > 0 {
		opts = append(opts, synthesisuc.WithLimiter(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)))
	}

	probe := healthuc.FromPinger("completion", false, completer)
	return synthesisuc.New(completer, synthCfg, opts...), &probe
}
