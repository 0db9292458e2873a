// Command sm-server starts the Sales Matrix mirror server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesmatrix/sales-matrix/internal/config"
	"github.com/salesmatrix/sales-matrix/internal/migrate"
	"github.com/salesmatrix/sales-matrix/internal/repository/postgres"
	smhttp "github.com/salesmatrix/sales-matrix/internal/server/http"
	"github.com/salesmatrix/sales-matrix/internal/server/ws"
	"github.com/salesmatrix/sales-matrix/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and serves the mirror API
// and the chat relay over a single HTTP listener.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Flags override the config file.
	addr := flag.String("addr", cfg.Server.Addr, "listen address")
	dsn := flag.String("dsn", cfg.Server.DSN, "PostgreSQL DSN")
	jwtKey := flag.String("jwt-key", cfg.Server.JWTKey, "HS256 signing key (required)")
	accessTTL := flag.Duration("access-ttl", cfg.Server.AccessTTL, "access token TTL")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", *addr),
	)

	if *jwtKey == "" {
		logger.Fatal("missing jwt signing key (--jwt-key)")
	}
	if *dsn == "" {
		logger.Fatal("missing PostgreSQL DSN (--dsn)")
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, *dsn); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	pool, err := pgxpool.New(ctx, *dsn)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	db := &postgres.DB{Pool: pool}
	userRepo := postgres.NewUserRepo(db)
	productRepo := postgres.NewProductRepo(db)
	passcodeRepo := postgres.NewPasscodeRepo(db)
	presenceRepo := postgres.NewPresenceRepo(db)
	auditRepo := postgres.NewAuditRepo(db)

	// Services
	dirSvc := service.NewDirectoryService(userRepo, auditRepo, []byte(*jwtKey), *accessTTL)
	codeSvc := service.NewPasscodeService(passcodeRepo, service.LogMailer{Log: logger}, logger)
	aiSvc := service.NewAIService(cfg.Server.AI.URL, cfg.Server.AI.Key, cfg.Server.AI.Model, nil)

	// Chat relay
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	srv := smhttp.New(dirSvc, userRepo, productRepo, presenceRepo, codeSvc, aiSvc, hub, logger)

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
