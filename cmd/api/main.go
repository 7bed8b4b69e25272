package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventbooking/config"
	_ "eventbooking/docs"
	"eventbooking/internal/adapters/auth"
	"eventbooking/internal/adapters/ratelimit"
	"eventbooking/internal/adapters/ticket"
	httpdelivery "eventbooking/internal/delivery/http"
	"eventbooking/internal/delivery/http/controllers"
	"eventbooking/internal/domain"
	"eventbooking/internal/monitoring"
	"eventbooking/internal/repository/memory"
	"eventbooking/internal/repository/postgres"
	"eventbooking/internal/services"

	"github.com/redis/go-redis/v9"
)

type repositories struct {
	users    domain.UserRepository
	events   domain.EventRepository
	bookings domain.BookingRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	repos, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("store", "store", cfg.Store, "err", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	tokens := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	authService := services.NewAuthService(repos.users, hasher, tokens, cfg.JWTExpiry, cfg.RequestTimeout)
	eventService := services.NewEventService(repos.events, cfg.RequestTimeout)
	bookingService := services.NewBookingService(repos.bookings, repos.events, ticket.NewPDFRenderer(), monitoring.BookingMetrics{}, cfg.RequestTimeout)

	routerCfg := httpdelivery.RouterConfig{
		Logger:         logger,
		Verifier:       tokens,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		Auth:           controllers.NewAuthController(logger, authService),
		Events:         controllers.NewEventController(logger, eventService),
		Bookings:       controllers.NewBookingController(logger, bookingService),
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "err", err)
			os.Exit(1)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		routerCfg.Limiter = ratelimit.NewLimiter(client, cfg.RateLimitPerMinute, time.Minute)
		logger.Info("rate limiting enabled", "per_minute", cfg.RateLimitPerMinute)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpdelivery.NewRouter(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		return
	}
	logger.Info("server stopped")
}

// openStore returns the repositories for cfg.Store. The *sql.DB is nil for the memory store.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories, *sql.DB, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return repositories{users: store.Users(), events: store.Events(), bookings: store.Bookings()}, nil, nil
	}

	db, err := postgres.Open(ctx, cfg.DBUrl, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnectTimeout:  cfg.DBConnectTimeout,
	})
	if err != nil {
		return repositories{}, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return repositories{}, nil, err
	}
	logger.Info("connected to postgres")
	return repositories{
		users:    postgres.NewUserRepository(db),
		events:   postgres.NewEventRepository(db),
		bookings: postgres.NewBookingRepository(db),
	}, db, nil
}
