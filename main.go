package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paper-trader/auth"
	"paper-trader/config"
	"paper-trader/database"
	"paper-trader/handlers"
	"paper-trader/ledger"
	"paper-trader/money"
	"paper-trader/portfolio"
	"paper-trader/quote"
	"paper-trader/router"
	"paper-trader/session"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfgPath := ""
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger, err := config.NewLogger(cfg.App.Env)
	if err != nil {
		log.Fatal("Error creating logger: ", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Initialize the database and Redis connections.
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	rdb, err := config.InitRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	quotes, err := newQuotes(cfg.Quote, rdb, logger)
	if err != nil {
		return err
	}
	startingCash, err := money.ParseAmount(cfg.Ledger.StartingCash)
	if err != nil {
		return err
	}

	ledgerSvc := ledger.NewService(db, quotes, logger)
	h := &handlers.Handler{
		Auth:      auth.NewService(db, cfg.Security.BcryptCost, startingCash),
		Ledger:    ledgerSvc,
		Portfolio: portfolio.NewService(ledgerSvc, quotes),
		Quotes:    quotes,
		Sessions:  session.NewManager(rdb, cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL),
		Cookie:    handlers.CookieConfig{Name: cfg.Session.Cookie, Secure: cfg.Session.Secure},
		Logger:    logger,
	}

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	r, err := router.SetupRouter(h)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: cfg.App.Port, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("port", cfg.App.Port), zap.String("db", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

// newQuotes builds the configured provider, behind the Redis cache when a
// cache TTL is set.
func newQuotes(cfg config.QuoteConfig, rdb *redis.Client, logger *zap.Logger) (quote.Lookuper, error) {
	var q quote.Lookuper
	switch cfg.Provider {
	case "static":
		s, err := quote.ParseStatic(cfg.Static)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		q = quote.NewAlphaVantage(cfg.BaseURL, cfg.APIKey, cfg.RequestsPerMinute, cfg.Timeout, logger)
	}
	if cfg.CacheTTL > 0 {
		q = quote.NewCached(q, rdb, cfg.CacheTTL, logger)
	}
	return q, nil
}
