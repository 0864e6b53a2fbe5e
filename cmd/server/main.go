package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sheikh-saqib/commission-ledger/internal/api"
	"github.com/sheikh-saqib/commission-ledger/internal/config"
	"github.com/sheikh-saqib/commission-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/commission-ledger/internal/ledger"
	"github.com/sheikh-saqib/commission-ledger/internal/logger"
	"github.com/sheikh-saqib/commission-ledger/internal/storage"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	os.Exit(exitCode(log, run(cfg, log)))
}

// exitCode logs a failed run and flushes the logger before the process exits.
func exitCode(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("server stopped", zap.Error(err))
		code = 1
	}
	_ = log.Sync()
	return code
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	newID, err := ledger.NewIDGenerator(cfg.Ledger.IDStrategy, time.Now)
	if err != nil {
		return err
	}

	opts := []ledger.Option{
		ledger.WithLogger(log.Named("ledger")),
		ledger.WithIDGenerator(newID),
		ledger.WithFixedMonthlyFee(cfg.Ledger.FixedMonthlyFee),
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Compression)
		if err != nil {
			return err
		}
		defer publisher.Close()

		opts = append(opts, ledger.WithPublisher(publisher))
		log.Info("publishing ledger events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	ledgerService := ledger.NewLedger(store, opts...)
	handler := api.NewHandler(ledgerService, log.Named("http"))

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      c.Handler(handler.Router()),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
