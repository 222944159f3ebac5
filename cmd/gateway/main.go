package main

import (
	"chat-relay/infrastructure/gateway"
	"chat-relay/infrastructure/ledger"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Gateway terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return exitConfig, fmt.Errorf("invalid config: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	options := badger.DefaultOptions(config.LedgerPath).WithLoggingLevel(badger.WARNING)
	if config.ReadOnly {
		options = options.WithReadOnly(true).WithBypassLockGuard(true)
	}
	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("ledger opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing ledger...")
		_ = db.Close()
	}()

	router := gateway.NewRouter(gateway.New(log, ledger.NewLocal(db, log), config.NamespaceID))
	server := &http.Server{Addr: config.Address(), Handler: router, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting gateway", "address", config.Address(), "readOnly", config.ReadOnly)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("gateway server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return exitRuntime, err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	return exitOK, nil
}
