package main

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"chat-relay/infrastructure/gateway"
	"chat-relay/infrastructure/httpapi"
	"chat-relay/infrastructure/ledger"
	"chat-relay/infrastructure/social"
	"chat-relay/internal"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/sink"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	config, err := internal.Load()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	signer, err := ledger.NewSigner(config.SignerSeed)
	if err != nil {
		return exitConfig, fmt.Errorf("signer error: %w", err)
	}

	// 2. Ledger (BadgerDB) when running write capable
	var capability runtime.Capability = runtime.ReadOnly{Address: signer.Address()}
	var local *ledger.Local
	var db *badger.DB
	if config.LedgerBackend == internal.BackendLocal {
		db, err = badger.Open(badger.DefaultOptions(config.LedgerPath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return exitRuntime, fmt.Errorf("ledger opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing ledger...")
			_ = db.Close()
		}()
		local = ledger.NewLocal(db, log)
		capability = runtime.WriteCapable{Ledger: local, Signer: signer}
	} else {
		log.Warn("Running read only, sending is disabled", "address", signer.Address())
	}

	// 3. Read tiers, tracker and consumer
	client := httpapi.NewHTTPClient(config.RequestTimeout)
	tiers := readTiers(config, client, local, log)

	var consumer contract.MessageConsumer = sink.NewLogConsumer(log)
	if config.ConsumerWebhookURL != "" {
		consumer = sink.NewWebhookConsumer(config.ConsumerWebhookURL, client)
	}

	// 4. Setup Supervision & Relay
	events := make(chan event.Event, config.EventBufferSize)
	supervisor := workers.NewSupervisor(log, events, config.RestartInterval)
	relay := runtime.NewRelay(log, supervisor, events, capability,
		httpapi.NewTracker(config.TrackerURL, client), consumer,
		runtime.Options{
			AgentName:            config.AgentName,
			NamespaceID:          config.NamespaceID,
			DefaultRoom:          config.DefaultRoom,
			Rooms:                config.RoomList(),
			PollInterval:         config.PollInterval,
			BatchSize:            config.PollBatchSize,
			RequestTimeout:       config.RequestTimeout,
			SeenCapacity:         config.SeenCapacity,
			EventBufferSize:      config.EventBufferSize,
			MetricInterval:       config.MetricInterval,
			LowCapacityThreshold: config.LowCapacity,
		}, tiers...)

	var socialService services.ISocialService
	if socialClient := social.NewClient(config.SocialBaseURL, config.SocialToken, client); socialClient.Configured() {
		socialService = services.NewSocialService(log, socialClient)
	}

	if db != nil && strings.EqualFold(config.LogLevel, "DEBUG") {
		debug := internal.StartDebugServer(db, config.DebugPort, "/debug/ledger", ledger.RowPrefix,
			internal.DefaultMapper, func() map[string]any { return statsOf(relay) })
		defer func() { _ = debug.Close() }()
		log.Debug("Ledger inspector started", "port", config.DebugPort)
	}

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. HTTP surface: agent actions, plus the read tiers when serving the gateway
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	gateway.NewAgentHandler(log, services.NewRelayService(log, relay), socialService).RegisterRoutes(router)
	if config.ServeGateway && local != nil {
		gateway.New(log, local, config.NamespaceID).RegisterRoutes(router)
	}
	server := &http.Server{Addr: config.Address(), Handler: router, ReadHeaderTimeout: 5 * time.Second}

	errChan := make(chan error, 2)
	go func() {
		log.Info("Starting HTTP server", "address", config.Address(), "gateway", config.ServeGateway)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = relay.Start(ctx)
	}()

	// 7. Wait for Stop or Error
	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case runErr = <-errChan:
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	relay.Stop()
	<-done

	if runErr != nil {
		return exitRuntime, runErr
	}
	log.Info("Relay stopped cleanly")
	return exitOK, nil
}

// readTiers orders the inbound sources: primary API, gateway, then the local ledger.
func readTiers(config internal.Config, client *http.Client, local *ledger.Local, log *slog.Logger) []runtime.Tier {
	var tiers []runtime.Tier
	if config.APIBaseURL != "" {
		tiers = append(tiers, runtime.Tier{Name: "api", Source: httpapi.NewMessageAPI(config.APIBaseURL, client)})
	}
	if config.GatewayBaseURL != "" {
		tiers = append(tiers, runtime.Tier{Name: "gateway", Source: httpapi.NewGateway(config.GatewayBaseURL, client)})
	}
	if local != nil {
		tiers = append(tiers, runtime.Tier{Name: "ledger", Source: ledger.NewSource(local, log)})
	}
	return tiers
}

func statsOf(relay *runtime.Relay) map[string]any {
	stats := map[string]any{"rooms": len(relay.ListRooms())}
	for t, count := range relay.Stats() {
		stats[string(t)] = count
	}
	return stats
}
