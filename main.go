package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"worldrelay/internal/config"
	"worldrelay/internal/database/db_client"
	"worldrelay/internal/http/http_server"
	"worldrelay/internal/http/worldhandler"
	"worldrelay/internal/redis/redis_client"
	"worldrelay/internal/relayevents"
	"worldrelay/internal/services/worlds"
	"worldrelay/internal/syncevents"
	"worldrelay/internal/ws"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

//	@title			World Registry API
//	@version		1.0
//	@description	Publishes world name -> seed bindings so clients regenerate identical terrain.
//	@BasePath		/
func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Optional activity stream (Redis) and its archive (Postgres)
	var events ws.EventPublisher = relayevents.Nop{}
	if cfg.EventsEnabled || cfg.EventsArchiveEnabled {
		var redisClient *redis.Client
		redisClient, err = redis_client.NewRedisClient(cfg.RedisEventsHost, int(cfg.RedisEventsPort))
		if err != nil {
			Log.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer redisClient.Close()

		if cfg.EventsEnabled {
			publisher := relayevents.NewRedisPublisher(redisClient, 1024)
			go publisher.Run(ctx)
			events = publisher
		}

		if cfg.EventsArchiveEnabled {
			pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
			if err != nil {
				Log.Fatal("pg-open", zap.Error(err))
			}
			defer pgDb.Close()
			if err := syncevents.EnsureSchema(ctx, pgDb); err != nil {
				Log.Fatal("pg-schema", zap.Error(err))
			}
			syncevents.Run(ctx, redisClient, pgDb)
		}
	}

	// 4. World registry
	registry := worlds.NewRegistry(cfg.WorldsFile)

	// 5. Relay hub + websocket endpoint
	hub := ws.NewHub(events)
	wsSrv := ws.NewWsServer(hub, cfg.RelaySendBuffer, cfg.RelayReadLimit)

	// 6. Two listeners: relay and registry
	relayServer := http_server.NewHttpServer(ctx, "relay", cfg.RelayServerPort,
		[]http_server.RouteRegistrar{wsSrv})
	registryServer := http_server.NewHttpServer(ctx, "registry", cfg.RegistryServerPort,
		[]http_server.RouteRegistrar{worldhandler.New(registry)},
		http_server.WithCORS(), http_server.WithAPIDocs("api_specs"))

	errCh := make(chan error, 2)
	go func() { errCh <- relayServer.Start() }()
	go func() { errCh <- registryServer.Start() }()

	select {
	case <-ctx.Done():
		Log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			Log.Error("Failed to start HTTP server", zap.Error(err))
		}
	}
	_ = relayServer.Dispose()
	_ = registryServer.Dispose()
}
