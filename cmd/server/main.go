package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/config"
	"github.com/riftlab/matchd/internal/engine"
	"github.com/riftlab/matchd/internal/launcher"
	"github.com/riftlab/matchd/internal/logger"
	"github.com/riftlab/matchd/internal/metrics"
	"github.com/riftlab/matchd/internal/ops"
	"github.com/riftlab/matchd/internal/store"
)

func main() {
	logger.Init()
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence: optional, the service runs in-memory without it.
	var writer store.Writer = store.NopWriter{}
	if cfg.DatabaseURL != "" {
		db, err := store.NewConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		writer = store.NewGormWriter(db)
	} else {
		log.Warn().Msg("DATABASE_URL not set, persistence disabled")
	}
	sink := store.NewSink(writer, cfg.PersistTick, log)
	go sink.Run(ctx)

	mq, err := bus.ConnectMQTT(bus.MQTTOptions{
		BrokerURL:    cfg.BrokerURL,
		ClientID:     cfg.ClientID,
		OutboundSize: cfg.OutboundSize,
		OnDrop:       metrics.OutboundDroppedTotal.Inc,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to broker")
	}
	defer mq.Close()

	feed := ops.NewFeedHub(log)
	go feed.Run(ctx)

	eng := engine.New(
		engine.FromConfig(cfg),
		bus.Fanout{mq, feed},
		sink.In(),
		launcher.NewExec(cfg.GameServerBin, log),
		log,
	)
	go eng.Run(ctx)

	if err := mq.Subscribe(eng.Dispatch); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe")
	}

	if err := ops.Serve(ctx, cfg.OpsAddr, ops.NewRouter(eng, feed, log), log); err != nil {
		log.Fatal().Err(err).Msg("ops server failed")
	}
	log.Info().Msg("shutdown complete")
}
