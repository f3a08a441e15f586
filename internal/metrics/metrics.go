// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchd_commands_total",
		Help: "Engine commands processed, by command type.",
	}, []string{"type"})

	FailRepliesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchd_fail_replies_total",
		Help: "Commands rejected with a fail reply.",
	})

	GroupsFormedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchd_groups_formed_total",
		Help: "Ready groups formed by the matcher.",
	})

	GamesStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchd_games_started_total",
		Help: "Matches that reached the gaming phase.",
	})

	GamesFinishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchd_games_finished_total",
		Help: "Matches torn down by game_over or game_close.",
	})

	ActiveGames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchd_active_games",
		Help: "Games currently in the prestart or gaming phase.",
	})

	OutboundDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchd_outbound_dropped_total",
		Help: "Outbound bus messages dropped to queue overflow.",
	})

	PersistBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchd_persist_login_batch_size",
		Help:    "Users inserted per login batch flush.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	})
)
