package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Bus
	BrokerURL    string
	ClientID     string
	OutboundSize int

	// Database
	DatabaseURL string

	// Ops HTTP
	OpsAddr string

	// Dedicated game server
	GameServerBin string
	ServerName    string

	// Engine ticks
	FastTick    time.Duration
	SlowTick    time.Duration
	PersistTick time.Duration

	// Matchmaking
	EloK          int
	ScoreInterval int
	MatchSize     int
	TeamSize1v1   int
	TeamSize5v5   int

	// Draft timers (seconds)
	BanHeroTime      int
	ChooseHeroTime   int
	NGChooseHeroTime int
	ReadyToStartTime int
	JumpBuffer       int

	// Dedicated server port window
	PortMin int
	PortMax int
}

func Load() (*Config, error) {
	// Optional .env for local development; real deployments set the environment.
	_ = godotenv.Load()

	cfg := &Config{
		BrokerURL:        getEnv("MQTT_BROKER_URL", "tcp://localhost:1883"),
		ClientID:         getEnv("MQTT_CLIENT_ID", "matchd"),
		OutboundSize:     getEnvInt("BUS_OUTBOUND_SIZE", 4096),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		OpsAddr:          getEnv("OPS_ADDR", "0.0.0.0:8080"),
		GameServerBin:    getEnv("GAME_SERVER_BIN", ""),
		ServerName:       getEnv("SERVER_NAME", "127.0.0.1"),
		FastTick:         getEnvDuration("FAST_TICK_MS", 200) * time.Millisecond,
		SlowTick:         getEnvDuration("SLOW_TICK_MS", 5000) * time.Millisecond,
		PersistTick:      getEnvDuration("PERSIST_TICK_MS", 1000) * time.Millisecond,
		EloK:             getEnvInt("ELO_K", 20),
		ScoreInterval:    getEnvInt("SCORE_INTERVAL", 2000),
		MatchSize:        getEnvInt("MATCH_SIZE", 2),
		TeamSize1v1:      getEnvInt("MATCH_TEAM_SIZE_1V1", 1),
		TeamSize5v5:      getEnvInt("MATCH_TEAM_SIZE_5V5", 5),
		BanHeroTime:      getEnvInt("BAN_HERO_TIME", 25),
		ChooseHeroTime:   getEnvInt("CHOOSE_HERO_TIME", 30),
		NGChooseHeroTime: getEnvInt("NG_CHOOSE_HERO_TIME", 90),
		ReadyToStartTime: getEnvInt("READY_TO_START_TIME", 10),
		JumpBuffer:       getEnvInt("JUMP_BUFFER", -5),
		PortMin:          getEnvInt("GAME_PORT_MIN", 7777),
		PortMax:          getEnvInt("GAME_PORT_MAX", 65500),
	}

	if cfg.BrokerURL == "" {
		return nil, fmt.Errorf("MQTT_BROKER_URL is required")
	}
	if cfg.MatchSize != 2 {
		return nil, fmt.Errorf("MATCH_SIZE must be 2, got %d", cfg.MatchSize)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback))
}
