package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mtlprog/suiledger/internal/coin"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	RPCURL              string
	RPCRetryMax         int
	RPCRetryBaseDelay   time.Duration
	RPCTimeout          time.Duration
	RPCRateLimit        float64
	RPCBurst            int
	RPCBatchSize        int
	RPCBatchConcurrency int
	ObjectCacheTTL      time.Duration
	DatabaseURL         string
	HTTPPort            string
	AdminAPIKey         string
	WatchAddresses      []string
	RefreshInterval     time.Duration
	CoinRegistryFile    string
	LogLevel            string
	LogFormat           string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		RPCURL:              envOrDefault("RPC_URL", "https://fullnode.devnet.sui.io:443"),
		RPCRetryMax:         envOrDefaultInt("RPC_RETRY_MAX", 5),
		RPCRetryBaseDelay:   envOrDefaultDuration("RPC_RETRY_BASE_DELAY", 500*time.Millisecond),
		RPCTimeout:          envOrDefaultDuration("RPC_TIMEOUT", 30*time.Second),
		RPCRateLimit:        envOrDefaultFloat("RPC_RATE_LIMIT", 20),
		RPCBurst:            envOrDefaultInt("RPC_BURST", 10),
		RPCBatchSize:        envOrDefaultInt("RPC_BATCH_SIZE", 50),
		RPCBatchConcurrency: envOrDefaultInt("RPC_BATCH_CONCURRENCY", 4),
		ObjectCacheTTL:      envOrDefaultDuration("OBJECT_CACHE_TTL", 30*time.Second),
		DatabaseURL:         envOrDefault("DATABASE_URL", ""),
		HTTPPort:            envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:         envOrDefault("ADMIN_API_KEY", ""),
		WatchAddresses:      envList("WATCH_ADDRESSES"),
		RefreshInterval:     envOrDefaultDuration("REFRESH_INTERVAL", time.Minute),
		CoinRegistryFile:    envOrDefault("COIN_REGISTRY_FILE", ""),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
		LogFormat:           envOrDefault("LOG_FORMAT", "json"),
	}
}

// CoinRegistry loads the configured coin registry file, or the built-in
// registry when none is configured or the file cannot be read.
func (c Config) CoinRegistry() *coin.Registry {
	if c.CoinRegistryFile == "" {
		return coin.DefaultRegistry()
	}
	r, err := coin.LoadRegistryFile(c.CoinRegistryFile)
	if err != nil {
		slog.Warn("invalid coin registry, using built-in", "path", c.CoinRegistryFile, "error", err)
		return coin.DefaultRegistry()
	}
	slog.Info("coin registry loaded", "path", c.CoinRegistryFile, "coins", r.Len())
	return r
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			slog.Warn("invalid number env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return f
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

// envList splits a comma-separated variable, dropping blanks.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
