package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/mtlprog/suiledger/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might affect defaults
	for _, key := range []string{"RPC_URL", "DATABASE_URL", "HTTP_PORT", "RPC_RETRY_MAX", "RPC_RATE_LIMIT", "WATCH_ADDRESSES", "LOG_FORMAT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.RPCURL != "https://fullnode.devnet.sui.io:443" {
		t.Errorf("RPCURL = %q, want default", cfg.RPCURL)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.RPCRetryMax != 5 {
		t.Errorf("RPCRetryMax = %d, want 5", cfg.RPCRetryMax)
	}
	if cfg.RPCRetryBaseDelay != 500*time.Millisecond {
		t.Errorf("RPCRetryBaseDelay = %v, want 500ms", cfg.RPCRetryBaseDelay)
	}
	if cfg.RPCRateLimit != 20 {
		t.Errorf("RPCRateLimit = %v, want 20", cfg.RPCRateLimit)
	}
	if cfg.RPCBatchSize != 50 || cfg.RPCBatchConcurrency != 4 {
		t.Errorf("batch = %d/%d, want 50/4", cfg.RPCBatchSize, cfg.RPCBatchConcurrency)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if len(cfg.WatchAddresses) != 0 {
		t.Errorf("WatchAddresses = %v, want empty", cfg.WatchAddresses)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RPC_URL", "http://localhost:9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/testdb")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RPC_RETRY_MAX", "10")
	t.Setenv("RPC_RETRY_BASE_DELAY", "5s")
	t.Setenv("RPC_RATE_LIMIT", "2.5")
	t.Setenv("WATCH_ADDRESSES", " 0xme, ,0xbob ")
	t.Setenv("REFRESH_INTERVAL", "5m")

	cfg := Load()

	if cfg.RPCURL != "http://localhost:9000" {
		t.Errorf("RPCURL = %q, want override", cfg.RPCURL)
	}
	if cfg.DatabaseURL != "postgres://localhost/testdb" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.RPCRetryMax != 10 {
		t.Errorf("RPCRetryMax = %d, want 10", cfg.RPCRetryMax)
	}
	if cfg.RPCRetryBaseDelay != 5*time.Second {
		t.Errorf("RPCRetryBaseDelay = %v, want 5s", cfg.RPCRetryBaseDelay)
	}
	if cfg.RPCRateLimit != 2.5 {
		t.Errorf("RPCRateLimit = %v, want 2.5", cfg.RPCRateLimit)
	}
	if !slices.Equal(cfg.WatchAddresses, []string{"0xme", "0xbob"}) {
		t.Errorf("WatchAddresses = %v, want [0xme 0xbob]", cfg.WatchAddresses)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Errorf("RefreshInterval = %v, want 5m", cfg.RefreshInterval)
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("RPC_RETRY_MAX", "not-a-number")
	t.Setenv("RPC_RETRY_BASE_DELAY", "invalid-duration")
	t.Setenv("RPC_BATCH_SIZE", "-3")
	t.Setenv("RPC_RATE_LIMIT", "fast")

	cfg := Load()

	if cfg.RPCRetryMax != 5 {
		t.Errorf("RPCRetryMax = %d, want default 5 on invalid input", cfg.RPCRetryMax)
	}
	if cfg.RPCRetryBaseDelay != 500*time.Millisecond {
		t.Errorf("RPCRetryBaseDelay = %v, want default 500ms on invalid input", cfg.RPCRetryBaseDelay)
	}
	if cfg.RPCBatchSize != 50 {
		t.Errorf("RPCBatchSize = %d, want default 50 on negative input", cfg.RPCBatchSize)
	}
	if cfg.RPCRateLimit != 20 {
		t.Errorf("RPCRateLimit = %v, want default 20 on invalid input", cfg.RPCRateLimit)
	}
}

func TestCoinRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coins.yaml")
	content := "- type: 0xabc::usdc::USDC\n  symbol: USDC\n  decimals: 6\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	r := Config{CoinRegistryFile: path}.CoinRegistry()
	usdc := domain.CoinTypeTag{Package: "0xabc", Module: "usdc", Name: "USDC"}
	if got := r.Decimals(usdc); got != 6 {
		t.Errorf("Decimals(USDC) = %d, want 6", got)
	}

	missing := Config{CoinRegistryFile: filepath.Join(t.TempDir(), "nope.yaml")}.CoinRegistry()
	if missing.Len() != 0 {
		t.Errorf("fallback registry Len() = %d, want 0", missing.Len())
	}
}
