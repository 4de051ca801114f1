package coin

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mtlprog/suiledger/internal/domain"
)

// Info describes how a known coin type is displayed.
type Info struct {
	Type     string `yaml:"type"`
	Symbol   string `yaml:"symbol"`
	Decimals int32  `yaml:"decimals"`
}

// Registry maps coin types to their display metadata.
// The native coin is always known; unknown coins have denomination 1.
type Registry struct {
	coins map[string]Info
}

// NewRegistry creates a registry from the given coin infos. Infos with an
// unparseable type are skipped with a warning.
func NewRegistry(infos ...Info) *Registry {
	r := &Registry{coins: make(map[string]Info, len(infos))}
	for _, info := range infos {
		tag, err := ParseCoinType(info.Type)
		if err != nil {
			slog.Warn("skipping coin registry entry", "type", info.Type, "error", err)
			continue
		}
		if info.Decimals < 0 {
			slog.Warn("skipping coin registry entry with negative decimals", "type", info.Type, "decimals", info.Decimals)
			continue
		}
		if info.Symbol == "" {
			info.Symbol = tag.Symbol()
		}
		info.Type = tag.Canonical()
		r.coins[registryKey(tag)] = info
	}
	return r
}

// LoadRegistryFile reads a YAML list of coin infos.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading coin registry %s: %w", path, err)
	}
	var infos []Info
	if err := yaml.Unmarshal(data, &infos); err != nil {
		return nil, fmt.Errorf("parsing coin registry %s: %w", path, err)
	}
	return NewRegistry(infos...), nil
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns a registry that knows only the native coin.
func DefaultRegistry() *Registry { return defaultRegistry }

// Decimals returns the number of fractional digits of the coin's display unit.
func (r *Registry) Decimals(tag domain.CoinTypeTag) int32 {
	if tag.IsNative() {
		return domain.NativeCoinDecimals
	}
	if r != nil {
		if info, ok := r.coins[registryKey(tag)]; ok {
			return info.Decimals
		}
	}
	return 0
}

// Denomination returns the factor between the smallest unit and the display unit.
func (r *Registry) Denomination(tag domain.CoinTypeTag) decimal.Decimal {
	return decimal.New(1, r.Decimals(tag))
}

// Symbol returns the display symbol for the coin.
func (r *Registry) Symbol(tag domain.CoinTypeTag) string {
	if r != nil {
		if info, ok := r.coins[registryKey(tag)]; ok {
			return info.Symbol
		}
	}
	return tag.Symbol()
}

// Len returns the number of configured coins, excluding the built-in native coin.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.coins)
}

// registryKey identifies a coin type regardless of how its package address is padded.
func registryKey(tag domain.CoinTypeTag) string {
	return normalizePackage(tag.Package) + "::" + tag.Module + "::" + tag.Name
}
