// Package config loads the solver and façade's environment-driven
// configuration through viper, following the same AutomaticEnv shape the
// rest of the retrieved corpus uses for CLI-less daemons. No env prefix is
// set: variables are read under their bare names.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/intentclob/solver/protocol"
)

// Config is every environment-sourced setting the engine and façade need.
// The process takes no flags; everything here comes from the environment.
type Config struct {
	RPCURL   string
	RPCWSURL string
	APIPort  string

	PackageId         protocol.Hex32
	ProtocolConfigId  protocol.Hex32
	DeepbookPackageId protocol.Hex32
	DeepFeeCoin       protocol.Hex32

	SolverAddress    protocol.Address
	SolverPrivateKey string // 64-char hex, never logged
	UserPrivateKey   string // optional test-path key for direct /intent/create calls, never logged

	MinProfitBps    uint64
	MaxGasPrice     uint64
	PollingInterval time.Duration
	EnableEvents    bool

	// AssetTypeAliases maps a human alias ("SUI", "USDC", ...) to its
	// full Move type tag, sourced from ASSET_TYPE_<ALIAS> env vars.
	AssetTypeAliases map[string]protocol.AssetType

	// PoolIdOverrides maps an "A_B" alias pair to an explicit pool
	// object id, sourced from POOL_ID_<A>_<B> env vars.
	PoolIdOverrides map[string]protocol.PoolId
}

func defaultAliases() map[string]protocol.AssetType {
	return map[string]protocol.AssetType{
		"SUI":    "0x2::sui::SUI",
		"USDC":   "test::usdc::USDC",
		"DBUSDC": "deepbook::usdc::USDC",
		"DEEP":   "deepbook::deep::DEEP",
	}
}

// Load reads the process environment into a Config, applying the same
// defaults the engine and façade fall back to when unset.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("API_PORT", "8080")
	v.SetDefault("MIN_PROFIT_BPS", 50)
	v.SetDefault("MAX_GAS_PRICE", 50_000_000)
	v.SetDefault("POLLING_INTERVAL_MS", 10_000)
	v.SetDefault("ENABLE_EVENTS", true)

	cfg := Config{
		RPCURL:           v.GetString("RPC_URL"),
		RPCWSURL:         v.GetString("RPC_WS_URL"),
		APIPort:          v.GetString("API_PORT"),
		MinProfitBps:     v.GetUint64("MIN_PROFIT_BPS"),
		MaxGasPrice:      v.GetUint64("MAX_GAS_PRICE"),
		PollingInterval:  time.Duration(v.GetInt64("POLLING_INTERVAL_MS")) * time.Millisecond,
		EnableEvents:     v.GetBool("ENABLE_EVENTS"),
		SolverPrivateKey: v.GetString("SOLVER_PRIVATE_KEY"),
		UserPrivateKey:   v.GetString("USER_PRIVATE_KEY"),
		AssetTypeAliases: defaultAliases(),
		PoolIdOverrides:  map[string]protocol.PoolId{},
	}

	var err error
	if s := v.GetString("PACKAGE_ID"); s != "" {
		if cfg.PackageId, err = protocol.ParseHex32(s); err != nil {
			return Config{}, err
		}
	}
	if s := v.GetString("PROTOCOL_CONFIG_ID"); s != "" {
		if cfg.ProtocolConfigId, err = protocol.ParseHex32(s); err != nil {
			return Config{}, err
		}
	}
	if s := v.GetString("DEEPBOOK_PACKAGE_ID"); s != "" {
		if cfg.DeepbookPackageId, err = protocol.ParseHex32(s); err != nil {
			return Config{}, err
		}
	}
	if s := v.GetString("DEEP_FEE_COIN_ID"); s != "" {
		if cfg.DeepFeeCoin, err = protocol.ParseHex32(s); err != nil {
			return Config{}, err
		}
	}
	if s := v.GetString("SOLVER_ADDRESS"); s != "" {
		if cfg.SolverAddress, err = protocol.ParseHex32(s); err != nil {
			return Config{}, err
		}
	}

	applyEnvironOverrides(&cfg)
	return cfg, nil
}

// applyEnvironOverrides scans the process environment directly for the
// ASSET_TYPE_<ALIAS> and POOL_ID_<A>_<B> families, whose key set isn't
// known ahead of time so viper's static Get/SetDefault calls can't cover
// them.
func applyEnvironOverrides(cfg *Config) {
	for _, kv := range os.Environ() {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || val == "" {
			continue
		}
		switch {
		case strings.HasPrefix(key, "ASSET_TYPE_"):
			alias := strings.TrimPrefix(key, "ASSET_TYPE_")
			cfg.AssetTypeAliases[alias] = protocol.AssetType(val)
		case strings.HasPrefix(key, "POOL_ID_"):
			pairAlias := strings.TrimPrefix(key, "POOL_ID_")
			id, err := protocol.ParseHex32(val)
			if err != nil {
				continue
			}
			cfg.PoolIdOverrides[pairAlias] = id
		}
	}
}

// ResolveAlias returns the asset type for alias if known, otherwise
// treats alias as a raw Move type tag and passes it through unchanged.
func (c Config) ResolveAlias(alias string) protocol.AssetType {
	if t, ok := c.AssetTypeAliases[strings.ToUpper(alias)]; ok {
		return t
	}
	return protocol.AssetType(alias)
}
