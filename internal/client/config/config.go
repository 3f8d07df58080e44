package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/paystream/internal/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Config holds runtime settings for the PayStream dashboard.
//
// Units: all intervals are time.Duration values; RPCRateLimit is in requests
// per second, zero meaning unlimited.
type Config struct {
	RPCURL        string `envconfig:"RPC_URL"`
	ChainID       int64  `envconfig:"CHAIN_ID"`
	LedgerAddress string `envconfig:"LEDGER_ADDRESS"`
	TokenAddress  string `envconfig:"TOKEN_ADDRESS"`

	KeystorePath string `envconfig:"KEYSTORE"`
	DatabasePath string `envconfig:"DATABASE"`

	TickInterval        time.Duration `envconfig:"TICK_INTERVAL"`
	ConfirmPollInterval time.Duration `envconfig:"CONFIRM_POLL_INTERVAL"`
	OnlineCheckInterval time.Duration `envconfig:"ONLINE_CHECK_INTERVAL"`

	ReadConcurrency int     `envconfig:"READ_CONCURRENCY"`
	RPCRateLimit    float64 `envconfig:"RPC_RATE_LIMIT"`

	// OwnerUnlockHash is a bcrypt hash. Empty disables the owner view lock.
	OwnerUnlockHash string `envconfig:"OWNER_UNLOCK_HASH"`

	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`
}

// LoadDefaults populates c with the HeLa testnet deployment.
func (c *Config) LoadDefaults() {
	c.RPCURL = "https://testnet-rpc.helachain.com"
	c.ChainID = common.DefaultChainID
	c.LedgerAddress = "0x5E40Fe27d3CA6BD463A408ff94c98259C03C3742"
	c.TokenAddress = "0x982961771df729EB5acACd59c0daA4CB797a4F3D"
	c.KeystorePath = filepath.Join(".paystream", "key.json")
	c.DatabasePath = filepath.Join(".paystream", "dashboard.db")
	c.TickInterval = time.Second
	c.ConfirmPollInterval = 2 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.ReadConcurrency = 4
	c.RPCRateLimit = 20
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.RPCURL == "" {
		errs = append(errs, errors.New("rpc url is empty"))
	}
	if c.ChainID <= 0 {
		errs = append(errs, fmt.Errorf("chain id %d must be positive", c.ChainID))
	}
	if !ethcommon.IsHexAddress(c.LedgerAddress) {
		errs = append(errs, fmt.Errorf("ledger address %q is not a hex address", c.LedgerAddress))
	}
	if !ethcommon.IsHexAddress(c.TokenAddress) {
		errs = append(errs, fmt.Errorf("token address %q is not a hex address", c.TokenAddress))
	}
	for name, d := range map[string]time.Duration{
		"tick interval":         c.TickInterval,
		"confirm poll interval": c.ConfirmPollInterval,
		"online check interval": c.OnlineCheckInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s %s must be positive", name, d))
		}
	}
	if c.ReadConcurrency < 1 {
		errs = append(errs, fmt.Errorf("read concurrency %d must be at least 1", c.ReadConcurrency))
	}
	if c.RPCRateLimit < 0 {
		errs = append(errs, fmt.Errorf("rpc rate limit %v must not be negative", c.RPCRateLimit))
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config from defaults, then a JSON file, then
// PAYSTREAM_* environment variables, then command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() (cfg *Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			cfg, err = nil, fmt.Errorf("load config: %v", r)
		}
	}()

	cfg = &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
