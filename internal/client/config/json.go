package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/paystream/internal/flagx"
	"github.com/dmitrijs2005/paystream/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish an absent key from a zero value, and intervals use
// timex.Duration so they can be written as "3s" or as nanoseconds.
type JsonConfig struct {
	RPCURL              *string         `json:"rpc_url"`
	ChainID             *int64          `json:"chain_id"`
	LedgerAddress       *string         `json:"ledger_address"`
	TokenAddress        *string         `json:"token_address"`
	KeystorePath        *string         `json:"keystore_path"`
	DatabasePath        *string         `json:"database_path"`
	TickInterval        *timex.Duration `json:"tick_interval"`
	ConfirmPollInterval *timex.Duration `json:"confirm_poll_interval"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	ReadConcurrency     *int            `json:"read_concurrency"`
	RPCRateLimit        *float64        `json:"rpc_rate_limit"`
	OwnerUnlockHash     *string         `json:"owner_unlock_hash"`
	LogLevel            *string         `json:"log_level"`
	LogFormat           *string         `json:"log_format"`
}

// parseJson overlays cfg with the keys present in the JSON file named by
// -c/-config (or $PAYSTREAM_CONFIG). Without a path it does nothing.
// Panics on read or unmarshal errors; LoadConfig recovers them.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.RPCURL, jc.RPCURL)
	setIf(&cfg.ChainID, jc.ChainID)
	setIf(&cfg.LedgerAddress, jc.LedgerAddress)
	setIf(&cfg.TokenAddress, jc.TokenAddress)
	setIf(&cfg.KeystorePath, jc.KeystorePath)
	setIf(&cfg.DatabasePath, jc.DatabasePath)
	setDuration(&cfg.TickInterval, jc.TickInterval)
	setDuration(&cfg.ConfirmPollInterval, jc.ConfirmPollInterval)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setIf(&cfg.ReadConcurrency, jc.ReadConcurrency)
	setIf(&cfg.RPCRateLimit, jc.RPCRateLimit)
	setIf(&cfg.OwnerUnlockHash, jc.OwnerUnlockHash)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}
