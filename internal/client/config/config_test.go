package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/paystream/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"testbin"}, args...)
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, int64(common.DefaultChainID), c.ChainID)
	assert.Equal(t, time.Second, c.TickInterval)
	assert.Equal(t, 5*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 4, c.ReadConcurrency)
	assert.Empty(t, c.OwnerUnlockHash)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"bad ledger address", func(c *Config) { c.LedgerAddress = "0x123" }, "ledger address"},
		{"bad token address", func(c *Config) { c.TokenAddress = "" }, "token address"},
		{"zero chain", func(c *Config) { c.ChainID = 0 }, "chain id"},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }, "tick interval"},
		{"no concurrency", func(c *Config) { c.ReadConcurrency = 0 }, "read concurrency"},
		{"negative rate limit", func(c *Config) { c.RPCRateLimit = -1 }, "rate limit"},
		{"empty rpc", func(c *Config) { c.RPCURL = "" }, "rpc url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"rpc_url":  "http://json:8545",
		"chain_id": 31337,
		"database": "ignored",
	})
	t.Setenv("PAYSTREAM_RPC_URL", "http://env:8545")
	t.Setenv("PAYSTREAM_READ_CONCURRENCY", "9")
	withArgs(t, "-c", path, "-r", "http://flag:8545")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://flag:8545", cfg.RPCURL)
	assert.Equal(t, int64(31337), cfg.ChainID)
	assert.Equal(t, 9, cfg.ReadConcurrency)
	assert.Equal(t, time.Second, cfg.TickInterval)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("bad flag value", func(t *testing.T) {
		withArgs(t, "-i", "abc")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("bad env value", func(t *testing.T) {
		withArgs(t)
		t.Setenv("PAYSTREAM_TICK_INTERVAL", "soon")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("invalid merged config", func(t *testing.T) {
		withArgs(t, "-l", "not-an-address")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "ledger address")
	})
}

func TestParseEnv_LeavesUnsetFields(t *testing.T) {
	t.Setenv("PAYSTREAM_OWNER_UNLOCK_HASH", "$2a$04$abc")
	t.Setenv("PAYSTREAM_CONFIRM_POLL_INTERVAL", "750ms")
	cfg := &Config{LogLevel: "debug"}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "$2a$04$abc", cfg.OwnerUnlockHash)
	assert.Equal(t, 750*time.Millisecond, cfg.ConfirmPollInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    Config
		expectPanic bool
	}{
		{
			name:     "all supported flags",
			args:     []string{"-r", "http://127.0.0.1:8545", "-n", "5", "-k", "k.json", "-d", "x.db", "-i", "10", "-v", "debug"},
			expected: Config{RPCURL: "http://127.0.0.1:8545", ChainID: 5, KeystorePath: "k.json", DatabasePath: "x.db", OnlineCheckInterval: 10 * time.Second, LogLevel: "debug"},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-c", "cfg.json", "-zzz", "1", "-i", "2"},
			expected: Config{OnlineCheckInterval: 2 * time.Second},
		},
		{name: "incorrect check interval", args: []string{"-i", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)
			cfg := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Equal(t, tt.expected, *cfg)
		})
	}
}
