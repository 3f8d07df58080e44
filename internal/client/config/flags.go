package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/paystream/internal/flagx"
)

var knownFlags = []string{"-r", "-n", "-l", "-t", "-k", "-d", "-i", "-v", "-log-format"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-r string       JSON-RPC endpoint of the ledger node
//	-n int          expected chain id
//	-l string       PayStream ledger contract address
//	-t string       payroll token contract address
//	-k string       keystore file of the signing wallet
//	-d string       local database path
//	-i int          online check interval (seconds)
//	-v string       log level (debug, info, warn, error)
//	-log-format     text or json
//
// os.Args is filtered with flagx.FilterArgs first so the -c/-config flag and
// anything meant for other components is ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RPCURL, "r", cfg.RPCURL, "JSON-RPC endpoint of the ledger node")
	fs.Int64Var(&cfg.ChainID, "n", cfg.ChainID, "expected chain id")
	fs.StringVar(&cfg.LedgerAddress, "l", cfg.LedgerAddress, "PayStream contract address")
	fs.StringVar(&cfg.TokenAddress, "t", cfg.TokenAddress, "payroll token address")
	fs.StringVar(&cfg.KeystorePath, "k", cfg.KeystorePath, "keystore file of the signing wallet")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text or json)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
