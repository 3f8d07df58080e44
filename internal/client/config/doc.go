// Package config loads runtime configuration for the PayStream dashboard.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c/-config or $PAYSTREAM_CONFIG.
//  3. PAYSTREAM_* environment variables, e.g. PAYSTREAM_RPC_URL.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "2s" or integer
// nanoseconds. Absent keys keep the earlier value:
//
//	{
//	  "rpc_url": "https://testnet-rpc.helachain.com",
//	  "chain_id": 666888,
//	  "ledger_address": "0x5E40Fe27d3CA6BD463A408ff94c98259C03C3742",
//	  "token_address": "0x982961771df729EB5acACd59c0daA4CB797a4F3D",
//	  "keystore_path": ".paystream/key.json",
//	  "tick_interval": "1s",
//	  "online_check_interval": "5s",
//	  "owner_unlock_hash": "$2a$10$..."
//	}
//
// LoadConfig validates the merged result and reports bad input as an error.
package config
