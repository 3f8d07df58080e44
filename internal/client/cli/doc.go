// Package cli provides the interactive PayStream dashboard.
//
// It wires configuration, the ledger client, the local store and the
// services layer into a REPL. Typical flow: connect a keystore wallet,
// let the dashboard resolve the role from the ledger, then run the
// commands the current view allows. A background watcher pings the RPC
// endpoint and flips the prompt between online and offline.
//
// Views:
//   - admin: treasury, employee streams, tax, yield and bonuses
//   - owner: platform fee and settings, behind an unlock step
//   - employee: own salary, yield, bonuses and off-ramp requests
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
