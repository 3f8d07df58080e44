// Package txlog provides the local journal of submitted ledger writes.
//
// # Overview
//
// Every step of an orchestrated write (the optional token grant and the
// primary action) is recorded as a models.TxRecord: inserted as pending
// when it is submitted and moved to confirmed or failed once the receipt
// arrives. The journal is diagnostic only; the ledger stays authoritative.
//
// Key Types
//
//   - type Repository: interface used by the orchestrator and the REPL
//   - type SQLiteRepository: SQLite implementation over dbx.DBTX
//
// Typical Usage
//
//	repo := txlog.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, rec)
//	_ = repo.UpdateStatus(ctx, rec.Id, hash, models.TxConfirmed, "", now)
//	recent, _ := repo.Recent(ctx, 20)
package txlog
