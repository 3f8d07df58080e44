// Package services contains the dashboard's reconciliation and orchestration
// layer: role resolution, snapshot fetching, the live accrual estimator, the
// transaction orchestrator and the bonus, off-ramp, settings and payroll
// workflows built on it.
//
// Services depend on the narrow interfaces of package ledger and are tested
// against ledgertest.Fake.
package services
